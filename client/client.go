// Package client is the signing chain client used by the oracle commands. It
// combines a node connection with an unlocked wallet.
package client

import (
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/client/node"
	"github.com/GPTx-global/aecli/client/txbuilder"
	"github.com/GPTx-global/aecli/client/wallet"
	"github.com/GPTx-global/aecli/oracle/log"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

var _ types.OracleClient = (*Client)(nil)

// Client signs transactions with one account and broadcasts them.
type Client struct {
	node      *node.Client
	account   *wallet.Account
	networkID string
	logger    zerolog.Logger
}

func New(n *node.Client, account *wallet.Account, networkID string) *Client {
	return &Client{
		node:      n,
		account:   account,
		networkID: networkID,
		logger:    log.WithComponent("client"),
	}
}

// Address is the ak_ id of the signing account.
func (c *Client) Address() string {
	return c.account.Address()
}

// Node exposes the read side of the connection.
func (c *Client) Node() *node.Client {
	return c.node
}

// RegisterOracle registers the signing account as an oracle.
func (c *Client) RegisterOracle(ctx context.Context, queryFormat, responseFormat string, opts types.OracleOptions) (*types.TxResult, error) {
	nonce, err := c.nextNonce(ctx, opts)
	if err != nil {
		return nil, err
	}

	tx := &txbuilder.OracleRegisterTx{
		Common:         txbuilder.Common{Nonce: nonce},
		AccountKey:     c.account.PublicKey(),
		QueryFormat:    queryFormat,
		ResponseFormat: responseFormat,
		QueryFee:       amountOr(opts.QueryFee, txbuilder.DefaultQueryFee),
		OracleTTL:      opts.OracleTTL.Or(txbuilder.DefaultOracleTTL),
		ABIVersion:     txbuilder.DefaultABIVersion,
	}
	if err := checkResolved(tx.OracleTTL); err != nil {
		return nil, err
	}
	return c.send(ctx, tx, tx.OracleTTL, opts)
}

// GetOracleObject loads an oracle from the node.
func (c *Client) GetOracleObject(ctx context.Context, oracleID string) (types.OracleObject, error) {
	key, err := encoding.DecodeID(oracleID, encoding.PrefixOracle)
	if err != nil {
		return nil, errors.Wrapf(err, "oracle id %q", oracleID)
	}

	info, err := c.node.GetOracleByPubkey(ctx, oracleID)
	if err != nil {
		return nil, errors.Wrapf(err, "get oracle %s", oracleID)
	}

	return &Oracle{client: c, id: oracleID, key: key, info: info}, nil
}

// SignTransaction signs an unsigned tx_ transaction for the client's network.
// The transaction is decoded first so that only oracle transactions are signed.
func (c *Client) SignTransaction(_ context.Context, encodedTx string) (*types.SignResult, error) {
	txBin, err := encoding.Decode(encodedTx, encoding.PrefixTx)
	if err != nil {
		return nil, errors.Wrap(types.ErrInvalidTx, err.Error())
	}
	if _, err := txbuilder.DecodeTx(txBin); err != nil {
		return nil, errors.Wrap(types.ErrInvalidTx, err.Error())
	}

	signed, err := txbuilder.SignBytes(txBin, c.networkID, c.account)
	if err != nil {
		return nil, err
	}
	return &types.SignResult{Signed: signed.Encoded, Hash: signed.Hash, NetworkID: c.networkID}, nil
}

func (c *Client) nextNonce(ctx context.Context, opts types.OracleOptions) (uint64, error) {
	if opts.Nonce != nil {
		return *opts.Nonce, nil
	}
	nonce, err := c.node.AccountNonce(ctx, c.Address())
	if err != nil {
		return 0, errors.Wrap(err, "get account nonce")
	}
	return nonce + 1, nil
}

// send prices, signs and broadcasts tx. feeTTL is the ttl charged in the fee.
func (c *Client) send(ctx context.Context, tx txbuilder.Tx, feeTTL types.TTL, opts types.OracleOptions) (*types.TxResult, error) {
	var height uint64
	needHeight := (opts.TTL != nil && *opts.TTL > 0) || (opts.Fee.IsNil() && feeTTL.Type == types.TTLAbsolute)
	if needHeight {
		h, err := c.node.Height(ctx)
		if err != nil {
			return nil, errors.Wrap(err, "get height")
		}
		height = h
	}

	tx.SetTTL(txTTL(opts.TTL, height))

	if !opts.Fee.IsNil() {
		tx.SetFee(opts.Fee)
	} else if err := txbuilder.SetMinFee(tx, height); err != nil {
		return nil, err
	}

	signed, err := txbuilder.Sign(tx, c.networkID, c.account)
	if err != nil {
		return nil, err
	}

	c.logger.Debug().
		Uint8("tag", tx.Tag()).
		Str("fee", tx.GetFee().String()).
		Str("hash", signed.Hash).
		Msg("broadcasting transaction")

	hash, err := c.node.PostTransaction(ctx, signed.Encoded)
	if err != nil {
		return nil, errors.Wrap(err, "post transaction")
	}
	if hash == "" {
		hash = signed.Hash
	}

	if !opts.WaitMined {
		return &types.TxResult{Hash: hash, RawTx: signed.Encoded}, nil
	}

	res, err := c.node.WaitMined(ctx, hash)
	if err != nil {
		return nil, err
	}
	res.RawTx = signed.Encoded
	return res, nil
}

// txTTL turns a validity in blocks into the height stored in the
// transaction. 0 keeps the transaction valid forever.
func txTTL(blocks *uint64, height uint64) uint64 {
	if blocks == nil || *blocks == 0 {
		return types.DefaultTxTTL
	}
	return height + *blocks
}

func amountOr(amount, def sdkmath.Int) sdkmath.Int {
	if amount.IsNil() {
		return def
	}
	return amount
}

// checkResolved rejects ttls that were never resolved from user input.
func checkResolved(ttl types.TTL) error {
	if ttl.Type == types.TTLOpaque {
		return errors.Wrapf(types.ErrInvalidTtl, "unresolved ttl %q", ttl.Raw)
	}
	return nil
}
