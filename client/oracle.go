package client

import (
	"bytes"
	"context"

	sdkmath "cosmossdk.io/math"
	"github.com/pkg/errors"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/client/txbuilder"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

var _ types.OracleObject = (*Oracle)(nil)

// ErrNotOwner is returned when the wallet tries to act as an oracle it does
// not control.
var ErrNotOwner = errors.New("wallet does not own the oracle")

// Oracle is a registered oracle seen through a signing client.
type Oracle struct {
	client *Client
	id     string
	key    []byte
	info   *types.Oracle
}

func (o *Oracle) ID() string {
	return o.id
}

// Info is the oracle record loaded from the node.
func (o *Oracle) Info() *types.Oracle {
	return o.info
}

func (o *Oracle) ownedBySigner() error {
	if !bytes.Equal(o.key, o.client.account.PublicKey()) {
		return errors.Wrapf(ErrNotOwner, "%s is not %s", o.client.Address(), o.id)
	}
	return nil
}

// ExtendOracle prolongs the oracle by oracleTTL blocks.
func (o *Oracle) ExtendOracle(ctx context.Context, oracleTTL types.TTL, opts types.OracleOptions) (*types.TxResult, error) {
	if err := o.ownedBySigner(); err != nil {
		return nil, err
	}
	if oracleTTL.Type != types.TTLRelative {
		return nil, errors.Wrapf(types.ErrInvalidTtl, "oracle can only be extended by a number of blocks, got %q", oracleTTL.String())
	}

	nonce, err := o.client.nextNonce(ctx, opts)
	if err != nil {
		return nil, err
	}

	tx := &txbuilder.OracleExtendTx{
		Common:    txbuilder.Common{Nonce: nonce},
		OracleKey: o.key,
		OracleTTL: oracleTTL,
	}
	return o.client.send(ctx, tx, oracleTTL, opts)
}

// PostQuery asks the oracle a question. The query fee defaults to the fee the
// oracle charges. The returned result carries the derived query id.
func (o *Oracle) PostQuery(ctx context.Context, query string, opts types.OracleOptions) (*types.TxResult, error) {
	nonce, err := o.client.nextNonce(ctx, opts)
	if err != nil {
		return nil, err
	}

	tx := &txbuilder.OracleQueryTx{
		Common:      txbuilder.Common{Nonce: nonce},
		SenderKey:   o.client.account.PublicKey(),
		OracleKey:   o.key,
		Query:       query,
		QueryFee:    amountOr(opts.QueryFee, o.defaultQueryFee()),
		QueryTTL:    opts.QueryTTL.Or(txbuilder.DefaultQueryTTL),
		ResponseTTL: opts.ResponseTTL.Or(txbuilder.DefaultResponseTTL),
	}
	if err := checkResolved(tx.QueryTTL); err != nil {
		return nil, err
	}
	if tx.ResponseTTL.Type != types.TTLRelative {
		return nil, errors.Wrapf(types.ErrInvalidTtl, "response ttl must be a number of blocks, got %q", tx.ResponseTTL.String())
	}

	res, err := o.client.send(ctx, tx, tx.QueryTTL, opts)
	if err != nil {
		return nil, err
	}
	res.QueryID = encoding.QueryID(tx.SenderKey, nonce, o.key)
	return res, nil
}

// RespondToQuery answers queryID.
func (o *Oracle) RespondToQuery(ctx context.Context, queryID, response string, opts types.OracleOptions) (*types.TxResult, error) {
	if err := o.ownedBySigner(); err != nil {
		return nil, err
	}
	queryKey, err := encoding.DecodeID(queryID, encoding.PrefixQuery)
	if err != nil {
		return nil, errors.Wrapf(err, "query id %q", queryID)
	}

	nonce, err := o.client.nextNonce(ctx, opts)
	if err != nil {
		return nil, err
	}

	tx := &txbuilder.OracleResponseTx{
		Common:      txbuilder.Common{Nonce: nonce},
		OracleKey:   o.key,
		QueryKey:    queryKey,
		Response:    response,
		ResponseTTL: opts.ResponseTTL.Or(txbuilder.DefaultResponseTTL),
	}
	if tx.ResponseTTL.Type != types.TTLRelative {
		return nil, errors.Wrapf(types.ErrInvalidTtl, "response ttl must be a number of blocks, got %q", tx.ResponseTTL.String())
	}
	return o.client.send(ctx, tx, tx.ResponseTTL, opts)
}

func (o *Oracle) defaultQueryFee() sdkmath.Int {
	if o.info != nil && o.info.QueryFee != nil {
		return sdkmath.NewIntFromBigInt(o.info.QueryFee)
	}
	return txbuilder.DefaultQueryFee
}
