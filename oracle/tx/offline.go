package tx

import (
	"bytes"
	"context"
	"encoding/json"

	errorsmod "cosmossdk.io/errors"
	sdkmath "cosmossdk.io/math"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/client/txbuilder"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

// BuildRegister prints an unsigned OracleRegisterTx. No node is contacted, so
// the nonce must be given.
func (txm *TxManager) BuildRegister(_ context.Context, accountID, queryFormat, responseFormat, nonce string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("tx oracle-register")

	p.enter(types.StageValidating)
	accountKey, err := decodeID(accountID, encoding.PrefixAccount, types.ValidateAccountID)
	if err != nil {
		return p.fail(err)
	}
	n, err := parseNonce(nonce)
	if err != nil {
		return p.fail(err)
	}

	p.enter(types.StageNormalizing)
	if opts, err = opts.ResolveTTLs(); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	tx := &txbuilder.OracleRegisterTx{
		Common:         txbuilder.Common{Nonce: n},
		AccountKey:     accountKey,
		QueryFormat:    queryFormat,
		ResponseFormat: responseFormat,
		QueryFee:       amountOr(opts.QueryFee, txbuilder.DefaultQueryFee),
		OracleTTL:      opts.OracleTTL.Or(txbuilder.DefaultOracleTTL),
		ABIVersion:     txbuilder.DefaultABIVersion,
	}
	return txm.buildOffline(p, tx, opts)
}

// BuildExtend prints an unsigned OracleExtendTx. The caller must be the
// account behind the oracle.
func (txm *TxManager) BuildExtend(_ context.Context, callerID, oracleID string, oracleTTL any, nonce string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("tx oracle-extend")

	p.enter(types.StageValidating)
	ttl := types.NormalizeOracleTTL(oracleTTL)
	if !ttl.IsNumeric() {
		return p.fail(errorsmod.Wrap(types.ErrInvalidTtl, "Oracle Ttl should be a number"))
	}
	oracleKey, err := oracleOf(callerID, oracleID)
	if err != nil {
		return p.fail(err)
	}
	n, err := parseNonce(nonce)
	if err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	tx := &txbuilder.OracleExtendTx{
		Common:    txbuilder.Common{Nonce: n},
		OracleKey: oracleKey,
		OracleTTL: ttl,
	}
	return txm.buildOffline(p, tx, opts)
}

// BuildPostQuery prints an unsigned OracleQueryTx. Without a node the query
// fee defaults to the standard oracle fee, not the fee the oracle charges.
func (txm *TxManager) BuildPostQuery(_ context.Context, senderID, oracleID, query, nonce string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("tx oracle-post-query")

	p.enter(types.StageValidating)
	senderKey, err := decodeID(senderID, encoding.PrefixAccount, types.ValidateAccountID)
	if err != nil {
		return p.fail(err)
	}
	oracleKey, err := decodeID(oracleID, encoding.PrefixOracle, types.ValidateOracleID)
	if err != nil {
		return p.fail(err)
	}
	n, err := parseNonce(nonce)
	if err != nil {
		return p.fail(err)
	}

	p.enter(types.StageNormalizing)
	if opts, err = opts.ResolveTTLs(); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	tx := &txbuilder.OracleQueryTx{
		Common:      txbuilder.Common{Nonce: n},
		SenderKey:   senderKey,
		OracleKey:   oracleKey,
		Query:       query,
		QueryFee:    amountOr(opts.QueryFee, txbuilder.DefaultQueryFee),
		QueryTTL:    opts.QueryTTL.Or(txbuilder.DefaultQueryTTL),
		ResponseTTL: opts.ResponseTTL.Or(txbuilder.DefaultResponseTTL),
	}
	if tx.ResponseTTL.Type != types.TTLRelative {
		return p.fail(errorsmod.Wrapf(types.ErrInvalidTtl, "response ttl must be a number of blocks, got %q", tx.ResponseTTL.String()))
	}
	return txm.buildOffline(p, tx, opts)
}

// BuildRespond prints an unsigned OracleResponseTx.
func (txm *TxManager) BuildRespond(_ context.Context, callerID, oracleID, queryID, response, nonce string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("tx oracle-respond")

	p.enter(types.StageValidating)
	oracleKey, err := oracleOf(callerID, oracleID)
	if err != nil {
		return p.fail(err)
	}
	queryKey, err := decodeID(queryID, encoding.PrefixQuery, types.ValidateQueryID)
	if err != nil {
		return p.fail(err)
	}
	n, err := parseNonce(nonce)
	if err != nil {
		return p.fail(err)
	}

	p.enter(types.StageNormalizing)
	if opts, err = opts.ResolveTTLs(); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	tx := &txbuilder.OracleResponseTx{
		Common:      txbuilder.Common{Nonce: n},
		OracleKey:   oracleKey,
		QueryKey:    queryKey,
		Response:    response,
		ResponseTTL: opts.ResponseTTL.Or(txbuilder.DefaultResponseTTL),
	}
	if tx.ResponseTTL.Type != types.TTLRelative {
		return p.fail(errorsmod.Wrapf(types.ErrInvalidTtl, "response ttl must be a number of blocks, got %q", tx.ResponseTTL.String()))
	}
	return txm.buildOffline(p, tx, opts)
}

// Sign signs an unsigned tx_ transaction with a wallet.
func (txm *TxManager) Sign(ctx context.Context, walletPath, encodedTx string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("account sign")

	p.enter(types.StageValidating)
	if err := checkEncoded(encodedTx, false); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageAcquiring)
	client, err := txm.loader.Load(ctx, walletPath)
	if err != nil {
		return p.fail(sdkErr(err, "load wallet"))
	}

	p.enter(types.StageInvoking)
	res, err := client.SignTransaction(ctx, encodedTx)
	if err != nil {
		return p.fail(sdkErr(err, "sign transaction"))
	}

	p.enter(types.StageDispatching)
	if err := txm.printer.PrintSigned(res, opts.JSON); err != nil {
		return p.fail(err)
	}
	return p.done()
}

// Broadcast posts a signed tx_ transaction.
func (txm *TxManager) Broadcast(ctx context.Context, signedTx string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("chain broadcast")

	p.enter(types.StageValidating)
	if err := checkEncoded(signedTx, true); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageAcquiring)
	reader, err := txm.dialer.Dial(ctx)
	if err != nil {
		return p.fail(sdkErr(err, "connect"))
	}

	p.enter(types.StageInvoking)
	hash, err := reader.PostTransaction(ctx, signedTx)
	if err != nil {
		return p.fail(sdkErr(err, "post transaction"))
	}

	res := &types.TxResult{Hash: hash, RawTx: signedTx}
	if opts.WaitMined {
		if res, err = reader.WaitMined(ctx, hash); err != nil {
			return p.fail(sdkErr(err, "wait mined"))
		}
		res.RawTx = signedTx
	}

	return txm.dispatch(p, res, opts)
}

// buildOffline prices tx and prints its unsigned encoding. The tx ttl is taken
// as a height because there is no node to count from.
func (txm *TxManager) buildOffline(p *pipeline, tx txbuilder.Tx, opts types.OracleOptions) types.Outcome {
	if opts.TTL != nil {
		tx.SetTTL(*opts.TTL)
	}
	if !opts.Fee.IsNil() {
		tx.SetFee(opts.Fee)
	} else if err := txbuilder.SetMinFee(tx, 0); err != nil {
		return p.fail(errorsmod.Wrap(types.ErrInvalidTx, err.Error()))
	}

	encoded, err := txbuilder.EncodeUnsigned(tx)
	if err != nil {
		return p.fail(errorsmod.Wrap(types.ErrInvalidTx, err.Error()))
	}
	txObject, err := json.Marshal(txbuilder.Describe(tx))
	if err != nil {
		return p.fail(errorsmod.Wrap(types.ErrPresentation, err.Error()))
	}

	p.enter(types.StageDispatching)
	if err := txm.printer.PrintUnsignedTx(&types.UnsignedTx{Tx: encoded, TxObject: txObject}, opts.JSON); err != nil {
		return p.fail(err)
	}
	return p.done()
}

func decodeID(id, prefix string, validate func(string) error) ([]byte, error) {
	if err := validate(id); err != nil {
		return nil, err
	}
	return encoding.DecodeID(id, prefix)
}

// oracleOf returns the key of oracleID after checking that callerID is the
// account behind it.
func oracleOf(callerID, oracleID string) ([]byte, error) {
	callerKey, err := decodeID(callerID, encoding.PrefixAccount, types.ValidateAccountID)
	if err != nil {
		return nil, err
	}
	oracleKey, err := decodeID(oracleID, encoding.PrefixOracle, types.ValidateOracleID)
	if err != nil {
		return nil, err
	}
	if !bytes.Equal(callerKey, oracleKey) {
		return nil, errorsmod.Wrapf(types.ErrInvalidIdentifier, "%s is not the account of %s", callerID, oracleID)
	}
	return oracleKey, nil
}

func parseNonce(nonce string) (uint64, error) {
	n, err := types.ParseUint("nonce", nonce)
	if err != nil {
		return 0, err
	}
	if n == nil {
		return 0, errorsmod.Wrap(types.ErrInvalidOptions, "nonce is required")
	}
	return *n, nil
}

// checkEncoded rejects input that is not a tx_ encoded oracle transaction.
func checkEncoded(encodedTx string, signed bool) error {
	bz, err := encoding.Decode(encodedTx, encoding.PrefixTx)
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidTx, "%v", err)
	}
	if signed {
		_, err = txbuilder.DecodeSigned(bz)
	} else {
		_, err = txbuilder.DecodeTx(bz)
	}
	if err != nil {
		return errorsmod.Wrapf(types.ErrInvalidTx, "%v", err)
	}
	return nil
}

func amountOr(amount, def sdkmath.Int) sdkmath.Int {
	if amount.IsNil() {
		return def
	}
	return amount
}
