package tx

import (
	"context"

	errorsmod "cosmossdk.io/errors"
	"github.com/rs/zerolog"
	"github.com/tidwall/sjson"

	"github.com/GPTx-global/aecli/oracle/log"
	"github.com/GPTx-global/aecli/oracle/printer"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

// TxManager runs the oracle commands. Each call is one linear pipeline
// tracked by a types.Stage.
type TxManager struct {
	loader  types.WalletLoader
	dialer  types.ChainDialer
	printer *printer.Printer
	logger  zerolog.Logger
}

func NewTxManager(loader types.WalletLoader, dialer types.ChainDialer, p *printer.Printer) *TxManager {
	return &TxManager{
		loader:  loader,
		dialer:  dialer,
		printer: p,
		logger:  log.WithComponent("oracle"),
	}
}

// pipeline records the stage a command has reached.
type pipeline struct {
	name   string
	stage  types.Stage
	logger zerolog.Logger
}

func (txm *TxManager) begin(name string) *pipeline {
	return &pipeline{name: name, stage: types.StageStart, logger: txm.logger}
}

func (p *pipeline) enter(stage types.Stage) {
	p.stage = stage
	p.logger.Debug().Str("cmd", p.name).Str("stage", stage.String()).Msg("enter")
}

func (p *pipeline) fail(err error) types.Outcome {
	p.logger.Debug().Str("cmd", p.name).Str("stage", p.stage.String()).Err(err).Msg("failed")
	return types.Failed(p.stage, err)
}

func (p *pipeline) done() types.Outcome {
	p.enter(types.StageDone)
	return types.Done()
}

// sdkErr tags errors coming from the chain client. Errors that already carry
// an oracle code are returned unchanged.
func sdkErr(err error, msg string) error {
	if errorsmod.IsOf(err,
		types.ErrInvalidIdentifier,
		types.ErrInvalidTtl,
		types.ErrInvalidOptions,
		types.ErrInvalidTx,
		types.ErrPresentation,
		types.ErrSdk,
	) {
		return err
	}
	return errorsmod.Wrapf(types.ErrSdk, "%s: %v", msg, err)
}

// Register registers the wallet account as an oracle.
func (txm *TxManager) Register(ctx context.Context, walletPath, queryFormat, responseFormat string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("create")

	p.enter(types.StageValidating)

	p.enter(types.StageAcquiring)
	client, err := txm.loader.Load(ctx, walletPath)
	if err != nil {
		return p.fail(sdkErr(err, "load wallet"))
	}

	p.enter(types.StageNormalizing)
	if opts, err = opts.ResolveTTLs(); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	res, err := client.RegisterOracle(ctx, queryFormat, responseFormat, opts)
	if err != nil {
		return p.fail(sdkErr(err, "register oracle"))
	}

	return txm.dispatch(p, res, opts)
}

// Extend prolongs an oracle. oracleTTL must be a plain number of blocks.
func (txm *TxManager) Extend(ctx context.Context, walletPath, oracleID string, oracleTTL any, opts types.OracleOptions) types.Outcome {
	p := txm.begin("extend")

	p.enter(types.StageValidating)
	ttl := types.NormalizeOracleTTL(oracleTTL)
	if !ttl.IsNumeric() {
		return p.fail(errorsmod.Wrap(types.ErrInvalidTtl, "Oracle Ttl should be a number"))
	}
	if err := types.ValidateOracleID(oracleID); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageAcquiring)
	client, err := txm.loader.Load(ctx, walletPath)
	if err != nil {
		return p.fail(sdkErr(err, "load wallet"))
	}

	p.enter(types.StageNormalizing)
	if opts, err = opts.ResolveTTLs(); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	oracle, err := client.GetOracleObject(ctx, oracleID)
	if err != nil {
		return p.fail(sdkErr(err, "get oracle"))
	}
	res, err := oracle.ExtendOracle(ctx, ttl, opts)
	if err != nil {
		return p.fail(sdkErr(err, "extend oracle"))
	}

	return txm.dispatch(p, res, opts)
}

// PostQuery posts a query to an oracle.
func (txm *TxManager) PostQuery(ctx context.Context, walletPath, oracleID, query string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("create-query")

	p.enter(types.StageValidating)
	if err := types.ValidateOracleID(oracleID); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageAcquiring)
	client, err := txm.loader.Load(ctx, walletPath)
	if err != nil {
		return p.fail(sdkErr(err, "load wallet"))
	}

	p.enter(types.StageNormalizing)
	if opts, err = opts.ResolveTTLs(); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	oracle, err := client.GetOracleObject(ctx, oracleID)
	if err != nil {
		return p.fail(sdkErr(err, "get oracle"))
	}
	res, err := oracle.PostQuery(ctx, query, opts)
	if err != nil {
		return p.fail(sdkErr(err, "post query"))
	}

	return txm.dispatch(p, res, opts)
}

// Respond answers a query as the oracle.
func (txm *TxManager) Respond(ctx context.Context, walletPath, oracleID, queryID, response string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("respond")

	p.enter(types.StageValidating)
	if err := types.ValidateOracleID(oracleID); err != nil {
		return p.fail(err)
	}
	if err := types.ValidateQueryID(queryID); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageAcquiring)
	client, err := txm.loader.Load(ctx, walletPath)
	if err != nil {
		return p.fail(sdkErr(err, "load wallet"))
	}

	p.enter(types.StageNormalizing)
	if opts, err = opts.ResolveTTLs(); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageInvoking)
	oracle, err := client.GetOracleObject(ctx, oracleID)
	if err != nil {
		return p.fail(sdkErr(err, "get oracle"))
	}
	res, err := oracle.RespondToQuery(ctx, queryID, response, opts)
	if err != nil {
		return p.fail(sdkErr(err, "respond to query"))
	}

	return txm.dispatch(p, res, opts)
}

// dispatch prints the full record for mined transactions and only the hash
// otherwise.
func (txm *TxManager) dispatch(p *pipeline, res *types.TxResult, opts types.OracleOptions) types.Outcome {
	p.enter(types.StageDispatching)

	var err error
	if opts.WaitMined {
		err = txm.printer.PrintTransaction(res, opts.JSON)
	} else {
		err = txm.printer.PrintSubmitted(res, opts.JSON)
	}
	if err != nil {
		return p.fail(err)
	}
	return p.done()
}

// Inspect prints an oracle and its queries. No wallet is needed.
func (txm *TxManager) Inspect(ctx context.Context, oracleID string, opts types.OracleOptions) types.Outcome {
	p := txm.begin("query")

	p.enter(types.StageValidating)
	if err := types.ValidateOracleID(oracleID); err != nil {
		return p.fail(err)
	}

	p.enter(types.StageAcquiring)
	reader, err := txm.dialer.Dial(ctx)
	if err != nil {
		return p.fail(sdkErr(err, "connect"))
	}

	p.enter(types.StageInvoking)
	oracle, err := reader.GetOracleByPubkey(ctx, oracleID)
	if err != nil {
		return p.fail(sdkErr(err, "get oracle"))
	}
	queries, err := reader.GetOracleQueriesByPubkey(ctx, oracleID)
	if err != nil {
		return p.fail(sdkErr(err, "get oracle queries"))
	}

	p.enter(types.StageDispatching)
	if opts.JSON {
		merged, err := sjson.SetRawBytes(oracle.Raw, "queries", queries.Raw)
		if err != nil {
			return p.fail(errorsmod.Wrap(types.ErrPresentation, err.Error()))
		}
		if err := txm.printer.RawJSON(merged); err != nil {
			return p.fail(err)
		}
		return p.done()
	}

	if err := txm.printer.PrintOracle(oracle, false); err != nil {
		return p.fail(err)
	}
	if err := txm.printer.PrintQueries(queries, false); err != nil {
		return p.fail(err)
	}
	return p.done()
}
