package cli

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/GPTx-global/aecli/x/oracle/types"
)

// Option flags shared by the oracle commands.
const (
	FlagTTL         = "ttl"
	FlagFee         = "fee"
	FlagNonce       = "nonce"
	FlagWaitMined   = "waitMined"
	FlagJSON        = "json"
	FlagOracleTTL   = "oracleTtl"
	FlagQueryFee    = "queryFee"
	FlagQueryTTL    = "queryTtl"
	FlagResponseTTL = "responseTtl"
)

// AddTxFlagsToCmd adds the flags every transaction command accepts.
func AddTxFlagsToCmd(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(FlagTTL, "", "Validity of the transaction in number of blocks (0 for forever)")
	f.String(FlagFee, "", "Transaction fee in aettos (default: minimum fee)")
	f.String(FlagNonce, "", "Account nonce (default: next nonce from the node)")
	f.Bool(FlagWaitMined, true, "Wait until the transaction is mined")
	f.Bool(FlagJSON, false, "Print the result as JSON")
}

// parseOptions reads the option flags defined on the command.
func parseOptions(f *pflag.FlagSet) (types.OracleOptions, error) {
	var (
		opts types.OracleOptions
		err  error
	)

	if opts.TTL, err = types.ParseUint(FlagTTL, stringFlag(f, FlagTTL)); err != nil {
		return opts, err
	}
	if opts.Fee, err = types.ParseAmount(FlagFee, stringFlag(f, FlagFee)); err != nil {
		return opts, err
	}
	if opts.Nonce, err = types.ParseUint(FlagNonce, stringFlag(f, FlagNonce)); err != nil {
		return opts, err
	}
	if opts.QueryFee, err = types.ParseAmount(FlagQueryFee, stringFlag(f, FlagQueryFee)); err != nil {
		return opts, err
	}

	opts.WaitMined, _ = f.GetBool(FlagWaitMined)
	opts.JSON, _ = f.GetBool(FlagJSON)
	opts.OracleTTL = types.NormalizeOracleTTL(stringFlag(f, FlagOracleTTL))
	opts.QueryTTL = types.NormalizeOracleTTL(stringFlag(f, FlagQueryTTL))
	opts.ResponseTTL = types.NormalizeOracleTTL(stringFlag(f, FlagResponseTTL))

	return opts, nil
}

func stringFlag(f *pflag.FlagSet, name string) string {
	if f.Lookup(name) == nil {
		return ""
	}
	v, _ := f.GetString(name)
	return v
}
