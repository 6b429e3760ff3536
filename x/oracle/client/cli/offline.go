package cli

import (
	"github.com/spf13/cobra"
)

// GetTxCmd returns the commands that build unsigned transactions offline.
func GetTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tx",
		Short: "Build unsigned oracle transactions without a node",
		Long: `Build unsigned oracle transactions without a node.
The printed tx_ encoding is signed with "account sign" and posted with
"chain broadcast". The nonce must be given since no node is asked for it.`,
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewOracleRegisterTxCmd(),
		NewOracleExtendTxCmd(),
		NewOraclePostQueryTxCmd(),
		NewOracleRespondTxCmd(),
	)

	return cmd
}

// AddOfflineTxFlagsToCmd adds the flags every offline transaction accepts.
func AddOfflineTxFlagsToCmd(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String(FlagTTL, "", "Height after which the transaction is no longer valid (0 for never)")
	f.String(FlagFee, "", "Transaction fee in aettos (default: minimum fee)")
	f.Bool(FlagJSON, false, "Print the result as JSON")
}

// NewOracleRegisterTxCmd implements the offline register oracle command
func NewOracleRegisterTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle-register [account_id] [query_format] [response_format] [nonce]",
		Short: "Build an oracle register transaction",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.BuildRegister(cmd.Context(), args[0], args[1], args[2], args[3], opts))
		},
	}

	AddOfflineTxFlagsToCmd(cmd)
	cmd.Flags().String(FlagOracleTTL, "", "Relative oracle ttl in blocks, or a descriptor such as block:N")
	cmd.Flags().String(FlagQueryFee, "", "Fee in aettos the oracle charges per query")
	return cmd
}

// NewOracleExtendTxCmd implements the offline extend oracle command
func NewOracleExtendTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle-extend [account_id] [oracle_id] [oracle_ttl] [nonce]",
		Short: "Build an oracle extend transaction",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.BuildExtend(cmd.Context(), args[0], args[1], args[2], args[3], opts))
		},
	}

	AddOfflineTxFlagsToCmd(cmd)
	return cmd
}

// NewOraclePostQueryTxCmd implements the offline post query command
func NewOraclePostQueryTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle-post-query [sender_id] [oracle_id] [query] [nonce]",
		Short: "Build an oracle query transaction",
		Args:  cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.BuildPostQuery(cmd.Context(), args[0], args[1], args[2], args[3], opts))
		},
	}

	AddOfflineTxFlagsToCmd(cmd)
	cmd.Flags().String(FlagQueryFee, "", "Query fee in aettos (default: 30000)")
	cmd.Flags().String(FlagQueryTTL, "", "Relative query ttl in blocks, or a descriptor such as block:N")
	cmd.Flags().String(FlagResponseTTL, "", "Relative response ttl in blocks")
	return cmd
}

// NewOracleRespondTxCmd implements the offline respond command
func NewOracleRespondTxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "oracle-respond [account_id] [oracle_id] [query_id] [response] [nonce]",
		Short: "Build an oracle response transaction",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.BuildRespond(cmd.Context(), args[0], args[1], args[2], args[3], args[4], opts))
		},
	}

	AddOfflineTxFlagsToCmd(cmd)
	cmd.Flags().String(FlagResponseTTL, "", "Relative response ttl in blocks")
	return cmd
}
