package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/aecli/x/oracle/types"
)

// GetOracleCmd returns the oracle commands.
func GetOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:                        types.ModuleName,
		Short:                      fmt.Sprintf("%s subcommands", types.ModuleName),
		SuggestionsMinimumDistance: 2,
	}

	cmd.AddCommand(
		NewCreateOracleCmd(),
		NewExtendOracleCmd(),
		NewCreateQueryCmd(),
		NewRespondQueryCmd(),
		GetCmdQueryOracle(),
	)

	return cmd
}

// NewCreateOracleCmd implements the register oracle command
func NewCreateOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [wallet_path] [query_format] [response_format]",
		Short: "Register the wallet account as an oracle",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.Register(cmd.Context(), args[0], args[1], args[2], opts))
		},
	}

	AddTxFlagsToCmd(cmd)
	cmd.Flags().String(FlagOracleTTL, "", "Relative oracle ttl in blocks, or a descriptor such as block:N")
	cmd.Flags().String(FlagQueryFee, "", "Fee in aettos the oracle charges per query")
	return cmd
}

// NewExtendOracleCmd implements the extend oracle command
func NewExtendOracleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "extend [wallet_path] [oracle_id] [oracle_ttl]",
		Short: "Extend the life of an oracle by a number of blocks",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.Extend(cmd.Context(), args[0], args[1], args[2], opts))
		},
	}

	AddTxFlagsToCmd(cmd)
	return cmd
}

// NewCreateQueryCmd implements the post query command
func NewCreateQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create-query [wallet_path] [oracle_id] [query]",
		Short: "Post a query to an oracle",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.PostQuery(cmd.Context(), args[0], args[1], args[2], opts))
		},
	}

	AddTxFlagsToCmd(cmd)
	cmd.Flags().String(FlagQueryFee, "", "Query fee in aettos (default: the fee the oracle charges)")
	cmd.Flags().String(FlagQueryTTL, "", "Relative query ttl in blocks, or a descriptor such as block:N")
	cmd.Flags().String(FlagResponseTTL, "", "Relative response ttl in blocks")
	return cmd
}

// NewRespondQueryCmd implements the respond to query command
func NewRespondQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "respond [wallet_path] [oracle_id] [query_id] [response]",
		Short: "Respond to a query as the oracle",
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

			return complete(env.Manager.Respond(cmd.Context(), args[0], args[1], args[2], args[3], opts))
		},
	}

	AddTxFlagsToCmd(cmd)
	cmd.Flags().String(FlagResponseTTL, "", "Relative response ttl in blocks")
	return cmd
}
