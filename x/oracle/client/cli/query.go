package cli

import (
	"github.com/spf13/cobra"

	"github.com/GPTx-global/aecli/x/oracle/types"
)

// GetCmdQueryOracle implements the oracle query command
func GetCmdQueryOracle() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query [oracle_id]",
		Short: "Show an oracle and its queries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool(FlagJSON)
			return complete(env.Manager.Inspect(cmd.Context(), args[0], types.OracleOptions{JSON: asJSON}))
		},
	}

	cmd.Flags().Bool(FlagJSON, false, "Print the oracle and its queries as one JSON document")
	return cmd
}
