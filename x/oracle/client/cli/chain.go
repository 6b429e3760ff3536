package cli

import (
	"github.com/spf13/cobra"
)

// GetChainCmd returns the commands that talk to a node without a wallet.
func GetChainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "chain",
		Short: "Interact with the node",
	}

	cmd.AddCommand(NewBroadcastCmd())
	return cmd
}

// NewBroadcastCmd implements the broadcast command
func NewBroadcastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "broadcast [signed_tx]",
		Short: "Send a signed transaction to the chain",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := GetEnv(cmd)
			if err != nil {
				return err
			}

			opts, err := parseOptions(cmd.Flags())
			if err != nil {
				return err
			}

			return complete(env.Manager.Broadcast(cmd.Context(), args[0], opts))
		},
	}

	cmd.Flags().Bool(FlagWaitMined, false, "Wait until the transaction is mined")
	cmd.Flags().Bool(FlagJSON, false, "Print the result as JSON")
	return cmd
}
