package client

import (
	"github.com/spf13/cobra"

	"github.com/GPTx-global/aecli/x/oracle/types"

	"github.com/GPTx-global/aecli/client/wallet"
	"github.com/GPTx-global/aecli/x/oracle/client/cli"
)

const (
	flagOverwrite = "overwrite"
	flagName      = "name"
)

// AccountCommands registers a sub-tree of commands to manage wallet files.
func AccountCommands() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "account",
		Short: "Manage wallet files",
		Long: `Wallet files hold one ed25519 key pair encrypted with a password.
The key is sealed with xsalsa20-poly1305 under a key derived with argon2id.
The password is read from --password or prompted on the terminal.`,
	}

	cmd.AddCommand(
		CreateAccountCommand(),
		AddressCommand(),
		SignCommand(),
	)

	return cmd
}

// CreateAccountCommand generates a key pair and stores it in a new wallet file.
func CreateAccountCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create [wallet_path]",
		Short: "Create a wallet file with a new key pair",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.GetEnv(cmd)
			if err != nil {
				return err
			}

			overwrite, _ := cmd.Flags().GetBool(flagOverwrite)
			name, _ := cmd.Flags().GetString(flagName)
			asJSON, _ := cmd.Flags().GetBool(cli.FlagJSON)

			password, err := env.Password(args[0])
			if err != nil {
				return err
			}

			account, err := wallet.Generate()
			if err != nil {
				return err
			}
			if err := wallet.Save(args[0], name, account, password, env.KDF, overwrite); err != nil {
				return err
			}

			return env.Printer.PrintAccount(account.Address(), args[0], asJSON)
		},
	}

	cmd.Flags().Bool(flagOverwrite, false, "Replace an existing wallet file")
	cmd.Flags().String(flagName, "", "Name stored in the wallet file")
	cmd.Flags().Bool(cli.FlagJSON, false, "Print the result as JSON")
	return cmd
}

// AddressCommand prints the address of a wallet file.
func AddressCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "address [wallet_path]",
		Short: "Show the address of a wallet file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.GetEnv(cmd)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool(cli.FlagJSON)

			password, err := env.Password(args[0])
			if err != nil {
				return err
			}
			account, err := wallet.Load(args[0], password)
			if err != nil {
				return err
			}

			return env.Printer.PrintAccount(account.Address(), args[0], asJSON)
		},
	}

	cmd.Flags().Bool(cli.FlagJSON, false, "Print the result as JSON")
	return cmd
}

// SignCommand signs a transaction built with the tx commands.
func SignCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sign [wallet_path] [tx]",
		Short: "Sign an unsigned transaction for the configured network",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := cli.GetEnv(cmd)
			if err != nil {
				return err
			}

			asJSON, _ := cmd.Flags().GetBool(cli.FlagJSON)
			outcome := env.Manager.Sign(cmd.Context(), args[0], args[1], types.OracleOptions{JSON: asJSON})
			return outcome.Err
		},
	}

	cmd.Flags().Bool(cli.FlagJSON, false, "Print the result as JSON")
	return cmd
}
