package cmd

import (
	"context"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/aecli/client"
	"github.com/GPTx-global/aecli/client/node"
	"github.com/GPTx-global/aecli/client/wallet"
	"github.com/GPTx-global/aecli/oracle/config"
	"github.com/GPTx-global/aecli/oracle/log"
	"github.com/GPTx-global/aecli/oracle/printer"
	"github.com/GPTx-global/aecli/oracle/tx"
	"github.com/GPTx-global/aecli/x/oracle/client/cli"
)

const appName = "aecli"

// NewRootCmd creates the root command. The returned Env is filled in once
// flags are parsed and must be passed to Execute.
func NewRootCmd(stdout, stderr io.Writer) (*cobra.Command, *cli.Env) {
	env := &cli.Env{
		Printer: printer.New(stdout, stderr),
		KDF:     wallet.DefaultKDFParams(),
	}

	rootCmd := &cobra.Command{
		Use:           appName,
		Short:         "Command line client for chain oracles",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return initEnv(cmd, env, stderr)
		},
	}
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	pf := rootCmd.PersistentFlags()
	pf.String(config.FlagHome, config.DefaultHome(), "Directory holding config.toml")
	pf.String(config.FlagURL, config.DefaultURL, "Node URL")
	pf.String(config.FlagNetworkID, config.DefaultNetworkID, "Network id used for signing")
	pf.String(config.FlagLogLevel, config.DefaultLogLevel, "Log level (trace|debug|info|warn|error|off)")
	pf.String(cli.FlagPassword, "", "Wallet password, prompted for when omitted")

	rootCmd.AddCommand(
		cli.GetOracleCmd(),
		cli.GetTxCmd(),
		cli.GetChainCmd(),
		client.AccountCommands(),
	)

	return rootCmd, env
}

func initEnv(cmd *cobra.Command, env *cli.Env, stderr io.Writer) error {
	home, _ := cmd.Flags().GetString(config.FlagHome)
	cfg, err := config.Load(home, cmd.Flags())
	if err != nil {
		return err
	}

	log.Init(stderr, cfg.Log.Level)
	cfg.Print()

	password, _ := cmd.Flags().GetString(cli.FlagPassword)
	if env.Password == nil {
		env.Password = cli.PasswordPrompt(password, os.Stdin, stderr)
	}

	nodeOpts := []node.Option{node.WithPolling(cfg.PollInterval(), cfg.Tx.PollAttempts)}
	loader := &client.WalletLoader{
		NodeURL:     cfg.Node.URL,
		NetworkID:   cfg.Node.NetworkID,
		Password:    env.Password,
		NodeOptions: nodeOpts,
	}
	dialer := node.Dialer{
		URL:       cfg.Node.URL,
		NetworkID: cfg.Node.NetworkID,
		Options:   nodeOpts,
	}

	env.Config = cfg
	env.Manager = tx.NewTxManager(loader, dialer, env.Printer)
	return nil
}

// Execute runs rootCmd and returns the process exit code. Errors are printed
// to the error stream.
func Execute(ctx context.Context, rootCmd *cobra.Command, env *cli.Env) int {
	if err := rootCmd.ExecuteContext(cli.WithEnv(ctx, env)); err != nil {
		env.Printer.PrintError(err)
		return 1
	}
	return 0
}
