package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/GPTx-global/aecli/client/wallet"
	"github.com/GPTx-global/aecli/oracle/config"
	"github.com/GPTx-global/aecli/oracle/printer"
	"github.com/GPTx-global/aecli/oracle/tx"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

// Env is the state shared by all commands. The root command fills it in
// before any subcommand runs.
type Env struct {
	Config  *config.Config
	Manager *tx.TxManager
	Printer *printer.Printer
	// Password returns the password of a wallet file.
	Password func(walletPath string) ([]byte, error)
	// KDF is used for newly created wallets.
	KDF wallet.KDFParams
}

type envKey struct{}

// WithEnv stores env in ctx.
func WithEnv(ctx context.Context, env *Env) context.Context {
	return context.WithValue(ctx, envKey{}, env)
}

// GetEnv returns the Env of the running command.
func GetEnv(cmd *cobra.Command) (*Env, error) {
	env, ok := cmd.Context().Value(envKey{}).(*Env)
	if !ok || env == nil || env.Manager == nil {
		return nil, fmt.Errorf("command environment is not initialized")
	}
	return env, nil
}

// complete turns an outcome into the command's error.
func complete(outcome types.Outcome) error {
	if outcome.ExitCode() != 0 {
		return outcome.Err
	}
	return nil
}
