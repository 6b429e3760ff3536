package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/GPTx-global/aecli/cmd/aecli/cmd"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	rootCmd, env := cmd.NewRootCmd(os.Stdout, os.Stderr)
	code := cmd.Execute(ctx, rootCmd, env)

	cancel()
	os.Exit(code)
}
