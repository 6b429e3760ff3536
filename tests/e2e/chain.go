package e2e

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GPTx-global/aecli/client/wallet"
	aecli "github.com/GPTx-global/aecli/cmd/aecli/cmd"
	"github.com/GPTx-global/aecli/oracle/config"
	"github.com/GPTx-global/aecli/testutil/network"
	"github.com/GPTx-global/aecli/x/oracle/client/cli"
)

const (
	password = "e2e-password"

	walletOracle = "oracle"
	walletUser   = "user"

	chainConfig = `[tx]
poll_interval = "1ms"
poll_attempts = 50
`
)

// Chain is a running node plus the CLI home the cases share.
type Chain struct {
	Network *network.Network
	Home    string

	vars map[string]string
}

// NewChain starts a node and writes a config with a short poll interval.
func NewChain(home string) (*Chain, error) {
	if err := os.WriteFile(filepath.Join(home, config.FileName), []byte(chainConfig), 0o644); err != nil {
		return nil, err
	}
	return &Chain{
		Network: network.New(),
		Home:    home,
		vars:    map[string]string{},
	}, nil
}

func (c *Chain) Close() {
	c.Network.Close()
}

// Wallet is the path of a named wallet file.
func (c *Chain) Wallet(name string) string {
	return filepath.Join(c.Home, name+".json")
}

func (c *Chain) Set(key, value string) {
	c.vars[key] = value
}

func (c *Chain) Get(key string) string {
	return c.vars[key]
}

// Exec runs the CLI with the chain's global flags appended.
func (c *Chain) Exec(ctx context.Context, args []string) (stdout, stderr string, code int) {
	var outBuf, errBuf bytes.Buffer

	rootCmd, env := aecli.NewRootCmd(&outBuf, &errBuf)
	env.KDF = wallet.KDFParams{MemLimitKiB: 1024, OpsLimit: 1, Parallelism: 1}
	rootCmd.SetArgs(append(append([]string{}, args...),
		fmt.Sprintf("--%s=%s", config.FlagHome, c.Home),
		fmt.Sprintf("--%s=%s", config.FlagURL, c.Network.URL()),
		fmt.Sprintf("--%s=%s", config.FlagNetworkID, network.DefaultNetworkID),
		fmt.Sprintf("--%s=%s", cli.FlagPassword, password),
	))

	code = aecli.Execute(ctx, rootCmd, env)
	return outBuf.String(), errBuf.String(), code
}

func expectEqual(what, expected, actual string) error {
	if expected != actual {
		return fmt.Errorf("%s: expected %q, got %q", what, expected, actual)
	}
	return nil
}

func expectContains(out, substr string) error {
	if !strings.Contains(out, substr) {
		return fmt.Errorf("output does not contain %q:\n%s", substr, out)
	}
	return nil
}
