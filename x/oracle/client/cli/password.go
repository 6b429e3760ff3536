package cli

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/GPTx-global/aecli/x/oracle/types"
)

// FlagPassword is the global flag carrying a wallet password.
const FlagPassword = "password"

// PasswordPrompt returns a password source. A non-empty password is used as
// is; otherwise the user is asked on the terminal attached to in.
func PasswordPrompt(password string, in *os.File, prompt io.Writer) func(walletPath string) ([]byte, error) {
	return func(walletPath string) ([]byte, error) {
		if password != "" {
			return []byte(password), nil
		}

		fd := int(in.Fd())
		if !term.IsTerminal(fd) {
			return nil, fmt.Errorf("%w: no password given for %s, use --%s", types.ErrInvalidOptions, walletPath, FlagPassword)
		}

		fmt.Fprintf(prompt, "Enter password for %s: ", walletPath)
		pw, err := term.ReadPassword(fd)
		fmt.Fprintln(prompt)
		if err != nil {
			return nil, fmt.Errorf("read password: %w", err)
		}
		return pw, nil
	}
}
