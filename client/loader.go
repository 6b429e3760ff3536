package client

import (
	"context"

	"github.com/pkg/errors"

	"github.com/GPTx-global/aecli/client/node"
	"github.com/GPTx-global/aecli/client/wallet"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

var _ types.WalletLoader = (*WalletLoader)(nil)

// PasswordFunc supplies the password for a wallet file.
type PasswordFunc func(walletPath string) ([]byte, error)

// StaticPassword always returns password.
func StaticPassword(password string) PasswordFunc {
	return func(string) ([]byte, error) {
		return []byte(password), nil
	}
}

// WalletLoader unlocks wallet files and binds them to a node.
type WalletLoader struct {
	NodeURL     string
	NetworkID   string
	Password    PasswordFunc
	NodeOptions []node.Option
}

// Load decrypts the wallet and returns a client signing with it.
func (l *WalletLoader) Load(ctx context.Context, walletPath string) (types.OracleClient, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if l.Password == nil {
		return nil, errors.New("no password source configured")
	}

	password, err := l.Password(walletPath)
	if err != nil {
		return nil, errors.Wrap(err, "read password")
	}

	account, err := wallet.Load(walletPath, password)
	if err != nil {
		return nil, err
	}

	return New(node.New(l.NodeURL, l.NodeOptions...), account, l.NetworkID), nil
}
