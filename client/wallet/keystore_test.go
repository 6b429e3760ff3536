package wallet

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/aecli/client/encoding"
)

// cheap parameters keep the tests fast
func testParams() KDFParams {
	return KDFParams{MemLimitKiB: 1024, OpsLimit: 1, Parallelism: 1}
}

func TestSaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	account, err := Generate()
	require.NoError(t, err)

	require.NoError(t, Save(path, "test", account, []byte("secret"), testParams(), false))

	loaded, err := Load(path, []byte("secret"))
	require.NoError(t, err)
	require.Equal(t, account.Address(), loaded.Address())
	require.True(t, encoding.IsValidID(loaded.Address(), encoding.PrefixAccount))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestLoadWrongPassword(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	account, err := Generate()
	require.NoError(t, err)
	require.NoError(t, Save(path, "test", account, []byte("secret"), testParams(), false))

	_, err = Load(path, []byte("guess"))
	require.ErrorIs(t, err, ErrWrongPassword)
}

func TestSaveRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	account, err := Generate()
	require.NoError(t, err)
	require.NoError(t, Save(path, "test", account, []byte("a"), testParams(), false))

	err = Save(path, "test", account, []byte("b"), testParams(), false)
	require.ErrorIs(t, err, ErrExists)

	require.NoError(t, Save(path, "test", account, []byte("b"), testParams(), true))
	_, err = Load(path, []byte("b"))
	require.NoError(t, err)
}

func TestLoadRejectsForeignFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wallet.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"crypto":{"secret_type":"secp256k1"}}`), 0600))

	_, err := Load(path, []byte("x"))
	require.ErrorIs(t, err, ErrFormat)

	require.NoError(t, os.WriteFile(path, []byte(`not json`), 0600))
	_, err = Load(path, []byte("x"))
	require.ErrorIs(t, err, ErrFormat)
}

func TestSignVerifies(t *testing.T) {
	account, err := Generate()
	require.NoError(t, err)

	sig := account.Sign([]byte("payload"))
	require.Len(t, sig, 64)
}
