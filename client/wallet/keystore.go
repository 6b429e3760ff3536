// Package wallet reads and writes password protected keystore files holding
// one ed25519 key pair.
package wallet

import (
	"crypto/ed25519"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"os"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"

	"github.com/GPTx-global/aecli/client/encoding"
)

const (
	secretType   = "ed25519"
	symmetricAlg = "xsalsa20-poly1305"
	kdfName      = "argon2id"

	saltSize  = 16
	nonceSize = 24
	keySize   = 32
)

var (
	ErrWrongPassword = errors.New("invalid password or corrupted wallet")
	ErrExists        = errors.New("wallet file already exists")
	ErrFormat        = errors.New("unsupported wallet format")
)

// KDFParams holds the argon2id parameters stored with the wallet.
type KDFParams struct {
	MemLimitKiB uint32 `json:"memlimit_kib"`
	OpsLimit    uint32 `json:"opslimit"`
	Parallelism uint8  `json:"parallelism"`
	Salt        string `json:"salt"`
}

// DefaultKDFParams returns the parameters used for new wallets.
func DefaultKDFParams() KDFParams {
	return KDFParams{
		MemLimitKiB: 64 * 1024,
		OpsLimit:    3,
		Parallelism: 1,
	}
}

type cipherParams struct {
	Nonce string `json:"nonce"`
}

type cryptoSection struct {
	SecretType   string       `json:"secret_type"`
	SymmetricAlg string       `json:"symmetric_alg"`
	Ciphertext   string       `json:"ciphertext"`
	CipherParams cipherParams `json:"cipher_params"`
	KDF          string       `json:"kdf"`
	KDFParams    KDFParams    `json:"kdf_params"`
}

// keystoreFile is the on-disk JSON format.
type keystoreFile struct {
	Name      string        `json:"name"`
	Version   int           `json:"version"`
	PublicKey string        `json:"public_key"`
	ID        string        `json:"id"`
	Crypto    cryptoSection `json:"crypto"`
}

// Account is a decrypted key pair.
type Account struct {
	PrivateKey ed25519.PrivateKey
}

// Generate creates a fresh account.
func Generate() (*Account, error) {
	_, sk, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		return nil, errors.Wrap(err, "generate key")
	}
	return &Account{PrivateKey: sk}, nil
}

func (a *Account) PublicKey() ed25519.PublicKey {
	return a.PrivateKey.Public().(ed25519.PublicKey)
}

// Address is the ak_ form of the public key.
func (a *Account) Address() string {
	return encoding.Encode(encoding.PrefixAccount, a.PublicKey())
}

func (a *Account) Sign(msg []byte) []byte {
	return ed25519.Sign(a.PrivateKey, msg)
}

func deriveKey(password []byte, salt []byte, params KDFParams) []byte {
	return argon2.IDKey(password, salt, params.OpsLimit, params.MemLimitKiB, params.Parallelism, keySize)
}

// Save encrypts the account under password and writes it to path.
func Save(path, name string, account *Account, password []byte, params KDFParams, overwrite bool) error {
	if _, err := os.Stat(path); err == nil && !overwrite {
		return errors.Wrap(ErrExists, path)
	}

	salt := make([]byte, saltSize)
	if _, err := rand.Read(salt); err != nil {
		return errors.Wrap(err, "generate salt")
	}
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return errors.Wrap(err, "generate nonce")
	}

	params.Salt = hex.EncodeToString(salt)
	var key [keySize]byte
	copy(key[:], deriveKey(password, salt, params))
	sealed := secretbox.Seal(nil, account.PrivateKey, &nonce, &key)

	kf := keystoreFile{
		Name:      name,
		Version:   1,
		PublicKey: account.Address(),
		ID:        uuid.NewString(),
		Crypto: cryptoSection{
			SecretType:   secretType,
			SymmetricAlg: symmetricAlg,
			Ciphertext:   hex.EncodeToString(sealed),
			CipherParams: cipherParams{Nonce: hex.EncodeToString(nonce[:])},
			KDF:          kdfName,
			KDFParams:    params,
		},
	}

	data, err := json.MarshalIndent(&kf, "", "  ")
	if err != nil {
		return errors.Wrap(err, "marshal wallet")
	}
	return errors.Wrap(os.WriteFile(path, data, 0600), "write wallet")
}

// Load decrypts the wallet at path.
func Load(path string, password []byte) (*Account, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read wallet")
	}

	var kf keystoreFile
	if err := json.Unmarshal(data, &kf); err != nil {
		return nil, errors.Wrapf(ErrFormat, "decode %s: %v", path, err)
	}
	c := kf.Crypto
	if c.SecretType != secretType || c.SymmetricAlg != symmetricAlg || c.KDF != kdfName {
		return nil, errors.Wrapf(ErrFormat, "%s/%s/%s", c.SecretType, c.SymmetricAlg, c.KDF)
	}

	salt, err := hex.DecodeString(c.KDFParams.Salt)
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "salt")
	}
	nonceBytes, err := hex.DecodeString(c.CipherParams.Nonce)
	if err != nil || len(nonceBytes) != nonceSize {
		return nil, errors.Wrap(ErrFormat, "nonce")
	}
	sealed, err := hex.DecodeString(c.Ciphertext)
	if err != nil {
		return nil, errors.Wrap(ErrFormat, "ciphertext")
	}

	var nonce [nonceSize]byte
	copy(nonce[:], nonceBytes)
	var key [keySize]byte
	copy(key[:], deriveKey(password, salt, c.KDFParams))

	secret, ok := secretbox.Open(nil, sealed, &nonce, &key)
	if !ok {
		return nil, ErrWrongPassword
	}
	if len(secret) != ed25519.PrivateKeySize {
		return nil, errors.Wrapf(ErrFormat, "secret key has %d bytes", len(secret))
	}

	account := &Account{PrivateKey: ed25519.PrivateKey(secret)}
	if kf.PublicKey != "" && kf.PublicKey != account.Address() {
		return nil, errors.Wrap(ErrFormat, "public key does not match secret key")
	}
	return account, nil
}
