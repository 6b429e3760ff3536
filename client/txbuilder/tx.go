// Package txbuilder serializes, prices and signs oracle transactions.
package txbuilder

import (
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/GPTx-global/aecli/client/encoding"
	aetypes "github.com/GPTx-global/aecli/types"
)

// Object tags.
const (
	TagSignedTx       uint8 = 11
	TagOracleRegister uint8 = 22
	TagOracleQuery    uint8 = 23
	TagOracleResponse uint8 = 24
	TagOracleExtend   uint8 = 25
)

const objectVersion uint8 = 1

// Tags prepended to a public key inside serialized ids.
const (
	idTagAccount uint8 = 1
	idTagOracle  uint8 = 4
)

const (
	baseGas    = 15000
	gasPerByte = 20

	// one ttl gas unit per 175200/32000 blocks, rounded up
	ttlGasNumerator   = 32000
	ttlGasDenominator = 175200

	maxFeeIterations = 10
)

var ErrInvalidTx = errors.New("invalid transaction")

// Common holds the fields every transaction carries.
type Common struct {
	Nonce uint64
	Fee   sdkmath.Int
	// TTL is the height after which the transaction is dropped. 0 means never.
	TTL uint64
}

func (c *Common) GetFee() sdkmath.Int {
	if c.Fee.IsNil() {
		return sdkmath.ZeroInt()
	}
	return c.Fee
}

func (c *Common) SetFee(fee sdkmath.Int) {
	c.Fee = fee
}

func (c *Common) SetTTL(ttl uint64) {
	c.TTL = ttl
}

func (c *Common) GetTTL() uint64 {
	return c.TTL
}

func (c *Common) GetNonce() uint64 {
	return c.Nonce
}

// Tx is an unsigned oracle transaction.
type Tx interface {
	Tag() uint8
	GetFee() sdkmath.Int
	SetFee(sdkmath.Int)
	SetTTL(uint64)
	GetTTL() uint64
	GetNonce() uint64
	// TTLBlocks is the number of blocks the created object lives, used for
	// the ttl part of the fee.
	TTLBlocks(height uint64) uint64

	fields() []any
}

// Serialize returns the RLP encoding of tx.
func Serialize(tx Tx) ([]byte, error) {
	items := append([]any{encodeUint(uint64(tx.Tag())), encodeUint(uint64(objectVersion))}, tx.fields()...)
	bz, err := rlp.EncodeToBytes(items)
	if err != nil {
		return nil, errors.Wrapf(err, "encode tx %d", tx.Tag())
	}
	return bz, nil
}

// MinFee returns the smallest fee accepted for a transaction of the given
// serialized size whose object lives ttlBlocks blocks.
func MinFee(size int, ttlBlocks uint64) sdkmath.Int {
	ttlGas := (ttlBlocks*ttlGasNumerator + ttlGasDenominator - 1) / ttlGasDenominator
	return aetypes.GasCost(baseGas + gasPerByte*uint64(size) + ttlGas)
}

// SetMinFee sets the fee of tx to the minimum fee. The fee is part of the
// serialized size, so it is recomputed until it stops changing.
func SetMinFee(tx Tx, height uint64) error {
	tx.SetFee(sdkmath.ZeroInt())
	for i := 0; i < maxFeeIterations; i++ {
		bz, err := Serialize(tx)
		if err != nil {
			return err
		}
		fee := MinFee(len(bz), tx.TTLBlocks(height))
		if fee.Equal(tx.GetFee()) {
			return nil
		}
		tx.SetFee(fee)
	}
	return errors.Wrap(ErrInvalidTx, "fee did not converge")
}

// Signer signs raw bytes with an ed25519 key.
type Signer interface {
	Sign(msg []byte) []byte
}

// Signed is a signed transaction ready for broadcast.
type Signed struct {
	Bytes []byte
	// Encoded is the tx_ form posted to the node.
	Encoded string
	// Hash is the th_ hash the node will report.
	Hash string
}

// Sign signs tx for networkID. The signature covers the network id followed
// by the blake2b hash of the serialized transaction.
func Sign(tx Tx, networkID string, signer Signer) (*Signed, error) {
	txBin, err := Serialize(tx)
	if err != nil {
		return nil, err
	}
	return SignBytes(txBin, networkID, signer)
}

// EncodeUnsigned returns the tx_ form of an unsigned transaction.
func EncodeUnsigned(tx Tx) (string, error) {
	txBin, err := Serialize(tx)
	if err != nil {
		return "", err
	}
	return encoding.Encode(encoding.PrefixTx, txBin), nil
}

// SignBytes signs an already serialized transaction.
func SignBytes(txBin []byte, networkID string, signer Signer) (*Signed, error) {
	sig := signer.Sign(append([]byte(networkID), encoding.Hash(txBin)...))
	bz, err := rlp.EncodeToBytes([]any{
		encodeUint(uint64(TagSignedTx)),
		encodeUint(uint64(objectVersion)),
		[][]byte{sig},
		txBin,
	})
	if err != nil {
		return nil, errors.Wrap(err, "encode signed tx")
	}

	return &Signed{
		Bytes:   bz,
		Encoded: encoding.Encode(encoding.PrefixTx, bz),
		Hash:    encoding.TxHash(bz),
	}, nil
}

// Integers are minimal big endian byte strings with zero encoded as 0x00.
func encodeUint(n uint64) []byte {
	return encodeBig(new(big.Int).SetUint64(n))
}

func encodeInt(i sdkmath.Int) []byte {
	if i.IsNil() {
		return []byte{0}
	}
	return encodeBig(i.BigInt())
}

func encodeBig(i *big.Int) []byte {
	if i.Sign() == 0 {
		return []byte{0}
	}
	return i.Bytes()
}

func encodeID(tag uint8, pubkey []byte) []byte {
	return append([]byte{tag}, pubkey...)
}
