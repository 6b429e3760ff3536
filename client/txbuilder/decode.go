package txbuilder

import (
	"crypto/ed25519"
	"math/big"

	sdkmath "cosmossdk.io/math"
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/pkg/errors"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

// SignedTx is a decoded signed transaction.
type SignedTx struct {
	Signatures [][]byte
	TxBytes    []byte
	Tx         Tx
}

// DecodeSigned parses the bytes produced by Sign.
func DecodeSigned(bz []byte) (*SignedTx, error) {
	items, err := decodeList(bz)
	if err != nil {
		return nil, err
	}
	if len(items) != 4 || tagOf(items) != TagSignedTx {
		return nil, errors.Wrap(ErrInvalidTx, "not a signed transaction")
	}

	rawSigs, ok := items[2].([]any)
	if !ok {
		return nil, errors.Wrap(ErrInvalidTx, "signatures")
	}
	signed := &SignedTx{}
	for _, s := range rawSigs {
		sig, ok := s.([]byte)
		if !ok {
			return nil, errors.Wrap(ErrInvalidTx, "signature")
		}
		signed.Signatures = append(signed.Signatures, sig)
	}

	if signed.TxBytes, ok = items[3].([]byte); !ok {
		return nil, errors.Wrap(ErrInvalidTx, "inner transaction")
	}
	if signed.Tx, err = DecodeTx(signed.TxBytes); err != nil {
		return nil, err
	}
	return signed, nil
}

// Verify reports whether one of the signatures was made by pubkey for networkID.
func (s *SignedTx) Verify(networkID string, pubkey ed25519.PublicKey) bool {
	msg := append([]byte(networkID), encoding.Hash(s.TxBytes)...)
	for _, sig := range s.Signatures {
		if ed25519.Verify(pubkey, msg, sig) {
			return true
		}
	}
	return false
}

// DecodeTx parses an unsigned oracle transaction.
func DecodeTx(bz []byte) (Tx, error) {
	items, err := decodeList(bz)
	if err != nil {
		return nil, err
	}

	f := &fieldReader{items: items, pos: 2}
	switch tagOf(items) {
	case TagOracleRegister:
		tx := &OracleRegisterTx{}
		tx.AccountKey = f.readID(idTagAccount)
		tx.Nonce = f.readUint()
		tx.QueryFormat = string(f.readBytes())
		tx.ResponseFormat = string(f.readBytes())
		tx.QueryFee = f.readInt()
		tx.OracleTTL = f.readTTL()
		tx.Fee = f.readInt()
		tx.TTL = f.readUint()
		tx.ABIVersion = f.readUint()
		return tx, f.done()
	case TagOracleQuery:
		tx := &OracleQueryTx{}
		tx.SenderKey = f.readID(idTagAccount)
		tx.Nonce = f.readUint()
		tx.OracleKey = f.readID(idTagOracle)
		tx.Query = string(f.readBytes())
		tx.QueryFee = f.readInt()
		tx.QueryTTL = f.readTTL()
		tx.ResponseTTL = f.readTTL()
		tx.Fee = f.readInt()
		tx.TTL = f.readUint()
		return tx, f.done()
	case TagOracleResponse:
		tx := &OracleResponseTx{}
		tx.OracleKey = f.readID(idTagOracle)
		tx.Nonce = f.readUint()
		tx.QueryKey = f.readBytes()
		tx.Response = string(f.readBytes())
		tx.ResponseTTL = f.readTTL()
		tx.Fee = f.readInt()
		tx.TTL = f.readUint()
		return tx, f.done()
	case TagOracleExtend:
		tx := &OracleExtendTx{}
		tx.OracleKey = f.readID(idTagOracle)
		tx.Nonce = f.readUint()
		tx.OracleTTL = f.readTTL()
		tx.Fee = f.readInt()
		tx.TTL = f.readUint()
		return tx, f.done()
	default:
		return nil, errors.Wrapf(ErrInvalidTx, "unsupported tag %d", tagOf(items))
	}
}

func decodeList(bz []byte) ([]any, error) {
	var items []any
	if err := rlp.DecodeBytes(bz, &items); err != nil {
		return nil, errors.Wrap(ErrInvalidTx, err.Error())
	}
	if len(items) < 2 {
		return nil, errors.Wrap(ErrInvalidTx, "missing tag")
	}
	return items, nil
}

func tagOf(items []any) uint8 {
	b, _ := items[0].([]byte)
	return uint8(new(big.Int).SetBytes(b).Uint64())
}

// fieldReader walks the fields of a decoded transaction and remembers the
// first error.
type fieldReader struct {
	items []any
	pos   int
	err   error
}

func (f *fieldReader) readBytes() []byte {
	if f.err != nil {
		return nil
	}
	if f.pos >= len(f.items) {
		f.err = errors.Wrap(ErrInvalidTx, "too few fields")
		return nil
	}
	b, ok := f.items[f.pos].([]byte)
	if !ok {
		f.err = errors.Wrapf(ErrInvalidTx, "field %d is a list", f.pos)
	}
	f.pos++
	return b
}

func (f *fieldReader) readUint() uint64 {
	return new(big.Int).SetBytes(f.readBytes()).Uint64()
}

func (f *fieldReader) readInt() sdkmath.Int {
	return sdkmath.NewIntFromBigInt(new(big.Int).SetBytes(f.readBytes()))
}

func (f *fieldReader) readID(tag uint8) []byte {
	b := f.readBytes()
	if f.err != nil {
		return nil
	}
	if len(b) != encoding.IDLen+1 || b[0] != tag {
		f.err = errors.Wrapf(ErrInvalidTx, "field %d is not an id with tag %d", f.pos-1, tag)
		return nil
	}
	return b[1:]
}

func (f *fieldReader) readTTL() types.TTL {
	wireType := f.readUint()
	value := f.readUint()
	if wireType == 1 {
		return types.AbsoluteTTL(value)
	}
	return types.RelativeTTL(value)
}

func (f *fieldReader) done() error {
	if f.err == nil && f.pos != len(f.items) {
		return errors.Wrapf(ErrInvalidTx, "%d trailing fields", len(f.items)-f.pos)
	}
	return f.err
}
