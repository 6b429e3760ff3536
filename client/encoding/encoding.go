// Package encoding implements the prefixed, checksummed string forms used for
// chain identifiers and payloads (ak_, ok_, oq_, th_, tx_, ov_, or_).
package encoding

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"strings"

	"github.com/btcsuite/btcutil/base58"
	"github.com/pkg/errors"
	"golang.org/x/crypto/blake2b"
)

// Identifier and payload prefixes.
const (
	PrefixAccount  = "ak"
	PrefixOracle   = "ok"
	PrefixQuery    = "oq"
	PrefixTxHash   = "th"
	PrefixTx       = "tx"
	PrefixQueryRaw = "ov"
	PrefixResponse = "or"
)

const (
	checksumLen = 4
	// IDLen is the payload size of every account, oracle and query identifier.
	IDLen = 32
)

var (
	ErrPrefix   = errors.New("unexpected prefix")
	ErrChecksum = errors.New("invalid checksum")
	ErrLength   = errors.New("invalid payload length")
)

// base64 payloads; everything else is base58.
var base64Prefixes = map[string]bool{
	PrefixTx:       true,
	PrefixQueryRaw: true,
	PrefixResponse: true,
}

func checksum(payload []byte) []byte {
	first := sha256.Sum256(payload)
	second := sha256.Sum256(first[:])
	return second[:checksumLen]
}

// Encode returns prefix_ followed by the checksummed payload.
func Encode(prefix string, payload []byte) string {
	data := append(append([]byte{}, payload...), checksum(payload)...)
	if base64Prefixes[prefix] {
		return prefix + "_" + base64.StdEncoding.EncodeToString(data)
	}
	return prefix + "_" + base58.Encode(data)
}

// Split separates the prefix from the encoded body and verifies the checksum.
func Split(s string) (string, []byte, error) {
	prefix, body, ok := strings.Cut(s, "_")
	if !ok || prefix == "" || body == "" {
		return "", nil, errors.Wrapf(ErrPrefix, "malformed value %q", s)
	}

	var data []byte
	if base64Prefixes[prefix] {
		var err error
		if data, err = base64.StdEncoding.DecodeString(body); err != nil {
			return "", nil, errors.Wrapf(ErrChecksum, "base64: %v", err)
		}
	} else {
		data = base58.Decode(body)
	}

	if len(data) < checksumLen {
		return "", nil, errors.Wrapf(ErrChecksum, "value %q too short", s)
	}
	payload, sum := data[:len(data)-checksumLen], data[len(data)-checksumLen:]
	if !bytes.Equal(sum, checksum(payload)) {
		return "", nil, errors.Wrapf(ErrChecksum, "value %q", s)
	}
	return prefix, payload, nil
}

// Decode decodes s and requires the given prefix.
func Decode(s, prefix string) ([]byte, error) {
	got, payload, err := Split(s)
	if err != nil {
		return nil, err
	}
	if got != prefix {
		return nil, errors.Wrapf(ErrPrefix, "expected %s_, got %s_", prefix, got)
	}
	return payload, nil
}

// DecodeID decodes a 32 byte identifier carrying the given prefix.
func DecodeID(s, prefix string) ([]byte, error) {
	payload, err := Decode(s, prefix)
	if err != nil {
		return nil, err
	}
	if len(payload) != IDLen {
		return nil, errors.Wrapf(ErrLength, "%s_ id has %d bytes", prefix, len(payload))
	}
	return payload, nil
}

// IsValidID reports whether s is a well formed identifier of the given prefix.
func IsValidID(s, prefix string) bool {
	_, err := DecodeID(s, prefix)
	return err == nil
}

// Retag re-encodes an identifier under another prefix. Oracles share the
// public key of the account that registered them.
func Retag(s, from, to string) (string, error) {
	payload, err := DecodeID(s, from)
	if err != nil {
		return "", err
	}
	return Encode(to, payload), nil
}

// Hash is blake2b-256.
func Hash(data ...[]byte) []byte {
	h, _ := blake2b.New256(nil)
	for _, d := range data {
		h.Write(d)
	}
	return h.Sum(nil)
}

// TxHash returns the th_ hash of a serialized signed transaction.
func TxHash(signedTx []byte) string {
	return Encode(PrefixTxHash, Hash(signedTx))
}

// QueryID derives the oq_ identifier of the query the sender posts with the
// given nonce.
func QueryID(sender []byte, nonce uint64, oracle []byte) string {
	n := make([]byte, 32)
	binary.BigEndian.PutUint64(n[24:], nonce)
	return Encode(PrefixQuery, Hash(sender, n, oracle))
}

// DecodePayload returns the raw bytes of an ov_/or_ payload. Values that are
// not encoded are returned unchanged.
func DecodePayload(s string) string {
	prefix, payload, err := Split(s)
	if err != nil || !base64Prefixes[prefix] {
		return s
	}
	return string(payload)
}
