package txbuilder

import (
	"bytes"
	"crypto/ed25519"
	"encoding/json"
	"testing"

	sdkmath "cosmossdk.io/math"
	"github.com/stretchr/testify/require"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

type keySigner struct {
	key ed25519.PrivateKey
}

func (s keySigner) Sign(msg []byte) []byte {
	return ed25519.Sign(s.key, msg)
}

func newSigner(t *testing.T) (keySigner, ed25519.PublicKey) {
	seed := bytes.Repeat([]byte{7}, ed25519.SeedSize)
	key := ed25519.NewKeyFromSeed(seed)
	return keySigner{key: key}, key.Public().(ed25519.PublicKey)
}

func registerTx(pub []byte) *OracleRegisterTx {
	return &OracleRegisterTx{
		Common:         Common{Nonce: 1},
		AccountKey:     pub,
		QueryFormat:    "{city: \"str\"}",
		ResponseFormat: "{tmp: \"num\"}",
		QueryFee:       DefaultQueryFee,
		OracleTTL:      DefaultOracleTTL,
		ABIVersion:     DefaultABIVersion,
	}
}

func TestMinFee(t *testing.T) {
	// 15000 + 20*100 + ceil(32000*500/175200)
	require.Equal(t, "17092000000000", MinFee(100, 500).String())
	require.Equal(t, "15000000000000", MinFee(0, 0).String())
	// a single block still costs one ttl gas unit
	require.Equal(t, "15001000000000", MinFee(0, 1).String())
}

func TestSetMinFeeIsStable(t *testing.T) {
	_, pub := newSigner(t)

	testCases := []struct {
		name string
		tx   Tx
	}{
		{"register", registerTx(pub)},
		{"query", &OracleQueryTx{
			Common:      Common{Nonce: 2},
			SenderKey:   pub,
			OracleKey:   pub,
			Query:       "{\"city\": \"Berlin\"}",
			QueryFee:    DefaultQueryFee,
			QueryTTL:    DefaultQueryTTL,
			ResponseTTL: DefaultResponseTTL,
		}},
		{"response", &OracleResponseTx{
			Common:      Common{Nonce: 3},
			OracleKey:   pub,
			QueryKey:    bytes.Repeat([]byte{1}, encoding.IDLen),
			Response:    "{\"tmp\": 10}",
			ResponseTTL: DefaultResponseTTL,
		}},
		{"extend", &OracleExtendTx{
			Common:    Common{Nonce: 4},
			OracleKey: pub,
			OracleTTL: types.RelativeTTL(100),
		}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, SetMinFee(tc.tx, 1000))

			bz, err := Serialize(tc.tx)
			require.NoError(t, err)
			require.True(t, tc.tx.GetFee().Equal(MinFee(len(bz), tc.tx.TTLBlocks(1000))))
		})
	}
}

func TestAbsoluteTTLUsesRemainingBlocks(t *testing.T) {
	_, pub := newSigner(t)
	tx := registerTx(pub)
	tx.OracleTTL = types.AbsoluteTTL(1500)

	require.Equal(t, uint64(500), tx.TTLBlocks(1000))
	require.Zero(t, tx.TTLBlocks(2000))
}

func TestSignAndDecode(t *testing.T) {
	signer, pub := newSigner(t)
	tx := registerTx(pub)
	require.NoError(t, SetMinFee(tx, 0))

	signed, err := Sign(tx, "ae_uat", signer)
	require.NoError(t, err)
	require.Equal(t, encoding.TxHash(signed.Bytes), signed.Hash)

	payload, err := encoding.Decode(signed.Encoded, encoding.PrefixTx)
	require.NoError(t, err)
	require.Equal(t, signed.Bytes, payload)

	decoded, err := DecodeSigned(signed.Bytes)
	require.NoError(t, err)
	require.Len(t, decoded.Signatures, 1)
	require.True(t, decoded.Verify("ae_uat", pub))
	require.False(t, decoded.Verify("ae_mainnet", pub))

	got, ok := decoded.Tx.(*OracleRegisterTx)
	require.True(t, ok)
	require.Equal(t, tx.QueryFormat, got.QueryFormat)
	require.Equal(t, tx.OracleTTL, got.OracleTTL)
	require.Equal(t, []byte(pub), got.AccountKey)
	require.True(t, tx.Fee.Equal(got.Fee))
}

func TestSignEncodedUnsigned(t *testing.T) {
	signer, pub := newSigner(t)
	tx := registerTx(pub)
	tx.SetTTL(250)
	require.NoError(t, SetMinFee(tx, 0))

	unsigned, err := EncodeUnsigned(tx)
	require.NoError(t, err)
	txBin, err := encoding.Decode(unsigned, encoding.PrefixTx)
	require.NoError(t, err)

	// signing the decoded bytes gives the same transaction as signing tx
	fromBytes, err := SignBytes(txBin, "ae_uat", signer)
	require.NoError(t, err)
	direct, err := Sign(tx, "ae_uat", signer)
	require.NoError(t, err)
	require.Equal(t, direct.Encoded, fromBytes.Encoded)

	decoded, err := DecodeSigned(fromBytes.Bytes)
	require.NoError(t, err)
	require.True(t, decoded.Verify("ae_uat", pub))
	require.Equal(t, uint64(250), decoded.Tx.GetTTL())
	require.Equal(t, uint64(1), decoded.Tx.GetNonce())

	_, err = DecodeSigned(txBin)
	require.ErrorIs(t, err, ErrInvalidTx)
}

func TestDescribe(t *testing.T) {
	_, pub := newSigner(t)
	tx := &OracleResponseTx{
		Common:      Common{Nonce: 4, Fee: sdkmath.NewInt(16000000000000), TTL: 90},
		OracleKey:   pub,
		QueryKey:    bytes.Repeat([]byte{2}, encoding.IDLen),
		Response:    "{tmp: 10}",
		ResponseTTL: types.RelativeTTL(10),
	}

	out := Describe(tx)

	require.Equal(t, "OracleRespondTx", out["type"])
	require.Equal(t, encoding.Encode(encoding.PrefixOracle, pub), out["oracle_id"])
	require.Equal(t, encoding.Encode(encoding.PrefixQuery, tx.QueryKey), out["query_id"])
	require.Equal(t, json.Number("16000000000000"), out["fee"])
	require.Equal(t, uint64(4), out["nonce"])
	require.Equal(t, uint64(90), out["ttl"])

	bz, err := json.Marshal(out)
	require.NoError(t, err)
	require.Contains(t, string(bz), `"response_ttl":{"type":"delta","value":10}`)
	require.Contains(t, string(bz), `"fee":16000000000000`)
}

func TestZeroIsEncodedAsSingleByte(t *testing.T) {
	require.Equal(t, []byte{0}, encodeUint(0))
	require.Equal(t, []byte{0}, encodeInt(sdkmath.Int{}))
	require.Equal(t, []byte{0x01, 0xf4}, encodeUint(500))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := DecodeSigned([]byte{0x01, 0x02})
	require.ErrorIs(t, err, ErrInvalidTx)

	_, pub := newSigner(t)
	bz, err := Serialize(registerTx(pub))
	require.NoError(t, err)

	// an unsigned tx is not a signed one
	_, err = DecodeSigned(bz)
	require.ErrorIs(t, err, ErrInvalidTx)
}
