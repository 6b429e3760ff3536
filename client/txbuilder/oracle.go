package txbuilder

import (
	sdkmath "cosmossdk.io/math"

	"github.com/GPTx-global/aecli/x/oracle/types"
)

// Defaults applied by the client when an option is not given.
var (
	DefaultQueryFee    = sdkmath.NewInt(30000)
	DefaultOracleTTL   = types.RelativeTTL(500)
	DefaultQueryTTL    = types.RelativeTTL(10)
	DefaultResponseTTL = types.RelativeTTL(10)
)

const DefaultABIVersion uint64 = 0

// OracleRegisterTx registers the sender account as an oracle.
type OracleRegisterTx struct {
	Common
	// AccountKey is the 32 byte public key of the future oracle.
	AccountKey     []byte
	QueryFormat    string
	ResponseFormat string
	QueryFee       sdkmath.Int
	OracleTTL      types.TTL
	ABIVersion     uint64
}

func (tx *OracleRegisterTx) Tag() uint8 { return TagOracleRegister }

func (tx *OracleRegisterTx) TTLBlocks(height uint64) uint64 {
	return tx.OracleTTL.RelativeTo(height)
}

func (tx *OracleRegisterTx) fields() []any {
	return []any{
		encodeID(idTagAccount, tx.AccountKey),
		encodeUint(tx.Nonce),
		[]byte(tx.QueryFormat),
		[]byte(tx.ResponseFormat),
		encodeInt(tx.QueryFee),
		encodeUint(tx.OracleTTL.WireType()),
		encodeUint(tx.OracleTTL.Value),
		encodeInt(tx.Fee),
		encodeUint(tx.TTL),
		encodeUint(tx.ABIVersion),
	}
}

// OracleQueryTx posts a query to an oracle.
type OracleQueryTx struct {
	Common
	SenderKey   []byte
	OracleKey   []byte
	Query       string
	QueryFee    sdkmath.Int
	QueryTTL    types.TTL
	ResponseTTL types.TTL
}

func (tx *OracleQueryTx) Tag() uint8 { return TagOracleQuery }

func (tx *OracleQueryTx) TTLBlocks(height uint64) uint64 {
	return tx.QueryTTL.RelativeTo(height)
}

func (tx *OracleQueryTx) fields() []any {
	return []any{
		encodeID(idTagAccount, tx.SenderKey),
		encodeUint(tx.Nonce),
		encodeID(idTagOracle, tx.OracleKey),
		[]byte(tx.Query),
		encodeInt(tx.QueryFee),
		encodeUint(tx.QueryTTL.WireType()),
		encodeUint(tx.QueryTTL.Value),
		encodeUint(tx.ResponseTTL.WireType()),
		encodeUint(tx.ResponseTTL.Value),
		encodeInt(tx.Fee),
		encodeUint(tx.TTL),
	}
}

// OracleResponseTx answers a query. Only the oracle itself can send it.
type OracleResponseTx struct {
	Common
	OracleKey   []byte
	QueryKey    []byte
	Response    string
	ResponseTTL types.TTL
}

func (tx *OracleResponseTx) Tag() uint8 { return TagOracleResponse }

func (tx *OracleResponseTx) TTLBlocks(height uint64) uint64 {
	return tx.ResponseTTL.RelativeTo(height)
}

func (tx *OracleResponseTx) fields() []any {
	return []any{
		encodeID(idTagOracle, tx.OracleKey),
		encodeUint(tx.Nonce),
		tx.QueryKey,
		[]byte(tx.Response),
		encodeUint(tx.ResponseTTL.WireType()),
		encodeUint(tx.ResponseTTL.Value),
		encodeInt(tx.Fee),
		encodeUint(tx.TTL),
	}
}

// OracleExtendTx prolongs the life of an oracle by a number of blocks.
type OracleExtendTx struct {
	Common
	OracleKey []byte
	OracleTTL types.TTL
}

func (tx *OracleExtendTx) Tag() uint8 { return TagOracleExtend }

func (tx *OracleExtendTx) TTLBlocks(height uint64) uint64 {
	return tx.OracleTTL.RelativeTo(height)
}

func (tx *OracleExtendTx) fields() []any {
	return []any{
		encodeID(idTagOracle, tx.OracleKey),
		encodeUint(tx.Nonce),
		encodeUint(tx.OracleTTL.WireType()),
		encodeUint(tx.OracleTTL.Value),
		encodeInt(tx.Fee),
		encodeUint(tx.TTL),
	}
}
