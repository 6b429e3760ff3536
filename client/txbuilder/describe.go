package txbuilder

import (
	"encoding/json"

	sdkmath "cosmossdk.io/math"

	"github.com/GPTx-global/aecli/client/encoding"
)

// Describe renders a transaction the way the node's JSON API does.
func Describe(tx Tx) map[string]any {
	out := map[string]any{"version": objectVersion, "fee": amount(tx.GetFee())}
	switch t := tx.(type) {
	case *OracleRegisterTx:
		out["type"] = "OracleRegisterTx"
		out["account_id"] = encoding.Encode(encoding.PrefixAccount, t.AccountKey)
		out["query_format"] = t.QueryFormat
		out["response_format"] = t.ResponseFormat
		out["query_fee"] = amount(t.QueryFee)
		out["oracle_ttl"] = t.OracleTTL
		out["abi_version"] = t.ABIVersion
	case *OracleExtendTx:
		out["type"] = "OracleExtendTx"
		out["oracle_id"] = encoding.Encode(encoding.PrefixOracle, t.OracleKey)
		out["oracle_ttl"] = t.OracleTTL
	case *OracleQueryTx:
		out["type"] = "OracleQueryTx"
		out["sender_id"] = encoding.Encode(encoding.PrefixAccount, t.SenderKey)
		out["oracle_id"] = encoding.Encode(encoding.PrefixOracle, t.OracleKey)
		out["query"] = t.Query
		out["query_fee"] = amount(t.QueryFee)
		out["query_ttl"] = t.QueryTTL
		out["response_ttl"] = t.ResponseTTL
	case *OracleResponseTx:
		out["type"] = "OracleRespondTx"
		out["oracle_id"] = encoding.Encode(encoding.PrefixOracle, t.OracleKey)
		out["query_id"] = encoding.Encode(encoding.PrefixQuery, t.QueryKey)
		out["response"] = t.Response
		out["response_ttl"] = t.ResponseTTL
	}
	out["nonce"] = tx.GetNonce()
	out["ttl"] = tx.GetTTL()
	return out
}

// amount marshals as a bare JSON number like the node does.
func amount(i sdkmath.Int) json.Number {
	if i.IsNil() {
		return json.Number("0")
	}
	return json.Number(i.String())
}
