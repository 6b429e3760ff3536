package types

const (
	// ModuleName defines the module name
	ModuleName = "oracle"

	// DefaultTxTTL leaves the transaction valid forever.
	DefaultTxTTL uint64 = 0
)

// Labels used for identifier validation errors.
const (
	labelOracleID  = "oracleId"
	labelQueryID   = "queryId"
	labelAccountID = "accountId"
)
