package types

import (
	"context"
)

// WalletLoader opens a wallet file and returns a client that signs with it.
type WalletLoader interface {
	Load(ctx context.Context, walletPath string) (OracleClient, error)
}

// OracleClient is the signing side of the chain client.
type OracleClient interface {
	RegisterOracle(ctx context.Context, queryFormat, responseFormat string, opts OracleOptions) (*TxResult, error)
	GetOracleObject(ctx context.Context, oracleID string) (OracleObject, error)
	// SignTransaction signs a tx_ encoded unsigned transaction.
	SignTransaction(ctx context.Context, encodedTx string) (*SignResult, error)
}

// OracleObject acts on one registered oracle.
type OracleObject interface {
	ExtendOracle(ctx context.Context, oracleTTL TTL, opts OracleOptions) (*TxResult, error)
	PostQuery(ctx context.Context, query string, opts OracleOptions) (*TxResult, error)
	RespondToQuery(ctx context.Context, queryID, response string, opts OracleOptions) (*TxResult, error)
}

// ChainReader is the chain API that needs no wallet.
type ChainReader interface {
	GetOracleByPubkey(ctx context.Context, oracleID string) (*Oracle, error)
	GetOracleQueriesByPubkey(ctx context.Context, oracleID string) (*OracleQueries, error)
	PostTransaction(ctx context.Context, encodedTx string) (string, error)
	WaitMined(ctx context.Context, hash string) (*TxResult, error)
}

// ChainDialer connects to a node without a wallet.
type ChainDialer interface {
	Dial(ctx context.Context) (ChainReader, error)
}
