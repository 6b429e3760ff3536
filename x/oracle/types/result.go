package types

import (
	"encoding/json"
	"math/big"
)

// TxResult is what the chain client returns for a submitted transaction.
// Without WaitMined only Hash and RawTx are known.
type TxResult struct {
	Hash        string          `json:"hash"`
	RawTx       string          `json:"rawTx,omitempty"`
	Mined       bool            `json:"-"`
	BlockHeight int64           `json:"blockHeight,omitempty"`
	BlockHash   string          `json:"blockHash,omitempty"`
	Signatures  []string        `json:"signatures,omitempty"`
	Tx          json.RawMessage `json:"tx,omitempty"`
	// QueryID is set for posted queries.
	QueryID string `json:"queryId,omitempty"`
}

// UnsignedTx is a transaction built without a node.
type UnsignedTx struct {
	// Tx is the tx_ encoding passed to account sign.
	Tx       string          `json:"tx"`
	TxObject json.RawMessage `json:"txObject"`
}

// SignResult is a transaction signed for one network.
type SignResult struct {
	Signed    string `json:"signedTx"`
	Hash      string `json:"hash"`
	NetworkID string `json:"networkId"`
}

// Oracle is the on-chain oracle record.
type Oracle struct {
	ID             string   `json:"id"`
	QueryFormat    string   `json:"query_format"`
	ResponseFormat string   `json:"response_format"`
	QueryFee       *big.Int `json:"query_fee"`
	TTL            uint64   `json:"ttl"`
	ABIVersion     uint64   `json:"abi_version"`

	// Raw is the node's JSON as received.
	Raw json.RawMessage `json:"-"`
}

// OracleQuery is a query posted to an oracle.
type OracleQuery struct {
	ID          string   `json:"id"`
	SenderID    string   `json:"sender_id"`
	SenderNonce uint64   `json:"sender_nonce"`
	OracleID    string   `json:"oracle_id"`
	Query       string   `json:"query"`
	Response    string   `json:"response"`
	TTL         uint64   `json:"ttl"`
	ResponseTTL TTL      `json:"response_ttl"`
	Fee         *big.Int `json:"fee"`
}

// OracleQueries is the node's query listing.
type OracleQueries struct {
	Queries []OracleQuery `json:"oracle_queries"`

	Raw json.RawMessage `json:"-"`
}
