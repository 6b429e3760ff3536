// Package network runs an in-process node that accepts signed oracle
// transactions and serves the read API used by the client.
package network

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"

	sdkmath "cosmossdk.io/math"
	"github.com/gorilla/mux"
	"github.com/tidwall/gjson"

	"github.com/GPTx-global/aecli/client/encoding"
	"github.com/GPTx-global/aecli/client/txbuilder"
	"github.com/GPTx-global/aecli/x/oracle/types"
)

const (
	DefaultNetworkID = "ae_devnet"
	startHeight      = 100
)

type oracleState struct {
	ID             string  `json:"id"`
	QueryFormat    string  `json:"query_format"`
	ResponseFormat string  `json:"response_format"`
	QueryFee       *amount `json:"query_fee"`
	TTL            uint64  `json:"ttl"`
	ABIVersion     uint64  `json:"abi_version"`
	queries        []string
}

type queryState struct {
	ID          string    `json:"id"`
	SenderID    string    `json:"sender_id"`
	SenderNonce uint64    `json:"sender_nonce"`
	OracleID    string    `json:"oracle_id"`
	Query       string    `json:"query"`
	Response    string    `json:"response"`
	TTL         uint64    `json:"ttl"`
	ResponseTTL types.TTL `json:"response_ttl"`
	Fee         *amount   `json:"fee"`
}

type txState struct {
	Hash        string         `json:"hash"`
	BlockHeight int64          `json:"block_height"`
	BlockHash   string         `json:"block_hash"`
	Signatures  []string       `json:"signatures"`
	Tx          map[string]any `json:"tx"`

	polls int
}

// Network is a single node chain.
type Network struct {
	NetworkID string
	// PendingPolls is how many lookups a transaction stays pending for.
	PendingPolls int

	mu       sync.Mutex
	height   uint64
	nonces   map[string]uint64
	oracles  map[string]*oracleState
	queries  map[string]*queryState
	txs      map[string]*txState
	requests map[string]int

	server *httptest.Server
}

// New starts a node. Call Close when done.
func New() *Network {
	n := &Network{
		NetworkID: DefaultNetworkID,
		height:    startHeight,
		nonces:    make(map[string]uint64),
		oracles:   make(map[string]*oracleState),
		queries:   make(map[string]*queryState),
		txs:       make(map[string]*txState),
		requests:  make(map[string]int),
	}
	n.server = httptest.NewServer(n.router())
	return n
}

func (n *Network) URL() string {
	return n.server.URL
}

func (n *Network) Close() {
	n.server.Close()
}

// Requests returns how many requests hit the named route.
func (n *Network) Requests(route string) int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.requests[route]
}

// Height is the current height.
func (n *Network) Height() uint64 {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.height
}

// Mine advances the chain by blocks.
func (n *Network) Mine(blocks uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.height += blocks
}

func (n *Network) router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/v3").Subrouter()
	api.Use(n.countRequests)

	api.HandleFunc("/status", n.handleStatus).Methods(http.MethodGet).Name("status")
	api.HandleFunc("/key-blocks/current/height", n.handleHeight).Methods(http.MethodGet).Name("height")
	api.HandleFunc("/accounts/{id}", n.handleAccount).Methods(http.MethodGet).Name("account")
	api.HandleFunc("/oracles/{id}", n.handleOracle).Methods(http.MethodGet).Name("oracle")
	api.HandleFunc("/oracles/{id}/queries", n.handleQueries).Methods(http.MethodGet).Name("queries")
	api.HandleFunc("/transactions", n.handlePostTx).Methods(http.MethodPost).Name("post-tx")
	api.HandleFunc("/transactions/{hash}", n.handleGetTx).Methods(http.MethodGet).Name("tx")
	return r
}

func (n *Network) countRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if route := mux.CurrentRoute(r); route != nil {
			n.mu.Lock()
			n.requests[route.GetName()]++
			n.mu.Unlock()
		}
		next.ServeHTTP(w, r)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeReason(w http.ResponseWriter, status int, format string, args ...any) {
	writeJSON(w, status, map[string]string{"reason": fmt.Sprintf(format, args...)})
}

func (n *Network) handleStatus(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"network_id": n.NetworkID})
}

func (n *Network) handleHeight(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"height": n.Height()})
}

func (n *Network) handleAccount(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	n.mu.Lock()
	nonce, ok := n.nonces[id]
	n.mu.Unlock()

	if !ok {
		writeReason(w, http.StatusNotFound, "Account not found")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "nonce": nonce, "balance": 0})
}

func (n *Network) handleOracle(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	oracle, ok := n.oracles[mux.Vars(r)["id"]]
	if !ok {
		writeReason(w, http.StatusNotFound, "Oracle not found")
		return
	}
	writeJSON(w, http.StatusOK, oracle)
}

func (n *Network) handleQueries(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	oracle, ok := n.oracles[mux.Vars(r)["id"]]
	if !ok {
		writeReason(w, http.StatusNotFound, "Oracle not found")
		return
	}
	queries := make([]*queryState, 0, len(oracle.queries))
	for _, id := range oracle.queries {
		queries = append(queries, n.queries[id])
	}
	writeJSON(w, http.StatusOK, map[string]any{"oracle_queries": queries})
}

func (n *Network) handleGetTx(w http.ResponseWriter, r *http.Request) {
	n.mu.Lock()
	defer n.mu.Unlock()

	tx, ok := n.txs[mux.Vars(r)["hash"]]
	if !ok {
		writeReason(w, http.StatusNotFound, "Transaction not found")
		return
	}

	view := *tx
	if tx.polls < n.PendingPolls {
		tx.polls++
		view.BlockHeight = -1
		view.BlockHash = "none"
	}
	writeJSON(w, http.StatusOK, &view)
}

func (n *Network) handlePostTx(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeReason(w, http.StatusBadRequest, "Invalid body")
		return
	}
	encoded := gjson.GetBytes(body, "tx").String()
	bz, err := encoding.Decode(encoded, encoding.PrefixTx)
	if err != nil {
		writeReason(w, http.StatusBadRequest, "Invalid tx")
		return
	}
	signed, err := txbuilder.DecodeSigned(bz)
	if err != nil {
		writeReason(w, http.StatusBadRequest, "Invalid tx")
		return
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	hash := encoding.TxHash(bz)
	if err := n.apply(signed); err != nil {
		writeReason(w, http.StatusBadRequest, "%v", err)
		return
	}

	n.height++
	sigs := make([]string, 0, len(signed.Signatures))
	for _, s := range signed.Signatures {
		sigs = append(sigs, encoding.Encode("sg", s))
	}
	n.txs[hash] = &txState{
		Hash:        hash,
		BlockHeight: int64(n.height),
		BlockHash:   encoding.Encode("mh", encoding.Hash([]byte(hash))),
		Signatures:  sigs,
		Tx:          txbuilder.Describe(signed.Tx),
	}
	writeJSON(w, http.StatusOK, map[string]string{"tx_hash": hash})
}

// apply validates the signature and nonce of a transaction and updates the
// state. Callers hold mu.
func (n *Network) apply(signed *txbuilder.SignedTx) error {
	signer := signerOf(signed.Tx)
	if !signed.Verify(n.NetworkID, signer) {
		return fmt.Errorf("Invalid signature")
	}

	if ttl := signed.Tx.GetTTL(); ttl != 0 && ttl < n.height+1 {
		return fmt.Errorf("Transaction TTL %d expired at height %d", ttl, n.height)
	}

	account := encoding.Encode(encoding.PrefixAccount, signer)
	nonce := signed.Tx.GetNonce()
	if want := n.nonces[account] + 1; nonce != want {
		return fmt.Errorf("Invalid nonce %d, expected %d", nonce, want)
	}

	switch tx := signed.Tx.(type) {
	case *txbuilder.OracleRegisterTx:
		id := encoding.Encode(encoding.PrefixOracle, tx.AccountKey)
		if _, ok := n.oracles[id]; ok {
			return fmt.Errorf("Account is already an oracle")
		}
		n.oracles[id] = &oracleState{
			ID:             id,
			QueryFormat:    tx.QueryFormat,
			ResponseFormat: tx.ResponseFormat,
			QueryFee:       newAmount(tx.QueryFee),
			TTL:            n.expiry(tx.OracleTTL),
			ABIVersion:     tx.ABIVersion,
		}

	case *txbuilder.OracleExtendTx:
		oracle, ok := n.oracles[encoding.Encode(encoding.PrefixOracle, tx.OracleKey)]
		if !ok {
			return fmt.Errorf("Oracle does not exist")
		}
		oracle.TTL += tx.OracleTTL.Value

	case *txbuilder.OracleQueryTx:
		oracleID := encoding.Encode(encoding.PrefixOracle, tx.OracleKey)
		oracle, ok := n.oracles[oracleID]
		if !ok {
			return fmt.Errorf("Oracle does not exist")
		}
		if tx.QueryFee.LT(oracle.QueryFee.Int) {
			return fmt.Errorf("Query fee too low")
		}
		id := encoding.QueryID(tx.SenderKey, tx.Nonce, tx.OracleKey)
		n.queries[id] = &queryState{
			ID:          id,
			SenderID:    account,
			SenderNonce: tx.Nonce,
			OracleID:    oracleID,
			Query:       encoding.Encode(encoding.PrefixQueryRaw, []byte(tx.Query)),
			Response:    encoding.Encode(encoding.PrefixResponse, nil),
			TTL:         n.expiry(tx.QueryTTL),
			ResponseTTL: tx.ResponseTTL,
			Fee:         newAmount(tx.QueryFee),
		}
		oracle.queries = append(oracle.queries, id)

	case *txbuilder.OracleResponseTx:
		oracleID := encoding.Encode(encoding.PrefixOracle, tx.OracleKey)
		query, ok := n.queries[encoding.Encode(encoding.PrefixQuery, tx.QueryKey)]
		if !ok || query.OracleID != oracleID {
			return fmt.Errorf("No matching oracle query")
		}
		if encoding.DecodePayload(query.Response) != "" {
			return fmt.Errorf("Oracle query already answered")
		}
		query.Response = encoding.Encode(encoding.PrefixResponse, []byte(tx.Response))
	}

	n.nonces[account] = nonce
	return nil
}

func (n *Network) expiry(ttl types.TTL) uint64 {
	if ttl.Type == types.TTLAbsolute {
		return ttl.Value
	}
	return n.height + ttl.Value
}

func signerOf(tx txbuilder.Tx) []byte {
	switch t := tx.(type) {
	case *txbuilder.OracleRegisterTx:
		return t.AccountKey
	case *txbuilder.OracleQueryTx:
		return t.SenderKey
	case *txbuilder.OracleResponseTx:
		return t.OracleKey
	case *txbuilder.OracleExtendTx:
		return t.OracleKey
	}
	return nil
}

// amount marshals as a bare JSON number like the node does.
type amount struct {
	sdkmath.Int
}

func newAmount(i sdkmath.Int) *amount {
	if i.IsNil() {
		i = sdkmath.ZeroInt()
	}
	return &amount{Int: i}
}

func (b *amount) MarshalJSON() ([]byte, error) {
	return []byte(b.Int.String()), nil
}
