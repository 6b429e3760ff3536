package types

import (
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"cosmossdk.io/math"
)

// OracleOptions carries the optional settings of every oracle command. A nil
// pointer, a nil math.Int or an unset TTL means the chain client chooses.
type OracleOptions struct {
	// TTL is the validity of the transaction in blocks from the current
	// height. 0 means forever.
	TTL *uint64
	// Fee overrides the computed minimum transaction fee, in aettos.
	Fee math.Int
	// Nonce overrides the account nonce taken from the node.
	Nonce *uint64
	// WaitMined blocks until the transaction is included in a block.
	WaitMined bool
	// JSON selects JSON output.
	JSON bool

	// OracleTTL is how long a registered or extended oracle stays alive.
	OracleTTL TTL
	// QueryFee is the fee an oracle charges per query (register) or the fee
	// offered to it (post query).
	QueryFee math.Int
	// QueryTTL is how long a posted query waits for a response.
	QueryTTL TTL
	// ResponseTTL is how long a response stays on chain.
	ResponseTTL TTL
}

// ResolveTTLs resolves every opaque ttl field. The same policy applies to
// oracle, query and response ttls.
func (o OracleOptions) ResolveTTLs() (OracleOptions, error) {
	var err error
	if o.OracleTTL, err = o.OracleTTL.Resolve(); err != nil {
		return o, errorsmod.Wrap(err, "oracleTtl")
	}
	if o.QueryTTL, err = o.QueryTTL.Resolve(); err != nil {
		return o, errorsmod.Wrap(err, "queryTtl")
	}
	if o.ResponseTTL, err = o.ResponseTTL.Resolve(); err != nil {
		return o, errorsmod.Wrap(err, "responseTtl")
	}
	return o, nil
}

// ParseAmount parses an amount in aettos. Empty input yields a nil Int.
func ParseAmount(name, value string) (math.Int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return math.Int{}, nil
	}

	amount, ok := math.NewIntFromString(value)
	if !ok || amount.IsNegative() {
		return math.Int{}, errorsmod.Wrapf(ErrInvalidOptions, "%s must be a non-negative integer, got %q", name, value)
	}
	return amount, nil
}

// ParseUint parses an optional unsigned flag value. Empty input yields nil.
func ParseUint(name, value string) (*uint64, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, nil
	}

	n, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return nil, errorsmod.Wrapf(ErrInvalidOptions, "%s must be a non-negative integer, got %q", name, value)
	}
	return &n, nil
}
