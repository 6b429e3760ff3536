package types

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	errorsmod "cosmossdk.io/errors"
	"github.com/spf13/cast"
)

// TTLType tags the variant held by a TTL.
type TTLType uint8

const (
	// TTLUnset lets the chain client pick its default.
	TTLUnset TTLType = iota
	// TTLRelative counts blocks from the current height ("delta" on chain).
	TTLRelative
	// TTLAbsolute is a fixed block height ("block" on chain).
	TTLAbsolute
	// TTLOpaque is user input that is not a plain number. It must be
	// resolved into one of the variants above before use.
	TTLOpaque
)

// Wire names of the two concrete ttl types.
const (
	ttlNameDelta = "delta"
	ttlNameBlock = "block"
)

// TTL is a tagged union over the ways a ttl can be given.
type TTL struct {
	Type  TTLType
	Value uint64
	Raw   string
}

func RelativeTTL(blocks uint64) TTL {
	return TTL{Type: TTLRelative, Value: blocks}
}

func AbsoluteTTL(height uint64) TTL {
	return TTL{Type: TTLAbsolute, Value: height}
}

func OpaqueTTL(raw string) TTL {
	return TTL{Type: TTLOpaque, Raw: raw}
}

// NormalizeOracleTTL turns a command line value into a TTL. Plain unsigned
// integers become relative ttls, empty input is unset and anything else is
// kept verbatim as an opaque value. It never fails.
func NormalizeOracleTTL(raw any) TTL {
	if raw == nil {
		return TTL{}
	}

	s, err := cast.ToStringE(raw)
	if err != nil {
		return OpaqueTTL(fmt.Sprint(raw))
	}
	if strings.TrimSpace(s) == "" {
		return TTL{}
	}

	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return OpaqueTTL(s)
	}
	return RelativeTTL(n)
}

// IsSet reports whether a value was supplied.
func (t TTL) IsSet() bool {
	return t.Type != TTLUnset
}

// IsNumeric reports whether the ttl came from a plain number.
func (t TTL) IsNumeric() bool {
	return t.Type == TTLRelative
}

// Resolve interprets an opaque ttl as a pre-built descriptor. Accepted forms
// are "delta:N", "relative:N", "block:N", "absolute:N" and the JSON object
// {"type": "delta"|"block", "value": N}. Other variants are returned as is.
func (t TTL) Resolve() (TTL, error) {
	if t.Type != TTLOpaque {
		return t, nil
	}

	raw := strings.TrimSpace(t.Raw)
	if strings.HasPrefix(raw, "{") {
		var resolved TTL
		if err := json.Unmarshal([]byte(raw), &resolved); err != nil || !resolved.IsSet() {
			return TTL{}, errorsmod.Wrapf(ErrInvalidTtl, "cannot interpret %q as a ttl", t.Raw)
		}
		return resolved, nil
	}

	kind, value, ok := strings.Cut(raw, ":")
	if !ok {
		return TTL{}, errorsmod.Wrapf(ErrInvalidTtl, "cannot interpret %q as a ttl", t.Raw)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 64)
	if err != nil {
		return TTL{}, errorsmod.Wrapf(ErrInvalidTtl, "ttl value %q is not a number", value)
	}

	switch strings.ToLower(strings.TrimSpace(kind)) {
	case ttlNameDelta, "relative":
		return RelativeTTL(n), nil
	case ttlNameBlock, "absolute":
		return AbsoluteTTL(n), nil
	default:
		return TTL{}, errorsmod.Wrapf(ErrInvalidTtl, "unknown ttl type %q", kind)
	}
}

// Or returns t when set, otherwise def.
func (t TTL) Or(def TTL) TTL {
	if t.IsSet() {
		return t
	}
	return def
}

// WireType is the numeric ttl type used in serialized transactions.
func (t TTL) WireType() uint64 {
	if t.Type == TTLAbsolute {
		return 1
	}
	return 0
}

// RelativeTo converts the ttl to a number of blocks counted from height.
func (t TTL) RelativeTo(height uint64) uint64 {
	if t.Type == TTLAbsolute {
		if t.Value <= height {
			return 0
		}
		return t.Value - height
	}
	return t.Value
}

func (t TTL) String() string {
	switch t.Type {
	case TTLRelative:
		return fmt.Sprintf("%s %d", ttlNameDelta, t.Value)
	case TTLAbsolute:
		return fmt.Sprintf("%s %d", ttlNameBlock, t.Value)
	case TTLOpaque:
		return t.Raw
	default:
		return ""
	}
}

type ttlDescriptor struct {
	Type  string `json:"type"`
	Value uint64 `json:"value"`
}

func (t TTL) MarshalJSON() ([]byte, error) {
	switch t.Type {
	case TTLRelative:
		return json.Marshal(ttlDescriptor{Type: ttlNameDelta, Value: t.Value})
	case TTLAbsolute:
		return json.Marshal(ttlDescriptor{Type: ttlNameBlock, Value: t.Value})
	case TTLOpaque:
		return json.Marshal(t.Raw)
	default:
		return []byte("null"), nil
	}
}

func (t *TTL) UnmarshalJSON(bz []byte) error {
	if string(bz) == "null" {
		*t = TTL{}
		return nil
	}

	var d ttlDescriptor
	if err := json.Unmarshal(bz, &d); err != nil {
		return err
	}
	switch d.Type {
	case ttlNameDelta, "relative":
		*t = RelativeTTL(d.Value)
	case ttlNameBlock, "absolute":
		*t = AbsoluteTTL(d.Value)
	default:
		return fmt.Errorf("unknown ttl type %q", d.Type)
	}
	return nil
}
