// Package querystate serializes user-submitted query state for
// bookmarks and cross-request handoff. The encoded form carries a
// msgpack body followed by an HMAC-SHA256 trailer keyed on a
// caller-supplied secret, so tampered payloads are rejected before
// decoding.
package querystate

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/syssam/qbe/schema"
)

// ErrTampered indicates an encoded state whose tamper check failed.
// The payload was modified or signed with a different secret.
var ErrTampered = errors.New("qbe: query state failed its tamper check")

// ColumnRef addresses a single entity field.
type ColumnRef struct {
	Entity schema.EntityID `msgpack:"entity"`
	Field  string          `msgpack:"field"`
}

// Criterion is one user-supplied filter row.
type Criterion struct {
	Column   ColumnRef `msgpack:"column"`
	Operator string    `msgpack:"operator"`
	Value    string    `msgpack:"value"`
}

// State is the submitted query-by-example state: the selected entities,
// the output columns, and the filter criteria. The core never interprets
// it; it only round-trips through the codec.
type State struct {
	Entities []schema.EntityID `msgpack:"entities"`
	Columns  []ColumnRef       `msgpack:"columns,omitempty"`
	Criteria []Criterion       `msgpack:"criteria,omitempty"`
	Limit    int               `msgpack:"limit,omitempty"`
	SortBy   string            `msgpack:"sort_by,omitempty"`
}

// Codec encodes and decodes State values under a fixed secret.
type Codec struct {
	secret []byte
}

// NewCodec returns a codec keyed on secret.
func NewCodec(secret []byte) (*Codec, error) {
	if len(secret) == 0 {
		return nil, errors.New("qbe: query state codec requires a non-empty secret")
	}
	c := &Codec{secret: make([]byte, len(secret))}
	copy(c.secret, secret)
	return c, nil
}

// Encode serializes the state and appends its authentication trailer.
// The result is URL-safe base64 without padding, so no transport-level
// character fixups are ever needed.
func (c *Codec) Encode(s *State) (string, error) {
	body, err := msgpack.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("qbe: encoding query state: %w", err)
	}
	blob := append(body, c.sign(body)...)
	return base64.RawURLEncoding.EncodeToString(blob), nil
}

// Decode verifies and deserializes an encoded state. ErrTampered is
// returned when the trailer does not match the body under the codec's
// secret; any other failure is a malformed payload.
func (c *Codec) Decode(encoded string) (*State, error) {
	blob, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("qbe: decoding query state: %w", err)
	}
	if len(blob) < sha256.Size {
		return nil, ErrTampered
	}
	body, mac := blob[:len(blob)-sha256.Size], blob[len(blob)-sha256.Size:]
	if !hmac.Equal(mac, c.sign(body)) {
		return nil, ErrTampered
	}
	var s State
	if err := msgpack.Unmarshal(body, &s); err != nil {
		return nil, fmt.Errorf("qbe: decoding query state: %w", err)
	}
	return &s, nil
}

// Hash returns a stable hex key for the state, suitable for session or
// bookmark keys ("qbe_query_<hash>" style).
func (c *Codec) Hash(s *State) (string, error) {
	body, err := msgpack.Marshal(s)
	if err != nil {
		return "", fmt.Errorf("qbe: hashing query state: %w", err)
	}
	sum := sha256.Sum256(append(body, c.secret...))
	return hex.EncodeToString(sum[:]), nil
}

func (c *Codec) sign(body []byte) []byte {
	m := hmac.New(sha256.New, c.secret)
	m.Write(body)
	return m.Sum(nil)
}
