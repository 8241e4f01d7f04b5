package querystate

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/syssam/qbe/schema"
)

func sampleState() *State {
	return &State{
		Entities: []schema.EntityID{"Shop.Order", "Shop.Customer"},
		Columns: []ColumnRef{
			{Entity: "Shop.Order", Field: "total"},
			{Entity: "Shop.Customer", Field: "name"},
		},
		Criteria: []Criterion{
			{Column: ColumnRef{Entity: "Shop.Order", Field: "total"}, Operator: "gt", Value: "100"},
		},
		Limit:  50,
		SortBy: "total",
	}
}

func TestNewCodec(t *testing.T) {
	t.Parallel()
	_, err := NewCodec(nil)
	require.Error(t, err)

	secret := []byte("s3cret")
	c, err := NewCodec(secret)
	require.NoError(t, err)

	// The codec owns its copy of the secret.
	secret[0] = 'X'
	enc, err := c.Encode(sampleState())
	require.NoError(t, err)
	fresh, err := NewCodec([]byte("s3cret"))
	require.NoError(t, err)
	_, err = fresh.Decode(enc)
	assert.NoError(t, err)
}

func TestCodecRoundtrip(t *testing.T) {
	t.Parallel()
	c, err := NewCodec([]byte("s3cret"))
	require.NoError(t, err)

	want := sampleState()
	enc, err := c.Encode(want)
	require.NoError(t, err)
	// URL-safe without padding.
	assert.NotContains(t, enc, "=")
	assert.NotContains(t, enc, "+")
	assert.NotContains(t, enc, "/")

	got, err := c.Decode(enc)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestDecodeTampered(t *testing.T) {
	t.Parallel()
	c, err := NewCodec([]byte("s3cret"))
	require.NoError(t, err)
	enc, err := c.Encode(sampleState())
	require.NoError(t, err)

	blob, err := base64.RawURLEncoding.DecodeString(enc)
	require.NoError(t, err)
	blob[0] ^= 0xff
	_, err = c.Decode(base64.RawURLEncoding.EncodeToString(blob))
	assert.ErrorIs(t, err, ErrTampered)
}

func TestDecodeWrongSecret(t *testing.T) {
	t.Parallel()
	a, err := NewCodec([]byte("one"))
	require.NoError(t, err)
	b, err := NewCodec([]byte("two"))
	require.NoError(t, err)

	enc, err := a.Encode(sampleState())
	require.NoError(t, err)
	_, err = b.Decode(enc)
	assert.ErrorIs(t, err, ErrTampered)
}

func TestDecodeMalformed(t *testing.T) {
	t.Parallel()
	c, err := NewCodec([]byte("s3cret"))
	require.NoError(t, err)

	// Not base64 at all.
	_, err = c.Decode("!!!not-base64!!!")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTampered)

	// Too short to even carry a trailer.
	short := base64.RawURLEncoding.EncodeToString([]byte("tiny"))
	_, err = c.Decode(short)
	assert.ErrorIs(t, err, ErrTampered)
}

func TestHash(t *testing.T) {
	t.Parallel()
	c, err := NewCodec([]byte("s3cret"))
	require.NoError(t, err)

	h1, err := c.Hash(sampleState())
	require.NoError(t, err)
	h2, err := c.Hash(sampleState())
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64)
	assert.Equal(t, strings.ToLower(h1), h1)

	other := sampleState()
	other.Limit = 51
	h3, err := c.Hash(other)
	require.NoError(t, err)
	assert.NotEqual(t, h1, h3)

	// A different secret keys a different hash space.
	d, err := NewCodec([]byte("other"))
	require.NoError(t, err)
	h4, err := d.Hash(sampleState())
	require.NoError(t, err)
	assert.NotEqual(t, h1, h4)
}
