package export

import (
	"encoding/json"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryDefaults(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	assert.Equal(t, []string{"csv", "json", "tsv"}, r.Formats())

	f, ok := r.Lookup("csv")
	require.True(t, ok)
	assert.Equal(t, "text/csv", f.ContentType())

	f, ok = r.Lookup("tsv")
	require.True(t, ok)
	assert.Equal(t, "text/tab-separated-values", f.ContentType())

	f, ok = r.Lookup("json")
	require.True(t, ok)
	assert.Equal(t, "application/json", f.ContentType())

	_, ok = r.Lookup("xls")
	assert.False(t, ok)
}

type failFormatter struct{}

func (failFormatter) ContentType() string { return "application/x-fail" }
func (failFormatter) Format(io.Writer, []string, [][]string) error {
	return errors.New("boom")
}

func TestRegistryRegister(t *testing.T) {
	t.Parallel()
	r := NewRegistry()
	r.Register("fail", failFormatter{})
	f, ok := r.Lookup("fail")
	require.True(t, ok)
	assert.Equal(t, "application/x-fail", f.ContentType())
	assert.Equal(t, []string{"csv", "fail", "json", "tsv"}, r.Formats())

	// Re-registering replaces.
	r.Register("csv", failFormatter{})
	f, _ = r.Lookup("csv")
	assert.Equal(t, "application/x-fail", f.ContentType())
}

func TestCSVFormat(t *testing.T) {
	t.Parallel()
	labels := []string{"Order", "Customer name"}
	rows := [][]string{
		{"1001", "Ada"},
		{"1002", "Grace, PhD"},
	}

	var buf strings.Builder
	require.NoError(t, CSV{}.Format(&buf, labels, rows))
	assert.Equal(t, "Order,Customer name\n1001,Ada\n1002,\"Grace, PhD\"\n", buf.String())

	buf.Reset()
	require.NoError(t, CSV{Comma: '\t'}.Format(&buf, labels, rows))
	assert.Equal(t, "Order\tCustomer name\n1001\tAda\n1002\tGrace, PhD\n", buf.String())
}

func TestJSONFormat(t *testing.T) {
	t.Parallel()
	var buf strings.Builder
	require.NoError(t, JSON{}.Format(&buf, []string{"a", "b"}, [][]string{{"1", "2"}}))

	var got struct {
		Labels []string   `json:"labels"`
		Rows   [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(buf.String()), &got))
	assert.Equal(t, []string{"a", "b"}, got.Labels)
	assert.Equal(t, [][]string{{"1", "2"}}, got.Rows)
}

func TestJSONFormatEmptyRows(t *testing.T) {
	t.Parallel()
	var buf strings.Builder
	require.NoError(t, JSON{}.Format(&buf, []string{"a"}, nil))
	// No rows still renders an array, never null.
	assert.JSONEq(t, `{"labels":["a"],"rows":[]}`, buf.String())
}
