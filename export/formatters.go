package export

import (
	"encoding/csv"
	"encoding/json"
	"io"
)

// CSV renders rows as delimiter-separated values with a header row.
// The zero value uses a comma.
type CSV struct {
	// Comma is the field delimiter; 0 means ','.
	Comma rune
}

// ContentType implements Formatter.
func (c CSV) ContentType() string {
	if c.Comma == '\t' {
		return "text/tab-separated-values"
	}
	return "text/csv"
}

// Format implements Formatter.
func (c CSV) Format(w io.Writer, labels []string, rows [][]string) error {
	cw := csv.NewWriter(w)
	if c.Comma != 0 {
		cw.Comma = c.Comma
	}
	if err := cw.Write(labels); err != nil {
		return err
	}
	if err := cw.WriteAll(rows); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// JSON renders rows as a single object with "labels" and "rows" keys.
type JSON struct{}

// ContentType implements Formatter.
func (JSON) ContentType() string { return "application/json" }

// Format implements Formatter.
func (JSON) Format(w io.Writer, labels []string, rows [][]string) error {
	if rows == nil {
		rows = [][]string{}
	}
	return json.NewEncoder(w).Encode(struct {
		Labels []string   `json:"labels"`
		Rows   [][]string `json:"rows"`
	}{Labels: labels, Rows: rows})
}
