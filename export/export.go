// Package export renders labeled result rows into interchange formats.
// The Registry is an injected dependency: every consumer constructs (or
// receives) its own, so there is no process-wide mutable format table.
package export

import (
	"io"
	"sort"
	"sync"
)

// Formatter renders a labeled row set to a writer.
type Formatter interface {
	// ContentType returns the MIME type of the rendered output.
	ContentType() string
	// Format writes the rows, preceded by the labels where the format
	// has a header concept.
	Format(w io.Writer, labels []string, rows [][]string) error
}

// Registry maps format names to formatters.
type Registry struct {
	mu         sync.RWMutex
	formatters map[string]Formatter
}

// NewRegistry returns a registry seeded with the built-in formats:
// csv, tsv and json.
func NewRegistry() *Registry {
	r := &Registry{formatters: make(map[string]Formatter)}
	r.Register("csv", CSV{})
	r.Register("tsv", CSV{Comma: '\t'})
	r.Register("json", JSON{})
	return r
}

// Register adds (or replaces) a named formatter.
func (r *Registry) Register(name string, f Formatter) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.formatters[name] = f
}

// Lookup returns the named formatter. An unknown name returns ok false;
// callers fall back (e.g. redirect) rather than fail hard.
func (r *Registry) Lookup(name string) (Formatter, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	f, ok := r.formatters[name]
	return f, ok
}

// Formats returns the registered format names, sorted.
func (r *Registry) Formats() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]string, 0, len(r.formatters))
	for name := range r.formatters {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
