package sheet

import (
	"fmt"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Registry holds codecs by format name.
type Registry struct {
	codecs map[string]Codec
}

// NewRegistry creates an empty codec registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Codec)}
}

// Register adds a codec. Panics on duplicate format.
func (r *Registry) Register(c Codec) {
	key := strings.ToLower(c.Format())
	if _, ok := r.codecs[key]; ok {
		panic("duplicate workbook format: " + key)
	}
	r.codecs[key] = c
}

// Get returns the codec for format, or nil.
func (r *Registry) Get(format string) Codec {
	return r.codecs[strings.ToLower(format)]
}

// Formats lists the registered format names.
func (r *Registry) Formats() []string {
	return slices.Sorted(maps.Keys(r.codecs))
}

// Detect picks a codec for path from its extension. Existing directories and
// paths without an extension use the csv codec.
func (r *Registry) Detect(path string) (Codec, error) {
	format := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		format = FormatCSV
	}
	if format == "" {
		format = FormatCSV
	}
	c := r.Get(format)
	if c == nil {
		return nil, fmt.Errorf("%w: %s (supported: %s)", ErrUnknownFormat, path, strings.Join(r.Formats(), ", "))
	}
	return c, nil
}

// DefaultRegistry returns a registry with all built-in codecs.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&XLSXCodec{})
	r.Register(&CSVCodec{})
	return r
}
