package configfile

import (
	"sort"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// ParseFunc decodes a non-empty document. Syntax failures are reported as
// *LoadError; the loader fills in Format and Source.
type ParseFunc func(data []byte) (any, error)

// Registry maps formats to parsers. Each format may be registered once.
// A Registry is not safe for concurrent registration.
type Registry struct {
	parsers map[Format]ParseFunc
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{parsers: make(map[Format]ParseFunc)}
}

// DefaultRegistry holds the JSON, TOML and YAML parsers.
var DefaultRegistry = newDefaultRegistry()

func newDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(JSON, parseJSON)
	r.MustRegister(TOML, parseTOML)
	r.MustRegister(YAML, parseYAML)
	return r
}

// Register adds p as the parser for f. Pseudo-formats, nil parsers and
// formats that already have a parser are rejected.
func (r *Registry) Register(f Format, p ParseFunc) error {
	switch f {
	case "", Infer, Unknown:
		return errors.Wrapf(errors.ErrInvalidArgument, "cannot register a parser for pseudo-format %q", f)
	}
	if p == nil {
		return errors.Wrapf(errors.ErrInvalidArgument, "parser for %q is nil", f)
	}
	if _, exists := r.parsers[f]; exists {
		return errors.Wrapf(errors.ErrInvalidArgument, "format %q already registered", f)
	}
	r.parsers[f] = p
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(f Format, p ParseFunc) {
	if err := r.Register(f, p); err != nil {
		panic(err)
	}
}

// Lookup returns the parser for f.
func (r *Registry) Lookup(f Format) (ParseFunc, bool) {
	p, ok := r.parsers[f]
	return p, ok
}

// Formats returns the registered formats in sorted order.
func (r *Registry) Formats() []Format {
	out := make([]Format, 0, len(r.parsers))
	for f := range r.parsers {
		out = append(out, f)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
