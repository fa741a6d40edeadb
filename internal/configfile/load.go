package configfile

import (
	"bytes"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/pkg/fileutil"
)

type options struct {
	registry *Registry
	maxSize  int64
}

// Option configures a load.
type Option func(*options)

// WithRegistry loads with the parsers in r instead of DefaultRegistry.
func WithRegistry(r *Registry) Option {
	return func(o *options) {
		o.registry = r
	}
}

// WithMaxSize caps the bytes read from a source. Larger documents fail
// with fileutil.ErrFileTooLarge. The default is fileutil.DefaultMaxSize.
func WithMaxSize(n int64) Option {
	return func(o *options) {
		o.maxSize = n
	}
}

func newOptions(opts []Option) options {
	o := options{registry: DefaultRegistry, maxSize: fileutil.DefaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Source describes one config document: a file path or an open reader,
// with the format to parse it as.
type Source struct {
	// Path is the file to read. Ignored when Reader is set.
	Path string
	// Reader supplies the document content. It is read to the end and
	// never closed.
	Reader io.Reader
	// Format of the document. The zero value behaves like Infer.
	Format Format
}

// Name returns the path, or the reader's name when it has one.
func (s Source) Name() string {
	if s.Reader != nil {
		return readerName(s.Reader)
	}
	return s.Path
}

// Load parses the source into a mapping.
func (s Source) Load(opts ...Option) (map[string]any, error) {
	if s.Reader != nil {
		return LoadReader(s.Reader, s.Format, opts...)
	}
	return Load(s.Path, s.Format, opts...)
}

// Load reads the file at path and parses it into a mapping.
//
// With format Infer the format is detected from the file suffix. Errors
// match errors.ErrUnsupportedFormat, errors.ErrNotFound,
// errors.ErrIsDirectory or errors.ErrMalformed (as a *LoadError).
func Load(path string, format Format, opts ...Option) (map[string]any, error) {
	o := newOptions(opts)

	resolved, err := resolve(format, path)
	if err != nil {
		return nil, err
	}
	parse, err := lookup(o.registry, resolved)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, errors.Mark(errors.Wrapf(err, "config file %s", path), errors.ErrNotFound)
		}
		return nil, errors.Wrapf(err, "config file %s", path)
	}
	if info.IsDir() {
		return nil, errors.Wrapf(errors.ErrIsDirectory, "config file %s", path)
	}

	data, err := fileutil.ReadFile(path, o.maxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config file %s", path)
	}

	return decode(parse, data, resolved, path)
}

// LoadReader parses the remaining content of r into a mapping. The reader
// is left at end of content and is not closed; rewinding it for reuse is
// the caller's business.
//
// With format Infer the format is detected from r's Name method (as on
// *os.File); readers without a name need an explicit format.
func LoadReader(r io.Reader, format Format, opts ...Option) (map[string]any, error) {
	if r == nil {
		return nil, errors.Wrap(errors.ErrInvalidArgument, "reader is nil")
	}
	o := newOptions(opts)

	name := readerName(r)
	resolved, err := resolve(format, name)
	if err != nil {
		return nil, err
	}
	parse, err := lookup(o.registry, resolved)
	if err != nil {
		return nil, err
	}

	data, err := fileutil.Read(r, o.maxSize)
	if err != nil {
		return nil, errors.Wrapf(err, "reading config stream %s", displayName(name))
	}

	return decode(parse, data, resolved, name)
}

func lookup(r *Registry, f Format) (ParseFunc, error) {
	parse, ok := r.Lookup(f)
	if !ok {
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "no parser registered for %q", f)
	}
	return parse, nil
}

// decode runs parse over data and checks the result is a mapping.
// Blank documents decode to an empty mapping.
func decode(parse ParseFunc, data []byte, format Format, name string) (map[string]any, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return map[string]any{}, nil
	}

	doc, err := parse(data)
	if err != nil {
		var loadErr *LoadError
		if errors.As(err, &loadErr) {
			loadErr.Format = format
			loadErr.Source = name
			return nil, loadErr
		}
		return nil, errors.Wrapf(err, "parsing %s config %s", format, displayName(name))
	}

	switch root := normalize(doc).(type) {
	case nil:
		return map[string]any{}, nil
	case map[string]any:
		return root, nil
	default:
		return nil, errors.Wrapf(errors.ErrInvalidArgument,
			"%s config %s: document root is %s, want a mapping", format, displayName(name), kindOf(root))
	}
}

func readerName(r io.Reader) string {
	if n, ok := r.(interface{ Name() string }); ok {
		return n.Name()
	}
	return ""
}

func displayName(name string) string {
	if name == "" {
		return "<stream>"
	}
	return name
}

func kindOf(v any) string {
	switch v.(type) {
	case []any:
		return "a sequence"
	case string:
		return "a string"
	case bool:
		return "a boolean"
	case int64, float64, uint64:
		return "a number"
	default:
		return fmt.Sprintf("a %T", v)
	}
}
