package aggregate

import (
	"context"
	"fmt"

	"github.com/thoreinstein/groundwork/internal/configfile"
	"github.com/thoreinstein/groundwork/internal/deepmerge"
	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/internal/logging"
)

// Builder supplies the defaults a run starts from and turns a merged
// mapping into settings, validating them on the way.
type Builder[T any] interface {
	Defaults() map[string]any
	Build(m map[string]any) (T, error)
}

// Overlayer is implemented by builders that apply values of their own on
// top of the merged mapping when building, such as command-line flags.
// Result.Merged then carries those values as well.
type Overlayer interface {
	Overlay(m map[string]any) map[string]any
}

// LoadFunc reads one source into a mapping.
type LoadFunc func(source string) (map[string]any, error)

// Stage is the step of a run at which a source failed.
type Stage string

// Stages of processing a source.
const (
	StageLoad     Stage = "load"
	StageMerge    Stage = "merge"
	StageValidate Stage = "validate"
)

// SourceError reports the source that aborted a run.
type SourceError struct {
	// Index of the source in the list given to Run.
	Index int
	// Source as given to Run.
	Source string
	Stage  Stage
	Err    error
}

func (e *SourceError) Error() string {
	return fmt.Sprintf("config source %d (%s): %s: %v", e.Index+1, e.Source, e.Stage, e.Err)
}

func (e *SourceError) Unwrap() error {
	return e.Err
}

// Result is the outcome of a successful run.
type Result[T any] struct {
	// Settings built from the final mapping.
	Settings T
	// Merged is the final mapping: the defaults with every source applied
	// and, when the builder is an Overlayer, its overlay on top.
	Merged map[string]any
	// Sources lists the sources that were applied, in order.
	Sources []string
}

// Option configures an Aggregator.
type Option func(*options)

type options struct {
	load     LoadFunc
	maxDepth int
}

// WithLoader replaces the function used to read sources. The default
// detects the format from the file suffix.
func WithLoader(fn LoadFunc) Option {
	return func(o *options) {
		o.load = fn
	}
}

// WithMaxDepth bounds how deeply nested a source may be.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

// Aggregator merges config sources on top of a Builder's defaults.
// An Aggregator holds no state between runs and is safe for concurrent use.
type Aggregator[T any] struct {
	builder Builder[T]
	opts    options
}

// New returns an Aggregator for b.
func New[T any](b Builder[T], opts ...Option) *Aggregator[T] {
	o := options{
		load: func(source string) (map[string]any, error) {
			return configfile.Load(source, configfile.Infer)
		},
		maxDepth: deepmerge.DefaultMaxDepth,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return &Aggregator[T]{builder: b, opts: o}
}

// Run applies sources in order over the builder's defaults. With no
// sources the defaults alone are built.
//
// Settings are rebuilt after every source so that the error names the first
// source that made the configuration invalid. Cancelling ctx stops the run
// between sources.
func (a *Aggregator[T]) Run(ctx context.Context, sources []string) (*Result[T], error) {
	logger := logging.FromContext(ctx)

	merged := deepmerge.Clone(a.builder.Defaults())
	if merged == nil {
		merged = map[string]any{}
	}

	settings, err := a.builder.Build(merged)
	if err != nil {
		return nil, errors.Wrap(err, "building defaults")
	}

	for i, source := range sources {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrap(err, "aggregating config")
		}

		logger.Debug("loading config source", "index", i, "source", source)
		data, err := a.opts.load(source)
		if err != nil {
			return nil, &SourceError{Index: i, Source: source, Stage: StageLoad, Err: err}
		}

		if err := deepmerge.Merge(merged, data, deepmerge.WithMaxDepth(a.opts.maxDepth)); err != nil {
			return nil, &SourceError{Index: i, Source: source, Stage: StageMerge, Err: err}
		}
		logger.Debug("merged config source", "index", i, "source", source, "keys", len(data))

		settings, err = a.builder.Build(merged)
		if err != nil {
			return nil, &SourceError{Index: i, Source: source, Stage: StageValidate, Err: err}
		}
	}

	if o, ok := a.builder.(Overlayer); ok {
		merged = o.Overlay(merged)
	}

	logger.Debug("config aggregated", "sources", len(sources))
	return &Result[T]{
		Settings: settings,
		Merged:   merged,
		Sources:  append([]string(nil), sources...),
	}, nil
}
