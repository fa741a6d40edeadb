package deepmerge

import (
	"fmt"
	"reflect"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// DefaultMaxDepth is the nesting bound used when no WithMaxDepth option is given.
const DefaultMaxDepth = 100

type options struct {
	maxDepth int
}

// Option configures a merge.
type Option func(*options)

// WithMaxDepth sets the deepest container level a source may contain.
// The top-level source mapping is level 0; each nested mapping, sequence
// or set adds one.
func WithMaxDepth(n int) Option {
	return func(o *options) {
		o.maxDepth = n
	}
}

func newOptions(opts []Option) options {
	o := options{maxDepth: DefaultMaxDepth}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Merge merges source into target in place.
//
// It returns an error wrapping ErrInvalidArgument when either mapping is nil
// and ErrRecursionExceeded when source is nested deeper than the configured
// bound. In both cases target is left unmodified.
func Merge(target, source map[string]any, opts ...Option) error {
	if target == nil {
		return errors.Wrap(errors.ErrInvalidArgument, "merge target must be a non-nil mapping")
	}
	if source == nil {
		return errors.Wrap(errors.ErrInvalidArgument, "merge source must be a non-nil mapping")
	}

	o := newOptions(opts)
	if err := checkDepth(source, "", 0, o.maxDepth); err != nil {
		return err
	}

	mergeMap(target, source)
	return nil
}

// MergeAll merges each source into target from left to right, so later
// sources win. It stops at the first failing source; sources before it
// remain applied.
func MergeAll(target map[string]any, sources []map[string]any, opts ...Option) error {
	for i, src := range sources {
		if err := Merge(target, src, opts...); err != nil {
			return errors.Wrapf(err, "merging source %d", i)
		}
	}
	return nil
}

// Clone returns a deep copy of m. Nested mappings, sequences and sets are
// copied; scalars are copied by value. A nil mapping clones to nil.
func Clone(m map[string]any) map[string]any {
	if m == nil {
		return nil
	}
	return copyMap(m)
}

// IsMapping reports whether v is a mapping the engine merges recursively.
// Any Go map other than a Set counts; keys are compared by their string
// form.
func IsMapping(v any) bool {
	_, ok := mapping(v)
	return ok
}

// IsSequence reports whether v is a sequence the engine concatenates.
// Byte slices are treated as scalars.
func IsSequence(v any) bool {
	_, ok := sequence(v)
	return ok
}

func mergeMap(target, source map[string]any) {
	for key, value := range source {
		existing, present := target[key]
		if !present {
			target[key] = copyValue(value)
			continue
		}

		if src, ok := value.(Set); ok {
			if dst, ok := existing.(Set); ok {
				dst.Union(src)
			} else {
				target[key] = src.Clone()
			}
			continue
		}

		if src, ok := mapping(value); ok {
			if dst, ok := mapping(existing); ok {
				if dst == nil {
					dst = map[string]any{}
				}
				// A converted target mapping replaces the original.
				target[key] = dst
				mergeMap(dst, src)
			} else {
				target[key] = copyMap(src)
			}
			continue
		}

		if srcSeq, ok := sequence(value); ok {
			if dstSeq, ok := sequence(existing); ok {
				target[key] = concat(dstSeq, srcSeq)
			} else {
				target[key] = copyValue(value)
			}
			continue
		}

		// Scalars overwrite regardless of the target's type.
		target[key] = value
	}
}

// checkDepth walks v and fails when a container sits deeper than limit.
// level is the level of v itself.
func checkDepth(v any, path string, level, limit int) error {
	if _, ok := v.(Set); ok {
		if level > limit {
			return depthError(path, level, limit)
		}
		return nil
	}

	if m, ok := mapping(v); ok {
		if level > limit {
			return depthError(path, level, limit)
		}
		for k, child := range m {
			if err := checkDepth(child, joinPath(path, k), level+1, limit); err != nil {
				return err
			}
		}
		return nil
	}

	seq, ok := sequence(v)
	if !ok {
		return nil
	}
	if level > limit {
		return depthError(path, level, limit)
	}
	for i, child := range seq {
		if err := checkDepth(child, indexPath(path, i), level+1, limit); err != nil {
			return err
		}
	}
	return nil
}

func depthError(path string, level, limit int) error {
	return errors.Wrapf(errors.ErrRecursionExceeded, "%s is nested %d levels deep (limit %d)", displayPath(path), level, limit)
}

func copyValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		return copyMap(val)
	case Set:
		return val.Clone()
	case []any:
		return copySlice(val)
	case []byte:
		return append([]byte(nil), val...)
	}

	if m, ok := mapping(v); ok {
		return copyMap(m)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Slice && !rv.IsNil() {
		out := reflect.MakeSlice(rv.Type(), rv.Len(), rv.Len())
		for i := range rv.Len() {
			elem := copyValue(rv.Index(i).Interface())
			if elem == nil {
				continue
			}
			out.Index(i).Set(reflect.ValueOf(elem))
		}
		return out.Interface()
	}
	return v
}

func copyMap(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[k] = copyValue(v)
	}
	return out
}

func copySlice(s []any) []any {
	if s == nil {
		return nil
	}
	out := make([]any, len(s))
	for i, v := range s {
		out[i] = copyValue(v)
	}
	return out
}

// concat returns a new sequence holding dst followed by a copy of src.
// A fresh backing array keeps other holders of dst unaffected.
func concat(dst, src []any) []any {
	out := make([]any, 0, len(dst)+len(src))
	out = append(out, dst...)
	for _, v := range src {
		out = append(out, copyValue(v))
	}
	return out
}

// mapping views v as map[string]any when it is any map other than a Set.
// Maps of other types are converted, with keys in their fmt.Sprint form.
func mapping(v any) (map[string]any, bool) {
	switch val := v.(type) {
	case nil, Set:
		return nil, false
	case map[string]any:
		return val, true
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Map {
		return nil, false
	}
	out := make(map[string]any, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		out[fmt.Sprint(iter.Key().Interface())] = iter.Value().Interface()
	}
	return out, true
}

// sequence views v as []any when it is any slice or array other than []byte.
func sequence(v any) ([]any, bool) {
	switch val := v.(type) {
	case nil, []byte, string:
		return nil, false
	case []any:
		return val, true
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := range rv.Len() {
			out[i] = rv.Index(i).Interface()
		}
		return out, true
	default:
		return nil, false
	}
}
