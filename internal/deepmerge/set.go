package deepmerge

import (
	"fmt"
	"sort"
)

// Set is an unordered collection of comparable values. Sets merge by union.
type Set map[any]struct{}

// NewSet returns a set holding items.
func NewSet(items ...any) Set {
	s := make(Set, len(items))
	for _, it := range items {
		s.Add(it)
	}
	return s
}

// Add inserts v into the set.
func (s Set) Add(v any) {
	s[v] = struct{}{}
}

// Has reports whether v is a member.
func (s Set) Has(v any) bool {
	_, ok := s[v]
	return ok
}

// Len returns the number of members.
func (s Set) Len() int {
	return len(s)
}

// Union adds every member of other to s.
func (s Set) Union(other Set) {
	for v := range other {
		s[v] = struct{}{}
	}
}

// Clone returns a shallow copy. Members are comparable scalars, so a shallow
// copy is a full copy.
func (s Set) Clone() Set {
	out := make(Set, len(s))
	out.Union(s)
	return out
}

// Sorted returns the members ordered by their formatted representation.
// It gives sets a deterministic form for output and encoding.
func (s Set) Sorted() []any {
	items := make([]any, 0, len(s))
	for v := range s {
		items = append(items, v)
	}
	sort.Slice(items, func(i, j int) bool {
		return fmt.Sprint(items[i]) < fmt.Sprint(items[j])
	})
	return items
}
