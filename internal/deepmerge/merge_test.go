package deepmerge

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/thoreinstein/groundwork/internal/errors"
)

func TestMerge_Policy(t *testing.T) {
	tests := []struct {
		name   string
		target map[string]any
		source map[string]any
		want   map[string]any
	}{
		{
			name:   "new key is copied",
			target: map[string]any{"a": 1},
			source: map[string]any{"b": map[string]any{"c": 2}},
			want:   map[string]any{"a": 1, "b": map[string]any{"c": 2}},
		},
		{
			name:   "lists concatenate in order",
			target: map[string]any{"k": []any{1, 2}},
			source: map[string]any{"k": []any{3, 4}},
			want:   map[string]any{"k": []any{1, 2, 3, 4}},
		},
		{
			name:   "list replaces non-list target",
			target: map[string]any{"k": "scalar"},
			source: map[string]any{"k": []any{"x"}},
			want:   map[string]any{"k": []any{"x"}},
		},
		{
			name:   "typed slices concatenate",
			target: map[string]any{"tags": []string{"a"}},
			source: map[string]any{"tags": []any{"b"}},
			want:   map[string]any{"tags": []any{"a", "b"}},
		},
		{
			name:   "sets union",
			target: map[string]any{"s": NewSet("a", "b")},
			source: map[string]any{"s": NewSet("b", "c")},
			want:   map[string]any{"s": NewSet("a", "b", "c")},
		},
		{
			name:   "set replaces non-set target",
			target: map[string]any{"s": []any{"a"}},
			source: map[string]any{"s": NewSet("z")},
			want:   map[string]any{"s": NewSet("z")},
		},
		{
			name:   "mappings recurse",
			target: map[string]any{"db": map[string]any{"host": "localhost", "port": 5432}},
			source: map[string]any{"db": map[string]any{"port": 6543}},
			want:   map[string]any{"db": map[string]any{"host": "localhost", "port": 6543}},
		},
		{
			name:   "mapping replaces scalar target",
			target: map[string]any{"db": "sqlite"},
			source: map[string]any{"db": map[string]any{"host": "h"}},
			want:   map[string]any{"db": map[string]any{"host": "h"}},
		},
		{
			name:   "scalar overwrites mapping",
			target: map[string]any{"db": map[string]any{"host": "h"}},
			source: map[string]any{"db": "sqlite"},
			want:   map[string]any{"db": "sqlite"},
		},
		{
			name:   "nil overwrites",
			target: map[string]any{"a": 1},
			source: map[string]any{"a": nil},
			want:   map[string]any{"a": nil},
		},
		{
			name:   "scalar overwrites list",
			target: map[string]any{"a": []any{1}},
			source: map[string]any{"a": false},
			want:   map[string]any{"a": false},
		},
		{
			name:   "typed mappings recurse",
			target: map[string]any{"env": map[string]any{"keep": "x"}},
			source: map[string]any{"env": map[string]string{"add": "y"}},
			want:   map[string]any{"env": map[string]any{"keep": "x", "add": "y"}},
		},
		{
			name:   "typed target mapping is converted and merged",
			target: map[string]any{"env": map[string]string{"keep": "x"}},
			source: map[string]any{"env": map[string]any{"add": "y"}},
			want:   map[string]any{"env": map[string]any{"keep": "x", "add": "y"}},
		},
		{
			name:   "non-string keys take their string form",
			target: map[string]any{"codes": map[string]any{"200": "ok"}},
			source: map[string]any{"codes": map[any]any{404: "missing"}},
			want:   map[string]any{"codes": map[string]any{"200": "ok", "404": "missing"}},
		},
		{
			name:   "set does not merge into a mapping",
			target: map[string]any{"s": map[string]any{"a": nil}},
			source: map[string]any{"s": NewSet("b")},
			want:   map[string]any{"s": NewSet("b")},
		},
		{
			name:   "empty source is a no-op",
			target: map[string]any{"a": 1},
			source: map[string]any{},
			want:   map[string]any{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := Merge(tt.target, tt.source); err != nil {
				t.Fatalf("Merge() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, tt.target); diff != "" {
				t.Errorf("Merge() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_InvalidArgument(t *testing.T) {
	if err := Merge(nil, map[string]any{"a": 1}); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("Merge(nil, m) error = %v, want ErrInvalidArgument", err)
	}
	if err := Merge(map[string]any{}, nil); !errors.Is(err, errors.ErrInvalidArgument) {
		t.Errorf("Merge(m, nil) error = %v, want ErrInvalidArgument", err)
	}
}

func TestMerge_NewKeyIsolation(t *testing.T) {
	nested := []any{"x"}
	inner := map[string]any{"k": "v"}
	typed := map[string]string{"k": "v"}
	source := map[string]any{"list": nested, "map": inner, "typed": typed, "set": NewSet(1)}
	target := map[string]any{}

	if err := Merge(target, source); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	nested[0] = "mutated"
	inner["k"] = "mutated"
	typed["k"] = "mutated"
	source["set"].(Set).Add(2)

	want := map[string]any{
		"list":  []any{"x"},
		"map":   map[string]any{"k": "v"},
		"typed": map[string]any{"k": "v"},
		"set":   NewSet(1),
	}
	if diff := cmp.Diff(want, target); diff != "" {
		t.Errorf("target changed with the source (-want +got):\n%s", diff)
	}
}

func TestMerge_ConcatDoesNotAliasTarget(t *testing.T) {
	backing := make([]any, 1, 4)
	backing[0] = "a"
	target := map[string]any{"k": backing}
	other := map[string]any{"k": backing}

	if err := Merge(target, map[string]any{"k": []any{"b"}}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	if diff := cmp.Diff([]any{"a", "b"}, target["k"]); diff != "" {
		t.Errorf("target mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]any{"a"}, other["k"]); diff != "" {
		t.Errorf("other holder of the backing array changed (-want +got):\n%s", diff)
	}
}

func TestMerge_RecursionBound(t *testing.T) {
	tests := []struct {
		name    string
		limit   int
		depth   int
		wantErr bool
	}{
		{"flat source", 0, 0, false},
		{"at bound", 3, 3, false},
		{"one past bound", 3, 4, true},
		{"default bound", DefaultMaxDepth, DefaultMaxDepth, false},
		{"past default bound", DefaultMaxDepth, DefaultMaxDepth + 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := map[string]any{"keep": "me"}
			err := Merge(target, nested(tt.depth), WithMaxDepth(tt.limit))
			if !tt.wantErr {
				if err != nil {
					t.Fatalf("Merge() error = %v", err)
				}
				return
			}
			if !errors.Is(err, errors.ErrRecursionExceeded) {
				t.Fatalf("Merge() error = %v, want ErrRecursionExceeded", err)
			}
			if diff := cmp.Diff(map[string]any{"keep": "me"}, target); diff != "" {
				t.Errorf("failed merge touched the target (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMerge_RecursionBoundCountsSequences(t *testing.T) {
	source := map[string]any{"a": []any{[]any{[]any{}}}}

	if err := Merge(map[string]any{}, source, WithMaxDepth(3)); err != nil {
		t.Errorf("Merge() at the bound error = %v", err)
	}
	if err := Merge(map[string]any{}, source, WithMaxDepth(2)); !errors.Is(err, errors.ErrRecursionExceeded) {
		t.Errorf("Merge() past the bound error = %v, want ErrRecursionExceeded", err)
	}
}

func TestMerge_RecursionBoundCountsTypedMappings(t *testing.T) {
	source := map[string]any{"a": map[string]map[string]int{"b": {"c": 1}}}

	if err := Merge(map[string]any{}, source, WithMaxDepth(2)); err != nil {
		t.Errorf("Merge() at the bound error = %v", err)
	}
	if err := Merge(map[string]any{}, source, WithMaxDepth(1)); !errors.Is(err, errors.ErrRecursionExceeded) {
		t.Errorf("Merge() past the bound error = %v, want ErrRecursionExceeded", err)
	}
}

func TestMerge_SelfReferenceHitsBound(t *testing.T) {
	cyclic := map[string]any{}
	cyclic["self"] = cyclic

	if err := Merge(map[string]any{}, cyclic); !errors.Is(err, errors.ErrRecursionExceeded) {
		t.Errorf("Merge() error = %v, want ErrRecursionExceeded", err)
	}
}

func TestMergeAll_LastWins(t *testing.T) {
	target := map[string]any{"port": 80, "tags": []any{"base"}}
	sources := []map[string]any{
		{"port": 1111, "tags": []any{"one"}},
		{"port": 2222, "tags": []any{"two"}},
	}

	if err := MergeAll(target, sources); err != nil {
		t.Fatalf("MergeAll() error = %v", err)
	}
	want := map[string]any{"port": 2222, "tags": []any{"base", "one", "two"}}
	if diff := cmp.Diff(want, target); diff != "" {
		t.Errorf("MergeAll() mismatch (-want +got):\n%s", diff)
	}
}

func TestMergeAll_StopsAtFailure(t *testing.T) {
	target := map[string]any{}
	sources := []map[string]any{{"a": 1}, nil, {"b": 2}}

	err := MergeAll(target, sources)
	if !errors.Is(err, errors.ErrInvalidArgument) {
		t.Fatalf("MergeAll() error = %v, want ErrInvalidArgument", err)
	}
	if !strings.Contains(err.Error(), "merging source 1") {
		t.Errorf("MergeAll() error = %q, want it to name source 1", err)
	}
	if diff := cmp.Diff(map[string]any{"a": 1}, target); diff != "" {
		t.Errorf("earlier sources should stay applied (-want +got):\n%s", diff)
	}
}

func TestClone(t *testing.T) {
	orig := map[string]any{
		"list": []any{map[string]any{"x": 1}},
		"set":  NewSet("a"),
		"map":  map[string]any{"y": []string{"z"}},
	}
	c := Clone(orig)
	if diff := cmp.Diff(orig, c); diff != "" {
		t.Fatalf("Clone() mismatch (-want +got):\n%s", diff)
	}

	c["list"].([]any)[0].(map[string]any)["x"] = 2
	c["set"].(Set).Add("b")
	c["map"].(map[string]any)["y"].([]string)[0] = "changed"

	if got := orig["list"].([]any)[0].(map[string]any)["x"]; got != 1 {
		t.Errorf("original list element changed to %v", got)
	}
	if orig["set"].(Set).Has("b") {
		t.Error("original set gained a member")
	}
	if got := orig["map"].(map[string]any)["y"].([]string)[0]; got != "z" {
		t.Errorf("original typed slice changed to %q", got)
	}

	if Clone(nil) != nil {
		t.Error("Clone(nil) should be nil")
	}
}

func TestIsMapping(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"generic mapping", map[string]any{}, true},
		{"typed mapping", map[string]int{"a": 1}, true},
		{"any-keyed mapping", map[any]any{1: "a"}, true},
		{"set", NewSet("a"), false},
		{"sequence", []any{}, false},
		{"scalar", "text", false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		if got := IsMapping(tt.v); got != tt.want {
			t.Errorf("IsMapping(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestIsSequence(t *testing.T) {
	tests := []struct {
		name string
		v    any
		want bool
	}{
		{"generic sequence", []any{}, true},
		{"typed slice", []int{1}, true},
		{"array", [2]string{"a", "b"}, true},
		{"bytes", []byte("raw"), false},
		{"string", "text", false},
		{"nil", nil, false},
		{"mapping", map[string]any{}, false},
	}
	for _, tt := range tests {
		if got := IsSequence(tt.v); got != tt.want {
			t.Errorf("IsSequence(%s) = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestSet_Sorted(t *testing.T) {
	s := NewSet("b", "a", "c")
	if diff := cmp.Diff([]any{"a", "b", "c"}, s.Sorted()); diff != "" {
		t.Errorf("Sorted() mismatch (-want +got):\n%s", diff)
	}
	if s.Len() != 3 {
		t.Errorf("Len() = %d, want 3", s.Len())
	}
}

// nested returns a mapping whose deepest container sits at level depth.
func nested(depth int) map[string]any {
	m := map[string]any{}
	for range depth {
		m = map[string]any{"k": m}
	}
	return m
}
