// Package deepmerge merges nested configuration mappings in place.
//
// A source mapping is merged key by key into a target mapping. The strategy
// for each key depends only on the type of the source value:
//
//   - key absent from target: the source value is deep-copied in
//   - sequence: appended to the target sequence, or replaces a non-sequence
//   - [Set]: unioned into the target set, or replaces a non-set
//   - mapping: merged recursively, or replaces a non-mapping
//   - anything else: overwrites the target value
//
// Nesting depth is bounded (see [DefaultMaxDepth] and [WithMaxDepth]). The
// bound is checked before the target is touched, so a failed merge leaves
// the target unchanged.
//
//	target := map[string]any{"hobbies": []any{"programming"}}
//	err := deepmerge.Merge(target, map[string]any{"hobbies": []any{"gaming"}})
//	// target["hobbies"] == []any{"programming", "gaming"}
package deepmerge
