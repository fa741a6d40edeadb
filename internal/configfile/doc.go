// Package configfile loads JSON, TOML and YAML config documents into plain
// mappings and writes them back out.
//
// Every loader yields the same shapes: map[string]any for mappings, []any
// for sequences, int64 for integers and float64 for other numbers. YAML
// documents may additionally contain !!set mappings, which load as
// [deepmerge.Set]. A blank document loads as an empty mapping; a document
// whose root is not a mapping is rejected.
//
// The format of a file is detected from its suffix unless given explicitly:
//
//	.json .jsn                    JSON
//	.toml .tml .ini .config .cfg  TOML
//	.yaml .yml                    YAML
//
// Parse failures are reported as a [*LoadError] regardless of format.
package configfile
