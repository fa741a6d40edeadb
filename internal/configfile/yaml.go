package configfile

import (
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/groundwork/internal/deepmerge"
	"github.com/thoreinstein/groundwork/internal/errors"
)

// maxYAMLNodes bounds how many nodes a document may expand to once aliases
// are resolved.
const maxYAMLNodes = 1 << 20

// yamlLineError matches the "yaml: line N: message" form of yaml.v3 syntax errors.
var yamlLineError = regexp.MustCompile(`^yaml: line (\d+): (.*)$`)

func parseYAML(data []byte) (any, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, yamlError(err, data)
	}

	w := &yamlWalker{data: data}
	return w.value(&root)
}

// yamlError normalizes yaml.v3 errors. Syntax errors only carry a line
// number inside their message; the column is never exposed.
func yamlError(err error, data []byte) *LoadError {
	var typeErr *yaml.TypeError
	if errors.As(err, &typeErr) {
		msg := "cannot decode document"
		if len(typeErr.Errors) > 0 {
			msg = typeErr.Errors[0]
		}
		return &LoadError{Message: msg, Err: err}
	}

	if m := yamlLineError.FindStringSubmatch(err.Error()); m != nil {
		line, convErr := strconv.Atoi(m[1])
		if convErr == nil {
			return &LoadError{
				Message:  m[2],
				Document: lineAt(data, line),
				Position: lineColToOffset(data, line, 0),
				Line:     line,
				Err:      err,
			}
		}
	}

	return &LoadError{Message: err.Error(), Err: err}
}

// yamlWalker converts a yaml.Node tree into plain values. Walking the node
// tree instead of decoding into any keeps !!set mappings as sets.
type yamlWalker struct {
	data  []byte
	nodes int
}

func (w *yamlWalker) value(n *yaml.Node) (any, error) {
	w.nodes++
	if w.nodes > maxYAMLNodes {
		return nil, w.errorAt(n, "document expands to too many nodes (alias cycle or alias bomb)")
	}

	switch n.Kind {
	case 0:
		return nil, nil
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return w.value(n.Content[0])
	case yaml.AliasNode:
		return w.value(n.Alias)
	case yaml.ScalarNode:
		var v any
		if err := n.Decode(&v); err != nil {
			return nil, w.errorAt(n, err.Error())
		}
		return v, nil
	case yaml.SequenceNode:
		out := make([]any, 0, len(n.Content))
		for _, c := range n.Content {
			v, err := w.value(c)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
		return out, nil
	case yaml.MappingNode:
		if n.Tag == "!!set" {
			return w.set(n)
		}
		return w.mapping(n)
	default:
		return nil, w.errorAt(n, "unsupported node kind")
	}
}

// mapping walks a mapping node. Merge keys ("<<") are resolved here as in
// YAML 1.1: keys written in the mapping win over merged ones, and among
// merged mappings the earlier one wins.
func (w *yamlWalker) mapping(n *yaml.Node) (any, error) {
	out := make(map[string]any, len(n.Content)/2)
	var merges []*yaml.Node
	for i := 0; i+1 < len(n.Content); i += 2 {
		if isMergeKey(n.Content[i]) {
			merges = append(merges, n.Content[i+1])
			continue
		}
		k, err := w.value(n.Content[i])
		if err != nil {
			return nil, err
		}
		v, err := w.value(n.Content[i+1])
		if err != nil {
			return nil, err
		}
		out[keyString(k)] = v
	}

	for _, m := range merges {
		if err := w.merge(out, m); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// merge copies the keys of the mapping, or sequence of mappings, that n
// refers to into out without replacing keys out already holds.
func (w *yamlWalker) merge(out map[string]any, n *yaml.Node) error {
	src := n
	for src.Kind == yaml.AliasNode {
		src = src.Alias
	}

	var sources []*yaml.Node
	switch src.Kind {
	case yaml.MappingNode:
		sources = []*yaml.Node{n}
	case yaml.SequenceNode:
		sources = src.Content
	default:
		return w.errorAt(n, "merge key value must be a mapping or a sequence of mappings")
	}

	for _, s := range sources {
		v, err := w.value(s)
		if err != nil {
			return err
		}
		m, ok := v.(map[string]any)
		if !ok {
			return w.errorAt(s, "merge key value must be a mapping or a sequence of mappings")
		}
		for k, val := range m {
			if _, exists := out[k]; !exists {
				out[k] = val
			}
		}
	}
	return nil
}

func isMergeKey(n *yaml.Node) bool {
	return n.Kind == yaml.ScalarNode && n.Value == "<<" && (n.Tag == "" || n.Tag == "!" || n.ShortTag() == "!!merge")
}

func (w *yamlWalker) set(n *yaml.Node) (any, error) {
	s := deepmerge.NewSet()
	for i := 0; i < len(n.Content); i += 2 {
		k, err := w.value(n.Content[i])
		if err != nil {
			return nil, err
		}
		if !isComparable(k) {
			return nil, w.errorAt(n.Content[i], "set members must be scalars")
		}
		s.Add(normalize(k))
	}
	return s, nil
}

func (w *yamlWalker) errorAt(n *yaml.Node, msg string) *LoadError {
	return &LoadError{
		Message:  msg,
		Document: lineAt(w.data, n.Line),
		Position: lineColToOffset(w.data, n.Line, n.Column),
		Line:     n.Line,
		Column:   n.Column,
	}
}
