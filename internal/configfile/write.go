package configfile

import (
	"encoding/json"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/thoreinstein/groundwork/internal/deepmerge"
	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/pkg/fileutil"
)

// Marshal encodes m in format. Sets are written as sorted sequences since
// none of the formats has a portable set type.
func Marshal(format Format, m map[string]any) (data []byte, err error) {
	doc := exportable(m)
	switch format {
	case JSON:
		data, err = json.MarshalIndent(doc, "", "  ")
		if err == nil {
			data = append(data, '\n')
		}
	case TOML:
		data, err = toml.Marshal(doc)
	case YAML:
		data, err = marshalYAML(doc)
	default:
		return nil, errors.Wrapf(errors.ErrUnsupportedFormat, "cannot encode %q (valid: %s)", format, loadableList())
	}
	if err != nil {
		return nil, errors.Wrapf(err, "encoding %s", format)
	}
	return data, nil
}

// WriteFile atomically writes m to path. With format Infer the format is
// taken from the path suffix.
func WriteFile(path string, format Format, m map[string]any) error {
	resolved, err := resolve(format, path)
	if err != nil {
		return err
	}

	doc := exportable(m)
	switch resolved {
	case JSON:
		err = fileutil.AtomicWriteJSON(path, doc)
	case TOML:
		err = fileutil.AtomicWriteTOML(path, doc)
	case YAML:
		err = fileutil.AtomicWriteYAML(path, doc)
	default:
		return errors.Wrapf(errors.ErrUnsupportedFormat, "cannot write %q (valid: %s)", resolved, loadableList())
	}
	if err != nil {
		return errors.Wrapf(err, "writing %s", path)
	}
	return nil
}

func marshalYAML(v any) (data []byte, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf("%v", r)
		}
	}()
	return yaml.Marshal(v)
}

// exportable returns a copy of v with sets replaced by sorted sequences.
func exportable(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, child := range val {
			out[k] = exportable(child)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for i, child := range val {
			out[i] = exportable(child)
		}
		return out
	case deepmerge.Set:
		return val.Sorted()
	default:
		return v
	}
}
