package configfile

import (
	"path/filepath"
	"strings"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// Format identifies the structured-data format of a config source.
type Format string

// Known formats. Infer asks the loader to detect the format from the source
// name; Unknown is what detection yields when no suffix matches.
const (
	JSON    Format = "json"
	TOML    Format = "toml"
	YAML    Format = "yaml"
	Infer   Format = "infer"
	Unknown Format = "unknown"
)

// suffixes maps lower-cased file extensions to their format.
var suffixes = map[string]Format{
	".json":   JSON,
	".jsn":    JSON,
	".toml":   TOML,
	".tml":    TOML,
	".ini":    TOML,
	".config": TOML,
	".cfg":    TOML,
	".yaml":   YAML,
	".yml":    YAML,
}

// Names returns every format tag name in declaration order.
func Names() []string {
	return []string{string(JSON), string(TOML), string(YAML), string(Infer), string(Unknown)}
}

// Loadable returns the formats that have a parser.
func Loadable() []Format {
	return []Format{JSON, TOML, YAML}
}

// DetermineFormat detects the format of name from its file suffix.
// Matching is case-insensitive. Names without a known suffix yield Unknown.
func DetermineFormat(name string) Format {
	if f, ok := suffixes[strings.ToLower(filepath.Ext(name))]; ok {
		return f
	}
	return Unknown
}

// ParseFormat parses a user-supplied format tag, ignoring case.
// An empty string means Infer.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Infer, nil
	case JSON, TOML, YAML, Infer:
		return f, nil
	default:
		return Unknown, errors.Wrapf(errors.ErrUnsupportedFormat, "%q (valid: %s)", s, loadableList())
	}
}

func (f Format) String() string {
	return string(f)
}

func loadableList() string {
	names := make([]string, 0, 3)
	for _, f := range Loadable() {
		names = append(names, string(f))
	}
	return strings.Join(names, ", ")
}

// resolve turns Infer into a concrete format using name.
func resolve(format Format, name string) (Format, error) {
	if format == "" || format == Infer {
		format = DetermineFormat(name)
	}
	if format == Unknown {
		err := errors.Wrapf(errors.ErrUnsupportedFormat, "format of config source %q could not be determined to be one of [%s]", name, loadableList())
		return Unknown, errors.WithHint(err, "use a .json, .toml, .yaml or .yml file, or pass the format explicitly")
	}
	return format, nil
}
