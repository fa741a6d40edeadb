package config

import (
	"context"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/thoreinstein/groundwork/internal/deepmerge"
	"github.com/thoreinstein/groundwork/internal/errors"
)

// AppName is the application name used for config file naming.
const AppName = "groundwork"

// Settings is the typed form of a merged configuration.
type Settings struct {
	Version int            `mapstructure:"version" yaml:"version"`
	Name    string         `mapstructure:"name" yaml:"name"`
	Port    int            `mapstructure:"port" yaml:"port"`
	Timeout time.Duration  `mapstructure:"timeout" yaml:"timeout"`
	Tags    []string       `mapstructure:"tags" yaml:"tags"`
	General General        `mapstructure:"general" yaml:"general"`
	Logging Logging        `mapstructure:"logging" yaml:"logging"`
	Plugins map[string]any `mapstructure:"plugins" yaml:"plugins"`
}

// General holds settings shared by every command.
type General struct {
	// Verbose raises log verbosity like repeated -v flags. Range 0..4.
	Verbose int `mapstructure:"verbose" yaml:"verbose"`
}

// Logging configures the log output.
type Logging struct {
	Level  string `mapstructure:"level" yaml:"level"`
	Format string `mapstructure:"format" yaml:"format"`
	File   string `mapstructure:"file" yaml:"file"`
}

// DefaultValues returns the built-in configuration mapping. Each call
// returns a fresh mapping.
func DefaultValues() map[string]any {
	return map[string]any{
		"version": int64(1),
		"name":    AppName,
		"port":    int64(8080),
		"timeout": "30s",
		"tags":    []any{},
		"general": map[string]any{
			"verbose": int64(0),
		},
		"logging": map[string]any{
			"level":  "warn",
			"format": "text",
			"file":   "",
		},
		"plugins": map[string]any{},
	}
}

// flagKeys maps flag names to the setting they override.
var flagKeys = map[string]string{
	"name":       "name",
	"port":       "port",
	"timeout":    "timeout",
	"log-format": "logging.format",
	"log-file":   "logging.file",
}

// Store builds Settings on top of a set of defaults.
type Store struct {
	defaults map[string]any
	flags    map[string]*pflag.Flag
}

// NewStore returns a store that layers configuration over defaults.
// A nil defaults mapping means DefaultValues.
func NewStore(defaults map[string]any) *Store {
	if defaults == nil {
		defaults = DefaultValues()
	}
	return &Store{
		defaults: deepmerge.Clone(defaults),
		flags:    make(map[string]*pflag.Flag),
	}
}

// Defaults returns a copy of the store's defaults.
func (s *Store) Defaults() map[string]any {
	return deepmerge.Clone(s.defaults)
}

// BindFlags lets flags in fs override the settings they name. Flags only
// take effect when set on the command line.
func (s *Store) BindFlags(fs *pflag.FlagSet) {
	for name, key := range flagKeys {
		if f := fs.Lookup(name); f != nil {
			s.flags[key] = f
		}
	}
}

// Overlay returns a copy of m with the value of every bound flag that was
// set on the command line written to the key it overrides. Flag values are
// typed the way a loaded file would type them.
func (s *Store) Overlay(m map[string]any) map[string]any {
	out := deepmerge.Clone(m)
	if out == nil {
		out = map[string]any{}
	}
	for key, f := range s.flags {
		if !f.Changed {
			continue
		}
		setPath(out, strings.Split(key, "."), flagValue(f))
	}
	return out
}

func flagValue(f *pflag.Flag) any {
	raw := f.Value.String()
	switch f.Value.Type() {
	case "int", "int8", "int16", "int32", "int64", "uint", "uint8", "uint16", "uint32", "uint64":
		if n, err := cast.ToInt64E(raw); err == nil {
			return n
		}
	case "bool":
		if b, err := cast.ToBoolE(raw); err == nil {
			return b
		}
	case "float32", "float64":
		if x, err := cast.ToFloat64E(raw); err == nil {
			return x
		}
	}
	return raw
}

// setPath stores v under path in m, matching existing keys without regard
// to case and replacing any non-mapping in the way.
func setPath(m map[string]any, path []string, v any) {
	key := path[0]
	for k := range m {
		if strings.EqualFold(k, key) {
			key = k
			break
		}
	}
	if len(path) == 1 {
		m[key] = v
		return
	}
	child, ok := m[key].(map[string]any)
	if !ok {
		child = map[string]any{}
		m[key] = child
	}
	setPath(child, path[1:], v)
}

// Build decodes m into Settings and validates the result. Errors match
// errors.ErrInvalidConfig. m is not modified.
func (s *Store) Build(m map[string]any) (*Settings, error) {
	v := viper.New()
	// viper lowercases keys of the map it is given in place.
	if err := v.MergeConfigMap(deepmerge.Clone(m)); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "reading settings"), errors.ErrInvalidConfig)
	}
	for key, f := range s.flags {
		if err := v.BindPFlag(key, f); err != nil {
			return nil, errors.Wrapf(err, "binding flag --%s", f.Name)
		}
	}

	var settings Settings
	if err := v.UnmarshalExact(&settings, viper.DecodeHook(decodeHook())); err != nil {
		return nil, errors.Mark(errors.Wrap(err, "decoding settings"), errors.ErrInvalidConfig)
	}

	if errs := Validate(&settings); len(errs) > 0 {
		return nil, errors.Mark(errors.Wrap(errors.Join(errs...), "validating settings"), errors.ErrInvalidConfig)
	}
	return &settings, nil
}

func decodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		setToSliceHook,
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)
}

// setToSliceHook decodes sets into slice fields as sorted members.
func setToSliceHook(from, to reflect.Type, data any) (any, error) {
	set, ok := data.(deepmerge.Set)
	if !ok || to.Kind() != reflect.Slice {
		return data, nil
	}
	return set.Sorted(), nil
}

// Get looks up a dot-separated key in m, ignoring case.
func Get(m map[string]any, key string) (any, bool) {
	v := viper.New()
	if err := v.MergeConfigMap(deepmerge.Clone(m)); err != nil {
		return nil, false
	}
	if !v.IsSet(key) {
		return nil, false
	}
	return v.Get(key), true
}

// Keys returns every leaf key of m in dot notation, sorted.
func Keys(m map[string]any) []string {
	v := viper.New()
	if err := v.MergeConfigMap(deepmerge.Clone(m)); err != nil {
		return nil
	}
	keys := v.AllKeys()
	sort.Strings(keys)
	return keys
}

type contextKey struct{}

// NewContext returns a copy of ctx carrying s.
func NewContext(ctx context.Context, s *Settings) context.Context {
	return context.WithValue(ctx, contextKey{}, s)
}

// FromContext returns the settings stored in ctx, or nil.
func FromContext(ctx context.Context) *Settings {
	if ctx == nil {
		return nil
	}
	s, _ := ctx.Value(contextKey{}).(*Settings)
	return s
}
