package configfile

import (
	"testing"

	"github.com/thoreinstein/groundwork/internal/errors"
)

func TestDetermineFormat(t *testing.T) {
	tests := []struct {
		name string
		want Format
	}{
		{"config.json", JSON},
		{"config.jsn", JSON},
		{"CONFIG.JSON", JSON},
		{"settings.toml", TOML},
		{"settings.tml", TOML},
		{"legacy.ini", TOML},
		{"app.config", TOML},
		{"app.cfg", TOML},
		{"app.yaml", YAML},
		{"app.YML", YAML},
		{"/etc/groundwork/config.yaml", YAML},
		{"notes.txt", Unknown},
		{"Makefile", Unknown},
		{"", Unknown},
		{"archive.yaml.bak", Unknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineFormat(tt.name); got != tt.want {
				t.Errorf("DetermineFormat(%q) = %q, want %q", tt.name, got, tt.want)
			}
		})
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", Infer, false},
		{"json", JSON, false},
		{"TOML", TOML, false},
		{" yaml ", YAML, false},
		{"infer", Infer, false},
		{"unknown", Unknown, true},
		{"xml", Unknown, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, errors.ErrUnsupportedFormat) {
				t.Errorf("expected ErrUnsupportedFormat, got %v", err)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNames(t *testing.T) {
	want := []string{"json", "toml", "yaml", "infer", "unknown"}
	got := Names()
	if len(got) != len(want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRegistry_Register(t *testing.T) {
	noop := func([]byte) (any, error) { return map[string]any{}, nil }

	tests := []struct {
		name   string
		format Format
		parse  ParseFunc
	}{
		{"duplicate", JSON, noop},
		{"infer pseudo-format", Infer, noop},
		{"unknown pseudo-format", Unknown, noop},
		{"empty format", "", noop},
		{"nil parser", "props", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRegistry()
			r.MustRegister(JSON, noop)

			err := r.Register(tt.format, tt.parse)
			if !errors.Is(err, errors.ErrInvalidArgument) {
				t.Errorf("Register() error = %v, want ErrInvalidArgument", err)
			}
		})
	}
}

func TestDefaultRegistry_Formats(t *testing.T) {
	got := DefaultRegistry.Formats()
	want := []Format{JSON, TOML, YAML}
	if len(got) != len(want) {
		t.Fatalf("Formats() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Formats()[%d] = %q, want %q", i, got[i], want[i])
		}
	}

	if err := DefaultRegistry.Register(YAML, parseYAML); err == nil {
		t.Error("re-registering YAML should fail")
	}
}
