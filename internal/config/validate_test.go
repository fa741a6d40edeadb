package config

import (
	"testing"
	"time"

	"github.com/thoreinstein/groundwork/internal/errors"
)

func validSettings() *Settings {
	return &Settings{
		Version: 1,
		Name:    "groundwork",
		Port:    8080,
		Timeout: time.Second,
		Logging: Logging{Level: "info", Format: "text"},
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Settings)
		wantField string
		wantErr   error
	}{
		{"valid", func(*Settings) {}, "", nil},
		{"version zero", func(s *Settings) { s.Version = 0 }, "version", ErrVersionTooLow},
		{"blank name", func(s *Settings) { s.Name = "  " }, "name", ErrEmpty},
		{"port zero", func(s *Settings) { s.Port = 0 }, "port", ErrOutOfRange},
		{"port too high", func(s *Settings) { s.Port = 65536 }, "port", ErrOutOfRange},
		{"zero timeout", func(s *Settings) { s.Timeout = 0 }, "timeout", ErrOutOfRange},
		{"empty tag", func(s *Settings) { s.Tags = []string{"ok", ""} }, "tags[1]", ErrEmpty},
		{"negative verbose", func(s *Settings) { s.General.Verbose = -1 }, "general.verbose", ErrOutOfRange},
		{"verbose too high", func(s *Settings) { s.General.Verbose = 5 }, "general.verbose", ErrOutOfRange},
		{"max verbose", func(s *Settings) { s.General.Verbose = MaxVerbose }, "", nil},
		{"upper-case level", func(s *Settings) { s.Logging.Level = "DEBUG" }, "", nil},
		{"bad level", func(s *Settings) { s.Logging.Level = "loud" }, "logging.level", ErrInvalidChoice},
		{"bad format", func(s *Settings) { s.Logging.Format = "xml" }, "logging.format", ErrInvalidChoice},
		{"null byte in log file", func(s *Settings) { s.Logging.File = "a\x00b" }, "logging.file", ErrInvalidPath},
		{"dot log file", func(s *Settings) { s.Logging.File = "." }, "logging.file", ErrInvalidPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := validSettings()
			tt.mutate(s)

			errs := Validate(s)
			if tt.wantErr == nil {
				if len(errs) != 0 {
					t.Errorf("Validate() = %v, want no errors", errs)
				}
				return
			}

			if len(errs) != 1 {
				t.Fatalf("Validate() returned %d errors, want 1: %v", len(errs), errs)
			}
			if !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("error = %v, want %v", errs[0], tt.wantErr)
			}
			var fieldErr *FieldError
			if !errors.As(errs[0], &fieldErr) {
				t.Fatalf("error is %T, want *FieldError", errs[0])
			}
			if fieldErr.Field != tt.wantField {
				t.Errorf("Field = %q, want %q", fieldErr.Field, tt.wantField)
			}
		})
	}
}

func TestValidate_ReportsEveryField(t *testing.T) {
	errs := Validate(&Settings{})
	// version, name, port, timeout, logging.level, logging.format
	if len(errs) != 6 {
		t.Errorf("Validate() returned %d errors, want 6: %v", len(errs), errs)
	}
}

func TestValidate_Nil(t *testing.T) {
	if errs := Validate(nil); len(errs) != 1 {
		t.Errorf("Validate(nil) = %v, want one error", errs)
	}
}

func TestFieldError(t *testing.T) {
	err := &FieldError{Field: "port", Value: 0, Err: ErrOutOfRange}
	if got, want := err.Error(), "port: value out of range (got 0)"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestFieldErrors(t *testing.T) {
	m := DefaultValues()
	m["port"] = int64(0)
	m["name"] = " "

	_, err := NewStore(nil).Build(m)
	if err == nil {
		t.Fatal("Build() error = nil, want validation error")
	}

	fields := FieldErrors(err)
	if len(fields) != 2 {
		t.Fatalf("FieldErrors() returned %d errors, want 2: %v", len(fields), fields)
	}
	if fields[0].Field != "name" || fields[1].Field != "port" {
		t.Errorf("FieldErrors() fields = %q, %q; want name, port", fields[0].Field, fields[1].Field)
	}

	if got := FieldErrors(errors.New("plain")); got != nil {
		t.Errorf("FieldErrors(plain) = %v, want nil", got)
	}
	if got := FieldErrors(nil); got != nil {
		t.Errorf("FieldErrors(nil) = %v, want nil", got)
	}
}
