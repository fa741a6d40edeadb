package validator

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestReporter_Report(t *testing.T) {
	result := &Result{Sources: []string{"base.yaml", "local.toml"}}
	result.Add(Issue{
		Severity: SeverityError,
		Source:   "local.toml",
		Line:     3,
		Column:   5,
		Message:  "unexpected character",
	})
	result.Warn("base.yaml", "document is empty")

	t.Run("text format", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		if err := reporter.Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"1 error(s), 1 warning(s)",
			"local.toml:3:5: unexpected character",
			"base.yaml: document is empty",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("output missing %q:\n%s", want, output)
			}
		}
		if strings.Contains(output, "ok  ") {
			t.Errorf("failed report lists sources as ok:\n%s", output)
		}
	})

	t.Run("json format", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatJSON)
		if err := reporter.Report(result); err != nil {
			t.Fatalf("Report() error: %v", err)
		}

		var decoded Result
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("failed to decode JSON output: %v", err)
		}

		if len(decoded.Issues) != 2 {
			t.Fatalf("decoded issues count = %d, want 2", len(decoded.Issues))
		}
		if decoded.Issues[0].Severity != SeverityError || decoded.Issues[0].Line != 3 {
			t.Errorf("first issue = %+v, want error on line 3", decoded.Issues[0])
		}
		if decoded.Issues[1].Severity != SeverityWarning {
			t.Errorf("second issue severity = %v, want warning", decoded.Issues[1].Severity)
		}
		if !strings.Contains(buf.String(), `"severity": "error"`) {
			t.Errorf("severity not encoded by name:\n%s", buf.String())
		}
	})

	t.Run("passing result text", func(t *testing.T) {
		var buf bytes.Buffer
		reporter := NewReporter(&buf, FormatText)
		err := reporter.Report(&Result{Sources: []string{"a.yaml"}, Keys: 7})
		if err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "ok  a.yaml") {
			t.Errorf("output missing source line:\n%s", output)
		}
		if !strings.Contains(output, "Validation passed: 1 file(s), 7 keys in effect") {
			t.Errorf("output missing success message:\n%s", output)
		}
	})

	t.Run("empty result json", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatJSON).Report(&Result{}); err != nil {
			t.Fatalf("Report() error: %v", err)
		}
		if !strings.Contains(buf.String(), `"issues": []`) {
			t.Errorf("empty issues not encoded as a list:\n%s", buf.String())
		}
	})

	t.Run("nil result", func(t *testing.T) {
		var buf bytes.Buffer
		if err := NewReporter(&buf, FormatText).Report(nil); err != nil {
			t.Fatalf("Report(nil) error: %v", err)
		}
		if buf.Len() != 0 {
			t.Errorf("Report(nil) wrote %q", buf.String())
		}
	})
}

func TestReporter_TruncatesLongValues(t *testing.T) {
	result := &Result{}
	result.Add(Issue{Severity: SeverityError, Field: "name", Message: "too long", Value: strings.Repeat("x", 80)})

	var buf bytes.Buffer
	if err := NewReporter(&buf, FormatText).Report(result); err != nil {
		t.Fatalf("Report() error: %v", err)
	}
	if !strings.Contains(buf.String(), "["+strings.Repeat("x", 47)+"...]") {
		t.Errorf("value not truncated:\n%s", buf.String())
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"text", FormatText, false},
		{"JSON", FormatJSON, false},
		{"yaml", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseFormat(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseFormat(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
