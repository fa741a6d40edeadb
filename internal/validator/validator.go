package validator

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/thoreinstein/groundwork/internal/aggregate"
	"github.com/thoreinstein/groundwork/internal/config"
	"github.com/thoreinstein/groundwork/internal/configfile"
	"github.com/thoreinstein/groundwork/internal/errors"
)

// Severity represents the impact of a validation issue.
type Severity int

const (
	// SeverityError indicates a blocking validation failure.
	SeverityError Severity = iota
	// SeverityWarning indicates a problem that does not stop the config from loading.
	SeverityWarning
	// SeverityInfo indicates an informational note.
	SeverityInfo
)

var severityNames = []string{"error", "warning", "info"}

func (s Severity) String() string {
	if s < 0 || int(s) >= len(severityNames) {
		return "unknown"
	}
	return severityNames[s]
}

// MarshalText encodes the severity by name.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText decodes a severity name.
func (s *Severity) UnmarshalText(text []byte) error {
	for i, name := range severityNames {
		if name == string(text) {
			*s = Severity(i)
			return nil
		}
	}
	return errors.Newf("unknown severity %q", text)
}

// Issue is one validation finding.
type Issue struct {
	Severity Severity `json:"severity"`
	// Source is the config file the issue was found in, empty for the defaults.
	Source string `json:"source,omitempty"`
	// Line and Column locate parse failures, 0 when unknown.
	Line   int `json:"line,omitempty"`
	Column int `json:"column,omitempty"`
	// Field is the dotted settings key, for validation failures.
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	// Value is the rejected value, if any.
	Value any `json:"value,omitempty"`
}

// Location renders Source, Line and Column as "file:line:col", dropping the
// parts that are unknown.
func (i Issue) Location() string {
	if i.Source == "" {
		return ""
	}
	loc := i.Source
	if i.Line > 0 {
		loc += ":" + strconv.Itoa(i.Line)
		if i.Column > 0 {
			loc += ":" + strconv.Itoa(i.Column)
		}
	}
	return loc
}

// Error implements the error interface.
func (i Issue) Error() string {
	var sb strings.Builder
	sb.WriteString(i.Severity.String())
	sb.WriteString(": ")
	if loc := i.Location(); loc != "" {
		sb.WriteString(loc)
		sb.WriteString(": ")
	}
	if i.Field != "" {
		sb.WriteString(i.Field)
		sb.WriteString(": ")
	}
	sb.WriteString(i.Message)
	if i.Value != nil {
		fmt.Fprintf(&sb, " (got %v)", i.Value)
	}
	return sb.String()
}

// Result aggregates the issues of one validation run.
type Result struct {
	// Sources lists the files that were checked, in order.
	Sources []string `json:"sources"`
	// Keys is the number of leaf keys in effect, set when the run succeeds.
	Keys   int     `json:"keys"`
	Issues []Issue `json:"issues"`
}

// Add appends issues to the result.
func (r *Result) Add(issues ...Issue) {
	r.Issues = append(r.Issues, issues...)
}

// Warn records a warning about source.
func (r *Result) Warn(source, message string) {
	r.Add(Issue{Severity: SeverityWarning, Source: source, Message: message})
}

// Filter returns the issues with the given severity.
func (r *Result) Filter(sev Severity) []Issue {
	if r == nil {
		return nil
	}
	var res []Issue
	for _, i := range r.Issues {
		if i.Severity == sev {
			res = append(res, i)
		}
	}
	return res
}

// HasErrors returns true if any issue has SeverityError.
func (r *Result) HasErrors() bool {
	return len(r.Filter(SeverityError)) > 0
}

// HasWarnings returns true if any issue has SeverityWarning.
func (r *Result) HasWarnings() bool {
	return len(r.Filter(SeverityWarning)) > 0
}

// FromError converts an aggregator error into issues. It returns nil for a
// nil error.
func FromError(err error) []Issue {
	if err == nil {
		return nil
	}

	base := Issue{Severity: SeverityError}
	cause := err
	var srcErr *aggregate.SourceError
	if errors.As(err, &srcErr) {
		base.Source = srcErr.Source
		cause = srcErr.Err
	}

	var loadErr *configfile.LoadError
	if errors.As(cause, &loadErr) {
		issue := base
		issue.Line = loadErr.Line
		issue.Column = loadErr.Column
		issue.Message = loadErr.Message
		if issue.Message == "" {
			issue.Message = loadErr.Error()
		}
		return []Issue{issue}
	}

	if fields := config.FieldErrors(cause); len(fields) > 0 {
		issues := make([]Issue, 0, len(fields))
		for _, fe := range fields {
			issue := base
			issue.Field = fe.Field
			issue.Message = fe.Err.Error()
			issue.Value = fe.Value
			issues = append(issues, issue)
		}
		return issues
	}

	issue := base
	issue.Message = cause.Error()
	if srcErr != nil {
		issue.Message = string(srcErr.Stage) + ": " + issue.Message
	}
	return []Issue{issue}
}
