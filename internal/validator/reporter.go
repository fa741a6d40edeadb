package validator

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// Format specifies the output format for validation reports.
type Format string

const (
	// FormatText produces human-readable text output.
	FormatText Format = "text"
	// FormatJSON produces machine-readable JSON output.
	FormatJSON Format = "json"
)

// ParseFormat resolves a --format value.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatText, FormatJSON:
		return f, nil
	default:
		return "", errors.Newf("unknown report format %q: want text or json", s)
	}
}

// Reporter formats and writes validation results.
type Reporter struct {
	out    io.Writer
	format Format
}

// NewReporter creates a new Reporter.
func NewReporter(out io.Writer, format Format) *Reporter {
	return &Reporter{
		out:    out,
		format: format,
	}
}

// Report writes the validation result to the output.
func (r *Reporter) Report(result *Result) error {
	if result == nil {
		return nil
	}

	switch r.format {
	case FormatJSON:
		return r.reportJSON(result)
	default:
		return r.reportText(result)
	}
}

func (r *Reporter) reportJSON(result *Result) error {
	out := *result
	if out.Sources == nil {
		out.Sources = []string{}
	}
	if out.Issues == nil {
		out.Issues = []Issue{}
	}
	encoder := json.NewEncoder(r.out)
	encoder.SetIndent("", "  ")
	return errors.Wrap(encoder.Encode(out), "encoding JSON report")
}

func (r *Reporter) reportText(result *Result) error {
	errs := result.Filter(SeverityError)
	warnings := result.Filter(SeverityWarning)

	if len(errs) == 0 {
		for _, s := range result.Sources {
			fmt.Fprintf(r.out, "ok  %s\n", s)
		}
		r.printGroup("Warnings:", warnings, color.FgYellow)
		fmt.Fprintln(r.out, color.GreenString("✓ Validation passed: %d file(s), %d keys in effect",
			len(result.Sources), result.Keys))
		return nil
	}

	summary := []string{color.RedString("%d error(s)", len(errs))}
	if len(warnings) > 0 {
		summary = append(summary, color.YellowString("%d warning(s)", len(warnings)))
	}
	fmt.Fprintf(r.out, "Validation failed: %s\n\n", strings.Join(summary, ", "))

	r.printGroup("Errors:", errs, color.FgRed)
	r.printGroup("Warnings:", warnings, color.FgYellow)
	return nil
}

func (r *Reporter) printGroup(title string, issues []Issue, c color.Attribute) {
	if len(issues) == 0 {
		return
	}
	fmt.Fprintln(r.out, title)
	for _, i := range issues {
		r.printIssue(i, c)
	}
	fmt.Fprintln(r.out)
}

// printIssue writes "  • file:line:col: field: message [value]".
func (r *Reporter) printIssue(i Issue, c color.Attribute) {
	printer := color.New(c).SprintFunc()
	dim := color.New(color.FgHiBlack)

	var sb strings.Builder
	sb.WriteString("  • ")

	if loc := i.Location(); loc != "" {
		sb.WriteString(dim.Sprint(loc))
		sb.WriteString(": ")
	}
	if i.Field != "" {
		sb.WriteString(printer(i.Field))
		sb.WriteString(": ")
	}

	sb.WriteString(i.Message)

	if i.Value != nil {
		valStr := fmt.Sprintf("%v", i.Value)
		// Truncate long values
		if len(valStr) > 50 {
			valStr = valStr[:47] + "..."
		}
		sb.WriteString(dim.Sprintf(" [%s]", valStr))
	}

	fmt.Fprintln(r.out, sb.String())
}
