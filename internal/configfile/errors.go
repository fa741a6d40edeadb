package configfile

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// LoadError describes a config document that could not be parsed. It has the
// same shape whatever parser produced it; fields the parser does not expose
// are left at their zero value.
//
// LoadError matches errors.ErrMalformed and unwraps to the parser's error.
type LoadError struct {
	// Format is the format the document was parsed as.
	Format Format
	// Source is the path or stream name of the document, if known.
	Source string
	// Message is the parser's description of the problem.
	Message string
	// Document holds context around the failure: the offending line, or the
	// parser's annotated excerpt when it provides one.
	Document string
	// Position is the 0-based byte offset of the failure.
	Position int
	// Line is the 1-based line of the failure, 0 when unknown.
	Line int
	// Column is the 1-based column of the failure, 0 when unknown.
	Column int
	// Err is the parser's original error.
	Err error
}

func (e *LoadError) Error() string {
	var b strings.Builder
	b.WriteString("parsing ")
	if e.Format != "" {
		b.WriteString(string(e.Format))
		b.WriteString(" ")
	}
	b.WriteString("config")
	if e.Source != "" {
		fmt.Fprintf(&b, " %s", e.Source)
	}
	switch {
	case e.Line > 0 && e.Column > 0:
		fmt.Fprintf(&b, " at line %d, column %d", e.Line, e.Column)
	case e.Line > 0:
		fmt.Fprintf(&b, " at line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	return b.String()
}

func (e *LoadError) Unwrap() error {
	return e.Err
}

// Is reports whether target is errors.ErrMalformed.
func (e *LoadError) Is(target error) bool {
	return target == errors.ErrMalformed
}

// errorAt builds a LoadError positioned at a byte offset in data.
func errorAt(msg string, data []byte, offset int, err error) *LoadError {
	offset = clamp(offset, 0, len(data))
	line, col := offsetToLineCol(data, offset)
	return &LoadError{
		Message:  msg,
		Document: lineAt(data, line),
		Position: offset,
		Line:     line,
		Column:   col,
		Err:      err,
	}
}

// offsetToLineCol converts a byte offset to line and column numbers.
// Lines and columns are 1-indexed.
func offsetToLineCol(data []byte, offset int) (line, col int) {
	offset = clamp(offset, 0, len(data))

	line = 1
	lineStart := 0

	for i := range offset {
		if data[i] == '\n' {
			line++
			lineStart = i + 1
		}
	}

	col = offset - lineStart + 1
	return line, col
}

// lineColToOffset is the inverse of offsetToLineCol. A column of 0 points at
// the start of the line.
func lineColToOffset(data []byte, line, col int) int {
	if line <= 0 {
		return 0
	}
	offset := 0
	for l := 1; l < line; l++ {
		i := bytes.IndexByte(data[offset:], '\n')
		if i < 0 {
			return len(data)
		}
		offset += i + 1
	}
	if col > 1 {
		offset += col - 1
	}
	return clamp(offset, 0, len(data))
}

// lineAt returns the text of the 1-based line, without its line ending.
func lineAt(data []byte, line int) string {
	if line <= 0 {
		return ""
	}
	start := lineColToOffset(data, line, 0)
	rest := data[start:]
	if i := bytes.IndexByte(rest, '\n'); i >= 0 {
		rest = rest[:i]
	}
	return string(bytes.TrimRight(rest, "\r"))
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
