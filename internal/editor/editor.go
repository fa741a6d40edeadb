// Package editor launches the user's preferred text editor on a file.
package editor

import (
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// ErrNoEditor indicates the editor command line is empty.
var ErrNoEditor = errors.New("no editor configured")

// Editor runs an editor command with the given standard streams.
type Editor struct {
	// Command is the program and its leading arguments. The file to edit is
	// appended.
	Command []string
	Stdin   io.Reader
	Stdout  io.Writer
	Stderr  io.Writer
}

// New returns an Editor for the detected command, attached to the process's
// terminal.
func New() *Editor {
	return &Editor{
		Command: Detect(),
		Stdin:   os.Stdin,
		Stdout:  os.Stdout,
		Stderr:  os.Stderr,
	}
}

// Edit opens path in the editor and waits for it to exit.
func (e *Editor) Edit(ctx context.Context, path string) error {
	if len(e.Command) == 0 {
		return ErrNoEditor
	}

	args := append(append([]string{}, e.Command[1:]...), path)
	cmd := exec.CommandContext(ctx, e.Command[0], args...)
	cmd.Stdin = e.Stdin
	cmd.Stdout = e.Stdout
	cmd.Stderr = e.Stderr

	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "running editor %s", e.Command[0])
	}
	return nil
}

// Detect returns the editor command line to use.
// Uses $EDITOR, falling back to $VISUAL, then nano, then vi. Values may carry
// arguments, as in "code --wait".
func Detect() []string {
	for _, env := range []string{"EDITOR", "VISUAL"} {
		if fields := strings.Fields(os.Getenv(env)); len(fields) > 0 {
			return fields
		}
	}

	// User-friendly fallback (nano is easier for beginners)
	if _, err := exec.LookPath("nano"); err == nil {
		return []string{"nano"}
	}

	// POSIX standard fallback
	return []string{"vi"}
}
