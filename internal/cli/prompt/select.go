// Package prompt provides interactive CLI prompts for user input.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/ktr0731/go-fuzzyfinder"

	"github.com/thoreinstein/groundwork/internal/errors"
	"github.com/thoreinstein/groundwork/internal/logging"
)

// Sentinel errors for key selection.
var (
	ErrNoChoices          = errors.New("no keys to select from")
	ErrInvalidSelection   = errors.New("invalid selection")
	ErrSelectionCancelled = errors.New("selection cancelled")
)

// Choice is a config key offered for selection, with its current value.
type Choice struct {
	Key   string
	Value any
}

// FindFunc lets the user pick one of choices and returns its index.
type FindFunc func(choices []Choice) (int, error)

// Selector handles interactive key selection prompts.
type Selector struct {
	reader io.Reader
	writer io.Writer
	find   FindFunc
}

// NewSelector creates a Selector using stdin and stdout. On a terminal it
// uses a fuzzy finder; otherwise it falls back to a numbered list.
func NewSelector() *Selector {
	s := &Selector{
		reader: os.Stdin,
		writer: os.Stdout,
	}
	if logging.IsInteractive(os.Stdin, os.Stdout) {
		s.find = fuzzyFind
	}
	return s
}

// NewSelectorWithIO creates a Selector with custom reader and writer for testing.
func NewSelectorWithIO(r io.Reader, w io.Writer) *Selector {
	return &Selector{
		reader: r,
		writer: w,
	}
}

// WithFinder makes s pick with find instead of the numbered list.
func (s *Selector) WithFinder(find FindFunc) *Selector {
	s.find = find
	return s
}

// SelectKey prompts the user to choose one of choices.
//
// Returns:
//   - ErrNoChoices if the list is empty
//   - The choice if only one exists (auto-selects without prompting)
//   - The selected choice based on user input
//   - ErrInvalidSelection if the selection is out of range
//   - ErrSelectionCancelled if input is EOF (e.g., Ctrl+D) or the finder is aborted
func (s *Selector) SelectKey(choices []Choice) (*Choice, error) {
	if len(choices) == 0 {
		return nil, ErrNoChoices
	}

	// Auto-select if only one key
	if len(choices) == 1 {
		return &choices[0], nil
	}

	if s.find != nil {
		idx, err := s.find(choices)
		if err != nil {
			if errors.Is(err, fuzzyfinder.ErrAbort) {
				return nil, ErrSelectionCancelled
			}
			return nil, errors.Wrap(err, "selecting key")
		}
		if idx < 0 || idx >= len(choices) {
			return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [0-%d)", idx, len(choices))
		}
		return &choices[idx], nil
	}

	return s.selectNumbered(choices)
}

func (s *Selector) selectNumbered(choices []Choice) (*Choice, error) {
	fmt.Fprintln(s.writer, "Config keys:")
	for i, c := range choices {
		fmt.Fprintf(s.writer, "  [%d] %s = %v\n", i+1, c.Key, c.Value)
	}
	fmt.Fprintf(s.writer, "Select [1]: ")

	reader := bufio.NewReader(s.reader)
	input, err := reader.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && strings.TrimSpace(input) == "" {
			return nil, ErrSelectionCancelled
		}
		if !errors.Is(err, io.EOF) {
			return nil, errors.Wrap(err, "reading selection")
		}
	}

	input = strings.TrimSpace(input)

	// Default to first option if empty
	if input == "" {
		return &choices[0], nil
	}

	selection, err := strconv.Atoi(input)
	if err != nil {
		return nil, errors.Wrapf(ErrInvalidSelection, "%q is not a number", input)
	}

	// Validate range (1-indexed)
	if selection < 1 || selection > len(choices) {
		return nil, errors.Wrapf(ErrInvalidSelection, "%d is out of range [1-%d]", selection, len(choices))
	}

	return &choices[selection-1], nil
}

func fuzzyFind(choices []Choice) (int, error) {
	return fuzzyfinder.Find(
		choices,
		func(i int) string {
			return choices[i].Key
		},
		fuzzyfinder.WithPromptString("key> "),
		fuzzyfinder.WithPreviewWindow(func(i, w, h int) string {
			if i == -1 {
				return ""
			}
			c := choices[i]
			return fmt.Sprintf("Key: %s\n\nValue:\n%v", c.Key, c.Value)
		}),
	)
}
