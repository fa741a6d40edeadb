package configfile

import (
	"github.com/pelletier/go-toml/v2"

	"github.com/thoreinstein/groundwork/internal/errors"
)

func parseTOML(data []byte) (any, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return nil, tomlError(err, data)
	}
	return doc, nil
}

// tomlError extracts position information from go-toml decode errors.
// DecodeError.String renders the failing line with a caret, which is kept
// as the document context.
func tomlError(err error, data []byte) *LoadError {
	var decodeErr *toml.DecodeError
	if errors.As(err, &decodeErr) {
		row, col := decodeErr.Position()
		return &LoadError{
			Message:  decodeErr.Error(),
			Document: decodeErr.String(),
			Position: lineColToOffset(data, row, col),
			Line:     row,
			Column:   col,
			Err:      err,
		}
	}

	return &LoadError{Message: err.Error(), Err: err}
}
