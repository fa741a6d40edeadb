package configfile

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/thoreinstein/groundwork/internal/errors"
)

func parseJSON(data []byte) (any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, jsonError(err, data)
	}

	// Anything but whitespace after the top-level value is an error.
	end := int(dec.InputOffset())
	rest := data[end:]
	trimmed := bytes.TrimLeft(rest, " \t\r\n")
	if len(trimmed) > 0 {
		offset := end + len(rest) - len(trimmed)
		return nil, errorAt("invalid character after top-level value", data, offset, nil)
	}

	return doc, nil
}

// jsonError extracts position information from encoding/json errors.
func jsonError(err error, data []byte) *LoadError {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		// Offset counts the bytes read up to and including the bad one.
		return errorAt(syntaxErr.Error(), data, int(syntaxErr.Offset)-1, err)
	}

	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return errorAt(typeErr.Error(), data, int(typeErr.Offset), err)
	}

	if errors.Is(err, io.ErrUnexpectedEOF) {
		return errorAt("unexpected end of JSON input", data, len(data), err)
	}

	return &LoadError{Message: err.Error(), Err: err}
}
