package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/groundwork/internal/errors"
)

// DefaultMaxSize is the read limit used when none is given: 1 MiB, far
// above any sane config file.
const DefaultMaxSize int64 = 1 << 20

// ErrFileTooLarge indicates that content exceeded the read limit.
var ErrFileTooLarge = errors.New("file too large")

// ReadFile reads the file at path, failing with ErrFileTooLarge if it holds
// more than limit bytes. A limit of zero or less means DefaultMaxSize.
func ReadFile(path string, limit int64) ([]byte, error) {
	limit = effectiveLimit(limit)

	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	// Regular files report their size up front.
	if info, err := f.Stat(); err == nil && info.Mode().IsRegular() && info.Size() > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit is %d", path, info.Size(), limit)
	}

	return Read(f, limit)
}

// Read reads r to the end, failing with ErrFileTooLarge once more than limit
// bytes are seen. A limit of zero or less means DefaultMaxSize. The reader is
// not closed.
func Read(r io.Reader, limit int64) ([]byte, error) {
	limit = effectiveLimit(limit)

	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading file")
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "more than %d bytes", limit)
	}
	return data, nil
}

func effectiveLimit(limit int64) int64 {
	if limit <= 0 {
		return DefaultMaxSize
	}
	return limit
}
