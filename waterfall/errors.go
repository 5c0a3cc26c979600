package waterfall

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidHandle reports a handle that is neither a path nor a
	// loaded waterfall.
	ErrInvalidHandle = errors.New("waterfall: invalid handle")
	// ErrNoData reports that the narrowed one-channel read yielded no data.
	ErrNoData = errors.New("waterfall: no data in filterbank file")
	// ErrRead reports a failure of the underlying filterbank reader.
	ErrRead = errors.New("waterfall: read failed")
)

func readError(h Handle, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrRead, h, err)
}

func noDataError(h Handle, err error) error {
	if err == nil {
		return fmt.Errorf("%w: %s", ErrNoData, h)
	}
	return fmt.Errorf("%w: %s: %w", ErrNoData, h, err)
}
