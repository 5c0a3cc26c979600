package filterbank

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports a malformed or truncated filterbank header.
	ErrFormat = errors.New("filterbank: malformed header")
	// ErrUnsupportedBits reports a sample width the reader cannot decode.
	ErrUnsupportedBits = errors.New("filterbank: unsupported nbits")
	// ErrShape reports sample data that does not match the header dimensions.
	ErrShape = errors.New("filterbank: data does not match header shape")
)

func validateBits(nbits int) error {
	switch nbits {
	case 8, 16, 32:
		return nil
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedBits, nbits)
	}
}

// validateDims rejects header dimensions no file can have.
func validateDims(h Header) error {
	switch {
	case h.NChans < 0:
		return fmt.Errorf("%w: negative nchans %d", ErrFormat, h.NChans)
	case h.NIFs < 0:
		return fmt.Errorf("%w: negative nifs %d", ErrFormat, h.NIFs)
	case h.NBits <= 0:
		return fmt.Errorf("%w: nbits must be > 0: %d", ErrFormat, h.NBits)
	}
	return nil
}

func validatePol(pol, nifs int) error {
	if pol < 0 || pol >= nifs {
		return fmt.Errorf("filterbank: polarization %d out of range [0,%d)", pol, nifs)
	}
	return nil
}
