package waterfall

import (
	"fmt"

	"github.com/cwbudde/algo-waterfall/filterbank"
)

type handleKind uint8

const (
	kindInvalid handleKind = iota
	kindPath
	kindLoaded
)

// Handle refers to a filterbank waterfall either by file path or as an
// already loaded [filterbank.Waterfall]. The zero value is invalid.
type Handle struct {
	kind handleKind
	path string
	w    *filterbank.Waterfall
}

// ByPath returns a handle that opens the filterbank file at path on every
// use. An empty path yields an invalid handle.
func ByPath(path string) Handle {
	if path == "" {
		return Handle{}
	}
	return Handle{kind: kindPath, path: path}
}

// Loaded returns a handle over w. A nil w yields an invalid handle.
func Loaded(w *filterbank.Waterfall) Handle {
	if w == nil {
		return Handle{}
	}
	return Handle{kind: kindLoaded, w: w}
}

// Valid reports whether h names a path or a loaded waterfall.
func (h Handle) Valid() bool { return h.kind != kindInvalid }

// String describes the handle for error messages.
func (h Handle) String() string {
	switch h.kind {
	case kindPath:
		return h.path
	case kindLoaded:
		if p := h.w.Path(); p != "" {
			return fmt.Sprintf("loaded(%s)", p)
		}
		return "loaded(memory)"
	default:
		return "invalid handle"
	}
}

// header returns the header without reading sample data.
func (h Handle) header() (filterbank.Header, error) {
	switch h.kind {
	case kindPath:
		hdr, err := filterbank.ReadHeader(h.path)
		if err != nil {
			return filterbank.Header{}, readError(h, err)
		}
		return hdr, nil
	case kindLoaded:
		return h.w.Header, nil
	default:
		return filterbank.Header{}, ErrInvalidHandle
	}
}

// open resolves h to a waterfall. Path handles are opened with or without
// sample data; loaded handles are returned as they are.
func (h Handle) open(cfg config, loadData bool) (*filterbank.Waterfall, error) {
	switch h.kind {
	case kindPath:
		opts := []filterbank.Option{filterbank.WithLogger(cfg.logger)}
		if !loadData {
			opts = append(opts, filterbank.WithoutData())
		}
		w, err := filterbank.Open(h.path, opts...)
		if err != nil {
			return nil, readError(h, err)
		}
		return w, nil
	case kindLoaded:
		return h.w, nil
	default:
		return nil, ErrInvalidHandle
	}
}

// narrow loads the channels between fStart and fStop.
func (h Handle) narrow(cfg config, fStart, fStop float64) (*filterbank.Waterfall, error) {
	switch h.kind {
	case kindPath:
		w, err := filterbank.Open(h.path,
			filterbank.WithFreqRange(fStart, fStop),
			filterbank.WithLogger(cfg.logger),
		)
		if err != nil {
			return nil, readError(h, err)
		}
		return w, nil
	case kindLoaded:
		w, err := h.w.Narrow(fStart, fStop)
		if err != nil {
			return nil, readError(h, err)
		}
		return w, nil
	default:
		return nil, ErrInvalidHandle
	}
}
