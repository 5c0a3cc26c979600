package filterbank

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"
)

// ErrNotLoaded reports access to samples of a waterfall opened with
// [WithoutData].
var ErrNotLoaded = errors.New("filterbank: waterfall data not loaded")

// Waterfall is a filterbank header plus, optionally, its decoded samples.
//
// Samples are stored flat in [time][IF][channel] order. Header describes the
// current channel selection: FCh1 and NChans are rewritten when the
// waterfall was opened with [WithFreqRange] or produced by [Waterfall.Narrow].
type Waterfall struct {
	Header Header

	path       string
	file       Header
	chanOffset int
	fStart     float64
	fStop      float64
	data       []float64
	loaded     bool
	logger     *zap.Logger
}

// selection is a half-open channel range relative to the header it was
// computed from, together with the frequency bounds that produced it.
type selection struct {
	start, stop   int
	fStart, fStop float64
}

func fullSelection(h Header) selection {
	return selection{
		start:  0,
		stop:   h.NChans,
		fStart: math.Min(h.FBegin(), h.FEnd()),
		fStop:  math.Max(h.FBegin(), h.FEnd()),
	}
}

// selectChannels maps a frequency range onto channel indices of h. The
// range is clipped to the band of h; a range outside the band selects no
// channels.
func selectChannels(h Header, fStart, fStop float64) selection {
	full := fullSelection(h)
	lo, hi := math.Min(fStart, fStop), math.Max(fStart, fStop)

	if hi < full.fStart || lo > full.fStop || h.FOff == 0 {
		return selection{fStart: lo, fStop: hi}
	}
	lo = math.Max(lo, full.fStart)
	hi = math.Min(hi, full.fStop)

	i0 := int(math.RoundToEven((lo - h.FCh1) / h.FOff))
	i1 := int(math.RoundToEven((hi - h.FCh1) / h.FOff))
	if i0 > i1 {
		i0, i1 = i1, i0
	}

	return selection{
		start:  clampIndex(i0, h.NChans),
		stop:   clampIndex(i1, h.NChans),
		fStart: lo,
		fStop:  hi,
	}
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// New wraps in-memory samples laid out as [time][IF][channel]. The number
// of time samples is derived from len(data). New does not copy data.
func New(h Header, data []float64) (*Waterfall, error) {
	if h.NChans <= 0 {
		return nil, fmt.Errorf("%w: nchans must be > 0: %d", ErrShape, h.NChans)
	}

	per := h.nifs() * h.NChans
	if len(data)%per != 0 {
		return nil, fmt.Errorf("%w: %d values is not a multiple of nifs*nchans=%d", ErrShape, len(data), per)
	}
	h.NSamples = len(data) / per

	full := fullSelection(h)
	return &Waterfall{
		Header: h,
		file:   h,
		fStart: full.fStart,
		fStop:  full.fStop,
		data:   data,
		loaded: true,
		logger: zap.NewNop(),
	}, nil
}

// Open reads the filterbank file at path.
func Open(path string, opts ...Option) (*Waterfall, error) {
	cfg := applyOpenOptions(opts...)

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	fh, err := readHeader(f)
	if err != nil {
		return nil, err
	}

	full := fullSelection(fh)
	w := &Waterfall{
		Header: fh,
		path:   path,
		file:   fh,
		fStart: full.fStart,
		fStop:  full.fStop,
		logger: cfg.logger,
	}
	if cfg.ranged {
		w = w.narrowed(selectChannels(fh, cfg.fStart, cfg.fStop))
	}

	if cfg.loadData {
		if err := w.readFrom(f); err != nil {
			return nil, err
		}
	}

	cfg.logger.Debug("opened filterbank",
		zap.String("path", path),
		zap.Int("nchans", w.Header.NChans),
		zap.Int("nsamples", w.Header.NSamples),
		zap.Int("nifs", w.Header.nifs()),
		zap.Float64("f_start", w.fStart),
		zap.Float64("f_stop", w.fStop),
		zap.Bool("loaded", w.loaded),
	)
	return w, nil
}

// Path returns the file the waterfall was opened from, or "" for one built
// with [New].
func (w *Waterfall) Path() string { return w.path }

// Loaded reports whether samples are available.
func (w *Waterfall) Loaded() bool { return w.loaded }

// FStart returns the lower frequency bound of the container.
func (w *Waterfall) FStart() float64 { return w.fStart }

// FStop returns the upper frequency bound of the container.
func (w *Waterfall) FStop() float64 { return w.fStop }

// Shape returns the number of time samples, IFs and channels.
func (w *Waterfall) Shape() (nsamps, nifs, nchans int) {
	return w.Header.NSamples, w.Header.nifs(), w.Header.NChans
}

// Data returns the flat [time][IF][channel] samples, or nil when the
// waterfall was opened without data. The slice must not be modified.
func (w *Waterfall) Data() []float64 {
	if !w.loaded {
		return nil
	}
	return w.data
}

// Pol returns the time x frequency samples of one IF (polarization) as a
// new matrix. A waterfall without time samples or channels yields an
// empty matrix.
func (w *Waterfall) Pol(pol int) (*mat.Dense, error) {
	if !w.loaded {
		return nil, ErrNotLoaded
	}

	nsamps, nifs, nchans := w.Shape()
	if err := validatePol(pol, nifs); err != nil {
		return nil, err
	}
	if nsamps == 0 || nchans == 0 {
		return &mat.Dense{}, nil
	}

	out := make([]float64, nsamps*nchans)
	for t := 0; t < nsamps; t++ {
		src := (t*nifs + pol) * nchans
		copy(out[t*nchans:(t+1)*nchans], w.data[src:src+nchans])
	}
	return mat.NewDense(nsamps, nchans, out), nil
}

// Narrow returns a new waterfall restricted to the channels between fStart
// and fStop. Samples are sliced from memory when loaded and read from the
// source file otherwise. w itself is left untouched.
func (w *Waterfall) Narrow(fStart, fStop float64) (*Waterfall, error) {
	sel := selectChannels(w.Header, fStart, fStop)
	nw := w.narrowed(sel)

	if w.loaded {
		nw.data = sliceChannels(w.data, w.Header, sel)
		nw.loaded = true
		return nw, nil
	}

	if w.path == "" {
		return nil, ErrNotLoaded
	}

	f, err := os.Open(w.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if err := nw.readFrom(f); err != nil {
		return nil, err
	}
	return nw, nil
}

func (w *Waterfall) narrowed(sel selection) *Waterfall {
	h := w.Header
	h.FCh1 = w.Header.FCh1 + float64(sel.start)*w.Header.FOff
	h.NChans = sel.stop - sel.start

	return &Waterfall{
		Header:     h,
		path:       w.path,
		file:       w.file,
		chanOffset: w.chanOffset + sel.start,
		fStart:     sel.fStart,
		fStop:      sel.fStop,
		logger:     w.logger,
	}
}

func sliceChannels(data []float64, h Header, sel selection) []float64 {
	width := sel.stop - sel.start
	nifs := h.nifs()
	out := make([]float64, 0, h.NSamples*nifs*width)
	for row := 0; row < h.NSamples*nifs; row++ {
		base := row * h.NChans
		out = append(out, data[base+sel.start:base+sel.stop]...)
	}
	return out
}

// readFrom decodes the selected channels of every spectrum in f.
func (w *Waterfall) readFrom(f *os.File) error {
	fh := w.file
	if err := validateBits(fh.NBits); err != nil {
		return err
	}
	if _, err := f.Seek(fh.HeaderSize, io.SeekStart); err != nil {
		return err
	}

	nsamps, nifs, width := w.Shape()
	if nsamps == 0 || width == 0 {
		w.data = nil
		w.loaded = true
		return nil
	}

	bps := fh.NBits / 8
	row := make([]byte, fh.bytesPerSpectrum())
	out := make([]float64, 0, nsamps*nifs*width)

	r := bufio.NewReader(f)
	for t := 0; t < nsamps; t++ {
		if _, err := io.ReadFull(r, row); err != nil {
			return fmt.Errorf("%s: spectrum %d: %w", w.path, t, err)
		}
		for p := 0; p < nifs; p++ {
			base := (p*fh.NChans + w.chanOffset) * bps
			for c := 0; c < width; c++ {
				off := base + c*bps
				out = append(out, decodeSample(row[off:off+bps], fh))
			}
		}
	}

	w.data = out
	w.loaded = true
	return nil
}

func decodeSample(b []byte, h Header) float64 {
	switch h.NBits {
	case 8:
		if h.Signed != 0 {
			return float64(int8(b[0]))
		}
		return float64(b[0])
	case 16:
		return float64(binary.LittleEndian.Uint16(b))
	default:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	}
}
