package waterfall

import (
	"github.com/cwbudde/algo-waterfall/dsp/core"
	"go.uber.org/zap"
)

// MaxFreq returns the upper frequency bound of the waterfall. Path handles
// are opened without loading sample data.
func MaxFreq(h Handle, opts ...Option) (float64, error) {
	w, err := h.open(applyOptions(opts...), false)
	if err != nil {
		return 0, err
	}
	return w.FStop(), nil
}

// MinFreq returns the lower frequency bound of the waterfall. Path handles
// are opened without loading sample data.
func MinFreq(h Handle, opts ...Option) (float64, error) {
	w, err := h.open(applyOptions(opts...), false)
	if err != nil {
		return 0, err
	}
	return w.FStart(), nil
}

// FreqAxis returns the channel frequencies fch1, fch1+foff, ... in the
// half-open range [fch1, fch1+nchans*foff). A negative foff gives a
// descending axis.
//
// The length follows from the floating-point quotient of the range and
// foff, so it can differ from nchans by one when nchans*foff is not exactly
// representable. Path handles only have their header read.
func FreqAxis(h Handle, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts...)

	hdr, err := h.header()
	if err != nil {
		return nil, err
	}
	stop := hdr.FCh1 + float64(hdr.NChans)*hdr.FOff
	freqs := core.Arange(hdr.FCh1, stop, hdr.FOff)

	cfg.logger.Debug("frequency axis",
		zap.Stringer("handle", h),
		zap.Int("nchans", hdr.NChans),
		zap.Float64("foff", hdr.FOff),
		zap.Int("len", len(freqs)),
	)
	return freqs, nil
}
