package waterfall

import (
	"github.com/cwbudde/algo-waterfall/dsp/core"
	"go.uber.org/zap"
)

// TimeAxis returns the sample times 0, tsamp, 2*tsamp, ... for every time
// sample in the waterfall.
//
// The number of samples is taken from a one-channel read spanning
// [fch1, fch1+foff], so only a single channel is loaded for path handles.
// If that read yields no rows or no channels the error is [ErrNoData].
func TimeAxis(h Handle, opts ...Option) ([]float64, error) {
	cfg := applyOptions(opts...)

	hdr, err := h.header()
	if err != nil {
		return nil, err
	}

	narrow, err := h.narrow(cfg, hdr.FCh1, hdr.FCh1+hdr.FOff)
	if err != nil {
		return nil, err
	}

	m, err := narrow.Pol(0)
	if err != nil {
		return nil, noDataError(h, err)
	}
	if m.IsEmpty() {
		return nil, noDataError(h, nil)
	}

	tchans, _ := m.Dims()
	cfg.logger.Debug("time axis",
		zap.Stringer("handle", h),
		zap.Int("tchans", tchans),
		zap.Float64("tsamp", hdr.TSamp),
	)
	return core.Arange(0, float64(tchans)*hdr.TSamp, hdr.TSamp), nil
}
