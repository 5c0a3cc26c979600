package filterbank

import (
	"math"

	"go.uber.org/zap"
)

type openConfig struct {
	loadData bool
	fStart   float64
	fStop    float64
	ranged   bool
	logger   *zap.Logger
}

// Option configures [Open].
type Option func(*openConfig)

func defaultOpenConfig() openConfig {
	return openConfig{
		loadData: true,
		fStart:   math.NaN(),
		fStop:    math.NaN(),
		logger:   zap.NewNop(),
	}
}

// WithoutData opens the file for its header and frequency bounds only.
func WithoutData() Option {
	return func(cfg *openConfig) {
		cfg.loadData = false
	}
}

// WithFreqRange restricts loading to the channels between fStart and fStop.
// The bounds may be given in either order.
func WithFreqRange(fStart, fStop float64) Option {
	return func(cfg *openConfig) {
		if math.IsNaN(fStart) || math.IsNaN(fStop) {
			return
		}
		cfg.fStart, cfg.fStop = fStart, fStop
		cfg.ranged = true
	}
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *openConfig) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func applyOpenOptions(opts ...Option) openConfig {
	cfg := defaultOpenConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
