package waterfall

import "go.uber.org/zap"

type config struct {
	db     bool
	logger *zap.Logger
}

// Option configures an accessor call.
type Option func(*config)

// WithDB converts power values to decibels, 10*log10(x).
func WithDB() Option {
	return func(cfg *config) {
		cfg.db = true
	}
}

// WithLogger sets the logger passed to the filterbank reader.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

func applyOptions(opts ...Option) config {
	cfg := config{logger: zap.NewNop()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
