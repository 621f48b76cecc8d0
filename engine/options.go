package engine

import "log/slog"

// Option configures an Entry.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger Compile and Run use for debug output. If not
// set, no logging is performed.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

func applyOptions(opts []Option) *config {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}
