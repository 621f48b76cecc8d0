package lower

import "log/slog"

// Option configures Module.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger sets the logger Module uses for debug output. If not set, no
// logging is performed.
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
