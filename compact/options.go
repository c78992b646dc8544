package compact

import (
	"fmt"
	"log/slog"

	"github.com/arloliu/featab/internal/logging"
	"github.com/arloliu/featab/internal/options"
)

// Config holds compactor settings. Use the With* options to change it.
type Config struct {
	logger      *slog.Logger
	strict      bool
	maxSegments int
}

func newConfig() *Config {
	return &Config{logger: logging.Discard()}
}

// Option configures a compaction run.
type Option = options.Option[*Config]

// WithLogger sets the logger used to report packing decisions.
func WithLogger(logger *slog.Logger) Option {
	return options.NoError(func(c *Config) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithStrictCapacity disables the split fallback: a feature that does not fit in a
// single segment fails the run with errs.ErrCapacityExceeded.
func WithStrictCapacity() Option {
	return options.NoError(func(c *Config) {
		c.strict = true
	})
}

// WithMaxSegments caps the total number of segments a layout may use, for consumers
// with a fixed hardware budget. Zero means unlimited.
func WithMaxSegments(n int) Option {
	return options.New(func(c *Config) error {
		if n < 0 {
			return fmt.Errorf("max segments cannot be negative: %d", n)
		}
		c.maxSegments = n

		return nil
	})
}
