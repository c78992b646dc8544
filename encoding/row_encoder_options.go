package encoding

import (
	"fmt"
	"log/slog"
	"runtime"

	"github.com/arloliu/featab/internal/logging"
	"github.com/arloliu/featab/internal/options"
)

// defaultShardRows is the number of rows one parallel work unit encodes.
const defaultShardRows = 1024

// RowEncoderConfig holds row encoder settings. Use the With* options to change it.
type RowEncoderConfig struct {
	logger    *slog.Logger
	workers    int
	shardRows  int
	fixedWidth bool
}

func newRowEncoderConfig() *RowEncoderConfig {
	return &RowEncoderConfig{
		logger:    logging.Discard(),
		workers:   runtime.GOMAXPROCS(0),
		shardRows: defaultShardRows,
	}
}

// RowEncoderOption configures a RowEncoder.
type RowEncoderOption = options.Option[*RowEncoderConfig]

// WithEncoderLogger sets the logger used for encoding progress.
func WithEncoderLogger(logger *slog.Logger) RowEncoderOption {
	return options.NoError(func(c *RowEncoderConfig) {
		if logger != nil {
			c.logger = logger
		}
	})
}

// WithWorkers sets how many goroutines EncodeFileParallel uses.
// It defaults to GOMAXPROCS.
func WithWorkers(n int) RowEncoderOption {
	return options.New(func(c *RowEncoderConfig) error {
		if n < 1 {
			return fmt.Errorf("workers must be positive: %d", n)
		}
		c.workers = n

		return nil
	})
}

// WithShardRows sets how many consecutive rows form one parallel work unit.
func WithShardRows(n int) RowEncoderOption {
	return options.New(func(c *RowEncoderConfig) error {
		if n < 1 {
			return fmt.Errorf("shard rows must be positive: %d", n)
		}
		c.shardRows = n

		return nil
	})
}

// WithFixedWidth makes every feature emit one symbol per segment it spans, padding
// split features with the sentinel of each range after the match. Rows then have a
// constant length, which chained matchers that step one segment per symbol require.
func WithFixedWidth() RowEncoderOption {
	return options.NoError(func(c *RowEncoderConfig) {
		c.fixedWidth = true
	})
}
