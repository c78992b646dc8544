package main

import (
	"fmt"
	"runtime"

	"github.com/caarlos0/env/v11"

	"github.com/arloliu/featab/format"
)

// Config holds defaults read from FEATAB_* environment variables. Command-line flags
// override them.
type Config struct {
	LogLevel    string `env:"FEATAB_LOG_LEVEL" envDefault:"info"`
	LogJSON     bool   `env:"FEATAB_LOG_JSON" envDefault:"false"`
	Workers     int    `env:"FEATAB_WORKERS"`
	Compression string `env:"FEATAB_COMPRESSION" envDefault:"none"`
	Buckets     int    `env:"FEATAB_BUCKETS" envDefault:"16"`
}

// LoadConfig parses the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse environment: %w", err)
	}

	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}

	return cfg, nil
}

func parseCompression(name string) (format.CompressionType, error) {
	ct, ok := format.ParseCompressionType(name)
	if !ok {
		return 0, fmt.Errorf("unknown compression %q (want none, zstd, s2 or lz4)", name)
	}

	return ct, nil
}
