// featab compiles feature thresholds into lookup segments and encodes datasets into
// framed symbol streams.
//
// Usage:
//
//	featab thresholds -in train.txt -buckets 16 -out thresholds.yaml
//	featab describe -thresholds thresholds.yaml
//	featab encode -thresholds thresholds.yaml -in test.txt -out test.sym [-compress zstd]
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/arloliu/featab"
	"github.com/arloliu/featab/compact"
	"github.com/arloliu/featab/dataset"
	"github.com/arloliu/featab/encoding"
	"github.com/arloliu/featab/format"
	"github.com/arloliu/featab/internal/logging"
	"github.com/arloliu/featab/table"
	"github.com/arloliu/featab/thresholds"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "featab: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer) error {
	cfg, err := LoadConfig()
	if err != nil {
		return err
	}

	if len(args) == 0 {
		return errors.New("missing command: thresholds, describe or encode")
	}

	switch args[0] {
	case "thresholds":
		return runThresholds(cfg, args[1:], stdin, stdout)
	case "describe":
		return runDescribe(cfg, args[1:], stdout)
	case "encode":
		return runEncode(ctx, cfg, args[1:], stdin, stdout)
	case "version":
		_, err := fmt.Fprintln(stdout, "featab", Version)
		return err
	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}

func newFlagSet(name string, cfg *Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.BoolVar(&cfg.LogJSON, "log-json", cfg.LogJSON, "log as JSON")

	return fs
}

func initLogging(cfg Config) {
	logging.Init(logging.ParseLevel(cfg.LogLevel), cfg.LogJSON)
	logging.Component("cli").Debug("featab starting", "version", Version)
}

// runThresholds derives equal-frequency thresholds from a dataset.
func runThresholds(cfg Config, args []string, stdin io.Reader, stdout io.Writer) (err error) {
	fs := newFlagSet("thresholds", &cfg)
	in := fs.String("in", "-", "MSLR dataset to sample, - for stdin")
	out := fs.String("out", "-", "threshold YAML to write, - for stdout")
	accuracy := fs.Float64("accuracy", thresholds.DefaultAccuracy, "relative accuracy of quantile estimates")
	fs.IntVar(&cfg.Buckets, "buckets", cfg.Buckets, "buckets per feature")
	if err = fs.Parse(args); err != nil {
		return err
	}
	initLogging(cfg)
	log := logging.Component("thresholds")

	r, closeIn, err := openInput(*in, stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	b := thresholds.NewBuilder(*accuracy)
	rows := 0
	for rec, err := range dataset.NewReader(r).All() {
		if err != nil {
			return err
		}
		for id, v := range rec.Features {
			if err := b.Add(id, v); err != nil {
				return err
			}
		}
		rows++
	}

	set, err := b.Build(thresholds.Quantiles(cfg.Buckets))
	if err != nil {
		return err
	}
	log.Info("thresholds derived", "rows", rows, "features", len(set), "buckets", cfg.Buckets)

	w, closeOut, err := openOutput(*out, stdout)
	if err != nil {
		return err
	}
	defer func() { err = closeOut(err) }()

	return thresholds.NewDocument(set, nil).Encode(w)
}

// runDescribe prints the segment layout of a threshold file.
func runDescribe(cfg Config, args []string, stdout io.Writer) error {
	fs := newFlagSet("describe", &cfg)
	path := fs.String("thresholds", "", "threshold YAML file")
	strict := fs.Bool("strict", false, "fail instead of splitting oversized features")
	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogging(cfg)

	tbl, _, err := loadTable(*path, *strict)
	if err != nil {
		return err
	}

	return table.Describe(stdout, tbl)
}

// runEncode encodes a dataset into a symbol stream, optionally packed as an archive.
func runEncode(ctx context.Context, cfg Config, args []string, stdin io.Reader, stdout io.Writer) (err error) {
	fs := newFlagSet("encode", &cfg)
	path := fs.String("thresholds", "", "threshold YAML file")
	in := fs.String("in", "-", "MSLR dataset to encode, - for stdin")
	out := fs.String("out", "-", "stream file to write, - for stdout")
	strict := fs.Bool("strict", false, "fail instead of splitting oversized features")
	parallel := fs.Bool("parallel", false, "load the dataset and encode it on all workers")
	fixed := fs.Bool("fixed-width", false, "emit one symbol per spanned segment for every feature")
	fs.IntVar(&cfg.Workers, "workers", cfg.Workers, "encoder goroutines for -parallel")
	fs.StringVar(&cfg.Compression, "compress", cfg.Compression, "archive compression: none, zstd, s2, lz4")
	if err := fs.Parse(args); err != nil {
		return err
	}
	initLogging(cfg)
	log := logging.Component("encode")

	ct, err := parseCompression(cfg.Compression)
	if err != nil {
		return err
	}

	tbl, order, err := loadTable(*path, *strict)
	if err != nil {
		return err
	}

	encOpts := []encoding.RowEncoderOption{
		encoding.WithEncoderLogger(logging.Component("encoder")),
		encoding.WithWorkers(cfg.Workers),
	}
	if *fixed {
		encOpts = append(encOpts, encoding.WithFixedWidth())
	}

	enc, err := featab.NewEncoder(tbl, order, encOpts...)
	if err != nil {
		return err
	}

	r, closeIn, err := openInput(*in, stdin)
	if err != nil {
		return err
	}
	defer closeIn()

	w, closeOut, err := openOutput(*out, stdout)
	if err != nil {
		return err
	}
	defer func() { err = closeOut(err) }()

	// Archives need the whole stream for the checksum; plain streams go straight out.
	packed := ct != format.CompressionNone || *parallel
	var stream bytes.Buffer
	dst := w
	if packed {
		dst = &stream
	}

	if *parallel {
		records, err := dataset.ReadAll(r)
		if err != nil {
			return err
		}

		data, err := enc.EncodeFileParallel(ctx, dataset.Rows(records))
		if err != nil {
			return err
		}
		_, _ = stream.Write(data)
		log.Info("rows encoded", "rows", len(records), "bytes", len(data), "workers", cfg.Workers)
	} else {
		n, err := enc.WriteFile(dst, dataset.ReadMSLR(r))
		if err != nil {
			return err
		}
		log.Info("rows encoded", "bytes", n)
	}

	if !packed {
		return nil
	}

	if ct == format.CompressionNone {
		_, err = stream.WriteTo(w)
		return err
	}

	archive, stats, err := encoding.PackWithStats(stream.Bytes(), ct)
	if err != nil {
		return err
	}
	log.Info("stream packed",
		"compression", ct.String(),
		"original", stats.OriginalSize,
		"packed", stats.CompressedSize,
		"savings", fmt.Sprintf("%.1f%%", stats.SpaceSavings()))

	_, err = w.Write(archive)

	return err
}

func loadTable(path string, strict bool) (*table.Table, []int, error) {
	if path == "" {
		return nil, nil, errors.New("-thresholds is required")
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	set, order, err := featab.LoadThresholds(f)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", path, err)
	}

	opts := []compact.Option{compact.WithLogger(logging.Component("compact"))}
	if strict {
		opts = append(opts, compact.WithStrictCapacity())
	}

	tbl, err := featab.Build(set, opts...)
	if err != nil {
		return nil, nil, err
	}
	if order == nil {
		order = featab.DefaultOrder(tbl)
	}

	logStats(logging.Component("table"), tbl)

	return tbl, order, nil
}

func logStats(log *slog.Logger, tbl *table.Table) {
	st := tbl.Stats()
	log.Info("table built",
		"features", tbl.FeatureCount(),
		"segments", tbl.SegmentCount(),
		"stripes", tbl.StripeCount(),
		"split", len(tbl.SplitFeatures()),
		"utilization", fmt.Sprintf("%.1f%%", st.Utilization()*100),
		"fingerprint", fmt.Sprintf("%016x", tbl.Fingerprint()))

	for _, fs := range st.Features {
		log.Debug("feature allocated", "feature", fs.Feature, "thresholds", fs.Thresholds, "segments", fs.Segments)
	}
}

func openInput(path string, stdin io.Reader) (io.Reader, func(), error) {
	if path == "-" || path == "" {
		return stdin, func() {}, nil
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}

	return f, func() { _ = f.Close() }, nil
}

// openOutput returns the destination writer and a function that finishes it. The
// finisher joins the close error into runErr and removes a file whose write failed,
// so a failed run never leaves a truncated stream behind.
func openOutput(path string, stdout io.Writer) (io.Writer, func(runErr error) error, error) {
	if path == "-" || path == "" {
		return stdout, func(runErr error) error { return runErr }, nil
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}

	return f, func(runErr error) error { return finishOutput(f, path, runErr) }, nil
}

func finishOutput(c io.Closer, path string, runErr error) error {
	err := errors.Join(runErr, c.Close())
	if err != nil {
		if rmErr := os.Remove(path); rmErr != nil && !errors.Is(rmErr, os.ErrNotExist) {
			err = errors.Join(err, fmt.Errorf("remove partial output: %w", rmErr))
		}
	}

	return err
}
