package encoding

import (
	"context"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/format"
	"github.com/arloliu/featab/internal/options"
	"github.com/arloliu/featab/internal/pool"
	"github.com/arloliu/featab/table"
)

// RowEncoder turns rows of feature values into framed symbol bytes.
//
// A RowEncoder holds only read-only state, so one instance may encode rows from many
// goroutines at once.
type RowEncoder struct {
	tbl    *table.Table
	order  []int
	logger *slog.Logger

	workers    int
	shardRows  int
	fixedWidth bool
}

// NewRowEncoder creates an encoder that emits features in the given traversal order.
//
// The order must list every feature of the table exactly once. An id the table does
// not know yields errs.ErrUnknownFeature; a duplicate or missing feature yields
// errs.ErrInvalidOrder.
func NewRowEncoder(tbl *table.Table, order []int, opts ...RowEncoderOption) (*RowEncoder, error) {
	cfg := newRowEncoderConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	seen := make(map[int]struct{}, len(order))
	for _, id := range order {
		if !tbl.Has(id) {
			return nil, errs.NewFeatureError(id, errs.ErrUnknownFeature)
		}
		if _, dup := seen[id]; dup {
			return nil, errs.NewFeatureError(id, fmt.Errorf("%w: feature listed twice", errs.ErrInvalidOrder))
		}
		seen[id] = struct{}{}
	}
	if len(seen) != tbl.FeatureCount() {
		return nil, fmt.Errorf("%w: order covers %d of %d features",
			errs.ErrInvalidOrder, len(seen), tbl.FeatureCount())
	}

	return &RowEncoder{
		tbl:        tbl,
		order:      slices.Clone(order),
		logger:     cfg.logger,
		workers:    cfg.workers,
		shardRows:  cfg.shardRows,
		fixedWidth: cfg.fixedWidth,
	}, nil
}

// Order returns the traversal order.
func (e *RowEncoder) Order() []int { return slices.Clone(e.order) }

// AppendRow appends one encoded row to dst: a byte per resolved symbol in traversal
// order followed by the frame byte. On error dst is returned unchanged and the error
// is a *errs.RowError for row 0 wrapping errs.ErrMalformedRow.
func (e *RowEncoder) AppendRow(dst []byte, row Row) ([]byte, error) {
	return e.appendRow(dst, 0, row)
}

// EncodeRow returns the encoded bytes of a single row, frame byte included.
func (e *RowEncoder) EncodeRow(row Row) ([]byte, error) {
	return e.appendRow(make([]byte, 0, len(e.order)+1), 0, row)
}

// EncodeFile encodes rows into a complete stream: a leading frame byte followed by
// every encoded row.
func (e *RowEncoder) EncodeFile(rows []Row) ([]byte, error) {
	out := make([]byte, 1, 1+len(rows)*(len(e.order)+1))
	out[0] = format.FrameByte

	var err error
	for i, row := range rows {
		if out, err = e.appendRow(out, i, row); err != nil {
			return nil, err
		}
	}

	return out, nil
}

// WriteFile streams an encoded file to w, pulling rows from seq. Rows are batched in
// a pooled buffer and flushed as it fills. It returns the number of bytes written.
// An error yielded by seq aborts the write and is returned wrapped with its row index.
func (e *RowEncoder) WriteFile(w io.Writer, seq iter.Seq2[Row, error]) (int64, error) {
	buf := pool.GetStreamBuffer()
	defer pool.PutStreamBuffer(buf)

	_ = buf.WriteByte(format.FrameByte)

	var written int64
	flush := func() error {
		n, err := buf.WriteTo(w)
		written += n
		buf.Reset()

		return err
	}

	i := 0
	for row, err := range seq {
		if err != nil {
			return written, errs.NewRowError(i, -1, err)
		}

		if buf.B, err = e.appendRow(buf.B, i, row); err != nil {
			return written, err
		}
		i++

		if buf.Len() >= pool.StreamBufferFlushBoundary {
			if err := flush(); err != nil {
				return written, err
			}
		}
	}

	if err := flush(); err != nil {
		return written, err
	}
	e.logger.Debug("stream written", "rows", i, "bytes", written)

	return written, nil
}

// EncodeFileParallel encodes rows like EncodeFile, spreading consecutive shards of rows
// over a bounded set of goroutines. Shards are concatenated in input order, so the
// output is identical to EncodeFile. The first failure cancels the remaining work.
func (e *RowEncoder) EncodeFileParallel(ctx context.Context, rows []Row) ([]byte, error) {
	shardCount := (len(rows) + e.shardRows - 1) / e.shardRows
	shards := make([]*pool.ByteBuffer, shardCount)
	defer func() {
		for _, bb := range shards {
			pool.PutShardBuffer(bb)
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)

	for s := range shardCount {
		first := s * e.shardRows
		last := min(first+e.shardRows, len(rows))

		g.Go(func() error {
			bb := pool.GetShardBuffer()
			shards[s] = bb

			for i := first; i < last; i++ {
				if err := gctx.Err(); err != nil {
					return err
				}

				var err error
				if bb.B, err = e.appendRow(bb.B, i, rows[i]); err != nil {
					return err
				}
			}

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	size := 1
	for _, bb := range shards {
		size += bb.Len()
	}

	out := make([]byte, 1, size)
	out[0] = format.FrameByte
	for _, bb := range shards {
		out = append(out, bb.Bytes()...)
	}
	e.logger.Debug("parallel encode finished", "rows", len(rows), "shards", shardCount, "bytes", len(out))

	return out, nil
}

func (e *RowEncoder) appendRow(dst []byte, rowIdx int, row Row) ([]byte, error) {
	mark := len(dst)
	for _, id := range e.order {
		v, ok := row.Value(id)
		if !ok {
			return dst[:mark], errs.NewRowError(rowIdx, id, errs.ErrMalformedRow)
		}

		var err error
		if e.fixedWidth {
			dst, err = e.tbl.AppendBytesFixed(dst, id, v)
		} else {
			dst, err = e.tbl.AppendBytes(dst, id, v)
		}
		if err != nil {
			return dst[:mark], errs.NewRowError(rowIdx, id, err)
		}
	}

	return append(dst, format.FrameByte), nil
}
