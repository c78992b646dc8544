// Package featab compiles per-feature quantization thresholds into compact lookup
// segments and encodes rows of feature values as framed symbol byte streams.
//
// Each threshold occupies one slot of a 254-slot segment; the slot index is the byte
// emitted when a value resolves to it. Features are striped over the fewest segments
// that hold them, and a feature too large for one segment is split across several,
// linked by CONTINUE slots.
//
// # Basic Usage
//
//	set := thresholds.Set{
//	    0: {1, 5, 10},
//	    1: {0.2, 0.4, 0.8},
//	}
//
//	tbl, _ := featab.Build(set)
//	enc, _ := featab.NewEncoder(tbl, featab.DefaultOrder(tbl))
//
//	stream, _ := enc.EncodeFile([]encoding.Row{
//	    encoding.DenseRow{3, 0.9},
//	    encoding.DenseRow{50, 0.1},
//	})
//
// # Package Structure
//
// This package wraps the most common calls. For finer control use the underlying
// packages directly:
//   - thresholds: threshold sets, YAML files, quantile-derived thresholds
//   - compact: the segment packer
//   - table: the immutable feature table and symbol resolution
//   - encoding: row encoding, stream reading, archives
//   - compress: archive codecs
//   - dataset: MSLR dataset reader
package featab

import (
	"io"

	"github.com/arloliu/featab/compact"
	"github.com/arloliu/featab/encoding"
	"github.com/arloliu/featab/table"
	"github.com/arloliu/featab/thresholds"
)

// Build validates set and compiles it into a feature table.
func Build(set thresholds.Set, opts ...compact.Option) (*table.Table, error) {
	return table.Build(set, opts...)
}

// NewEncoder creates a row encoder over tbl emitting features in order.
func NewEncoder(tbl *table.Table, order []int, opts ...encoding.RowEncoderOption) (*encoding.RowEncoder, error) {
	return encoding.NewRowEncoder(tbl, order, opts...)
}

// DefaultOrder returns the table's features in ascending id order.
func DefaultOrder(tbl *table.Table) []int {
	return tbl.Features()
}

// EncodeFile builds a table from set and encodes rows in one step. A nil order selects
// DefaultOrder.
func EncodeFile(set thresholds.Set, order []int, rows []encoding.Row) ([]byte, *table.Table, error) {
	tbl, err := Build(set)
	if err != nil {
		return nil, nil, err
	}

	if order == nil {
		order = DefaultOrder(tbl)
	}

	enc, err := NewEncoder(tbl, order)
	if err != nil {
		return nil, nil, err
	}

	stream, err := enc.EncodeFile(rows)
	if err != nil {
		return nil, nil, err
	}

	return stream, tbl, nil
}

// LoadThresholds reads a YAML threshold document. The returned order is nil when the
// document does not carry one.
func LoadThresholds(r io.Reader) (thresholds.Set, []int, error) {
	doc, err := thresholds.Decode(r)
	if err != nil {
		return nil, nil, err
	}

	set, err := doc.Set()
	if err != nil {
		return nil, nil, err
	}

	return set, doc.Order, nil
}
