// Package dataset reads learning-to-rank datasets in the MSLR (LETOR) text format.
//
// Each line holds one query-document pair:
//
//	<label> qid:<query> 1:<value> 2:<value> ... [# comment]
//
// Feature k of the file becomes feature id k-1, so MSLR-WEB30K's 136 features map to
// ids 0..135.
package dataset

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"

	"github.com/arloliu/featab/encoding"
	"github.com/arloliu/featab/errs"
)

// maxLineSize bounds a single dataset line.
const maxLineSize = 1 << 20

// Record is one parsed dataset line. It implements encoding.Row.
type Record struct {
	Label    int
	Query    string
	Features encoding.SparseRow
}

var _ encoding.Row = Record{}

// Value returns the record's value for a feature id.
func (r Record) Value(feature int) (float64, bool) {
	return r.Features.Value(feature)
}

// ParseLine parses one MSLR line. Errors wrap errs.ErrMalformedRow.
func ParseLine(line string) (Record, error) {
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	fields := strings.Fields(line)
	if len(fields) < 2 {
		return Record{}, fmt.Errorf("%w: want label and qid, got %d fields", errs.ErrMalformedRow, len(fields))
	}

	label, err := strconv.Atoi(fields[0])
	if err != nil {
		return Record{}, fmt.Errorf("%w: label %q: %w", errs.ErrMalformedRow, fields[0], err)
	}

	query, ok := strings.CutPrefix(fields[1], "qid:")
	if !ok {
		return Record{}, fmt.Errorf("%w: expected qid, got %q", errs.ErrMalformedRow, fields[1])
	}

	rec := Record{
		Label:    label,
		Query:    query,
		Features: make(encoding.SparseRow, len(fields)-2),
	}
	for _, tok := range fields[2:] {
		k, v, ok := strings.Cut(tok, ":")
		if !ok {
			return Record{}, fmt.Errorf("%w: feature token %q", errs.ErrMalformedRow, tok)
		}

		idx, err := strconv.Atoi(k)
		if err != nil || idx < 1 {
			return Record{}, fmt.Errorf("%w: feature index %q", errs.ErrMalformedRow, k)
		}

		val, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return Record{}, fmt.Errorf("%w: feature %d value %q: %w", errs.ErrMalformedRow, idx, v, err)
		}

		if _, dup := rec.Features[idx-1]; dup {
			return Record{}, fmt.Errorf("%w: feature %d repeated", errs.ErrMalformedRow, idx)
		}
		rec.Features[idx-1] = val
	}

	return rec, nil
}

// Reader reads records from an MSLR stream.
type Reader struct {
	sc   *bufio.Scanner
	line int
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	return &Reader{sc: sc}
}

// Next returns the next record, skipping blank lines. It returns io.EOF at the end.
// Parse errors are *errs.RowError values carrying the zero-based record index.
func (r *Reader) Next() (Record, error) {
	for r.sc.Scan() {
		text := strings.TrimSpace(r.sc.Text())
		if text == "" || text[0] == '#' {
			continue
		}

		rec, err := ParseLine(text)
		if err != nil {
			return Record{}, errs.NewRowError(r.line, -1, err)
		}
		r.line++

		return rec, nil
	}

	if err := r.sc.Err(); err != nil {
		return Record{}, fmt.Errorf("read dataset: %w", err)
	}

	return Record{}, io.EOF
}

// All iterates over the remaining records. Iteration stops after the first error.
func (r *Reader) All() iter.Seq2[Record, error] {
	return func(yield func(Record, error) bool) {
		for {
			rec, err := r.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(rec, err) || err != nil {
				return
			}
		}
	}
}

// ReadMSLR adapts an MSLR stream to the row sequence consumed by
// encoding.RowEncoder.WriteFile.
func ReadMSLR(r io.Reader) iter.Seq2[encoding.Row, error] {
	rd := NewReader(r)

	return func(yield func(encoding.Row, error) bool) {
		for rec, err := range rd.All() {
			if !yield(rec, err) {
				return
			}
		}
	}
}

// ReadAll reads every record of r.
func ReadAll(r io.Reader) ([]Record, error) {
	var out []Record
	for rec, err := range NewReader(r).All() {
		if err != nil {
			return nil, err
		}
		out = append(out, rec)
	}

	return out, nil
}

// Rows converts records to encoder rows.
func Rows(records []Record) []encoding.Row {
	rows := make([]encoding.Row, len(records))
	for i, rec := range records {
		rows[i] = rec
	}

	return rows
}
