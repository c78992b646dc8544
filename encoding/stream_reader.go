package encoding

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"iter"

	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/format"
)

// SplitRows splits an encoded stream into rows. The returned slices alias data and
// exclude the frame bytes. It fails with errs.ErrInvalidFrame when the stream does not
// start with a frame byte or its last row is not terminated.
func SplitRows(data []byte) ([][]byte, error) {
	if len(data) == 0 || data[0] != format.FrameByte {
		return nil, fmt.Errorf("%w: missing leading frame byte", errs.ErrInvalidFrame)
	}

	var rows [][]byte
	for rest := data[1:]; len(rest) > 0; {
		i := bytes.IndexByte(rest, format.FrameByte)
		if i < 0 {
			return nil, errs.NewRowError(len(rows), -1, fmt.Errorf("%w: unterminated row", errs.ErrInvalidFrame))
		}
		rows = append(rows, rest[:i])
		rest = rest[i+1:]
	}

	return rows, nil
}

// StreamReader reads rows from an encoded stream one at a time.
type StreamReader struct {
	r       *bufio.Reader
	buf     []byte
	row     int
	started bool
}

// NewStreamReader wraps r. The leading frame byte is checked on the first call to Next.
func NewStreamReader(r io.Reader) *StreamReader {
	return &StreamReader{r: bufio.NewReader(r)}
}

// Next returns the next row without its frame byte. It returns io.EOF after the last
// complete row. The returned slice is only valid until the next call.
func (s *StreamReader) Next() ([]byte, error) {
	if !s.started {
		b, err := s.r.ReadByte()
		if err != nil || b != format.FrameByte {
			return nil, fmt.Errorf("%w: missing leading frame byte", errs.ErrInvalidFrame)
		}
		s.started = true
	}

	s.buf = s.buf[:0]
	for {
		chunk, err := s.r.ReadSlice(format.FrameByte)
		s.buf = append(s.buf, chunk...)

		switch {
		case err == nil:
			s.row++
			return s.buf[:len(s.buf)-1], nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF) && len(s.buf) == 0:
			return nil, io.EOF
		case errors.Is(err, io.EOF):
			return nil, errs.NewRowError(s.row, -1, fmt.Errorf("%w: unterminated row", errs.ErrInvalidFrame))
		default:
			return nil, err
		}
	}
}

// All iterates over the remaining rows. Iteration stops after the first error.
func (s *StreamReader) All() iter.Seq2[[]byte, error] {
	return func(yield func([]byte, error) bool) {
		for {
			row, err := s.Next()
			if errors.Is(err, io.EOF) {
				return
			}
			if !yield(row, err) || err != nil {
				return
			}
		}
	}
}
