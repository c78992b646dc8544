package encoding

import (
	"fmt"

	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/table"
)

// DecodeRow maps one encoded row, without its frame byte, back to the bucket of every
// feature in traversal order. Rows written WithFixedWidth are decoded in that layout.
func (e *RowEncoder) DecodeRow(row []byte) ([]table.Bucket, error) {
	buckets := make([]table.Bucket, 0, len(e.order))

	decode := e.tbl.DecodeBucket
	if e.fixedWidth {
		decode = e.tbl.DecodeBucketFixed
	}

	rest := row
	for _, id := range e.order {
		b, n, err := decode(id, rest)
		if err != nil {
			return nil, err
		}
		buckets = append(buckets, b)
		rest = rest[n:]
	}

	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes after last feature", errs.ErrInvalidFrame, len(rest))
	}

	return buckets, nil
}
