package table

import (
	"fmt"
	"math"

	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/segment"
)

// Bucket is the quantization interval (Lower, Upper] a value resolved into.
// Index counts the feature's thresholds below the bucket, so the catch-all bucket of a
// feature with n thresholds has Index n and Upper +Inf.
type Bucket struct {
	Feature int
	Index   int
	Lower   float64
	Upper   float64
}

// Contains reports whether v lies in the bucket.
func (b Bucket) Contains(v float64) bool {
	return v > b.Lower && v <= b.Upper
}

// DecodeBucket reads one feature's symbol bytes from the front of data and returns the
// bucket they denote together with the number of bytes consumed. It is the inverse of
// AppendBytes up to quantization.
func (t *Table) DecodeBucket(feature int, data []byte) (Bucket, int, error) {
	return t.decodeBucket(feature, data, false)
}

// DecodeBucketFixed is the inverse of AppendBytesFixed: after the matching symbol it
// expects the sentinel of every remaining range.
func (t *Table) DecodeBucketFixed(feature int, data []byte) (Bucket, int, error) {
	return t.decodeBucket(feature, data, true)
}

func (t *Table) decodeBucket(feature int, data []byte, fixed bool) (Bucket, int, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return Bucket{}, 0, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	b := Bucket{Feature: feature, Lower: math.Inf(-1), Upper: math.Inf(1)}
	for n, r := range ranges {
		if n >= len(data) {
			return Bucket{}, n, errs.NewFeatureError(feature, fmt.Errorf("%w: symbols end after %d bytes", errs.ErrInvalidFrame, n))
		}

		idx := int(data[n])
		if idx < r.Start || idx >= r.End {
			return Bucket{}, n, errs.NewFeatureError(feature,
				fmt.Errorf("%w: symbol %d outside range %s", errs.ErrInvalidFrame, idx, r))
		}

		seg := &t.segments[r.Segment]
		b.Index += idx - r.Start
		if idx > r.Start {
			b.Lower = seg.Slot(idx - 1).Value
		}

		switch slot := seg.Slot(idx); slot.Kind {
		case segment.KindThreshold:
			b.Upper = slot.Value
			return skipPadding(b, feature, ranges[n+1:], data[n+1:], n+1, fixed)
		case segment.KindEnd:
			return skipPadding(b, feature, ranges[n+1:], data[n+1:], n+1, fixed)
		}
	}

	return Bucket{}, len(ranges), errs.NewFeatureError(feature, fmt.Errorf("%w: no terminating symbol", errs.ErrInvalidFrame))
}

// skipPadding consumes the don't-care sentinels written after a match in fixed width.
func skipPadding(b Bucket, feature int, rest []segment.Range, data []byte, n int, fixed bool) (Bucket, int, error) {
	if !fixed {
		return b, n, nil
	}

	for i, r := range rest {
		if i >= len(data) || int(data[i]) != r.Sentinel() {
			return Bucket{}, n + i, errs.NewFeatureError(feature,
				fmt.Errorf("%w: expected sentinel of range %s", errs.ErrInvalidFrame, r))
		}
	}

	return b, n + len(rest), nil
}
