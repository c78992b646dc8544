package table

import (
	"sort"

	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/segment"
)

// Symbol addresses one slot: the segment and the slot index emitted as a symbol byte.
type Symbol struct {
	Segment int
	Index   uint8
}

// Resolve returns the symbols that encode value v for a feature.
//
// Ranges are visited in order. Within a range the first slot that is END or a threshold
// greater than or equal to v is the match: it is emitted and resolution stops. A range
// with no such threshold emits its CONTINUE slot and resolution moves to the next range.
// The last range always ends with END, so resolution terminates there at the latest.
// NaN compares false against every threshold and resolves to END.
//
// A split feature therefore yields between one and len(ranges) symbols depending on v.
// Consumers that need one symbol per spanned segment use ResolveFixed instead.
func (t *Table) Resolve(feature int, v float64) ([]Symbol, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return nil, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	return t.appendSymbols(make([]Symbol, 0, len(ranges)), ranges, v, false), nil
}

// ResolveFixed is like Resolve but always yields exactly one symbol per range: after the
// match, every remaining range contributes its sentinel slot as a don't-care symbol.
func (t *Table) ResolveFixed(feature int, v float64) ([]Symbol, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return nil, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	return t.appendSymbols(make([]Symbol, 0, len(ranges)), ranges, v, true), nil
}

// AppendSymbols is like Resolve but appends to dst.
func (t *Table) AppendSymbols(dst []Symbol, feature int, v float64) ([]Symbol, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return dst, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	return t.appendSymbols(dst, ranges, v, false), nil
}

// AppendBytes appends the symbol indexes for v to dst, one byte per symbol.
func (t *Table) AppendBytes(dst []byte, feature int, v float64) ([]byte, error) {
	return t.appendBytes(dst, feature, v, false)
}

// AppendBytesFixed is AppendBytes with the fixed width of ResolveFixed.
func (t *Table) AppendBytesFixed(dst []byte, feature int, v float64) ([]byte, error) {
	return t.appendBytes(dst, feature, v, true)
}

func (t *Table) appendBytes(dst []byte, feature int, v float64, fixed bool) ([]byte, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return dst, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	for i, r := range ranges {
		idx, done := t.match(r, v)
		dst = append(dst, byte(idx))
		if done {
			if fixed {
				for _, rest := range ranges[i+1:] {
					dst = append(dst, byte(rest.Sentinel()))
				}
			}

			break
		}
	}

	return dst, nil
}

func (t *Table) appendSymbols(dst []Symbol, ranges []segment.Range, v float64, fixed bool) []Symbol {
	for i, r := range ranges {
		idx, done := t.match(r, v)
		dst = append(dst, Symbol{Segment: r.Segment, Index: uint8(idx)})
		if done {
			if fixed {
				for _, rest := range ranges[i+1:] {
					dst = append(dst, Symbol{Segment: rest.Segment, Index: uint8(rest.Sentinel())})
				}
			}

			break
		}
	}

	return dst
}

// match binary-searches the ascending thresholds of r for the first one >= v. It
// returns the matching slot index and true, or the sentinel index and whether that
// sentinel is END. Ties pick the lowest index, same as a linear scan.
func (t *Table) match(r segment.Range, v float64) (int, bool) {
	seg := &t.segments[r.Segment]
	n := r.Sentinel() - r.Start
	i := sort.Search(n, func(i int) bool {
		return v <= seg.Slot(r.Start+i).Value
	})
	if i < n {
		return r.Start + i, true
	}

	return r.Sentinel(), seg.Slot(r.Sentinel()).Kind == segment.KindEnd
}
