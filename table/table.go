// Package table provides the immutable feature lookup table and symbol resolution.
//
// A Table is built once from a threshold set and is read-only afterwards: every method
// is safe for concurrent use without synchronization.
//
//	tbl, err := table.Build(set)
//	syms, err := tbl.Resolve(0, 3.0) // [{Segment:0 Index:1}]
package table

import (
	"fmt"
	"slices"

	"github.com/arloliu/featab/compact"
	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/segment"
	"github.com/arloliu/featab/thresholds"
)

// Table maps features to their ranges and owns the segments those ranges point into.
type Table struct {
	features []int
	ranges   map[int][]segment.Range
	segments []segment.Segment
	stripes  int
	split    []int
}

// New wraps a compaction layout. The layout is taken over as is and must not be
// modified by the caller afterwards.
func New(layout *compact.Layout) *Table {
	features := make([]int, 0, len(layout.Ranges))
	for id := range layout.Ranges {
		features = append(features, id)
	}
	slices.Sort(features)

	return &Table{
		features: features,
		ranges:   layout.Ranges,
		segments: layout.Segments,
		stripes:  layout.StripeCount,
		split:    layout.Split,
	}
}

// Build compacts a threshold set and wraps the resulting layout.
func Build(set thresholds.Set, opts ...compact.Option) (*Table, error) {
	layout, err := compact.Compact(set, opts...)
	if err != nil {
		return nil, err
	}

	return New(layout), nil
}

// Features returns the feature ids in ascending order.
func (t *Table) Features() []int { return slices.Clone(t.features) }

// FeatureCount returns the number of features in the table.
func (t *Table) FeatureCount() int { return len(t.features) }

// Has reports whether the feature is in the table.
func (t *Table) Has(feature int) bool {
	_, ok := t.ranges[feature]
	return ok
}

// SegmentCount returns the total number of segments, striped and split.
func (t *Table) SegmentCount() int { return len(t.segments) }

// StripeCount returns the striping width; segments below it are shared round-robin.
func (t *Table) StripeCount() int { return t.stripes }

// SplitFeatures returns the features that span more than one segment.
func (t *Table) SplitFeatures() []int { return slices.Clone(t.split) }

// Segment returns a copy of the slots in segment i. An index outside
// [0, SegmentCount()) yields errs.ErrUnknownSegment.
func (t *Table) Segment(i int) ([]segment.Slot, error) {
	if i < 0 || i >= len(t.segments) {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrUnknownSegment, i, len(t.segments))
	}

	return t.segments[i].Slots(), nil
}

// Ranges returns the feature's ranges in traversal order.
func (t *Table) Ranges(feature int) ([]segment.Range, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return nil, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	return slices.Clone(ranges), nil
}

// Segments returns the ids of the segments the feature spans, in traversal order.
func (t *Table) Segments(feature int) ([]int, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return nil, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	ids := make([]int, len(ranges))
	for i, r := range ranges {
		ids[i] = r.Segment
	}

	return ids, nil
}

// Thresholds returns the feature's thresholds reassembled from its ranges.
func (t *Table) Thresholds(feature int) ([]float64, error) {
	ranges, ok := t.ranges[feature]
	if !ok {
		return nil, errs.NewFeatureError(feature, errs.ErrUnknownFeature)
	}

	var out []float64
	for _, r := range ranges {
		seg := &t.segments[r.Segment]
		for i := r.Start; i < r.Sentinel(); i++ {
			out = append(out, seg.Slot(i).Value)
		}
	}

	return out, nil
}
