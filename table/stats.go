package table

import (
	"slices"

	"github.com/arloliu/featab/format"
	"github.com/arloliu/featab/internal/hash"
)

// FeatureStats describes how one feature was allocated.
type FeatureStats struct {
	Feature    int
	Thresholds int
	Segments   []int
}

// SegmentStats describes the occupancy of one segment.
type SegmentStats struct {
	Segment  int
	Occupied int
	Free     int
	Features []int
	Striped  bool
}

// Stats is a snapshot of the table's allocation.
type Stats struct {
	StripeCount  int
	SegmentCount int
	Occupied     int
	Features     []FeatureStats
	Segments     []SegmentStats
}

// Utilization returns the fraction of segment slots in use.
func (s Stats) Utilization() float64 {
	if s.SegmentCount == 0 {
		return 0
	}

	return float64(s.Occupied) / float64(s.SegmentCount*format.SegmentCapacity)
}

// Stats collects per-feature and per-segment allocation data.
func (t *Table) Stats() Stats {
	st := Stats{
		StripeCount:  t.stripes,
		SegmentCount: len(t.segments),
		Features:     make([]FeatureStats, 0, len(t.features)),
		Segments:     make([]SegmentStats, len(t.segments)),
	}

	for i := range t.segments {
		st.Segments[i] = SegmentStats{
			Segment:  i,
			Occupied: t.segments[i].Len(),
			Free:     t.segments[i].Free(),
			Striped:  i < t.stripes,
		}
		st.Occupied += t.segments[i].Len()
	}

	for _, id := range t.features {
		fs := FeatureStats{Feature: id}
		for _, r := range t.ranges[id] {
			fs.Thresholds += r.Len() - 1
			fs.Segments = append(fs.Segments, r.Segment)
			seg := &st.Segments[r.Segment]
			if !slices.Contains(seg.Features, id) {
				seg.Features = append(seg.Features, id)
			}
		}
		st.Features = append(st.Features, fs)
	}

	return st
}

// Fingerprint returns an xxHash64 digest of the layout: segment contents and every
// feature's ranges. Two tables with equal fingerprints emit identical symbol streams,
// so a consumer can check that a stream was encoded against the layout it was built for.
func (t *Table) Fingerprint() uint64 {
	d := hash.New()

	d.Int(len(t.segments))
	for i := range t.segments {
		seg := &t.segments[i]
		d.Int(seg.Len())
		for j := 0; j < seg.Len(); j++ {
			slot := seg.Slot(j)
			d.Int(int(slot.Kind))
			d.Float64(slot.Value)
		}
	}

	d.Int(len(t.features))
	for _, id := range t.features {
		d.Int(id)
		for _, r := range t.ranges[id] {
			d.Int(r.Segment)
			d.Int(r.Start)
			d.Int(r.End)
		}
	}

	return d.Sum64()
}
