// Package compact packs per-feature threshold lists into fixed-capacity segments.
//
// The primary path stripes features round-robin: with S segments, feature f lands in
// segment f mod S. The smallest S for which no segment overflows wins. The placement
// rule is part of the output contract, since downstream consumers may derive a
// feature's segment from its id alone.
//
// Features too large for any single segment are split into consecutive chunks, each in
// a dedicated segment appended after the striped ones. All but the last chunk end with
// a CONTINUE sentinel; the last ends with END.
package compact

import (
	"fmt"

	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/format"
	"github.com/arloliu/featab/internal/options"
	"github.com/arloliu/featab/segment"
	"github.com/arloliu/featab/thresholds"
)

// maxChunkThresholds is the most thresholds one split chunk holds; the remaining slot
// is its sentinel.
const maxChunkThresholds = format.SegmentCapacity - 1

// Layout is the result of a compaction run.
type Layout struct {
	// Segments holds the striped segments first, then one segment per split chunk.
	Segments []segment.Segment

	// Ranges maps each feature to its ranges in traversal order.
	Ranges map[int][]segment.Range

	// StripeCount is the accepted striping width S; segments [0, S) are striped.
	StripeCount int

	// Split lists the features placed by the split fallback, ascending.
	Split []int
}

// Compact computes the segment layout for a threshold set.
//
// It returns errs.ErrInvalidThresholds for malformed input, errs.ErrCapacityExceeded
// when a feature needs more than format.MaxFeatureSlots slots (or any split is needed
// under WithStrictCapacity), and errs.ErrPackingUnbounded when the search exhausts its
// bound or the layout exceeds WithMaxSegments. No partial layout is returned on error.
func Compact(set thresholds.Set, opts ...Option) (*Layout, error) {
	cfg := newConfig()
	if err := options.Apply(cfg, opts...); err != nil {
		return nil, err
	}

	if err := set.Validate(); err != nil {
		return nil, err
	}

	var fitting, oversized []int
	for _, id := range set.Features() {
		need := len(set[id]) + 1
		switch {
		case need <= format.SegmentCapacity:
			fitting = append(fitting, id)
		case need > format.MaxFeatureSlots:
			return nil, errs.NewFeatureError(id, fmt.Errorf("%w: %d slots needed, ceiling is %d",
				errs.ErrCapacityExceeded, need, format.MaxFeatureSlots))
		case cfg.strict:
			return nil, errs.NewFeatureError(id, fmt.Errorf("%w: %d slots needed, segment holds %d",
				errs.ErrCapacityExceeded, need, format.SegmentCapacity))
		default:
			oversized = append(oversized, id)
		}
	}

	stripes, err := stripeCount(set, fitting)
	if err != nil {
		return nil, err
	}

	layout := &Layout{
		Segments:    make([]segment.Segment, stripes, stripes+len(oversized)),
		Ranges:      make(map[int][]segment.Range, len(set)),
		StripeCount: stripes,
		Split:       oversized,
	}

	for _, id := range fitting {
		segID := id % stripes
		r, err := layout.Segments[segID].Append(segID, set[id], segment.End())
		if err != nil {
			// stripeCount accepted this width, so an overflow here is a bug.
			return nil, errs.NewFeatureError(id, err)
		}
		layout.Ranges[id] = []segment.Range{r}
	}

	for _, id := range oversized {
		ranges := split(layout, set[id])
		layout.Ranges[id] = ranges
		cfg.logger.Info("feature split across segments",
			"feature", id, "thresholds", len(set[id]), "segments", len(ranges),
			"reason", errs.ErrCapacityExceeded)
	}

	if cfg.maxSegments > 0 && len(layout.Segments) > cfg.maxSegments {
		return nil, fmt.Errorf("%w: layout needs %d segments, limit is %d",
			errs.ErrPackingUnbounded, len(layout.Segments), cfg.maxSegments)
	}

	cfg.logger.Info("segments packed",
		"features", len(set), "stripes", stripes, "split", len(oversized), "segments", len(layout.Segments))

	return layout, nil
}

// stripeCount finds the smallest S for which striping fitting features by id mod S
// keeps every segment within capacity. Widths below ceil(total/capacity) can never
// succeed, so the search starts there. At S = maxID+1 every feature sits alone, which
// bounds the search. Ids may be sparse and large, so per-width load is kept by
// occupied segment rather than in a slice of length S.
func stripeCount(set thresholds.Set, fitting []int) (int, error) {
	if len(fitting) == 0 {
		return 0, nil
	}

	total := 0
	for _, id := range fitting {
		total += len(set[id]) + 1
	}

	bound := fitting[len(fitting)-1] + 1
	start := max(1, (total+format.SegmentCapacity-1)/format.SegmentCapacity)
	load := make(map[int]int, len(fitting))

	for s := start; s <= bound; s++ {
		if stripesFit(set, fitting, s, load) {
			return s, nil
		}
	}

	return 0, fmt.Errorf("%w: no striping width up to %d fits", errs.ErrPackingUnbounded, bound)
}

// stripesFit reports whether width s keeps every segment within capacity. load is
// scratch space, cleared on entry.
func stripesFit(set thresholds.Set, fitting []int, s int, load map[int]int) bool {
	clear(load)
	for _, id := range fitting {
		seg := id % s
		load[seg] += len(set[id]) + 1
		if load[seg] > format.SegmentCapacity {
			return false
		}
	}

	return true
}

// split places ts into ceil(len/253) dedicated segments with sizes differing by at most
// one, earlier chunks taking the remainder.
func split(layout *Layout, ts []float64) []segment.Range {
	sizes := chunkSizes(len(ts))
	ranges := make([]segment.Range, 0, len(sizes))

	off := 0
	for i, n := range sizes {
		sentinel := segment.Continue()
		if i == len(sizes)-1 {
			sentinel = segment.End()
		}

		segID := len(layout.Segments)
		seg := segment.New(n + 1)
		r, _ := seg.Append(segID, ts[off:off+n], sentinel) // n+1 <= capacity by construction
		layout.Segments = append(layout.Segments, seg)
		ranges = append(ranges, r)
		off += n
	}

	return ranges
}

func chunkSizes(n int) []int {
	k := (n + maxChunkThresholds - 1) / maxChunkThresholds
	base, extra := n/k, n%k

	sizes := make([]int, k)
	for i := range sizes {
		sizes[i] = base
		if i < extra {
			sizes[i]++
		}
	}

	return sizes
}
