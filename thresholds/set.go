// Package thresholds holds the per-feature quantization thresholds a table is built from.
//
// A Set maps a non-negative feature id to its strictly ascending thresholds. Each
// threshold is the inclusive upper bound of one bucket; values above the last threshold
// fall into an implicit catch-all bucket.
//
// Sets come from training data: either loaded from a YAML document (see Decode) or
// estimated from samples with a Builder, which tracks one quantile sketch per feature.
package thresholds

import (
	"fmt"
	"math"
	"slices"

	"github.com/arloliu/featab/errs"
)

// Set maps feature id to ascending thresholds. A Set is never mutated by featab.
type Set map[int][]float64

// Features returns the feature ids in ascending order.
func (s Set) Features() []int {
	ids := make([]int, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	return ids
}

// MaxFeature returns the largest feature id, or -1 for an empty set.
func (s Set) MaxFeature() int {
	maxID := -1
	for id := range s {
		maxID = max(maxID, id)
	}

	return maxID
}

// Validate checks that ids are non-negative and that every threshold list is finite
// and strictly ascending.
func (s Set) Validate() error {
	for _, id := range s.Features() {
		if id < 0 {
			return errs.NewFeatureError(id, fmt.Errorf("%w: negative feature id", errs.ErrInvalidThresholds))
		}

		ts := s[id]
		for i, v := range ts {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return errs.NewFeatureError(id, fmt.Errorf("%w: threshold %d is not finite", errs.ErrInvalidThresholds, i))
			}
			if i > 0 && v <= ts[i-1] {
				return errs.NewFeatureError(id, fmt.Errorf("%w: threshold %d (%g) not above %g",
					errs.ErrInvalidThresholds, i, v, ts[i-1]))
			}
		}
	}

	return nil
}

// Normalize returns a copy of ts sorted ascending with duplicates and non-finite
// values removed, so it satisfies Validate.
func Normalize(ts []float64) []float64 {
	out := make([]float64, 0, len(ts))
	for _, v := range ts {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		out = append(out, v)
	}
	slices.Sort(out)

	return slices.Compact(out)
}
