package thresholds

import (
	"fmt"
	"math"

	"github.com/DataDog/sketches-go/ddsketch"
)

// DefaultAccuracy is the relative accuracy of the per-feature quantile sketches.
const DefaultAccuracy = 0.01

// Builder estimates thresholds from training samples. It keeps one DDSketch per
// feature, so memory stays bounded regardless of the number of samples.
//
// A Builder is not safe for concurrent use.
type Builder struct {
	accuracy float64
	sketches map[int]*ddsketch.DDSketch
}

// NewBuilder creates a builder whose sketches have the given relative accuracy.
// A non-positive accuracy selects DefaultAccuracy.
func NewBuilder(accuracy float64) *Builder {
	if accuracy <= 0 || accuracy >= 1 {
		accuracy = DefaultAccuracy
	}

	return &Builder{accuracy: accuracy, sketches: make(map[int]*ddsketch.DDSketch)}
}

// Add records one sample for a feature. Non-finite values are ignored.
func (b *Builder) Add(feature int, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}

	sk, ok := b.sketches[feature]
	if !ok {
		var err error
		sk, err = ddsketch.NewDefaultDDSketch(b.accuracy)
		if err != nil {
			return fmt.Errorf("feature %d: create sketch: %w", feature, err)
		}
		b.sketches[feature] = sk
	}

	if err := sk.Add(v); err != nil {
		return fmt.Errorf("feature %d: add sample: %w", feature, err)
	}

	return nil
}

// Count returns the number of samples recorded for a feature.
func (b *Builder) Count(feature int) float64 {
	if sk, ok := b.sketches[feature]; ok {
		return sk.GetCount()
	}

	return 0
}

// Quantiles returns the cut points 1/n, 2/n, ... (n-1)/n that split a feature into n
// equal-frequency buckets.
func Quantiles(n int) []float64 {
	if n < 2 {
		return nil
	}

	qs := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		qs = append(qs, float64(i)/float64(n))
	}

	return qs
}

// Build returns a Set with thresholds at the given quantiles for every feature seen.
// Quantile estimates that collapse onto the same value are merged, so skewed features
// may end up with fewer thresholds than requested.
func (b *Builder) Build(quantiles []float64) (Set, error) {
	set := make(Set, len(b.sketches))
	for id, sk := range b.sketches {
		if sk.IsEmpty() {
			set[id] = nil
			continue
		}

		values, err := sk.GetValuesAtQuantiles(quantiles)
		if err != nil {
			return nil, fmt.Errorf("feature %d: quantiles: %w", id, err)
		}
		set[id] = Normalize(values)
	}

	return set, nil
}
