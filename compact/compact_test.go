package compact

import (
	"bytes"
	"log/slog"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/featab/errs"
	"github.com/arloliu/featab/format"
	"github.com/arloliu/featab/segment"
	"github.com/arloliu/featab/thresholds"
)

// ==============================================================================
// Helper Functions
// ==============================================================================

func ascending(n int, base float64) []float64 {
	ts := make([]float64, n)
	for i := range ts {
		ts[i] = base + float64(i)
	}

	return ts
}

func randomSet(rng *rand.Rand, features, maxThresholds int) thresholds.Set {
	set := make(thresholds.Set, features)
	for id := 0; id < features; id++ {
		set[id] = ascending(rng.Intn(maxThresholds+1), float64(id))
	}

	return set
}

func requireWithinCapacity(t *testing.T, layout *Layout) {
	t.Helper()
	for i := range layout.Segments {
		require.LessOrEqual(t, layout.Segments[i].Len(), format.SegmentCapacity, "segment %d", i)
	}
}

func requireSentinels(t *testing.T, layout *Layout) {
	t.Helper()
	for id, ranges := range layout.Ranges {
		for i, r := range ranges {
			seg := layout.Segments[r.Segment]
			want := segment.KindContinue
			if i == len(ranges)-1 {
				want = segment.KindEnd
			}
			require.Equal(t, want, seg.Slot(r.Sentinel()).Kind, "feature %d range %d", id, i)
			for j := r.Start; j < r.Sentinel(); j++ {
				require.Equal(t, segment.KindThreshold, seg.Slot(j).Kind)
			}
		}
	}
}

// ==============================================================================
// Striping Tests
// ==============================================================================

func TestCompact_TwoSmallFeatures(t *testing.T) {
	set := thresholds.Set{0: {1, 5, 10}, 1: {0.2, 0.4, 0.8}}

	layout, err := Compact(set)
	require.NoError(t, err)
	require.Equal(t, 1, layout.StripeCount)
	require.Len(t, layout.Segments, 1)
	require.Equal(t, 8, layout.Segments[0].Len())
	require.Empty(t, layout.Split)

	require.Equal(t, []segment.Range{{Segment: 0, Start: 0, End: 4}}, layout.Ranges[0])
	require.Equal(t, []segment.Range{{Segment: 0, Start: 4, End: 8}}, layout.Ranges[1])
	requireSentinels(t, layout)
}

func TestCompact_Striping(t *testing.T) {
	t.Run("round robin placement", func(t *testing.T) {
		// 4 features of 100 thresholds: 2 per segment is 202 slots, so S=2.
		set := thresholds.Set{}
		for id := 0; id < 4; id++ {
			set[id] = ascending(100, 0)
		}

		layout, err := Compact(set)
		require.NoError(t, err)
		require.Equal(t, 2, layout.StripeCount)
		for id := 0; id < 4; id++ {
			require.Equal(t, id%2, layout.Ranges[id][0].Segment)
		}
		require.Equal(t, 202, layout.Segments[0].Len())
		require.Equal(t, 202, layout.Segments[1].Len())
	})

	t.Run("striping is not first fit", func(t *testing.T) {
		// A first-fit packer would use 2 segments; striping by id needs 3 because
		// ids 0 and 2 collide at S=2.
		set := thresholds.Set{0: ascending(200, 0), 1: ascending(10, 0), 2: ascending(200, 0)}

		layout, err := Compact(set)
		require.NoError(t, err)
		require.Equal(t, 3, layout.StripeCount)
	})

	t.Run("sparse ids", func(t *testing.T) {
		set := thresholds.Set{3: ascending(200, 0), 7: ascending(200, 0)}

		layout, err := Compact(set)
		require.NoError(t, err)
		require.Equal(t, 3, layout.StripeCount) // 3%2 and 7%2 collide, so S=2 fails
		require.NotEqual(t, layout.Ranges[3][0].Segment, layout.Ranges[7][0].Segment)
	})

	t.Run("sparse large ids", func(t *testing.T) {
		layout, err := Compact(thresholds.Set{0: {1, 2}, 1 << 40: {1, 2}})
		require.NoError(t, err)
		require.Equal(t, 1, layout.StripeCount)
		require.Len(t, layout.Segments, 1)
		require.Equal(t, []segment.Range{{Segment: 0, Start: 3, End: 6}}, layout.Ranges[1<<40])
	})

	t.Run("sparse large ids colliding", func(t *testing.T) {
		// 1<<40 is divisible by every power of two, so S=2 fails and S=3 is the first fit.
		layout, err := Compact(thresholds.Set{0: ascending(200, 0), 1 << 40: ascending(200, 0)})
		require.NoError(t, err)
		require.Equal(t, 3, layout.StripeCount)
		require.Equal(t, 1, layout.Ranges[1<<40][0].Segment)
		requireSentinels(t, layout)
	})

	t.Run("empty set", func(t *testing.T) {
		layout, err := Compact(thresholds.Set{})
		require.NoError(t, err)
		require.Zero(t, layout.StripeCount)
		require.Empty(t, layout.Segments)
	})

	t.Run("feature without thresholds", func(t *testing.T) {
		layout, err := Compact(thresholds.Set{0: nil})
		require.NoError(t, err)
		require.Equal(t, []segment.Range{{Segment: 0, Start: 0, End: 1}}, layout.Ranges[0])
		requireSentinels(t, layout)
	})

	t.Run("exactly full segment", func(t *testing.T) {
		layout, err := Compact(thresholds.Set{0: ascending(format.SegmentCapacity-1, 0)})
		require.NoError(t, err)
		require.Empty(t, layout.Split)
		require.Equal(t, format.SegmentCapacity, layout.Segments[0].Len())
	})
}

func TestCompact_StripeCountIsMinimal(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		set := randomSet(rng, 1+rng.Intn(40), 200)

		layout, err := Compact(set)
		require.NoError(t, err)
		requireWithinCapacity(t, layout)
		requireSentinels(t, layout)

		fitting := set.Features()
		load := make(map[int]int)
		for s := 1; s < layout.StripeCount; s++ {
			require.False(t, stripesFit(set, fitting, s, load), "round %d: width %d also fits", round, s)
		}
	}
}

// ==============================================================================
// Split Fallback Tests
// ==============================================================================

func TestCompact_Split(t *testing.T) {
	t.Run("300 thresholds split in two", func(t *testing.T) {
		set := thresholds.Set{0: ascending(300, 0), 1: {1, 2, 3}}

		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		layout, err := Compact(set, WithLogger(logger))
		require.NoError(t, err)
		require.Equal(t, []int{0}, layout.Split)
		require.Equal(t, 1, layout.StripeCount)
		require.Len(t, layout.Segments, 3)

		ranges := layout.Ranges[0]
		require.Len(t, ranges, 2)
		require.Equal(t, segment.Range{Segment: 1, Start: 0, End: 151}, ranges[0])
		require.Equal(t, segment.Range{Segment: 2, Start: 0, End: 151}, ranges[1])
		require.Equal(t, segment.KindContinue, layout.Segments[1].Slot(150).Kind)
		require.Equal(t, segment.KindEnd, layout.Segments[2].Slot(150).Kind)
		require.Equal(t, 150.0, layout.Segments[2].Slot(0).Value)

		requireSentinels(t, layout)
		require.Contains(t, logs.String(), "feature split across segments")
	})

	t.Run("strict capacity", func(t *testing.T) {
		_, err := Compact(thresholds.Set{4: ascending(300, 0)}, WithStrictCapacity())
		require.ErrorIs(t, err, errs.ErrCapacityExceeded)

		var fe *errs.FeatureError
		require.ErrorAs(t, err, &fe)
		require.Equal(t, 4, fe.Feature)
	})

	t.Run("beyond hard ceiling", func(t *testing.T) {
		_, err := Compact(thresholds.Set{0: ascending(format.MaxFeatureSlots, 0)})
		require.ErrorIs(t, err, errs.ErrCapacityExceeded)
	})

	t.Run("at hard ceiling", func(t *testing.T) {
		layout, err := Compact(thresholds.Set{0: ascending(format.MaxFeatureSlots-1, 0)})
		require.NoError(t, err)
		require.Len(t, layout.Ranges[0], 255)
		requireWithinCapacity(t, layout)
		requireSentinels(t, layout)
	})
}

func TestChunkSizes(t *testing.T) {
	tests := []struct {
		n    int
		want []int
	}{
		{254, []int{127, 127}},
		{300, []int{150, 150}},
		{301, []int{151, 150}},
		{506, []int{253, 253}},
		{507, []int{169, 169, 169}},
	}
	for _, tt := range tests {
		got := chunkSizes(tt.n)
		require.Equal(t, tt.want, got, "n=%d", tt.n)
	}
}

// ==============================================================================
// Option and Error Tests
// ==============================================================================

func TestCompact_MaxSegments(t *testing.T) {
	set := thresholds.Set{0: ascending(200, 0), 1: ascending(200, 0)}

	_, err := Compact(set, WithMaxSegments(1))
	require.ErrorIs(t, err, errs.ErrPackingUnbounded)

	layout, err := Compact(set, WithMaxSegments(2))
	require.NoError(t, err)
	require.Len(t, layout.Segments, 2)

	_, err = Compact(set, WithMaxSegments(-1))
	require.Error(t, err)
}

func TestCompact_InvalidThresholds(t *testing.T) {
	_, err := Compact(thresholds.Set{0: {3, 2}})
	require.ErrorIs(t, err, errs.ErrInvalidThresholds)
}
