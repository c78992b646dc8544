package segment

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/featab/format"
)

func TestSegment_Append(t *testing.T) {
	t.Run("back to back features", func(t *testing.T) {
		seg := New(8)

		r0, err := seg.Append(0, []float64{1, 5, 10}, End())
		require.NoError(t, err)
		require.Equal(t, Range{Segment: 0, Start: 0, End: 4}, r0)

		r1, err := seg.Append(0, []float64{0.2, 0.4, 0.8}, End())
		require.NoError(t, err)
		require.Equal(t, Range{Segment: 0, Start: 4, End: 8}, r1)

		require.Equal(t, 8, seg.Len())
		require.Equal(t, format.SegmentCapacity-8, seg.Free())
		require.Equal(t, KindEnd, seg.Slot(r0.Sentinel()).Kind)
		require.Equal(t, KindEnd, seg.Slot(r1.Sentinel()).Kind)
		require.Equal(t, 5.0, seg.Slot(1).Value)
	})

	t.Run("continue sentinel", func(t *testing.T) {
		var seg Segment
		r, err := seg.Append(3, []float64{1, 2}, Continue())
		require.NoError(t, err)
		require.Equal(t, 3, r.Len())
		require.Equal(t, KindContinue, seg.Slot(r.Sentinel()).Kind)
	})

	t.Run("rejects overflow untouched", func(t *testing.T) {
		var seg Segment
		_, err := seg.Append(0, make([]float64, format.SegmentCapacity-1), End())
		require.NoError(t, err)
		require.Equal(t, 0, seg.Free())

		_, err = seg.Append(0, nil, End())
		require.Error(t, err)
		require.Equal(t, format.SegmentCapacity, seg.Len())
	})

	t.Run("slots returns a copy", func(t *testing.T) {
		var seg Segment
		_, err := seg.Append(0, []float64{1}, End())
		require.NoError(t, err)

		slots := seg.Slots()
		slots[0] = Continue()
		require.Equal(t, KindThreshold, seg.Slot(0).Kind)
	})
}

func TestSlot_Matches(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
		v    float64
		want bool
	}{
		{"below threshold", Threshold(5), 3, true},
		{"equal threshold", Threshold(5), 5, true},
		{"above threshold", Threshold(5), 6, false},
		{"end", End(), 1e300, true},
		{"continue", Continue(), -1e300, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.slot.Matches(tt.v))
		})
	}
}

func TestSlot_String(t *testing.T) {
	require.Equal(t, "2.5", Threshold(2.5).String())
	require.Equal(t, "END", End().String())
	require.Equal(t, "CONT", Continue().String())
	require.Equal(t, "Continue", KindContinue.String())
}
