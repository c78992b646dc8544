package segment

import (
	"fmt"

	"github.com/arloliu/featab/format"
)

// Segment is a fixed-capacity array of slots.
//
// Segments are filled by the compactor and then owned by a read-only table, so the
// zero value is an empty segment ready for Append.
type Segment struct {
	slots []Slot
}

// New creates an empty segment with room for size slots.
func New(size int) Segment {
	if size > format.SegmentCapacity {
		size = format.SegmentCapacity
	}

	return Segment{slots: make([]Slot, 0, size)}
}

// Len returns the number of occupied slots.
func (s *Segment) Len() int { return len(s.slots) }

// Free returns the number of slots still available.
func (s *Segment) Free() int { return format.SegmentCapacity - len(s.slots) }

// Slot returns the slot at index i.
func (s *Segment) Slot(i int) Slot { return s.slots[i] }

// Slots returns a copy of the occupied slots.
func (s *Segment) Slots() []Slot {
	out := make([]Slot, len(s.slots))
	copy(out, s.slots)

	return out
}

// Append writes a feature's thresholds followed by the given sentinel and returns the
// range it occupies. It fails without modifying the segment when the slots don't fit.
func (s *Segment) Append(id int, thresholds []float64, sentinel Slot) (Range, error) {
	need := len(thresholds) + 1
	if need > s.Free() {
		return Range{}, fmt.Errorf("segment %d: need %d slots, %d free", id, need, s.Free())
	}

	start := len(s.slots)
	for _, v := range thresholds {
		s.slots = append(s.slots, Threshold(v))
	}
	s.slots = append(s.slots, sentinel)

	return Range{Segment: id, Start: start, End: len(s.slots)}, nil
}

// Range locates a feature's slots within one segment. End is exclusive and the slot at
// End-1 is the range's sentinel.
type Range struct {
	Segment int
	Start   int
	End     int
}

// Len returns the number of slots in the range, sentinel included.
func (r Range) Len() int { return r.End - r.Start }

// Sentinel returns the index of the range's trailing sentinel slot.
func (r Range) Sentinel() int { return r.End - 1 }

func (r Range) String() string {
	return fmt.Sprintf("seg:%d[%d:%d]", r.Segment, r.Start, r.End)
}
