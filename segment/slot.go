package segment

import "strconv"

// SlotKind identifies what a slot holds.
type SlotKind uint8

const (
	KindThreshold SlotKind = iota // KindThreshold holds an inclusive bucket upper bound.
	KindEnd                       // KindEnd marks the catch-all bucket past the last threshold.
	KindContinue                  // KindContinue marks a don't-care slot; matching continues in the next segment.
)

func (k SlotKind) String() string {
	switch k {
	case KindThreshold:
		return "Threshold"
	case KindEnd:
		return "End"
	case KindContinue:
		return "Continue"
	default:
		return "Unknown"
	}
}

// Slot is a single addressable entry in a segment.
type Slot struct {
	Kind  SlotKind
	Value float64 // valid only when Kind is KindThreshold
}

// Threshold returns a threshold slot.
func Threshold(v float64) Slot { return Slot{Kind: KindThreshold, Value: v} }

// End returns the END sentinel slot.
func End() Slot { return Slot{Kind: KindEnd} }

// Continue returns the CONTINUE sentinel slot.
func Continue() Slot { return Slot{Kind: KindContinue} }

// IsSentinel reports whether the slot is END or CONTINUE.
func (s Slot) IsSentinel() bool { return s.Kind != KindThreshold }

// Matches reports whether a value falls into this slot's bucket when scanning in order:
// END always matches, a threshold matches values at or below it, CONTINUE never does.
func (s Slot) Matches(v float64) bool {
	switch s.Kind {
	case KindEnd:
		return true
	case KindThreshold:
		return v <= s.Value
	default:
		return false
	}
}

func (s Slot) String() string {
	switch s.Kind {
	case KindThreshold:
		return strconv.FormatFloat(s.Value, 'g', -1, 64)
	case KindEnd:
		return "END"
	case KindContinue:
		return "CONT"
	default:
		return "?"
	}
}
