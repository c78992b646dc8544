// Package segment defines the fixed-capacity address segments that hold quantization
// thresholds and the range pointers that locate a feature's slots inside them.
//
// # Layout
//
// A segment is an ordered array of at most format.SegmentCapacity (254) slots. The index
// of a slot inside its segment is the symbol byte emitted for it, so every symbol lies in
// [0, 253] and never collides with the 0xFF frame byte.
//
// Each feature occupies one contiguous range per segment it spans. The last slot of a
// range is always a sentinel:
//
//	single segment:   [ t0 | t1 | ... | tn | END ]
//	split feature:    [ t0 | ... | tk | CONTINUE ]  ->  [ tk+1 | ... | tn | END ]
//
// Several features may share one segment back to back:
//
//	segment 0:  [ 1.0 | 5.0 | 10.0 | END | 0.2 | 0.4 | 0.8 | END ]
//	             '------ feature 0 -----'  '------ feature 2 -----'
//
// Range end offsets are exclusive, so a range's sentinel sits at End-1.
package segment
