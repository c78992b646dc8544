package encoding

// Row supplies feature values for one input row.
type Row interface {
	// Value returns the row's value for a feature and whether it is present.
	Value(feature int) (float64, bool)
}

// DenseRow stores values by position: index i holds feature i.
type DenseRow []float64

func (r DenseRow) Value(feature int) (float64, bool) {
	if feature < 0 || feature >= len(r) {
		return 0, false
	}

	return r[feature], true
}

// SparseRow stores values keyed by feature id.
type SparseRow map[int]float64

func (r SparseRow) Value(feature int) (float64, bool) {
	v, ok := r[feature]
	return v, ok
}
