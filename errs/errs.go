// Package errs defines the sentinel errors returned by featab packages.
//
// Callers should compare with errors.Is. Errors that concern a specific feature or
// row are returned as *FeatureError or *RowError, which unwrap to one of the sentinels.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrCapacityExceeded is returned when a feature cannot fit into segment storage,
	// either because it exceeds the hard ceiling or because splitting is disabled.
	ErrCapacityExceeded = errors.New("feature exceeds segment capacity")

	// ErrPackingUnbounded is returned when the segment count search hits its bound.
	ErrPackingUnbounded = errors.New("segment count search exceeded its bound")

	// ErrUnknownFeature is returned when a feature id is not present in the table.
	ErrUnknownFeature = errors.New("unknown feature")

	// ErrUnknownSegment is returned when a segment index is outside the table.
	ErrUnknownSegment = errors.New("unknown segment")

	// ErrMalformedRow is returned when a row lacks a value for a required feature.
	ErrMalformedRow = errors.New("malformed row")

	ErrInvalidThresholds = errors.New("invalid thresholds")
	ErrInvalidOrder      = errors.New("invalid traversal order")
	ErrInvalidFrame      = errors.New("invalid stream framing")
	ErrChecksumMismatch  = errors.New("stream checksum mismatch")
	ErrInvalidArchive    = errors.New("invalid stream archive")
)

// FeatureError reports which feature triggered an error.
type FeatureError struct {
	Feature int
	Err     error
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("feature %d: %v", e.Feature, e.Err)
}

func (e *FeatureError) Unwrap() error { return e.Err }

// NewFeatureError wraps err with the feature id.
func NewFeatureError(feature int, err error) error {
	return &FeatureError{Feature: feature, Err: err}
}

// RowError reports which row, and which feature within it, triggered an error.
// Feature is -1 when the failure is not tied to a single feature.
type RowError struct {
	Row     int
	Feature int
	Err     error
}

func (e *RowError) Error() string {
	if e.Feature < 0 {
		return fmt.Sprintf("row %d: %v", e.Row, e.Err)
	}

	return fmt.Sprintf("row %d, feature %d: %v", e.Row, e.Feature, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// NewRowError wraps err with the row index and feature id.
func NewRowError(row, feature int, err error) error {
	return &RowError{Row: row, Feature: feature, Err: err}
}
