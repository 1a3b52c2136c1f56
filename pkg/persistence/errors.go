package persistence

import (
	"errors"
	"fmt"
)

var (
	// ErrNarrativeNotFound indicates a narrative was not found by the given identifier.
	ErrNarrativeNotFound = errors.New("narrative not found")

	// ErrSegmentNotFound indicates a segment does not exist in the narrative.
	ErrSegmentNotFound = errors.New("segment not found")

	// ErrInvalidID indicates an identifier that cannot be used as a storage key.
	ErrInvalidID = errors.New("invalid identifier")
)

// NarrativeError wraps narrative-related errors with additional context.
type NarrativeError struct {
	Op          string // Operation being performed (e.g., "SegmentByID", "Save")
	NarrativeID string
	SegmentID   string // Segment ID if applicable
	Err         error
}

func (e *NarrativeError) Error() string {
	if e.SegmentID != "" {
		return fmt.Sprintf("%s operation failed for segment %s in narrative %s: %v", e.Op, e.SegmentID, e.NarrativeID, e.Err)
	}

	return fmt.Sprintf("%s operation failed for narrative %s: %v", e.Op, e.NarrativeID, e.Err)
}

func (e *NarrativeError) Unwrap() error {
	return e.Err
}

// Is implements error comparison for narrative errors.
func (e *NarrativeError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

func NewNarrativeError(op, narrativeID string, err error) *NarrativeError {
	return &NarrativeError{
		Op:          op,
		NarrativeID: narrativeID,
		Err:         err,
	}
}

func NewSegmentError(op, narrativeID, segmentID string, err error) *NarrativeError {
	return &NarrativeError{
		Op:          op,
		NarrativeID: narrativeID,
		SegmentID:   segmentID,
		Err:         err,
	}
}

// IsNarrativeNotFound checks if an error indicates a narrative was not found.
func IsNarrativeNotFound(err error) bool {
	return errors.Is(err, ErrNarrativeNotFound)
}

// IsSegmentNotFound checks if an error indicates a segment was not found.
func IsSegmentNotFound(err error) bool {
	return errors.Is(err, ErrSegmentNotFound)
}

// IsNotFound reports either kind of missing entity.
func IsNotFound(err error) bool {
	return IsNarrativeNotFound(err) || IsSegmentNotFound(err)
}
