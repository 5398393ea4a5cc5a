package adapters

import (
	"fmt"
	"strings"
)

// Expected version values with special meaning for Append.
const (
	// AnyVersion disables the optimistic concurrency check.
	AnyVersion int64 = -1

	// NoStream requires that the stream has no events yet.
	NoStream int64 = 0

	// StreamExists requires that the stream has at least one event.
	StreamExists int64 = -2
)

// ExtractCategory returns the part of a stream ID before the first hyphen.
// "Trainer-ash" yields "Trainer".
func ExtractCategory(streamID string) string {
	category, _, _ := strings.Cut(streamID, "-")
	return category
}

// ConcurrencyError provides details about a failed expected-version check.
// Two writers that loaded the same stream version race on Append; the loser
// receives this error and must reload before trying again.
type ConcurrencyError struct {
	StreamID        string
	ExpectedVersion int64
	ActualVersion   int64
}

// NewConcurrencyError creates a new ConcurrencyError.
func NewConcurrencyError(streamID string, expected, actual int64) *ConcurrencyError {
	return &ConcurrencyError{
		StreamID:        streamID,
		ExpectedVersion: expected,
		ActualVersion:   actual,
	}
}

// Error implements the error interface.
func (e *ConcurrencyError) Error() string {
	return fmt.Sprintf("poke: concurrency conflict on stream %q: expected version %d, got %d",
		e.StreamID, e.ExpectedVersion, e.ActualVersion)
}

// Is implements errors.Is compatibility.
// Returns true when compared with ErrConcurrencyConflict.
func (e *ConcurrencyError) Is(target error) bool {
	return target == ErrConcurrencyConflict
}

// StreamNotFoundError names the stream that was missing.
type StreamNotFoundError struct {
	StreamID string
}

// Error implements the error interface.
func (e *StreamNotFoundError) Error() string {
	return fmt.Sprintf("poke: stream %q not found", e.StreamID)
}

// Is matches ErrStreamNotFound.
func (e *StreamNotFoundError) Is(target error) bool {
	return target == ErrStreamNotFound
}

// CheckVersion validates the expected version against the current version.
// This is the optimistic concurrency check shared by all backends.
//
// Parameters:
//   - streamID: the stream identifier, used in error messages
//   - expected: AnyVersion, NoStream, StreamExists, or the exact current version
//   - current: the current version of the stream
//   - exists: whether the stream has any events
//
// Returns nil if the check passes, a *ConcurrencyError on a version mismatch,
// a *StreamNotFoundError when StreamExists is expected of an empty stream, and
// ErrInvalidVersion for any other negative value.
func CheckVersion(streamID string, expected, current int64, exists bool) error {
	switch {
	case expected == AnyVersion:
		return nil
	case expected == NoStream:
		if exists {
			return NewConcurrencyError(streamID, expected, current)
		}
		return nil
	case expected == StreamExists:
		if !exists {
			return &StreamNotFoundError{StreamID: streamID}
		}
		return nil
	case expected < 0:
		return ErrInvalidVersion
	case current != expected:
		return NewConcurrencyError(streamID, expected, current)
	}
	return nil
}
