package plan

import (
	"errors"
	"fmt"
)

var (
	// ErrNoEvents is returned when the loaded log holds no events.
	ErrNoEvents = errors.New("no events found in log file")
	// ErrNoEventsMatched is returned when the filter rejects every event.
	ErrNoEventsMatched = errors.New("no events matched the filtering criteria")
	// ErrNoUsableWindows is returned when every matching event maps to a non-positive duration.
	ErrNoUsableWindows = errors.New("no clip windows with a positive duration")
)

// ValidationError aborts a planning run before anything is extracted.
type ValidationError struct {
	Field string
	Err   error
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("invalid %s: %v", e.Field, e.Err)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// SyncError aborts the dual-stream path when its anchors are missing,
// malformed, or place a clip before the start of the companion video.
type SyncError struct {
	Msg string
	Err error
}

func (e *SyncError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("companion sync: %s: %v", e.Msg, e.Err)
	}
	return "companion sync: " + e.Msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// EmptySelectionError is returned when a final plan would contain nothing.
type EmptySelectionError struct{}

func (e *EmptySelectionError) Error() string {
	return "no clips selected and no intro or outro to assemble"
}
