package plan

import (
	"time"

	"github.com/user/stream-auto-editor/events"
)

// ClipWindow is the stretch of main video around a single kill.
// Start and End are offsets from the start of the main video.
type ClipWindow struct {
	Start  time.Duration
	End    time.Duration
	Killer string
	Killed string
}

// Duration returns End - Start.
func (w ClipWindow) Duration() time.Duration {
	return w.End - w.Start
}

// Degenerate reports a window that covers no video at all.
func (w ClipWindow) Degenerate() bool {
	return w.End <= w.Start
}

// MapToVideoTime places ev on the main video timeline. anchorInstant is the
// log timestamp that corresponds to anchorClock in the video; the window
// spans before/after around the mapped instant and never starts before 0.
func MapToVideoTime(ev events.Event, anchorInstant time.Time, anchorClock, before, after time.Duration) ClipWindow {
	actual := anchorClock + ev.Timestamp.Sub(anchorInstant)

	start := actual - before
	if start < 0 {
		start = 0
	}

	return ClipWindow{
		Start:  start,
		End:    actual + after,
		Killer: ev.Killer,
		Killed: ev.Killed,
	}
}
