package plan

import (
	"fmt"
	"time"

	"github.com/user/stream-auto-editor/pkg/timeutil"
)

// SyncAnchors pins the first recorded kill in both videos' own timelines.
// Both are clock times (offsets from each video's start), not log instants.
type SyncAnchors struct {
	Main      time.Duration
	Companion time.Duration
}

// SyncToCompanion maps clip onto the companion video. The offset from the
// main anchor is carried over unchanged and the result is truncated to whole
// seconds, so no drift correction happens within a clip.
func SyncToCompanion(clip MergedClip, mainAnchor, companionAnchor time.Duration) (companionStart, duration time.Duration, err error) {
	offset := clip.Start - mainAnchor
	raw := companionAnchor + offset
	if raw < 0 {
		return 0, 0, &SyncError{Msg: fmt.Sprintf(
			"clip %d starts %s before the companion video begins",
			clip.Index, timeutil.FormatSeconds(-raw),
		)}
	}
	return raw.Truncate(time.Second), clip.End - clip.Start, nil
}
