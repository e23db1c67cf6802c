package plan

import (
	"sort"
	"time"
)

// MergedClip is a maximal run of overlapping clip windows. Killers and
// Killed are parallel lists, one entry per absorbed window.
type MergedClip struct {
	Index   int
	Start   time.Duration
	End     time.Duration
	Killers []string
	Killed  []string
}

// Duration returns End - Start.
func (c MergedClip) Duration() time.Duration {
	return c.End - c.Start
}

// SortWindows orders windows by start time. Windows that start together keep their order.
func SortWindows(windows []ClipWindow) {
	sort.SliceStable(windows, func(i, j int) bool {
		return windows[i].Start < windows[j].Start
	})
}

// Merge sweeps windows, which must already be sorted by start, and joins
// every window that starts at or before the running clip's end into it.
// Clips are numbered from 1 in start order.
func Merge(windows []ClipWindow) []MergedClip {
	if len(windows) == 0 {
		return nil
	}

	var merged []MergedClip
	current := newMergedClip(windows[0])
	for _, w := range windows[1:] {
		if w.Start <= current.End {
			if w.End > current.End {
				current.End = w.End
			}
			current.Killers = append(current.Killers, w.Killer)
			current.Killed = append(current.Killed, w.Killed)
			continue
		}
		merged = append(merged, current)
		current = newMergedClip(w)
	}
	merged = append(merged, current)

	for i := range merged {
		merged[i].Index = i + 1
	}
	return merged
}

func newMergedClip(w ClipWindow) MergedClip {
	return MergedClip{
		Start:   w.Start,
		End:     w.End,
		Killers: []string{w.Killer},
		Killed:  []string{w.Killed},
	}
}
