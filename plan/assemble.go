package plan

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// Interval is a cut from a source video.
type Interval struct {
	Start    time.Duration
	Duration time.Duration
}

// End returns Start + Duration.
func (i Interval) End() time.Duration {
	return i.Start + i.Duration
}

// ClipSpec describes one clip to extract. Companion is set only when the
// clip is composited side by side with the companion video.
type ClipSpec struct {
	Index     int
	Source    Interval
	Companion *Interval
	Killers   []string
	Killed    []string
}

// Label renders the kills of a clip as "killers → killed".
func (s ClipSpec) Label() string {
	return strings.Join(s.Killers, ", ") + " → " + strings.Join(s.Killed, ", ")
}

// BuildPreviewPlan turns merged clips into extraction specs. With anchors
// set, each spec also carries the synced companion interval and the main
// cut starts on a whole second, matching the companion's precision.
func BuildPreviewPlan(clips []MergedClip, anchors *SyncAnchors) ([]ClipSpec, error) {
	specs := make([]ClipSpec, 0, len(clips))
	for _, c := range clips {
		if c.Duration() <= 0 {
			return nil, &ValidationError{
				Field: fmt.Sprintf("clip %d", c.Index),
				Err:   fmt.Errorf("non-positive duration %v", c.Duration()),
			}
		}

		spec := ClipSpec{
			Index:   c.Index,
			Source:  Interval{Start: c.Start, Duration: c.Duration()},
			Killers: append([]string(nil), c.Killers...),
			Killed:  append([]string(nil), c.Killed...),
		}
		if anchors != nil {
			start, dur, err := SyncToCompanion(c, anchors.Main, anchors.Companion)
			if err != nil {
				return nil, err
			}
			spec.Source.Start = c.Start.Truncate(time.Second)
			spec.Companion = &Interval{Start: start, Duration: dur}
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

// Selection is an immutable set of chosen clip indices.
type Selection struct {
	set map[int]struct{}
}

// NewSelection returns a selection of the given indices. Duplicates collapse.
func NewSelection(indices ...int) Selection {
	set := make(map[int]struct{}, len(indices))
	for _, i := range indices {
		set[i] = struct{}{}
	}
	return Selection{set: set}
}

// Contains reports whether index is selected.
func (s Selection) Contains(index int) bool {
	_, ok := s.set[index]
	return ok
}

// Len returns the number of selected clips.
func (s Selection) Len() int {
	return len(s.set)
}

// Indices returns the selected indices in ascending order.
func (s Selection) Indices() []int {
	out := make([]int, 0, len(s.set))
	for i := range s.set {
		out = append(out, i)
	}
	sort.Ints(out)
	return out
}

// SegmentKind tells intro, clip and outro segments apart.
type SegmentKind string

const (
	SegmentIntro SegmentKind = "intro"
	SegmentClip  SegmentKind = "clip"
	SegmentOutro SegmentKind = "outro"
)

// Segment is one input of the final concatenation. Index is 0 for intro and outro.
type Segment struct {
	Kind  SegmentKind
	Path  string
	Index int
}

// BuildFinalPlan orders the final video: intro, the selected clips by
// ascending index, then outro. files maps each extracted clip index to its
// file. Empty intro/outro paths are left out.
func BuildFinalPlan(files map[int]string, selected Selection, intro, outro string) ([]Segment, error) {
	if selected.Len() == 0 && intro == "" && outro == "" {
		return nil, &EmptySelectionError{}
	}

	var segments []Segment
	if intro != "" {
		segments = append(segments, Segment{Kind: SegmentIntro, Path: intro})
	}
	for _, idx := range selected.Indices() {
		path, ok := files[idx]
		if !ok || path == "" {
			return nil, &ValidationError{
				Field: "selection",
				Err:   fmt.Errorf("clip %d has no extracted file", idx),
			}
		}
		segments = append(segments, Segment{Kind: SegmentClip, Path: path, Index: idx})
	}
	if outro != "" {
		segments = append(segments, Segment{Kind: SegmentOutro, Path: outro})
	}
	return segments, nil
}
