// Package plan turns kill events into a list of clips to cut from the main
// video and, optionally, the matching cuts from a companion video.
//
// Planning is pure computation: it reads events and options and returns a
// Plan. All validation happens here, before anything touches the disk.
package plan

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/user/stream-auto-editor/events"
	"github.com/user/stream-auto-editor/pkg/timeutil"
)

const (
	// MaxDistance is the largest camera distance threshold accepted.
	MaxDistance = 200.0
	// MaxPadding is the largest before/after padding accepted.
	MaxPadding = 10 * time.Second
)

// Options are the inputs of one planning run.
type Options struct {
	Criteria Criteria
	Before   time.Duration
	After    time.Duration
	// MainAnchor is the clock time of the first logged kill in the main video.
	MainAnchor time.Duration
	// CompanionAnchor enables dual-stream mode when set.
	CompanionAnchor *time.Duration
}

// Plan is the result of a planning run.
type Plan struct {
	// AnchorInstant is the timestamp of the first logged event.
	AnchorInstant time.Time
	Matched       []events.Event
	// Windows are the usable per-event windows, sorted by start.
	Windows []ClipWindow
	// Rejected are windows whose duration collapsed to zero or less.
	Rejected []ClipWindow
	Clips    []MergedClip
	Specs    []ClipSpec
}

// DualStream reports whether the plan carries companion intervals.
func (p *Plan) DualStream() bool {
	return len(p.Specs) > 0 && p.Specs[0].Companion != nil
}

// Validate checks the scalar options.
func (o Options) Validate() error {
	if o.Criteria.MaxDistance < 0 || o.Criteria.MaxDistance > MaxDistance {
		return &ValidationError{Field: "distance", Err: fmt.Errorf("%.1f is outside 0-%.0f", o.Criteria.MaxDistance, MaxDistance)}
	}
	if err := validatePadding("seconds before", o.Before); err != nil {
		return err
	}
	if err := validatePadding("seconds after", o.After); err != nil {
		return err
	}
	if o.MainAnchor < 0 {
		return &ValidationError{Field: "first kill time", Err: errors.New("must not be negative")}
	}
	return nil
}

func validatePadding(field string, d time.Duration) error {
	if d < 0 || d > MaxPadding {
		return &ValidationError{Field: field, Err: fmt.Errorf("%v is outside 0-%v", d, MaxPadding)}
	}
	if d%time.Second != 0 {
		return &ValidationError{Field: field, Err: fmt.Errorf("%v is not a whole number of seconds", d)}
	}
	return nil
}

// Build runs filter, time mapping, merge and, in dual-stream mode, sync.
// The first event anchors the log-to-video mapping whether or not it passes
// the filter.
func Build(evs []events.Event, opts Options) (*Plan, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if len(evs) == 0 {
		return nil, &ValidationError{Err: ErrNoEvents}
	}

	p := &Plan{AnchorInstant: evs[0].Timestamp}

	p.Matched = Filter(evs, opts.Criteria)
	if len(p.Matched) == 0 {
		return nil, &ValidationError{Err: ErrNoEventsMatched}
	}

	for _, ev := range p.Matched {
		w := MapToVideoTime(ev, p.AnchorInstant, opts.MainAnchor, opts.Before, opts.After)
		if w.Degenerate() {
			p.Rejected = append(p.Rejected, w)
			continue
		}
		p.Windows = append(p.Windows, w)
	}
	if len(p.Windows) == 0 {
		return nil, &ValidationError{Err: ErrNoUsableWindows}
	}

	SortWindows(p.Windows)
	p.Clips = Merge(p.Windows)

	var anchors *SyncAnchors
	if opts.CompanionAnchor != nil {
		anchors = &SyncAnchors{Main: opts.MainAnchor, Companion: *opts.CompanionAnchor}
	}
	specs, err := BuildPreviewPlan(p.Clips, anchors)
	if err != nil {
		return nil, err
	}
	p.Specs = specs

	return p, nil
}

// ParseAnchor parses a main-video clock time given as hh:mm:ss.
func ParseAnchor(field, value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, &ValidationError{Field: field, Err: errors.New("required (hh:mm:ss)")}
	}
	d, err := timeutil.ParseClock(value)
	if err != nil {
		return 0, &ValidationError{Field: field, Err: err}
	}
	return d, nil
}

// ParseCompanionAnchor parses the companion video's first kill clock time.
func ParseCompanionAnchor(value string) (time.Duration, error) {
	if strings.TrimSpace(value) == "" {
		return 0, &SyncError{Msg: "companion first kill time is required (hh:mm:ss)"}
	}
	d, err := timeutil.ParseClock(value)
	if err != nil {
		return 0, &SyncError{Msg: "invalid companion first kill time", Err: err}
	}
	return d, nil
}
