package plan

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
	"time"

	"github.com/user/stream-auto-editor/events"
)

var base = time.Date(2024, 5, 1, 20, 0, 0, 0, time.UTC)

func kill(offset time.Duration, killer, killed string) events.Event {
	return events.Event{
		Timestamp:      base.Add(offset),
		Killer:         killer,
		Killed:         killed,
		KillerInView:   true,
		InView:         true,
		CameraDistance: 10,
	}
}

func clock(h, m, s int) time.Duration {
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

func TestFilter(t *testing.T) {
	visible := kill(0, "alpha", "bravo")
	hidden := kill(time.Second, "alpha", "bravo")
	hidden.InView = false
	far := kill(2*time.Second, "alpha", "bravo")
	far.CameraDistance = 80
	noDistance := kill(3*time.Second, "alpha", "bravo")
	noDistance.CameraDistance = events.MissingDistance
	other := kill(4*time.Second, "charlie", "bravo")
	unknown := kill(5*time.Second, events.UnknownPlayer, "bravo")

	evs := []events.Event{visible, hidden, far, noDistance, other, unknown}

	tests := []struct {
		name     string
		criteria Criteria
		want     []events.Event
	}{
		{"visible only", NewCriteria([]string{"alpha"}, 50, true), []events.Event{visible}},
		{"visibility off", NewCriteria([]string{"alpha"}, 50, false), []events.Event{visible, hidden}},
		{"distance at threshold", NewCriteria([]string{"alpha"}, 80, false), []events.Event{visible, hidden, far}},
		{"unknown killer accepted", NewCriteria([]string{events.UnknownPlayer}, 50, true), []events.Event{unknown}},
		{"empty player set", NewCriteria(nil, 200, false), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(evs, tt.criteria)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Filter() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestFilterMissingDistance(t *testing.T) {
	ev := kill(0, "alpha", "bravo")
	ev.CameraDistance = events.MissingDistance
	if got := Filter([]events.Event{ev}, NewCriteria([]string{"alpha"}, 50, false)); len(got) != 0 {
		t.Errorf("Event without distance must fail threshold 50, got %+v", got)
	}
}

func TestMapToVideoTime(t *testing.T) {
	anchorClock := clock(0, 12, 0)

	w := MapToVideoTime(kill(0, "a", "b"), base, anchorClock, 5*time.Second, 3*time.Second)
	if w.Start != anchorClock-5*time.Second || w.End != anchorClock+3*time.Second {
		t.Errorf("Anchor event should map around the anchor clock, got [%v, %v]", w.Start, w.End)
	}

	w = MapToVideoTime(kill(0, "a", "b"), base, 2*time.Second, 5*time.Second, 3*time.Second)
	if w.Start != 0 || w.End != 5*time.Second {
		t.Errorf("Start should clamp to zero, got [%v, %v]", w.Start, w.End)
	}
	if w.Degenerate() {
		t.Errorf("Clamped window with positive duration must be kept")
	}

	w = MapToVideoTime(kill(-10*time.Second, "a", "b"), base, 0, 5*time.Second, 3*time.Second)
	if w.Start != 0 {
		t.Errorf("Expected clamped start 0, got %v", w.Start)
	}
	if !w.Degenerate() {
		t.Errorf("Window ending before zero must be degenerate, got [%v, %v]", w.Start, w.End)
	}
}

func TestMergeScenario(t *testing.T) {
	evs := []events.Event{
		kill(0, "alpha", "bravo"),
		kill(2*time.Second, "charlie", "delta"),
		kill(30*time.Second, "alpha", "echo"),
	}

	p, err := Build(evs, Options{
		Criteria:   NewCriteria([]string{"alpha", "charlie"}, 50, true),
		Before:     5 * time.Second,
		After:      3 * time.Second,
		MainAnchor: clock(0, 0, 30),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}

	wantWindows := [][2]time.Duration{
		{clock(0, 0, 25), clock(0, 0, 33)},
		{clock(0, 0, 27), clock(0, 0, 35)},
		{clock(0, 0, 55), clock(0, 1, 3)},
	}
	if len(p.Windows) != len(wantWindows) {
		t.Fatalf("Expected %d windows, got %d", len(wantWindows), len(p.Windows))
	}
	for i, w := range wantWindows {
		if p.Windows[i].Start != w[0] || p.Windows[i].End != w[1] {
			t.Errorf("Window %d = [%v, %v], want [%v, %v]", i, p.Windows[i].Start, p.Windows[i].End, w[0], w[1])
		}
	}

	want := []MergedClip{
		{Index: 1, Start: clock(0, 0, 25), End: clock(0, 0, 35), Killers: []string{"alpha", "charlie"}, Killed: []string{"bravo", "delta"}},
		{Index: 2, Start: clock(0, 0, 55), End: clock(0, 1, 3), Killers: []string{"alpha"}, Killed: []string{"echo"}},
	}
	if !reflect.DeepEqual(p.Clips, want) {
		t.Errorf("Clips = %+v, want %+v", p.Clips, want)
	}
	if p.DualStream() {
		t.Errorf("Plan without companion anchor must not be dual-stream")
	}
}

func TestMergeSingleWindow(t *testing.T) {
	got := Merge([]ClipWindow{{Start: time.Second, End: 2 * time.Second, Killer: "a", Killed: "b"}})
	if len(got) != 1 || got[0].Index != 1 {
		t.Fatalf("Single window must produce one clip, got %+v", got)
	}
	if Merge(nil) != nil {
		t.Errorf("Merging nothing should produce nothing")
	}
}

func TestMergeTouching(t *testing.T) {
	got := Merge([]ClipWindow{
		{Start: 0, End: 5 * time.Second},
		{Start: 5 * time.Second, End: 6 * time.Second},
		{Start: time.Second, End: 2 * time.Second},
	})
	if len(got) != 1 || got[0].End != 6*time.Second || len(got[0].Killers) != 3 {
		t.Errorf("Touching and contained windows must merge, got %+v", got)
	}
}

func randomWindows(r *rand.Rand, n int) []ClipWindow {
	windows := make([]ClipWindow, n)
	for i := range windows {
		start := time.Duration(r.Intn(600)) * time.Second / 2
		windows[i] = ClipWindow{
			Start:  start,
			End:    start + time.Duration(1+r.Intn(20))*time.Second/2,
			Killer: "k",
			Killed: "v",
		}
	}
	SortWindows(windows)
	return windows
}

func TestMergeProperties(t *testing.T) {
	r := rand.New(rand.NewSource(42))

	for round := 0; round < 200; round++ {
		windows := randomWindows(r, 1+r.Intn(40))
		merged := Merge(windows)

		for i := 1; i < len(merged); i++ {
			if merged[i-1].Start > merged[i].Start {
				t.Fatalf("round %d: clips not sorted: %+v", round, merged)
			}
			if merged[i-1].End > merged[i].Start {
				t.Fatalf("round %d: clips %d and %d overlap", round, i-1, i)
			}
		}

		total := 0
		for _, c := range merged {
			total += len(c.Killers)
			if len(c.Killers) != len(c.Killed) {
				t.Fatalf("round %d: killer/killed lists out of step", round)
			}
		}
		if total != len(windows) {
			t.Fatalf("round %d: %d windows absorbed, want %d", round, total, len(windows))
		}

		for _, w := range windows {
			containing := 0
			for _, c := range merged {
				if w.Start >= c.Start && w.End <= c.End {
					containing++
				}
			}
			if containing != 1 {
				t.Fatalf("round %d: window [%v, %v] contained in %d clips", round, w.Start, w.End, containing)
			}
		}

		again := make([]ClipWindow, len(merged))
		for i, c := range merged {
			again[i] = ClipWindow{Start: c.Start, End: c.End}
		}
		remerged := Merge(again)
		if len(remerged) != len(merged) {
			t.Fatalf("round %d: re-merge changed clip count %d -> %d", round, len(merged), len(remerged))
		}
		for i := range merged {
			if remerged[i].Start != merged[i].Start || remerged[i].End != merged[i].End {
				t.Fatalf("round %d: re-merge changed clip %d", round, i)
			}
		}
	}
}

func TestSyncToCompanion(t *testing.T) {
	c := MergedClip{Index: 1, Start: clock(0, 10, 5), End: clock(0, 10, 9)}

	start, dur, err := SyncToCompanion(c, clock(0, 10, 0), clock(0, 2, 0))
	if err != nil {
		t.Fatalf("SyncToCompanion failed: %v", err)
	}
	if start != clock(0, 2, 5) {
		t.Errorf("companion start = %v, want 2m5s", start)
	}
	if dur != 4*time.Second {
		t.Errorf("duration = %v, want 4s", dur)
	}

	c.Start += 700 * time.Millisecond
	start, _, err = SyncToCompanion(c, clock(0, 10, 0), clock(0, 2, 0))
	if err != nil {
		t.Fatalf("SyncToCompanion failed: %v", err)
	}
	if start != clock(0, 2, 5) {
		t.Errorf("companion start should drop sub-second precision, got %v", start)
	}

	_, _, err = SyncToCompanion(MergedClip{Index: 3, Start: clock(0, 0, 10), End: clock(0, 0, 20)}, clock(0, 10, 0), clock(0, 2, 0))
	var se *SyncError
	if !errors.As(err, &se) {
		t.Errorf("Expected SyncError for negative companion start, got %v", err)
	}
}

func TestBuildDualStream(t *testing.T) {
	evs := []events.Event{
		kill(0, "alpha", "bravo"),
		kill(5*time.Second+300*time.Millisecond, "alpha", "charlie"),
	}
	companion := clock(0, 2, 0)

	p, err := Build(evs, Options{
		Criteria:        NewCriteria([]string{"alpha"}, 50, true),
		Before:          2 * time.Second,
		After:           2 * time.Second,
		MainAnchor:      clock(0, 10, 0),
		CompanionAnchor: &companion,
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if !p.DualStream() {
		t.Fatalf("Expected dual-stream plan")
	}
	if len(p.Specs) != 2 {
		t.Fatalf("Expected 2 specs, got %d", len(p.Specs))
	}

	second := p.Specs[1]
	if second.Source.Start != clock(0, 10, 3) {
		t.Errorf("main start = %v, want whole-second 10m3s", second.Source.Start)
	}
	if second.Companion.Start != clock(0, 2, 3) {
		t.Errorf("companion start = %v, want 2m3s", second.Companion.Start)
	}
	if second.Companion.Duration != 4*time.Second || second.Source.Duration != 4*time.Second {
		t.Errorf("durations = %v/%v, want 4s", second.Source.Duration, second.Companion.Duration)
	}
	if got := second.Label(); got != "alpha → charlie" {
		t.Errorf("Label() = %q", got)
	}
}

func TestBuildDualStreamBeforeCompanionStart(t *testing.T) {
	companion := clock(0, 0, 1)
	_, err := Build([]events.Event{kill(0, "alpha", "bravo")}, Options{
		Criteria:        NewCriteria([]string{"alpha"}, 50, true),
		Before:          5 * time.Second,
		MainAnchor:      clock(0, 10, 0),
		CompanionAnchor: &companion,
	})
	var se *SyncError
	if !errors.As(err, &se) {
		t.Errorf("Expected SyncError, got %v", err)
	}
}

func TestBuildValidation(t *testing.T) {
	evs := []events.Event{kill(0, "alpha", "bravo")}
	ok := Options{Criteria: NewCriteria([]string{"alpha"}, 50, true), Before: 5 * time.Second, After: 3 * time.Second, MainAnchor: clock(0, 1, 0)}

	tests := []struct {
		name   string
		events []events.Event
		mutate func(*Options)
		target error
	}{
		{"no events", nil, func(*Options) {}, ErrNoEvents},
		{"nothing matched", evs, func(o *Options) { o.Criteria = NewCriteria([]string{"zulu"}, 50, true) }, ErrNoEventsMatched},
		{"distance out of range", evs, func(o *Options) { o.Criteria.MaxDistance = 250 }, nil},
		{"before out of range", evs, func(o *Options) { o.Before = 11 * time.Second }, nil},
		{"fractional after", evs, func(o *Options) { o.After = 1500 * time.Millisecond }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := ok
			tt.mutate(&opts)
			_, err := Build(tt.events, opts)
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("Expected ValidationError, got %v", err)
			}
			if tt.target != nil && !errors.Is(err, tt.target) {
				t.Errorf("Expected %v, got %v", tt.target, err)
			}
		})
	}
}

func TestBuildRejectsDegenerateWindows(t *testing.T) {
	evs := []events.Event{
		kill(0, "alpha", "bravo"),
		kill(-20*time.Second, "alpha", "charlie"),
	}
	p, err := Build(evs, Options{
		Criteria:   NewCriteria([]string{"alpha"}, 50, true),
		Before:     5 * time.Second,
		After:      3 * time.Second,
		MainAnchor: clock(0, 0, 10),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if len(p.Rejected) != 1 || p.Rejected[0].Killed != "charlie" {
		t.Errorf("Expected the out-of-video kill to be rejected, got %+v", p.Rejected)
	}
	if len(p.Clips) != 1 {
		t.Errorf("Expected 1 clip, got %d", len(p.Clips))
	}

	_, err = Build(evs[1:2], Options{
		Criteria:   NewCriteria([]string{"alpha"}, 50, true),
		Before:     5 * time.Second,
		After:      3 * time.Second,
		MainAnchor: 0,
	})
	if err != nil {
		t.Fatalf("A lone event anchors itself and should plan, got %v", err)
	}
}

func TestAnchorFirstEventEvenWhenFiltered(t *testing.T) {
	first := kill(0, "zulu", "bravo")
	evs := []events.Event{first, kill(10*time.Second, "alpha", "bravo")}

	p, err := Build(evs, Options{
		Criteria:   NewCriteria([]string{"alpha"}, 50, true),
		Before:     5 * time.Second,
		After:      3 * time.Second,
		MainAnchor: clock(0, 1, 0),
	})
	if err != nil {
		t.Fatalf("Build failed: %v", err)
	}
	if p.Clips[0].Start != clock(0, 1, 5) {
		t.Errorf("Mapping must be anchored on the first logged event, got start %v", p.Clips[0].Start)
	}
}

func TestParseAnchors(t *testing.T) {
	if d, err := ParseAnchor("first kill time", "00:10:00"); err != nil || d != clock(0, 10, 0) {
		t.Errorf("ParseAnchor() = %v, %v", d, err)
	}

	var ve *ValidationError
	if _, err := ParseAnchor("first kill time", "10:00"); !errors.As(err, &ve) {
		t.Errorf("Expected ValidationError, got %v", err)
	}

	var se *SyncError
	if _, err := ParseCompanionAnchor(""); !errors.As(err, &se) {
		t.Errorf("Expected SyncError for missing companion anchor, got %v", err)
	}
	if _, err := ParseCompanionAnchor("2:xx:00"); !errors.As(err, &se) {
		t.Errorf("Expected SyncError for malformed companion anchor, got %v", err)
	}
}

func TestBuildFinalPlan(t *testing.T) {
	files := map[int]string{1: "clip_1.mp4", 2: "clip_2.mp4", 3: "clip_3.mp4"}

	segs, err := BuildFinalPlan(files, NewSelection(3, 1), "intro.mp4", "outro.mp4")
	if err != nil {
		t.Fatalf("BuildFinalPlan failed: %v", err)
	}
	want := []Segment{
		{Kind: SegmentIntro, Path: "intro.mp4"},
		{Kind: SegmentClip, Path: "clip_1.mp4", Index: 1},
		{Kind: SegmentClip, Path: "clip_3.mp4", Index: 3},
		{Kind: SegmentOutro, Path: "outro.mp4"},
	}
	if !reflect.DeepEqual(segs, want) {
		t.Errorf("BuildFinalPlan() = %+v, want %+v", segs, want)
	}

	segs, err = BuildFinalPlan(files, NewSelection(), "intro.mp4", "")
	if err != nil || len(segs) != 1 {
		t.Errorf("Intro alone is a valid final plan, got %+v, %v", segs, err)
	}

	var ese *EmptySelectionError
	if _, err := BuildFinalPlan(files, NewSelection(), "", ""); !errors.As(err, &ese) {
		t.Errorf("Expected EmptySelectionError, got %v", err)
	}

	var ve *ValidationError
	if _, err := BuildFinalPlan(files, NewSelection(7), "", ""); !errors.As(err, &ve) {
		t.Errorf("Expected ValidationError for unknown clip, got %v", err)
	}
}

func TestBuildPreviewPlanRejectsEmptyClip(t *testing.T) {
	_, err := BuildPreviewPlan([]MergedClip{{Index: 1, Start: time.Second, End: time.Second}}, nil)
	var ve *ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("Expected ValidationError, got %v", err)
	}
}
