package db

import (
	"database/sql"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	conn, err := Open(ManifestPath(t.TempDir()))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func testClips() []Clip {
	companion := 125 * time.Second
	return []Clip{
		{
			Index: 1, Start: 25 * time.Second, End: 36 * time.Second, SourceStart: 25 * time.Second,
			Duration: 11 * time.Second, Killers: []string{"A", "B"}, Killed: []string{"X", "Y"},
			Path: "out/clip_1.mp4",
		},
		{
			Index: 2, Start: 605 * time.Second, End: 609500 * time.Millisecond, SourceStart: 605 * time.Second,
			CompanionStart: &companion, Duration: 4 * time.Second, Killers: []string{"C"}, Killed: []string{"Z"},
			Path: "out/clip_2.mp4",
		},
	}
}

func TestOpenRunsMigrationsOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", ManifestName)
	for i := 0; i < 2; i++ {
		conn, err := Open(path)
		if err != nil {
			t.Fatalf("Open #%d failed: %v", i+1, err)
		}
		var n int
		if err := conn.QueryRow("SELECT COUNT(*) FROM schema_migrations").Scan(&n); err != nil {
			t.Fatalf("count migrations: %v", err)
		}
		if n != 1 {
			t.Errorf("Expected 1 applied migration, got %d", n)
		}
		conn.Close()
	}
}

func TestOpenExistingWithoutManifest(t *testing.T) {
	if _, err := OpenExisting(t.TempDir()); err == nil {
		t.Fatal("Expected an error for a directory without a manifest")
	}
}

func TestInsertAndSelectRun(t *testing.T) {
	conn := openTestDB(t)

	if r, err := SelectLatestRun(conn); err != nil || r != nil {
		t.Fatalf("Empty manifest should have no run, got %v, %v", r, err)
	}

	run := Run{ID: "run-1", VideoPath: "main.mp4", LogPath: "kills.log", CompanionPath: "pov.mp4", Settings: "before: 5\n"}
	if err := InsertRun(conn, run, testClips()); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	got, err := SelectLatestRun(conn)
	if err != nil {
		t.Fatalf("SelectLatestRun failed: %v", err)
	}
	if got == nil || got.ID != "run-1" || got.CompanionPath != "pov.mp4" || got.Settings != "before: 5\n" {
		t.Fatalf("Unexpected run: %+v", got)
	}

	clips, err := SelectClipsByRun(conn, "run-1")
	if err != nil {
		t.Fatalf("SelectClipsByRun failed: %v", err)
	}
	if len(clips) != 2 {
		t.Fatalf("Expected 2 clips, got %d", len(clips))
	}

	first := clips[0]
	if first.Index != 1 || first.Start != 25*time.Second || first.End != 36*time.Second {
		t.Errorf("Unexpected first clip window: %+v", first)
	}
	if first.CompanionStart != nil {
		t.Errorf("First clip should have no companion start")
	}
	if !reflect.DeepEqual(first.Killers, []string{"A", "B"}) || !reflect.DeepEqual(first.Killed, []string{"X", "Y"}) {
		t.Errorf("Unexpected names: %v / %v", first.Killers, first.Killed)
	}
	if first.Status != StatusPending || !first.Selected {
		t.Errorf("New clips should be pending and selected: %+v", first)
	}
	if first.Label() != "A, B → X, Y" {
		t.Errorf("Label() = %q", first.Label())
	}

	second := clips[1]
	if second.End != 609500*time.Millisecond {
		t.Errorf("Fractional end lost: %v", second.End)
	}
	if second.CompanionStart == nil || *second.CompanionStart != 125*time.Second {
		t.Errorf("Unexpected companion start: %v", second.CompanionStart)
	}
}

func TestInsertRunReplacesPrevious(t *testing.T) {
	conn := openTestDB(t)

	if err := InsertRun(conn, Run{ID: "old", VideoPath: "a.mp4", LogPath: "a.log"}, testClips()); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}
	if err := InsertRun(conn, Run{ID: "new", VideoPath: "b.mp4", LogPath: "b.log"}, testClips()[:1]); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	run, err := SelectLatestRun(conn)
	if err != nil || run == nil || run.ID != "new" {
		t.Fatalf("Expected latest run 'new', got %+v, %v", run, err)
	}
	old, err := SelectClipsByRun(conn, "old")
	if err != nil {
		t.Fatalf("SelectClipsByRun failed: %v", err)
	}
	if len(old) != 0 {
		t.Errorf("Previous run clips should be gone, got %d", len(old))
	}
}

func TestClipLifecycle(t *testing.T) {
	conn := openTestDB(t)
	if err := InsertRun(conn, Run{ID: "r", VideoPath: "v.mp4", LogPath: "k.log"}, testClips()); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	next, err := SelectNextPendingClip(conn, "r")
	if err != nil || next == nil || next.Index != 1 {
		t.Fatalf("Expected clip 1 pending, got %+v, %v", next, err)
	}

	now := time.Now().UTC().Truncate(time.Second)
	if err := MarkClipProcessing(conn, next.ID, now); err != nil {
		t.Fatalf("MarkClipProcessing failed: %v", err)
	}
	if err := MarkClipComplete(conn, next.ID, now, 4096, "out/thumb_1.png"); err != nil {
		t.Fatalf("MarkClipComplete failed: %v", err)
	}

	next, err = SelectNextPendingClip(conn, "r")
	if err != nil || next == nil || next.Index != 2 {
		t.Fatalf("Expected clip 2 pending, got %+v, %v", next, err)
	}
	if err := MarkClipProcessing(conn, next.ID, now); err != nil {
		t.Fatalf("MarkClipProcessing failed: %v", err)
	}

	// An interrupted run leaves clip 2 processing.
	n, err := ResetProcessingClips(conn, "r")
	if err != nil || n != 1 {
		t.Fatalf("Expected 1 reset clip, got %d, %v", n, err)
	}
	next, err = SelectNextPendingClip(conn, "r")
	if err != nil || next == nil || next.Index != 2 {
		t.Fatalf("Expected clip 2 pending again, got %+v, %v", next, err)
	}
	if err := MarkClipError(conn, next.ID, now, "ffmpeg exploded"); err != nil {
		t.Fatalf("MarkClipError failed: %v", err)
	}

	if next, err := SelectNextPendingClip(conn, "r"); err != nil || next != nil {
		t.Fatalf("Expected no pending clips, got %+v, %v", next, err)
	}

	clips, err := SelectClipsByRun(conn, "r")
	if err != nil {
		t.Fatalf("SelectClipsByRun failed: %v", err)
	}
	if !clips[0].Complete() || clips[0].Filesize != 4096 || clips[0].ThumbPath != "out/thumb_1.png" {
		t.Errorf("Unexpected completed clip: %+v", clips[0])
	}
	if clips[0].FinishedAt == nil {
		t.Errorf("Completed clip should have finished_at")
	}
	if clips[1].Status != StatusError || clips[1].Log != "ffmpeg exploded" || clips[1].ErrorAt == nil {
		t.Errorf("Unexpected failed clip: %+v", clips[1])
	}
}

func TestUpdateClipSelection(t *testing.T) {
	conn := openTestDB(t)
	if err := InsertRun(conn, Run{ID: "r", VideoPath: "v.mp4", LogPath: "k.log"}, testClips()); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	if err := UpdateClipSelection(conn, "r", []int{2, 99}); err != nil {
		t.Fatalf("UpdateClipSelection failed: %v", err)
	}
	clips, err := SelectClipsByRun(conn, "r")
	if err != nil {
		t.Fatalf("SelectClipsByRun failed: %v", err)
	}
	if got := SelectedIndices(clips); !reflect.DeepEqual(got, []int{2}) {
		t.Errorf("SelectedIndices() = %v, want [2]", got)
	}

	if err := UpdateClipSelection(conn, "r", nil); err != nil {
		t.Fatalf("UpdateClipSelection failed: %v", err)
	}
	clips, _ = SelectClipsByRun(conn, "r")
	if got := SelectedIndices(clips); len(got) != 0 {
		t.Errorf("Expected empty selection, got %v", got)
	}
}

func TestClipNamesKeepTheirShape(t *testing.T) {
	conn := openTestDB(t)
	clips := []Clip{{
		Index: 1, Start: time.Second, End: 5 * time.Second, SourceStart: time.Second, Duration: 4 * time.Second,
		Killers: []string{"", "two\nlines"}, Killed: []string{"bob", "carol"},
		Path: "out/clip_1.mp4",
	}}
	if err := InsertRun(conn, Run{ID: "names", VideoPath: "v.mp4", LogPath: "k.log"}, clips); err != nil {
		t.Fatalf("InsertRun failed: %v", err)
	}

	got, err := SelectClipsByRun(conn, "names")
	if err != nil {
		t.Fatalf("SelectClipsByRun failed: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("Expected 1 clip, got %d", len(got))
	}
	if !reflect.DeepEqual(got[0].Killers, []string{"", "two\nlines"}) {
		t.Errorf("Killers = %q", got[0].Killers)
	}
	if len(got[0].Killers) != len(got[0].Killed) {
		t.Errorf("Killer and killed lists differ in length: %d vs %d", len(got[0].Killers), len(got[0].Killed))
	}
}

func TestEncodeNamesEmptyList(t *testing.T) {
	if got := encodeNames(nil); got != "[]" {
		t.Errorf("encodeNames(nil) = %q", got)
	}
	names, err := decodeNames("[]")
	if err != nil || len(names) != 0 {
		t.Errorf("decodeNames([]) = %v, %v", names, err)
	}
	if _, err := decodeNames("alpha\nbravo"); err == nil {
		t.Error("Expected an error for a non-JSON name list")
	}
}
