package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertRun replaces whatever the manifest held with run and its clips.
// All clips start pending and selected.
func InsertRun(db *sql.DB, run Run, clips []Clip) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin insert run: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(DeleteClipsSQL); err != nil {
		return fmt.Errorf("delete previous clips: %w", err)
	}
	if _, err := tx.Exec(DeleteRunsSQL); err != nil {
		return fmt.Errorf("delete previous runs: %w", err)
	}

	if _, err := tx.Exec(InsertRunSQL, run.ID, run.VideoPath, run.LogPath, nullString(run.CompanionPath), run.Settings); err != nil {
		return fmt.Errorf("insert run: %w", err)
	}

	for _, c := range clips {
		var companion any
		if c.CompanionStart != nil {
			companion = seconds(*c.CompanionStart)
		}
		_, err := tx.Exec(InsertClipSQL,
			run.ID, c.Index,
			seconds(c.Start), seconds(c.End), seconds(c.SourceStart), companion,
			seconds(c.Duration), encodeNames(c.Killers), encodeNames(c.Killed),
			c.Path, nullString(c.ThumbPath),
		)
		if err != nil {
			return fmt.Errorf("insert clip %d: %w", c.Index, err)
		}
	}

	return tx.Commit()
}

// SelectLatestRun returns the most recent run, or nil if the manifest is empty.
func SelectLatestRun(db *sql.DB) (*Run, error) {
	var r Run
	err := db.QueryRow(SelectLatestRunSQL).Scan(&r.ID, &r.VideoPath, &r.LogPath, &r.CompanionPath, &r.Settings, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("select latest run: %w", err)
	}
	return &r, nil
}

// SelectClipsByRun returns the clips of a run ordered by index.
func SelectClipsByRun(db *sql.DB, runID string) ([]Clip, error) {
	rows, err := db.Query(SelectClipsByRunSQL, runID)
	if err != nil {
		return nil, fmt.Errorf("select clips: %w", err)
	}
	defer rows.Close()

	var clips []Clip
	for rows.Next() {
		c, err := scanClip(rows)
		if err != nil {
			return nil, err
		}
		clips = append(clips, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate clips: %w", err)
	}
	return clips, nil
}

// SelectNextPendingClip returns the lowest-index pending clip of a run, or
// nil when every clip has been attempted.
func SelectNextPendingClip(db *sql.DB, runID string) (*Clip, error) {
	c, err := scanClip(db.QueryRow(SelectNextPendingClipSQL, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// ResetProcessingClips puts clips left processing by an interrupted run back to pending.
func ResetProcessingClips(db *sql.DB, runID string) (int64, error) {
	res, err := db.Exec(ResetProcessingClipsSQL, runID)
	if err != nil {
		return 0, fmt.Errorf("reset processing clips: %w", err)
	}
	return res.RowsAffected()
}

// MarkClipProcessing records that extraction of a clip has started.
func MarkClipProcessing(db *sql.DB, id int64, at time.Time) error {
	if _, err := db.Exec(MarkClipProcessingSQL, at, id); err != nil {
		return fmt.Errorf("mark clip %d processing: %w", id, err)
	}
	return nil
}

// MarkClipComplete records a written clip file and its thumbnail, if any.
func MarkClipComplete(db *sql.DB, id int64, at time.Time, filesize int64, thumbPath string) error {
	if _, err := db.Exec(MarkClipCompleteSQL, at, filesize, nullString(thumbPath), id); err != nil {
		return fmt.Errorf("mark clip %d complete: %w", id, err)
	}
	return nil
}

// MarkClipError records a failed extraction with the transcoder output.
func MarkClipError(db *sql.DB, id int64, at time.Time, log string) error {
	if _, err := db.Exec(MarkClipErrorSQL, at, log, id); err != nil {
		return fmt.Errorf("mark clip %d error: %w", id, err)
	}
	return nil
}

// UpdateClipSelection marks exactly the given indices of a run as selected.
// Unknown indices are ignored.
func UpdateClipSelection(db *sql.DB, runID string, indices []int) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin update selection: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(ClearClipSelectionSQL, runID); err != nil {
		return fmt.Errorf("clear selection: %w", err)
	}
	for _, idx := range indices {
		if _, err := tx.Exec(SelectClipSQL, runID, idx); err != nil {
			return fmt.Errorf("select clip %d: %w", idx, err)
		}
	}
	return tx.Commit()
}

// SelectedIndices returns the indices of the selected clips of a run.
func SelectedIndices(clips []Clip) []int {
	var out []int
	for _, c := range clips {
		if c.Selected {
			out = append(out, c.Index)
		}
	}
	return out
}

type scanner interface {
	Scan(dest ...any) error
}

func scanClip(s scanner) (Clip, error) {
	var (
		c                                Clip
		start, end, source, duration     float64
		companion                        sql.NullFloat64
		killers, killed                  string
		startedAt, finishedAt, erroredAt sql.NullTime
	)
	err := s.Scan(
		&c.ID, &c.RunID, &c.Index, &start, &end, &source, &companion,
		&duration, &killers, &killed, &c.Path, &c.ThumbPath, &c.Status, &c.Filesize,
		&startedAt, &finishedAt, &erroredAt, &c.Log, &c.Selected,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return c, err
		}
		return c, fmt.Errorf("scan clip: %w", err)
	}

	c.Start = fromSeconds(start)
	c.End = fromSeconds(end)
	c.SourceStart = fromSeconds(source)
	c.Duration = fromSeconds(duration)
	if companion.Valid {
		d := fromSeconds(companion.Float64)
		c.CompanionStart = &d
	}
	if c.Killers, err = decodeNames(killers); err != nil {
		return c, fmt.Errorf("clip %d killers: %w", c.Index, err)
	}
	if c.Killed, err = decodeNames(killed); err != nil {
		return c, fmt.Errorf("clip %d killed: %w", c.Index, err)
	}
	c.StartedAt = timePtr(startedAt)
	c.FinishedAt = timePtr(finishedAt)
	c.ErrorAt = timePtr(erroredAt)
	return c, nil
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}
