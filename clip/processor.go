// Package clip cuts the planned clips out of the source videos with ffmpeg
// and assembles the final video.
package clip

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/pkg/cliputil"
	"github.com/user/stream-auto-editor/plan"
)

// ThumbnailOffset is where in a clip its thumbnail is taken.
const ThumbnailOffset = time.Second

// ExtractionFailure is a clip the transcoder or compositor could not write.
// It is reported and skipped; the run goes on.
type ExtractionFailure struct {
	Index int
	Err   error
}

func (e *ExtractionFailure) Error() string {
	return fmt.Sprintf("clip %d: extraction failed: %v", e.Index, e.Err)
}

func (e *ExtractionFailure) Unwrap() error {
	return e.Err
}

// Summary is the outcome of a processor run.
type Summary struct {
	Total     int
	Completed []int
	Failed    []*ExtractionFailure
}

// ProgressFunc is called after every attempted clip.
type ProgressFunc func(done, total int, c db.Clip, err error)

// Processor extracts the pending clips of a manifest run one at a time.
type Processor struct {
	DB         *sql.DB
	Transcoder Transcoder
	Compositor Compositor
	Logger     zerolog.Logger

	MainVideo      string
	CompanionVideo string
	OutputDir      string
}

// Run drains the pending clips of runID. Clips left processing by an
// interrupted run are retried. Cancelling ctx stops the current ffmpeg and
// returns ctx.Err().
func (p *Processor) Run(ctx context.Context, runID string, progress ProgressFunc) (Summary, error) {
	var sum Summary

	if n, err := db.ResetProcessingClips(p.DB, runID); err != nil {
		return sum, err
	} else if n > 0 {
		p.Logger.Info().Int64("clips", n).Msg("retrying clips from an interrupted run")
	}

	clips, err := db.SelectClipsByRun(p.DB, runID)
	if err != nil {
		return sum, err
	}
	for _, c := range clips {
		if c.Status == db.StatusPending {
			sum.Total++
		}
	}

	if err := os.MkdirAll(p.OutputDir, 0755); err != nil {
		return sum, fmt.Errorf("create output dir: %w", err)
	}

	done := 0
	for {
		if err := ctx.Err(); err != nil {
			return sum, err
		}

		c, err := db.SelectNextPendingClip(p.DB, runID)
		if err != nil {
			return sum, err
		}
		if c == nil {
			break
		}

		err = p.processClip(ctx, c)
		if ctxErr := ctx.Err(); ctxErr != nil {
			return sum, ctxErr
		}
		done++
		if err != nil {
			var failure *ExtractionFailure
			if !errors.As(err, &failure) {
				return sum, err
			}
			sum.Failed = append(sum.Failed, failure)
		} else {
			sum.Completed = append(sum.Completed, c.Index)
		}
		if progress != nil {
			progress(done, sum.Total, *c, err)
		}
	}

	return sum, nil
}

// processClip handles the full lifecycle of generating a single clip.
// Extraction problems come back as *ExtractionFailure; anything else is a
// manifest error that stops the run.
func (p *Processor) processClip(ctx context.Context, c *db.Clip) error {
	if err := db.MarkClipProcessing(p.DB, c.ID, time.Now()); err != nil {
		return err
	}

	log := p.Logger.With().Int("clip", c.Index).Logger()
	log.Info().
		Dur("start", c.SourceStart).
		Dur("duration", c.Duration).
		Str("kills", c.Label()).
		Msg("extracting clip")

	if err := os.MkdirAll(filepath.Dir(c.Path), 0755); err != nil {
		return p.fail(c, err)
	}

	var err error
	if c.CompanionStart != nil {
		if p.CompanionVideo == "" {
			return p.fail(c, &plan.SyncError{Msg: "clip has a companion interval but no companion video is set"})
		}
		err = p.Compositor.SideBySide(ctx, p.MainVideo, p.CompanionVideo, c.SourceStart, *c.CompanionStart, c.Duration, c.Path)
	} else {
		err = p.Transcoder.ExtractClip(ctx, p.MainVideo, c.SourceStart, c.Duration, c.Path)
	}
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return p.fail(c, err)
	}

	info, err := os.Stat(c.Path)
	if err != nil {
		return p.fail(c, fmt.Errorf("stat output: %w", err))
	}

	thumb := cliputil.ThumbPath(filepath.Dir(c.Path), c.Index)
	if err := p.Transcoder.ExtractFrame(ctx, c.Path, ThumbnailOffset, thumb); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Warn().Err(err).Msg("thumbnail failed")
		thumb = ""
	}

	return db.MarkClipComplete(p.DB, c.ID, time.Now(), info.Size(), thumb)
}

func (p *Processor) fail(c *db.Clip, err error) error {
	failure := &ExtractionFailure{Index: c.Index, Err: err}
	p.Logger.Warn().Int("clip", c.Index).Err(err).Msg("skipping clip")
	if markErr := db.MarkClipError(p.DB, c.ID, time.Now(), err.Error()); markErr != nil {
		return markErr
	}
	return failure
}
