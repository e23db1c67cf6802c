package clip

import (
	"github.com/user/stream-auto-editor/db"
	"github.com/user/stream-auto-editor/pkg/cliputil"
	"github.com/user/stream-auto-editor/plan"
)

// ManifestClips turns a plan into pending manifest rows writing to outputDir.
func ManifestClips(p *plan.Plan, outputDir string) []db.Clip {
	ends := make(map[int]plan.MergedClip, len(p.Clips))
	for _, c := range p.Clips {
		ends[c.Index] = c
	}

	clips := make([]db.Clip, 0, len(p.Specs))
	for _, s := range p.Specs {
		merged := ends[s.Index]
		c := db.Clip{
			Index:       s.Index,
			Start:       merged.Start,
			End:         merged.End,
			SourceStart: s.Source.Start,
			Duration:    s.Source.Duration,
			Killers:     s.Killers,
			Killed:      s.Killed,
			Path:        cliputil.ClipPath(outputDir, s.Index),
			Status:      db.StatusPending,
			Selected:    true,
		}
		if s.Companion != nil {
			start := s.Companion.Start
			c.CompanionStart = &start
		}
		clips = append(clips, c)
	}
	return clips
}

// Files maps the index of every completed clip to its file.
func Files(clips []db.Clip) map[int]string {
	files := make(map[int]string)
	for _, c := range clips {
		if c.Complete() {
			files[c.Index] = c.Path
		}
	}
	return files
}
