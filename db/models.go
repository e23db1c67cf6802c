package db

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/valyala/fastjson"
)

// Clip statuses
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusComplete   = "complete"
	StatusError      = "error"
)

// Run is one preview invocation. Only the latest run is kept.
type Run struct {
	ID            string
	VideoPath     string
	LogPath       string
	CompanionPath string
	// Settings is the YAML of the settings the run was planned with.
	Settings  string
	CreatedAt time.Time
}

// Clip is a planned preview clip and its extraction state.
type Clip struct {
	ID    int64
	RunID string
	Index int
	// Start and End are the merged window on the main video.
	Start time.Duration
	End   time.Duration
	// SourceStart is the start actually cut from the main video.
	SourceStart    time.Duration
	CompanionStart *time.Duration
	Duration       time.Duration
	Killers        []string
	Killed         []string
	Path           string
	ThumbPath      string
	Status         string
	Filesize       int64
	StartedAt      *time.Time
	FinishedAt     *time.Time
	ErrorAt        *time.Time
	Log            string
	Selected       bool
}

// Label renders "killers → killed" for listings.
func (c Clip) Label() string {
	return strings.Join(c.Killers, ", ") + " → " + strings.Join(c.Killed, ", ")
}

// Complete reports whether the clip file was written.
func (c Clip) Complete() bool {
	return c.Status == StatusComplete
}

// encodeNames stores a name list as a JSON array. Empty names are kept so
// the killer and killed lists stay the same length.
func encodeNames(names []string) string {
	var a fastjson.Arena
	arr := a.NewArray()
	for i, name := range names {
		arr.SetArrayItem(i, a.NewString(name))
	}
	return string(arr.MarshalTo(nil))
}

func decodeNames(s string) ([]string, error) {
	v, err := fastjson.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("parse names: %w", err)
	}
	items, err := v.Array()
	if err != nil {
		return nil, fmt.Errorf("names: %w", err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		b, err := item.StringBytes()
		if err != nil {
			return nil, fmt.Errorf("names: %w", err)
		}
		names = append(names, string(b))
	}
	return names, nil
}

func seconds(d time.Duration) float64 {
	return d.Seconds()
}

func fromSeconds(s float64) time.Duration {
	return time.Duration(math.Round(s * float64(time.Second)))
}
