// Package events loads kill events from a game log. The log holds one JSON
// object per line; file order is kept as-is and assumed chronological.
package events

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/valyala/fastjson"
)

// UnknownPlayer is used for events that name no killer or no victim.
const UnknownPlayer = "Unknown"

// MissingDistance is the camera distance of events that carry none.
// It fails every finite distance threshold.
var MissingDistance = math.Inf(1)

// maxLineSize bounds a single log record.
const maxLineSize = 4 * 1024 * 1024

// Event is one kill record from the log.
type Event struct {
	Timestamp      time.Time
	Killer         string
	Killed         string
	KillerInView   bool
	InView         bool
	CameraDistance float64
	// Line is the 1-based line number the event was read from.
	Line int
}

// ParseError reports a log line that could not be read as an event.
type ParseError struct {
	Path string
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d: %v", e.Path, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Load reads all events from the log at path. Files ending in .gz or .zst
// are decompressed on the fly. Any malformed line aborts the load.
func Load(path string) ([]Event, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()

	var r io.Reader = f
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, &ParseError{Path: path, Line: 0, Err: fmt.Errorf("gzip: %w", err)}
		}
		defer gz.Close()
		r = gz
	case ".zst":
		zr, err := zstd.NewReader(f)
		if err != nil {
			return nil, &ParseError{Path: path, Line: 0, Err: fmt.Errorf("zstd: %w", err)}
		}
		defer zr.Close()
		r = zr
	}

	return Decode(r, path)
}

// Decode reads events from r. name is only used in error messages.
func Decode(r io.Reader, name string) ([]Event, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	var (
		p      fastjson.Parser
		events []Event
		lineNo int
	)
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		v, err := p.Parse(line)
		if err != nil {
			return nil, &ParseError{Path: name, Line: lineNo, Err: err}
		}
		ev, err := eventFromValue(v)
		if err != nil {
			return nil, &ParseError{Path: name, Line: lineNo, Err: err}
		}
		ev.Line = lineNo
		events = append(events, ev)
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Path: name, Line: lineNo + 1, Err: err}
	}

	return events, nil
}

func eventFromValue(v *fastjson.Value) (Event, error) {
	if v.Type() != fastjson.TypeObject {
		return Event{}, fmt.Errorf("expected JSON object, got %s", v.Type())
	}

	ev := Event{
		Killer:         UnknownPlayer,
		Killed:         UnknownPlayer,
		CameraDistance: MissingDistance,
	}

	tsVal := v.Get("TimeStamp")
	if tsVal == nil || tsVal.Type() != fastjson.TypeString {
		return Event{}, errors.New("missing TimeStamp")
	}
	raw, err := tsVal.StringBytes()
	if err != nil {
		return Event{}, fmt.Errorf("TimeStamp: %w", err)
	}
	ts, err := parseTimestamp(string(raw))
	if err != nil {
		return Event{}, err
	}
	ev.Timestamp = ts

	if err := stringField(v, "Killer", &ev.Killer); err != nil {
		return Event{}, err
	}
	if err := stringField(v, "Killed", &ev.Killed); err != nil {
		return Event{}, err
	}
	if err := boolField(v, "KillerInView", &ev.KillerInView); err != nil {
		return Event{}, err
	}
	if err := boolField(v, "InView", &ev.InView); err != nil {
		return Event{}, err
	}

	if d := v.Get("CameraDistance"); d != nil && d.Type() != fastjson.TypeNull {
		f, err := d.Float64()
		if err != nil {
			return Event{}, fmt.Errorf("CameraDistance: %w", err)
		}
		ev.CameraDistance = f
	}

	return ev, nil
}

// stringField copies a string field into dst. Missing and null fields leave dst unchanged.
func stringField(v *fastjson.Value, key string, dst *string) error {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return nil
	}
	b, err := f.StringBytes()
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = string(b)
	return nil
}

func boolField(v *fastjson.Value, key string, dst *bool) error {
	f := v.Get(key)
	if f == nil || f.Type() == fastjson.TypeNull {
		return nil
	}
	b, err := f.Bool()
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dst = b
	return nil
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts RFC 3339 instants. Timestamps without an offset are read as UTC.
func parseTimestamp(s string) (time.Time, error) {
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid TimeStamp '%s'", s)
}

// Players returns the distinct killer and victim identifiers, sorted.
func Players(events []Event) []string {
	seen := make(map[string]struct{})
	for _, ev := range events {
		seen[ev.Killer] = struct{}{}
		seen[ev.Killed] = struct{}{}
	}

	players := make([]string, 0, len(seen))
	for p := range seen {
		players = append(players, p)
	}
	sort.Strings(players)
	return players
}

// KillCounts returns the number of kills per killer.
func KillCounts(events []Event) map[string]int {
	counts := make(map[string]int)
	for _, ev := range events {
		counts[ev.Killer]++
	}
	return counts
}
