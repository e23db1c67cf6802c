package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// FormatClock formats an offset into a video as HH:MM:SS, truncating any
// fractional second. Negative offsets are shown as 00:00:00.
func FormatClock(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	totalSeconds := int64(d / time.Second)
	hours := totalSeconds / 3600
	mins := (totalSeconds % 3600) / 60
	secs := totalSeconds % 60
	return fmt.Sprintf("%02d:%02d:%02d", hours, mins, secs)
}

// FormatSeconds formats a duration as seconds with two decimals (e.g. 8.25s).
func FormatSeconds(d time.Duration) string {
	return fmt.Sprintf("%.2fs", d.Seconds())
}

// ParseClock parses a clock time in hh:mm:ss format into an offset from 00:00:00.
// Hours run 0-23, minutes and seconds 0-59; one or two digits are accepted per field.
func ParseClock(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return 0, fmt.Errorf("expected hh:mm:ss, got '%s'", s)
	}

	limits := [3]int{23, 59, 59}
	var fields [3]int
	for i, p := range parts {
		if len(p) == 0 || len(p) > 2 {
			return 0, fmt.Errorf("expected hh:mm:ss, got '%s'", s)
		}
		v := 0
		for _, r := range p {
			if r < '0' || r > '9' {
				return 0, fmt.Errorf("expected hh:mm:ss, got '%s'", s)
			}
			v = v*10 + int(r-'0')
		}
		if v > limits[i] {
			return 0, fmt.Errorf("field %d out of range in '%s'", i+1, s)
		}
		fields[i] = v
	}

	return time.Duration(fields[0])*time.Hour +
		time.Duration(fields[1])*time.Minute +
		time.Duration(fields[2])*time.Second, nil
}
