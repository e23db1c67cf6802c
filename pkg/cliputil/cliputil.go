// Package cliputil names clip files and parses clip index lists.
package cliputil

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// ParseIndices parses a comma separated list of clip indices such as
// "1,3,5" or "2-4". Indices run from 1 to last. The result is sorted without
// duplicates.
func ParseIndices(s string, last int) ([]int, error) {
	seen := make(map[int]bool)
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		lo, hi := part, part
		if a, b, ok := strings.Cut(part, "-"); ok {
			lo, hi = strings.TrimSpace(a), strings.TrimSpace(b)
		}
		from, err := parseIndex(lo, last)
		if err != nil {
			return nil, err
		}
		to, err := parseIndex(hi, last)
		if err != nil {
			return nil, err
		}
		if to < from {
			return nil, fmt.Errorf("invalid range %q", part)
		}
		for i := from; i <= to; i++ {
			seen[i] = true
		}
	}

	out := make([]int, 0, len(seen))
	for i := range seen {
		out = append(out, i)
	}
	sort.Ints(out)
	return out, nil
}

func parseIndex(s string, last int) (int, error) {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid clip index %q", s)
	}
	if n < 1 {
		return 0, fmt.Errorf("clip index %d must be 1 or greater", n)
	}
	if n > last {
		return 0, fmt.Errorf("clip index %d is past the last clip (%d)", n, last)
	}
	return n, nil
}
