package clip

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/user/stream-auto-editor/plan"
)

// Assemble concatenates the segments of a final plan into out.
func Assemble(ctx context.Context, comp Compositor, segments []plan.Segment, out string) error {
	if len(segments) == 0 {
		return &plan.EmptySelectionError{}
	}

	inputs := make([]string, 0, len(segments))
	for _, s := range segments {
		if _, err := os.Stat(s.Path); err != nil {
			return fmt.Errorf("%s segment: %w", s.Kind, err)
		}
		inputs = append(inputs, s.Path)
	}

	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	return comp.Concat(ctx, inputs, out)
}
