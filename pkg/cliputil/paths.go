package cliputil

import (
	"fmt"
	"path/filepath"
	"strings"
)

const (
	// FinalName is the default file name of the assembled video.
	FinalName = "final_output.mp4"
	// SettingsName is the settings snapshot preview leaves in the output directory.
	SettingsName = "settings.yaml"
)

// GetOutputDir returns the default clips directory for a video.
// For example, "/path/to/match.mp4" returns "/path/to/match-clips".
func GetOutputDir(videoPath string) string {
	dir := filepath.Dir(videoPath)
	base := filepath.Base(videoPath)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, name+"-clips")
}

// ClipPath returns {outputDir}/clip_{index}.mp4.
func ClipPath(outputDir string, index int) string {
	return filepath.Join(outputDir, fmt.Sprintf("clip_%d.mp4", index))
}

// ThumbPath returns {outputDir}/thumb_{index}.png.
func ThumbPath(outputDir string, index int) string {
	return filepath.Join(outputDir, fmt.Sprintf("thumb_%d.png", index))
}

// FinalPath returns the assembled video path, defaulting to {outputDir}/final_output.mp4.
func FinalPath(outputDir, output string) string {
	if output != "" {
		return output
	}
	return filepath.Join(outputDir, FinalName)
}

// SettingsPath returns {outputDir}/settings.yaml.
func SettingsPath(outputDir string) string {
	return filepath.Join(outputDir, SettingsName)
}
