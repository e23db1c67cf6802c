// Package deps locates the external programs clips are cut and previewed with.
package deps

import (
	"fmt"
	"os/exec"

	"github.com/user/stream-auto-editor/config"
)

const (
	MpvInstallURL    = "https://mpv.io/installation/"
	FfmpegInstallURL = "https://ffmpeg.org/download.html"
)

// DependencyError reports an external program that could not be found.
type DependencyError struct {
	Name       string
	Binary     string
	EnvVar     string
	InstallURL string
}

func (e *DependencyError) Error() string {
	if e.Binary != e.Name {
		return fmt.Sprintf("%s not found at %s (set by %s). Install from: %s", e.Name, e.Binary, e.EnvVar, e.InstallURL)
	}
	return fmt.Sprintf("%s not found. Install from: %s", e.Name, e.InstallURL)
}

type tool struct {
	name       string
	envVar     string
	installURL string
}

var (
	ffmpegTool = tool{name: "ffmpeg", envVar: config.EnvFfmpeg, installURL: FfmpegInstallURL}
	mpvTool    = tool{name: "mpv", envVar: config.EnvMpv, installURL: MpvInstallURL}
)

func (t tool) binary() string {
	return config.Binary(t.envVar, t.name)
}

func (t tool) check() error {
	bin := t.binary()
	if _, err := exec.LookPath(bin); err != nil {
		return &DependencyError{Name: t.name, Binary: bin, EnvVar: t.envVar, InstallURL: t.installURL}
	}
	return nil
}

// Ffmpeg returns the ffmpeg executable, honouring FFMPEG_BIN.
func Ffmpeg() string { return ffmpegTool.binary() }

// Mpv returns the mpv executable, honouring MPV_BIN.
func Mpv() string { return mpvTool.binary() }

// CheckFfmpeg checks that ffmpeg can be run. Extraction and the final join need it.
func CheckFfmpeg() error { return ffmpegTool.check() }

// CheckMpv checks that mpv can be run. Only clip previews need it.
func CheckMpv() error { return mpvTool.check() }

// CheckAll returns one error per missing program.
func CheckAll() []error {
	var errs []error
	for _, t := range []tool{ffmpegTool, mpvTool} {
		if err := t.check(); err != nil {
			errs = append(errs, err)
		}
	}
	return errs
}
