package clip

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/user/stream-auto-editor/config"
)

// Transcoder cuts clips and stills out of a single source.
type Transcoder interface {
	ExtractClip(ctx context.Context, src string, start, duration time.Duration, out string) error
	ExtractFrame(ctx context.Context, src string, offset time.Duration, out string) error
}

// Compositor combines several sources into one output.
type Compositor interface {
	SideBySide(ctx context.Context, mainSrc, companionSrc string, mainStart, companionStart, duration time.Duration, out string) error
	Concat(ctx context.Context, inputs []string, out string) error
}

// runFunc runs an external command and returns its combined output.
type runFunc func(ctx context.Context, name string, args ...string) ([]byte, error)

func runCommand(ctx context.Context, name string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.Bytes(), err
}

// FFmpeg implements Transcoder and Compositor with the ffmpeg binary.
type FFmpeg struct {
	Binary  string
	Encoder config.Encoder
	Logger  zerolog.Logger

	run runFunc
}

// NewFFmpeg returns an FFmpeg that encodes with enc.
func NewFFmpeg(binary string, enc config.Encoder, logger zerolog.Logger) *FFmpeg {
	return &FFmpeg{
		Binary:  binary,
		Encoder: enc,
		Logger:  logger,
		run:     runCommand,
	}
}

// ExtractClip re-encodes [start, start+duration) of src into out.
func (f *FFmpeg) ExtractClip(ctx context.Context, src string, start, duration time.Duration, out string) error {
	args := []string{
		"-y",
		"-ss", seconds(start),
		"-i", src,
		"-t", seconds(duration),
	}
	args = append(args, f.encodeArgs()...)
	args = append(args, out)
	return f.exec(ctx, "extract clip", args)
}

// ExtractFrame writes the frame at offset of src as an image.
func (f *FFmpeg) ExtractFrame(ctx context.Context, src string, offset time.Duration, out string) error {
	args := []string{
		"-y",
		"-i", src,
		"-ss", seconds(offset),
		"-frames:v", "1",
		out,
	}
	return f.exec(ctx, "extract frame", args)
}

// SideBySide cuts the same duration from both sources, scales them to the
// encoder height, stacks them horizontally and mixes both audio tracks.
func (f *FFmpeg) SideBySide(ctx context.Context, mainSrc, companionSrc string, mainStart, companionStart, duration time.Duration, out string) error {
	h := f.height()
	filter := fmt.Sprintf(
		"[0:v]scale=-2:%d,setsar=1[left];[1:v]scale=-2:%d,setsar=1[right];"+
			"[left][right]hstack=inputs=2[v];"+
			"[0:a][1:a]amix=inputs=2:duration=longest[a]",
		h, h,
	)
	args := []string{
		"-y",
		"-ss", seconds(mainStart), "-t", seconds(duration), "-i", mainSrc,
		"-ss", seconds(companionStart), "-t", seconds(duration), "-i", companionSrc,
		"-filter_complex", filter,
		"-map", "[v]", "-map", "[a]",
	}
	args = append(args, f.encodeArgs()...)
	args = append(args, out)
	return f.exec(ctx, "side by side", args)
}

// Concat joins inputs in order. Every input is letterboxed to the encoder
// frame size so sources of different sizes can be mixed.
func (f *FFmpeg) Concat(ctx context.Context, inputs []string, out string) error {
	if len(inputs) == 0 {
		return fmt.Errorf("concat: no inputs")
	}

	w, h := f.width(), f.height()
	var args []string
	args = append(args, "-y")
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	var filter strings.Builder
	for i := range inputs {
		fmt.Fprintf(&filter,
			"[%d:v]scale=%d:%d:force_original_aspect_ratio=decrease,pad=%d:%d:(ow-iw)/2:(oh-ih)/2,setsar=1[v%d];",
			i, w, h, w, h, i)
	}
	for i := range inputs {
		fmt.Fprintf(&filter, "[v%d][%d:a]", i, i)
	}
	fmt.Fprintf(&filter, "concat=n=%d:v=1:a=1[v][a]", len(inputs))

	args = append(args,
		"-filter_complex", filter.String(),
		"-map", "[v]", "-map", "[a]",
	)
	args = append(args, f.encodeArgs()...)
	args = append(args, out)
	return f.exec(ctx, "concat", args)
}

func (f *FFmpeg) encodeArgs() []string {
	preset := f.Encoder.Preset
	if preset == "" {
		preset = "ultrafast"
	}
	crf := f.Encoder.CRF
	if crf == 0 {
		crf = 23
	}
	return []string{
		"-c:v", "libx264",
		"-preset", preset,
		"-crf", strconv.Itoa(crf),
		"-c:a", "aac",
		"-b:a", "128k",
	}
}

func (f *FFmpeg) width() int {
	if f.Encoder.Width > 0 {
		return f.Encoder.Width
	}
	return 1920
}

func (f *FFmpeg) height() int {
	if f.Encoder.Height > 0 {
		return f.Encoder.Height
	}
	return 1080
}

func (f *FFmpeg) exec(ctx context.Context, op string, args []string) error {
	f.Logger.Debug().
		Str("op", op).
		Strs("args", args).
		Msg("running ffmpeg")

	run := f.run
	if run == nil {
		run = runCommand
	}
	output, err := run(ctx, f.Binary, args...)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return &CommandError{Op: op, Err: err, Output: tail(string(output), 20)}
	}
	return nil
}

// CommandError is a failed ffmpeg invocation with the end of its output.
type CommandError struct {
	Op     string
	Err    error
	Output string
}

func (e *CommandError) Error() string {
	if e.Output == "" {
		return fmt.Sprintf("ffmpeg %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("ffmpeg %s: %v\n%s", e.Op, e.Err, e.Output)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// seconds formats d for ffmpeg's -ss and -t options.
func seconds(d time.Duration) string {
	return strconv.FormatFloat(d.Seconds(), 'f', 3, 64)
}

// tail returns the last n lines of s.
func tail(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.Join(lines, "\n")
}
