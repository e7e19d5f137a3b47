// Package ffmpeg shells out to ffmpeg/ffprobe for probing, audio
// extraction, and clip rendering.
package ffmpeg

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/openshorts/openshorts/internal/ports"
	"github.com/openshorts/openshorts/internal/types"
)

type Adapter struct {
	ffmpeg  string
	ffprobe string
}

func New(ffmpegPath, ffprobePath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	if ffprobePath == "" {
		ffprobePath = "ffprobe"
	}
	return &Adapter{ffmpeg: ffmpegPath, ffprobe: ffprobePath}
}

func (a *Adapter) ProbeDuration(ctx context.Context, path string) (float64, error) {
	cmd := exec.CommandContext(ctx, a.ffprobe,
		"-v", "error",
		"-show_entries", "format=duration",
		"-of", "default=noprint_wrappers=1:nokey=1",
		path,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return 0, &ports.ExternalProcessError{Tool: "ffprobe", Err: err, Output: string(b)}
	}
	s := strings.TrimSpace(string(b))
	sec, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("parse duration %q: %w", s, err)
	}
	return sec, nil
}

func (a *Adapter) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return &ports.ExternalProcessError{Tool: "ffmpeg extract audio", Err: err, Output: string(b)}
	}
	return nil
}

// Render encodes to a temporary file in the output directory and renames
// on success, so a cancelled or failed run never leaves a partial file
// under the final name.
func (a *Adapter) Render(ctx context.Context, job types.RenderJob) error {
	tmp := tmpPath(job.Output)
	cmd := exec.CommandContext(ctx, a.ffmpeg, renderArgs(job, tmp)...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		_ = os.Remove(tmp)
		return &ports.ExternalProcessError{Tool: "ffmpeg render", Err: err, Output: string(b)}
	}
	return os.Rename(tmp, job.Output)
}

func renderArgs(job types.RenderJob, out string) []string {
	return []string{
		"-y",
		"-ss", fmtSeconds(job.TrimStart),
		"-i", job.Input,
		"-t", fmtSeconds(job.TrimDuration),
		"-vf", job.Filter,
		"-r", strconv.Itoa(job.FrameRate),
		"-pix_fmt", job.PixelFormat,
		"-c:v", job.VideoCodec,
		"-preset", job.Preset,
		"-crf", strconv.Itoa(job.CRF),
		"-c:a", job.AudioCodec,
		"-b:a", job.AudioBitrate,
		"-f", "mp4",
		out,
	}
}

func tmpPath(final string) string {
	dir, base := filepath.Split(final)
	return filepath.Join(dir, "."+base+".part")
}

func fmtSeconds(sec float64) string {
	return strconv.FormatFloat(sec, 'f', 3, 64)
}
