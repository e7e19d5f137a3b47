// Package planner turns selected clip windows into encoder render jobs and
// their manifest entries.
package planner

import (
	"fmt"
	"math"
	"path/filepath"
	"strings"

	"github.com/openshorts/openshorts/internal/types"
)

// EncodeSettings are the output encoding parameters shared by every job.
type EncodeSettings struct {
	FrameRate    int    `yaml:"frame_rate"`
	PixelFormat  string `yaml:"pixel_format"`
	VideoCodec   string `yaml:"video_codec"`
	Preset       string `yaml:"preset"`
	CRF          int    `yaml:"crf"`
	AudioCodec   string `yaml:"audio_codec"`
	AudioBitrate string `yaml:"audio_bitrate"`
}

// DefaultEncode returns the stock short-form output settings.
func DefaultEncode() EncodeSettings {
	return EncodeSettings{
		FrameRate:    30,
		PixelFormat:  "yuv420p",
		VideoCodec:   "libx264",
		Preset:       "veryfast",
		CRF:          21,
		AudioCodec:   "aac",
		AudioBitrate: "160k",
	}
}

// minTrimDuration guards against degenerate zero or negative length jobs.
const minTrimDuration = 0.1

// Clip pairs a render job with the manifest entry recorded once the job
// succeeds.
type Clip struct {
	Job      types.RenderJob
	Manifest types.ManifestEntry
}

// AspectTransform maps an aspect name to output dimensions and the
// scale-to-cover + center-crop filter producing them. Sources are never
// letterboxed: the frame is scaled until it covers the target, then
// cropped to the exact dimensions.
func AspectTransform(aspect string) (width, height int, filter string) {
	switch aspect {
	case "9:16":
		width, height = 1080, 1920
	case "1:1":
		width, height = 1080, 1080
	default:
		width, height = 1920, 1080
	}
	filter = fmt.Sprintf("scale=%d:%d:force_original_aspect_ratio=increase,crop=%d:%d",
		width, height, width, height)
	return width, height, filter
}

// Plan computes one clip per window, in window order, indexed from 1.
// Every job burns in the same shared subtitle track; because the track uses
// absolute source timestamps and the trim happens on the input side, the
// captions line up with the original timeline inside each clip.
func Plan(input string, windows []types.ClipWindow, outDir, trackPath, aspect string, enc EncodeSettings) []Clip {
	w, h, aspectFilter := AspectTransform(aspect)
	filter := aspectFilter + ",subtitles='" + escapeFilterPath(trackPath) + "':force_style='Alignment=2'"

	clips := make([]Clip, 0, len(windows))
	for i, win := range windows {
		name := fmt.Sprintf("clip_%02d.mp4", i+1)
		trimStart := win.Start
		if trimStart < 0 {
			trimStart = 0
		}
		trimDur := win.End - win.Start
		if trimDur < minTrimDuration {
			trimDur = minTrimDuration
		}
		clips = append(clips, Clip{
			Job: types.RenderJob{
				Input:        input,
				TrimStart:    trimStart,
				TrimDuration: trimDur,
				Filter:       filter,
				FrameRate:    enc.FrameRate,
				PixelFormat:  enc.PixelFormat,
				VideoCodec:   enc.VideoCodec,
				Preset:       enc.Preset,
				CRF:          enc.CRF,
				AudioCodec:   enc.AudioCodec,
				AudioBitrate: enc.AudioBitrate,
				Output:       filepath.Join(outDir, name),
			},
			Manifest: types.ManifestEntry{
				File:   name,
				Start:  round3(win.Start),
				End:    round3(win.End),
				Score:  round3(win.Score),
				Width:  w,
				Height: h,
			},
		})
	}
	return clips
}

func round3(x float64) float64 { return math.Round(x*1000) / 1000 }

// escapeFilterPath escapes a path for use inside an ffmpeg filter argument.
func escapeFilterPath(p string) string {
	p = strings.ReplaceAll(p, `\`, `\\`)
	p = strings.ReplaceAll(p, ":", `\:`)
	p = strings.ReplaceAll(p, "'", `\'`)
	return p
}
