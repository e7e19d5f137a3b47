// Package usecase runs the highlight-clip pipeline: probe, transcribe,
// score, select windows, build the caption track, render, and assemble the
// manifest.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openshorts/openshorts/internal/domain/highlights"
	"github.com/openshorts/openshorts/internal/domain/planner"
	"github.com/openshorts/openshorts/internal/domain/subtitles"
	"github.com/openshorts/openshorts/internal/domain/transcript"
	"github.com/openshorts/openshorts/internal/ports"
	"github.com/openshorts/openshorts/internal/render"
	"github.com/openshorts/openshorts/internal/types"
)

type Deps struct {
	Video ports.VideoTool
	ASR   ports.ASR
}

// Settings carry the process-wide configuration the pipeline core needs.
type Settings struct {
	Scorer        highlights.Scorer
	SeedThreshold float64
	Styles        subtitles.StyleTable
	Encode        planner.EncodeSettings
	ParseMode     transcript.Mode
}

type Usecase struct {
	d Deps
	s Settings
}

func New(d Deps, s Settings) Usecase { return Usecase{d: d, s: s} }

// Input describes one pipeline invocation.
type Input struct {
	Media    string
	WorkDir  string
	ClipsDir string

	TargetLen   float64
	MaxClips    int
	Aspect      string
	Style       string
	Language    string
	Concurrency int

	Logf func(format string, args ...any)
}

type Result struct {
	Manifest []types.ManifestEntry
}

func (u Usecase) Run(ctx context.Context, in Input) (Result, error) {
	logf := in.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	for _, dir := range []string{in.WorkDir, in.ClipsDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return Result{}, err
		}
	}

	duration, err := u.d.Video.ProbeDuration(ctx, in.Media)
	if err != nil {
		// Probe failure degrades to an unknown duration; the selector
		// turns that into an explicit error instead of producing
		// zero-length windows.
		logf("duration probe failed, proceeding with unknown duration: %v", err)
		duration = 0
	}

	entries, err := u.loadTranscript(ctx, in, logf)
	if err != nil {
		return Result{}, err
	}
	logf("transcript: %d entries", len(entries))

	scored := u.s.Scorer.Score(entries)
	sel := highlights.Selector{
		TargetLen:     in.TargetLen,
		MaxClips:      in.MaxClips,
		SeedThreshold: u.s.SeedThreshold,
	}
	windows, err := sel.Select(scored, duration)
	if err != nil {
		if errors.Is(err, highlights.ErrUnknownDuration) {
			return Result{}, fmt.Errorf("cannot select windows for %s: %w", in.Media, err)
		}
		return Result{}, err
	}
	logf("selected %d windows", len(windows))

	// One track for the whole source; every clip burns the same file and
	// the absolute timestamps stay aligned with the source timeline.
	trackPath := filepath.Join(in.WorkDir, "captions.ass")
	track := subtitles.BuildTrack(entries, u.s.Styles, in.Style)
	if err := os.WriteFile(trackPath, []byte(track), 0o644); err != nil {
		return Result{}, err
	}

	clips := planner.Plan(in.Media, windows, in.ClipsDir, trackPath, in.Aspect, u.s.Encode)
	jobs := make([]types.RenderJob, len(clips))
	for i, c := range clips {
		jobs[i] = c.Job
	}
	if err := render.Run(ctx, u.d.Video, jobs, in.Concurrency); err != nil {
		return Result{}, err
	}

	manifest := make([]types.ManifestEntry, len(clips))
	for i, c := range clips {
		manifest[i] = c.Manifest
	}
	logf("rendered %d clips", len(manifest))
	return Result{Manifest: manifest}, nil
}

// loadTranscript reuses a previously written transcript when present, so
// re-processing a project with new clip settings skips the ASR run.
func (u Usecase) loadTranscript(ctx context.Context, in Input, logf func(string, ...any)) ([]types.Entry, error) {
	srtPath := filepath.Join(in.WorkDir, "transcript.srt")
	if b, err := os.ReadFile(srtPath); err == nil {
		logf("using cached transcript: %s", srtPath)
		return transcript.Parse(string(b), u.s.ParseMode)
	}

	wav := filepath.Join(in.WorkDir, "audio.wav")
	if err := u.d.Video.ExtractAudioMono16k(ctx, in.Media, wav); err != nil {
		return nil, err
	}
	entries, err := u.d.ASR.Transcribe(ctx, wav, in.Language)
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(srtPath, []byte(transcript.Format(entries)), 0o644); err != nil {
		return nil, err
	}
	// Parse what was persisted rather than trusting the ASR output shape;
	// strict mode applies to cached and fresh transcripts alike.
	return transcript.Parse(transcript.Format(entries), u.s.ParseMode)
}
