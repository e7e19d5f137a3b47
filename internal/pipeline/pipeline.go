// Package pipeline wires configuration and adapters into one runnable
// highlight-clip invocation.
package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/openshorts/openshorts/internal/config"
	"github.com/openshorts/openshorts/internal/metrics"
	"github.com/openshorts/openshorts/internal/ports"
	"github.com/openshorts/openshorts/internal/ports/adapters/ffmpeg"
	"github.com/openshorts/openshorts/internal/ports/adapters/openaiasr"
	"github.com/openshorts/openshorts/internal/ports/adapters/whispercpp"
	"github.com/openshorts/openshorts/internal/types"
	"github.com/openshorts/openshorts/internal/usecase"
)

type Config struct {
	// Input is the source media file.
	Input string
	// WorkDir holds intermediate artifacts (audio, transcript, track).
	WorkDir string
	// ClipsDir receives the rendered clips.
	ClipsDir string
	// ManifestPath, when set, receives the manifest JSON.
	ManifestPath string

	TargetLen float64
	MaxClips  int
	Aspect    string
	Style     string
	Language  string

	App  *config.Config
	Logf func(format string, args ...any)
}

func (c Config) Validate() error {
	if c.Input == "" {
		return errors.New("input is empty")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("stat input: %w", err)
	}
	if c.TargetLen <= 0 {
		return errors.New("target length must be > 0")
	}
	if c.MaxClips <= 0 {
		return errors.New("max clips must be > 0")
	}
	if c.App == nil {
		return errors.New("app config is required")
	}
	if c.App.Transcribe.Engine == "openai" && os.Getenv("OPENAI_API_KEY") == "" {
		return errors.New("OPENAI_API_KEY is required for the openai transcribe engine")
	}
	return nil
}

// Run executes one invocation and returns the manifest.
func Run(ctx context.Context, cfg Config) ([]types.ManifestEntry, error) {
	logf := cfg.Logf
	if logf == nil {
		logf = func(string, ...any) {}
	}

	video := ffmpeg.New(cfg.App.Tools.FFmpeg, cfg.App.Tools.FFprobe)
	asr, err := buildASR(cfg.App, cfg.WorkDir)
	if err != nil {
		return nil, err
	}

	uc := usecase.New(
		usecase.Deps{Video: video, ASR: asr},
		usecase.Settings{
			Scorer:        cfg.App.Scorer(),
			SeedThreshold: cfg.App.Scoring.SeedThreshold,
			Styles:        cfg.App.Styles,
			Encode:        cfg.App.Encode,
			ParseMode:     cfg.App.ParseMode(),
		},
	)

	res, err := uc.Run(ctx, usecase.Input{
		Media:       cfg.Input,
		WorkDir:     cfg.WorkDir,
		ClipsDir:    cfg.ClipsDir,
		TargetLen:   cfg.TargetLen,
		MaxClips:    cfg.MaxClips,
		Aspect:      cfg.Aspect,
		Style:       cfg.Style,
		Language:    cfg.Language,
		Concurrency: cfg.App.Render.Concurrency,
		Logf:        logf,
	})
	if err != nil {
		metrics.PipelineRuns.WithLabelValues("error").Inc()
		return nil, err
	}
	metrics.PipelineRuns.WithLabelValues("ok").Inc()

	if cfg.ManifestPath != "" {
		if err := writeManifest(cfg.ManifestPath, res.Manifest); err != nil {
			return nil, err
		}
		logf("manifest written (%d clips): %s", len(res.Manifest), cfg.ManifestPath)
	}
	return res.Manifest, nil
}

func buildASR(app *config.Config, workDir string) (ports.ASR, error) {
	switch app.Transcribe.Engine {
	case "openai":
		return openaiasr.New(os.Getenv("OPENAI_API_KEY")), nil
	case "whispercpp":
		return whispercpp.New(app.Transcribe.WhisperBin, app.Transcribe.WhisperModel, workDir), nil
	default:
		return nil, fmt.Errorf("unknown transcribe engine %q", app.Transcribe.Engine)
	}
}

func writeManifest(path string, manifest []types.ManifestEntry) error {
	b, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal manifest: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// ensure adapters implement ports
var _ ports.VideoTool = (*ffmpeg.Adapter)(nil)
var _ ports.ASR = (*whispercpp.Adapter)(nil)
var _ ports.ASR = (*openaiasr.Adapter)(nil)
