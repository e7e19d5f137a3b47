// Package config loads the process-wide YAML configuration: keyword and
// pacing constants, the caption style table, encoder settings, tool paths,
// and the server/ingest options.
package config

import (
	"fmt"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/openshorts/openshorts/internal/domain/highlights"
	"github.com/openshorts/openshorts/internal/domain/planner"
	"github.com/openshorts/openshorts/internal/domain/subtitles"
	"github.com/openshorts/openshorts/internal/domain/transcript"
)

type Config struct {
	Server     Server                 `yaml:"server"`
	Scoring    Scoring                `yaml:"scoring"`
	Styles     subtitles.StyleTable   `yaml:"styles"`
	Encode     planner.EncodeSettings `yaml:"encode"`
	Transcribe Transcribe             `yaml:"transcribe"`
	Ingest     Ingest                 `yaml:"ingest"`
	Render     Render                 `yaml:"render"`
	Tools      Tools                  `yaml:"tools"`
}

type Server struct {
	Port        int    `yaml:"port"`
	DataRoot    string `yaml:"data_root"`
	MaxUploadMB int64  `yaml:"max_upload_mb"`
}

type Scoring struct {
	Keywords      []string `yaml:"keywords"`
	PaceFloor     float64  `yaml:"pace_floor"`
	PaceDivisor   float64  `yaml:"pace_divisor"`
	PaceCap       float64  `yaml:"pace_cap"`
	SeedThreshold float64  `yaml:"seed_threshold"`
}

type Transcribe struct {
	// Engine selects the ASR adapter: "whispercpp" or "openai".
	Engine       string `yaml:"engine"`
	WhisperBin   string `yaml:"whisper_bin"`
	WhisperModel string `yaml:"whisper_model"`
	// Mode is the transcript parse mode: "lenient" or "strict".
	Mode string `yaml:"mode"`
}

type Ingest struct {
	YtdlpBin      string   `yaml:"ytdlp_bin"`
	PreferredExts []string `yaml:"preferred_exts"`
}

type Render struct {
	// Concurrency bounds parallel clip renders; 1 keeps the pipeline
	// fully sequential.
	Concurrency int `yaml:"concurrency"`
}

type Tools struct {
	FFmpeg  string `yaml:"ffmpeg"`
	FFprobe string `yaml:"ffprobe"`
}

// Default returns the built-in configuration, used as the base that a YAML
// file overrides.
func Default() *Config {
	return &Config{
		Server: Server{
			Port:        8080,
			DataRoot:    "data",
			MaxUploadMB: 2048,
		},
		Scoring: Scoring{
			Keywords:      highlights.DefaultKeywords,
			PaceFloor:     0.5,
			PaceDivisor:   3.0,
			PaceCap:       1.0,
			SeedThreshold: 0.5,
		},
		Styles: subtitles.DefaultStyles(),
		Encode: planner.DefaultEncode(),
		Transcribe: Transcribe{
			Engine:       "whispercpp",
			WhisperBin:   ".cache/bin/whisper.cpp",
			WhisperModel: ".cache/models/ggml-base.bin",
			Mode:         string(transcript.Lenient),
		},
		Ingest: Ingest{
			YtdlpBin: "yt-dlp",
		},
		Render: Render{
			Concurrency: 1,
		},
		Tools: Tools{
			FFmpeg:  "ffmpeg",
			FFprobe: "ffprobe",
		},
	}
}

// Load reads the YAML file at path over the defaults. An empty path
// returns the defaults unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, cfg.Validate()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.Validate()
}

// Validate fills gaps a partial YAML file may leave and rejects settings
// the pipeline cannot run with. The "default" caption style is guaranteed
// to exist afterwards.
func (c *Config) Validate() error {
	if c.Scoring.PaceFloor <= 0 {
		c.Scoring.PaceFloor = 0.5
	}
	if c.Scoring.PaceDivisor <= 0 {
		c.Scoring.PaceDivisor = 3.0
	}
	if c.Scoring.PaceCap <= 0 {
		c.Scoring.PaceCap = 1.0
	}
	if len(c.Scoring.Keywords) == 0 {
		c.Scoring.Keywords = highlights.DefaultKeywords
	}
	if c.Styles == nil {
		c.Styles = subtitles.DefaultStyles()
	}
	if _, ok := c.Styles[subtitles.DefaultName]; !ok {
		c.Styles[subtitles.DefaultName] = subtitles.DefaultStyles()[subtitles.DefaultName]
	}
	if c.Render.Concurrency <= 0 {
		c.Render.Concurrency = 1
	}
	if c.Server.Port <= 0 {
		c.Server.Port = 8080
	}
	if c.Server.DataRoot == "" {
		c.Server.DataRoot = "data"
	}

	switch c.Transcribe.Engine {
	case "whispercpp", "openai":
	case "":
		c.Transcribe.Engine = "whispercpp"
	default:
		return fmt.Errorf("unknown transcribe engine %q", c.Transcribe.Engine)
	}
	switch transcript.Mode(c.Transcribe.Mode) {
	case transcript.Lenient, transcript.Strict:
	case "":
		c.Transcribe.Mode = string(transcript.Lenient)
	default:
		return fmt.Errorf("unknown transcript mode %q", c.Transcribe.Mode)
	}
	return nil
}

// Scorer builds the configured highlight scorer.
func (c *Config) Scorer() highlights.Scorer {
	return highlights.Scorer{
		Keywords:    c.Scoring.Keywords,
		PaceFloor:   c.Scoring.PaceFloor,
		PaceDivisor: c.Scoring.PaceDivisor,
		PaceCap:     c.Scoring.PaceCap,
	}
}

// ParseMode returns the configured transcript parse mode.
func (c *Config) ParseMode() transcript.Mode {
	return transcript.Mode(c.Transcribe.Mode)
}
