// Package whispercpp runs a local whisper.cpp binary as the transcription
// engine.
package whispercpp

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/openshorts/openshorts/internal/ports"
	"github.com/openshorts/openshorts/internal/types"
)

type Adapter struct {
	bin      string
	model    string
	cacheDir string
}

func New(binPath, modelPath, cacheDir string) *Adapter {
	return &Adapter{bin: binPath, model: modelPath, cacheDir: cacheDir}
}

// wire mirrors whisper.cpp's -oj JSON output.
type wire struct {
	Segments []struct {
		Start float64 `json:"start"`
		End   float64 `json:"end"`
		Text  string  `json:"text"`
	} `json:"segments"`
}

func (a *Adapter) Transcribe(ctx context.Context, mediaPath, language string) ([]types.Entry, error) {
	outPrefix := filepath.Join(a.cacheDir, "whisper")
	args := []string{
		"-m", a.model,
		"-f", mediaPath,
		"-oj",
		"-of", outPrefix,
	}
	if language != "" {
		args = append(args, "-l", language)
	}
	cmd := exec.CommandContext(ctx, a.bin, args...)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, &ports.ExternalProcessError{Tool: "whisper.cpp", Err: err, Output: string(b)}
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, err
	}
	var w wire
	if err := json.Unmarshal(jb, &w); err != nil {
		return nil, err
	}

	entries := make([]types.Entry, 0, len(w.Segments))
	for _, s := range w.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		entries = append(entries, types.Entry{Start: s.Start, End: s.End, Text: text})
	}
	return entries, nil
}
