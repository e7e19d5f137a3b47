// Package openaiasr transcribes media through the OpenAI audio
// transcription API, as an alternative to the local whisper.cpp engine.
package openaiasr

import (
	"context"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/openshorts/openshorts/internal/types"
)

type Adapter struct {
	client *openai.Client
}

func New(apiKey string) *Adapter {
	return &Adapter{client: openai.NewClient(apiKey)}
}

func (a *Adapter) Transcribe(ctx context.Context, mediaPath, language string) ([]types.Entry, error) {
	resp, err := a.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    openai.Whisper1,
		FilePath: mediaPath,
		Format:   openai.AudioResponseFormatVerboseJSON,
		Language: language,
	})
	if err != nil {
		return nil, fmt.Errorf("openai transcription: %w", err)
	}

	entries := make([]types.Entry, 0, len(resp.Segments))
	for _, s := range resp.Segments {
		text := strings.TrimSpace(s.Text)
		if text == "" {
			continue
		}
		entries = append(entries, types.Entry{Start: s.Start, End: s.End, Text: text})
	}
	return entries, nil
}
