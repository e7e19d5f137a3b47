// Package ports defines the interfaces to the external collaborators:
// the media toolchain, the transcription engine, and the downloader.
package ports

import (
	"context"
	"fmt"

	"github.com/openshorts/openshorts/internal/types"
)

// VideoTool wraps the probe and encoder binaries.
type VideoTool interface {
	// ProbeDuration returns the media duration in seconds. On failure the
	// caller decides policy; it must not assume a usable zero.
	ProbeDuration(ctx context.Context, path string) (float64, error)
	// ExtractAudioMono16k produces the mono 16kHz WAV the ASR engines
	// consume.
	ExtractAudioMono16k(ctx context.Context, in, outWav string) error
	// Render executes one render job. The output file appears under its
	// final name only on success.
	Render(ctx context.Context, job types.RenderJob) error
}

// ASR transcribes media into ordered timed entries covering the source.
type ASR interface {
	Transcribe(ctx context.Context, mediaPath, language string) ([]types.Entry, error)
}

// Downloader fetches a remote URL into destDir and returns the path of the
// fetched media file.
type Downloader interface {
	Fetch(ctx context.Context, url, destDir string) (string, error)
}

// ExternalProcessError reports a collaborator subprocess that exited
// non-zero. It is fatal to the invocation and never retried; Output holds
// the captured diagnostic output.
type ExternalProcessError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ExternalProcessError) Error() string {
	return fmt.Sprintf("%s: %v\n%s", e.Tool, e.Err, e.Output)
}

func (e *ExternalProcessError) Unwrap() error { return e.Err }
