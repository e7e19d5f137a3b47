package usecase

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/openshorts/openshorts/internal/domain/highlights"
	"github.com/openshorts/openshorts/internal/domain/planner"
	"github.com/openshorts/openshorts/internal/domain/subtitles"
	"github.com/openshorts/openshorts/internal/domain/transcript"
	"github.com/openshorts/openshorts/internal/types"
)

type fakeVideo struct {
	duration float64
	probeErr error

	renderErr error
	rendered  []types.RenderJob
}

func (f *fakeVideo) ProbeDuration(ctx context.Context, path string) (float64, error) {
	return f.duration, f.probeErr
}

func (f *fakeVideo) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	return os.WriteFile(outWav, []byte("wav"), 0o644)
}

func (f *fakeVideo) Render(ctx context.Context, job types.RenderJob) error {
	if f.renderErr != nil {
		return f.renderErr
	}
	f.rendered = append(f.rendered, job)
	return os.WriteFile(job.Output, []byte("mp4"), 0o644)
}

type fakeASR struct {
	entries []types.Entry
	err     error
	calls   int
}

func (f *fakeASR) Transcribe(ctx context.Context, mediaPath, language string) ([]types.Entry, error) {
	f.calls++
	return f.entries, f.err
}

func settings() Settings {
	return Settings{
		Scorer:        highlights.NewScorer(),
		SeedThreshold: 0.5,
		Styles:        subtitles.DefaultStyles(),
		Encode:        planner.DefaultEncode(),
		ParseMode:     transcript.Lenient,
	}
}

func testEntries() []types.Entry {
	return []types.Entry{
		{Start: 1, End: 4, Text: "here's the secret tip you always wanted"},
		{Start: 10, End: 14, Text: "nothing much happening"},
		{Start: 40, End: 44, Text: "the biggest mistake is why people never improve"},
	}
}

func testInput(tmp string) Input {
	return Input{
		Media:       filepath.Join(tmp, "in.mp4"),
		WorkDir:     filepath.Join(tmp, "work"),
		ClipsDir:    filepath.Join(tmp, "clips"),
		TargetLen:   15,
		MaxClips:    4,
		Aspect:      "9:16",
		Style:       "default",
		Concurrency: 1,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideo{duration: 60}
	asr := &fakeASR{entries: testEntries()}
	uc := New(Deps{Video: video, ASR: asr}, settings())

	res, err := uc.Run(context.Background(), testInput(tmp))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Manifest) == 0 {
		t.Fatalf("expected manifest entries")
	}
	if len(res.Manifest) != len(video.rendered) {
		t.Fatalf("manifest has %d entries for %d renders", len(res.Manifest), len(video.rendered))
	}
	for i, m := range res.Manifest {
		if !strings.HasSuffix(video.rendered[i].Output, m.File) {
			t.Fatalf("manifest order diverged from render order: %+v vs %+v", m, video.rendered[i])
		}
		if m.Width != 1080 || m.Height != 1920 {
			t.Fatalf("expected 9:16 dimensions, got %+v", m)
		}
	}

	// The transcript and the shared track are persisted in the work dir.
	if _, err := os.Stat(filepath.Join(tmp, "work", "transcript.srt")); err != nil {
		t.Fatalf("transcript not persisted: %v", err)
	}
	track, err := os.ReadFile(filepath.Join(tmp, "work", "captions.ass"))
	if err != nil {
		t.Fatalf("track not persisted: %v", err)
	}
	if !strings.Contains(string(track), "[V4+ Styles]") {
		t.Fatalf("track missing style table")
	}

	// Every job burns the one shared track.
	for _, job := range video.rendered {
		if !strings.Contains(job.Filter, "captions.ass") {
			t.Fatalf("job does not reference the shared track: %q", job.Filter)
		}
	}
}

func TestRun_CachedTranscriptSkipsASR(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	workDir := filepath.Join(tmp, "work")
	if err := os.MkdirAll(workDir, 0o755); err != nil {
		t.Fatal(err)
	}
	cached := transcript.Format(testEntries())
	if err := os.WriteFile(filepath.Join(workDir, "transcript.srt"), []byte(cached), 0o644); err != nil {
		t.Fatal(err)
	}

	video := &fakeVideo{duration: 60}
	asr := &fakeASR{err: errors.New("should not be called")}
	uc := New(Deps{Video: video, ASR: asr}, settings())

	if _, err := uc.Run(context.Background(), testInput(tmp)); err != nil {
		t.Fatalf("run: %v", err)
	}
	if asr.calls != 0 {
		t.Fatalf("expected cached transcript to bypass ASR, got %d calls", asr.calls)
	}
}

func TestRun_ProbeFailureIsExplicit(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideo{probeErr: errors.New("ffprobe exploded")}
	asr := &fakeASR{entries: testEntries()}
	uc := New(Deps{Video: video, ASR: asr}, settings())

	_, err := uc.Run(context.Background(), testInput(tmp))
	if !errors.Is(err, highlights.ErrUnknownDuration) {
		t.Fatalf("expected ErrUnknownDuration, got %v", err)
	}
}

func TestRun_EncoderFailureAbortsBatch(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideo{duration: 60, renderErr: errors.New("encoder exploded")}
	asr := &fakeASR{entries: testEntries()}
	uc := New(Deps{Video: video, ASR: asr}, settings())

	res, err := uc.Run(context.Background(), testInput(tmp))
	if err == nil {
		t.Fatalf("expected render failure to surface")
	}
	if len(res.Manifest) != 0 {
		t.Fatalf("no partial manifest on failure, got %v", res.Manifest)
	}
}

func TestRun_EmptyTranscriptFallsBackToChop(t *testing.T) {
	t.Parallel()

	tmp := t.TempDir()
	video := &fakeVideo{duration: 47}
	asr := &fakeASR{entries: nil}
	uc := New(Deps{Video: video, ASR: asr}, settings())

	res, err := uc.Run(context.Background(), testInput(tmp))
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Manifest) != 4 {
		t.Fatalf("expected 4 chop windows for 47s at 15s, got %d", len(res.Manifest))
	}
	if res.Manifest[3].Start != 45 || res.Manifest[3].End != 47 {
		t.Fatalf("unexpected final chop window: %+v", res.Manifest[3])
	}
}
