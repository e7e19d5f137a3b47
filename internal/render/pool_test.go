package render

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openshorts/openshorts/internal/types"
)

// fakeVideo implements ports.VideoTool for pool tests.
type fakeVideo struct {
	mu       sync.Mutex
	rendered []string

	inFlight    int64
	maxInFlight int64

	failOn string
	delay  time.Duration
}

func (f *fakeVideo) ProbeDuration(ctx context.Context, path string) (float64, error) {
	return 0, nil
}

func (f *fakeVideo) ExtractAudioMono16k(ctx context.Context, in, outWav string) error {
	return nil
}

func (f *fakeVideo) Render(ctx context.Context, job types.RenderJob) error {
	cur := atomic.AddInt64(&f.inFlight, 1)
	defer atomic.AddInt64(&f.inFlight, -1)
	for {
		peak := atomic.LoadInt64(&f.maxInFlight)
		if cur <= peak || atomic.CompareAndSwapInt64(&f.maxInFlight, peak, cur) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if f.failOn != "" && job.Output == f.failOn {
		return errors.New("encoder exploded")
	}
	f.mu.Lock()
	f.rendered = append(f.rendered, job.Output)
	f.mu.Unlock()
	return nil
}

func jobsN(n int) []types.RenderJob {
	out := make([]types.RenderJob, n)
	for i := range out {
		out[i] = types.RenderJob{Output: string(rune('a' + i))}
	}
	return out
}

func TestRun_AllJobsComplete(t *testing.T) {
	t.Parallel()

	v := &fakeVideo{}
	if err := Run(context.Background(), v, jobsN(5), 3); err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(v.rendered) != 5 {
		t.Fatalf("expected 5 renders, got %d", len(v.rendered))
	}
}

func TestRun_BoundsConcurrency(t *testing.T) {
	t.Parallel()

	v := &fakeVideo{delay: 20 * time.Millisecond}
	if err := Run(context.Background(), v, jobsN(8), 2); err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.maxInFlight > 2 {
		t.Fatalf("concurrency bound exceeded: %d", v.maxInFlight)
	}
}

func TestRun_FailFastReturnsEncoderError(t *testing.T) {
	t.Parallel()

	v := &fakeVideo{failOn: "c", delay: 5 * time.Millisecond}
	err := Run(context.Background(), v, jobsN(6), 2)
	if err == nil || err.Error() != "encoder exploded" {
		t.Fatalf("expected the encoder error, got %v", err)
	}
	if len(v.rendered) == 6 {
		t.Fatalf("expected the batch to stop early")
	}
}

func TestRun_CancelledContext(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := &fakeVideo{}
	err := Run(ctx, v, jobsN(3), 2)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRun_SequentialByDefault(t *testing.T) {
	t.Parallel()

	v := &fakeVideo{delay: 5 * time.Millisecond}
	if err := Run(context.Background(), v, jobsN(4), 1); err != nil {
		t.Fatalf("run: %v", err)
	}
	if v.maxInFlight != 1 {
		t.Fatalf("expected strictly sequential renders, got max in-flight %d", v.maxInFlight)
	}
	// With one worker the completion order is the job order.
	want := []string{"a", "b", "c", "d"}
	for i, got := range v.rendered {
		if got != want[i] {
			t.Fatalf("render order changed: %v", v.rendered)
		}
	}
}
