// Package render dispatches clip render jobs across a bounded worker pool.
package render

import (
	"context"
	"sync"
	"time"

	"github.com/openshorts/openshorts/internal/metrics"
	"github.com/openshorts/openshorts/internal/ports"
	"github.com/openshorts/openshorts/internal/types"
)

// Run executes the jobs with at most concurrency workers. Each job writes
// to its own output path, so jobs are independent; results are tracked by
// job index, which lets the caller keep the original window order no
// matter the completion order.
//
// Fail-fast: the first failure cancels the shared context, in-flight
// encoders are killed, and the error of the earliest-indexed failed job is
// returned.
func Run(ctx context.Context, video ports.VideoTool, jobs []types.RenderJob, concurrency int) error {
	if len(jobs) == 0 {
		return nil
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if concurrency > len(jobs) {
		concurrency = len(jobs)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The first failure wins; later errors are cancellation fallout from
	// the kill it triggered.
	var once sync.Once
	var firstErr error
	fail := func(err error) {
		once.Do(func() { firstErr = err })
		cancel()
	}

	idxCh := make(chan int)
	var wg sync.WaitGroup
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range idxCh {
				if ctx.Err() != nil {
					continue
				}
				started := time.Now()
				if err := video.Render(ctx, jobs[i]); err != nil {
					fail(err)
					continue
				}
				metrics.RenderSeconds.Observe(time.Since(started).Seconds())
				metrics.ClipsRendered.Inc()
			}
		}()
	}

	for i := range jobs {
		idxCh <- i
	}
	close(idxCh)
	wg.Wait()

	// No render failed, but the caller's context may have been cancelled
	// mid-batch, leaving jobs unrun.
	if firstErr == nil {
		return ctx.Err()
	}
	return firstErr
}
