package pipeline

import (
	"context"
	"sync"
)

// batchWorkers bounds how many venues render concurrently.
const batchWorkers = 4

// BatchResult is the outcome of one entry of ExecuteBatch.
type BatchResult struct {
	Index  int
	Result *Result
	Err    error
}

// ExecuteBatch runs Execute for every entry of opts on a small worker pool.
// Results are returned in input order; a failing entry does not stop the
// others. Entries not started before ctx is cancelled report ctx.Err().
func (r *Runner) ExecuteBatch(ctx context.Context, opts []Options) []BatchResult {
	out := make([]BatchResult, len(opts))
	jobs := make(chan int)

	var wg sync.WaitGroup
	for range min(batchWorkers, len(opts)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				out[i].Index = i
				if err := ctx.Err(); err != nil {
					out[i].Err = err
					continue
				}
				out[i].Result, out[i].Err = r.Execute(ctx, opts[i])
			}
		}()
	}

	for i := range opts {
		jobs <- i
	}
	close(jobs)
	wg.Wait()
	return out
}
