package blast

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Job is one unit of work for the pool, usually one external process.
type Job func(ctx context.Context) error

// Pool runs the jobs with at most workers at a time and waits for all
// of them. A failed job does not stop the others. The error for job i
// is in slot i. Jobs not started before ctx is cancelled get ctx.Err().
// tick, if not nil, is called after each job.
func Pool(ctx context.Context, workers int, jobs []Job, tick func()) []error {
	errs := make([]error, len(jobs))
	if workers < 1 {
		workers = 1
	}
	var g errgroup.Group
	g.SetLimit(workers)
	for i, job := range jobs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				errs[i] = err
			} else {
				errs[i] = job(ctx)
			}
			if tick != nil {
				tick()
			}
			return nil
		})
	}
	g.Wait()
	return errs
}
