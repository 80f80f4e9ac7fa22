// Package worker drives the plot kernels' parallel fan-out (spec §5
// "parallel worker pool (work-stealing)"), replacing the teacher's
// bespoke WorkerPool/Job/JobResult triad with golang.org/x/sync's
// errgroup: submit every tile/batch as a group goroutine, wait,
// collect. The phase separation (submit -> wait -> collect) is the
// same shape the teacher's concurrency module enforces; errgroup gives
// it to us directly instead of hand-rolled channels.
package worker

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Pool bounds concurrent plot-kernel work to a fixed worker count,
// mirroring the teacher's CreateWorkerPool(size) contract.
type Pool struct {
	size int
}

func New(size int) *Pool {
	if size <= 0 {
		size = 1
	}
	return &Pool{size: size}
}

// Run executes tasks with at most p.size running concurrently,
// returning the first error encountered (cancelling the rest via
// ctx). internal/plot fans out through RunIndexed instead (one task per
// plotted node in the collector, one per implicit quadtree leaf); the
// explicit and parametric samplers run on the calling goroutine.
func (p *Pool) Run(ctx context.Context, tasks []func(ctx context.Context) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for _, task := range tasks {
		task := task
		g.Go(func() error { return task(gctx) })
	}
	return g.Wait()
}

// RunIndexed is Run for tasks that want their slot index (e.g. to
// write into a preallocated per-tile row-cache slice without a lock).
func (p *Pool) RunIndexed(ctx context.Context, n int, fn func(ctx context.Context, i int) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.size)
	for i := 0; i < n; i++ {
		i := i
		g.Go(func() error { return fn(gctx, i) })
	}
	return g.Wait()
}
