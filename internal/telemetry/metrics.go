// Package telemetry tracks frame-level engine metrics with the same
// atomically-updated counters-struct shape as the teacher's
// ConcurrencyMetrics (spec §11 "Logging/metrics"). No other package of
// the module records into or reads these counters; the CLI has no
// stats command and the introspection server does not report them.
package telemetry

import "sync/atomic"

// Metrics accumulates counters across the engine's lifetime. All
// fields are updated via atomic ops so solve/plot workers and the
// control thread never contend on a lock for a simple counter bump.
type Metrics struct {
	FramesSolved      int64
	NodesDirtied      int64
	TilesPruned       int64
	TilesEmitted      int64
	VerticesEmitted   int64
	CancelledJobs     int64
	SolverErrors      int64
	PlotKernelRuns    int64
}

func New() *Metrics { return &Metrics{} }

func (m *Metrics) RecordFrame()               { atomic.AddInt64(&m.FramesSolved, 1) }
func (m *Metrics) RecordNodesDirtied(n int)    { atomic.AddInt64(&m.NodesDirtied, int64(n)) }
func (m *Metrics) RecordTilePruned()           { atomic.AddInt64(&m.TilesPruned, 1) }
func (m *Metrics) RecordTileEmitted()          { atomic.AddInt64(&m.TilesEmitted, 1) }
func (m *Metrics) RecordVertices(n int)        { atomic.AddInt64(&m.VerticesEmitted, int64(n)) }
func (m *Metrics) RecordCancelled()            { atomic.AddInt64(&m.CancelledJobs, 1) }
func (m *Metrics) RecordSolverError()          { atomic.AddInt64(&m.SolverErrors, 1) }
func (m *Metrics) RecordPlotKernelRun()        { atomic.AddInt64(&m.PlotKernelRuns, 1) }

// Snapshot is a point-in-time copy safe to print or serialize without
// further synchronization.
type Snapshot struct {
	FramesSolved    int64
	NodesDirtied    int64
	TilesPruned     int64
	TilesEmitted    int64
	VerticesEmitted int64
	CancelledJobs   int64
	SolverErrors    int64
	PlotKernelRuns  int64
}

func (m *Metrics) Snapshot() Snapshot {
	return Snapshot{
		FramesSolved:    atomic.LoadInt64(&m.FramesSolved),
		NodesDirtied:    atomic.LoadInt64(&m.NodesDirtied),
		TilesPruned:     atomic.LoadInt64(&m.TilesPruned),
		TilesEmitted:    atomic.LoadInt64(&m.TilesEmitted),
		VerticesEmitted: atomic.LoadInt64(&m.VerticesEmitted),
		CancelledJobs:   atomic.LoadInt64(&m.CancelledJobs),
		SolverErrors:    atomic.LoadInt64(&m.SolverErrors),
		PlotKernelRuns:  atomic.LoadInt64(&m.PlotKernelRuns),
	}
}
