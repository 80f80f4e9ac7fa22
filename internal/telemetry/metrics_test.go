package telemetry

import "testing"

func TestRecordFrameIncrementsFramesSolved(t *testing.T) {
	m := New()
	m.RecordFrame()
	m.RecordFrame()
	if got := m.Snapshot().FramesSolved; got != 2 {
		t.Errorf("FramesSolved = %d, want 2", got)
	}
}

func TestRecordNodesDirtiedAccumulatesByAmount(t *testing.T) {
	m := New()
	m.RecordNodesDirtied(3)
	m.RecordNodesDirtied(4)
	if got := m.Snapshot().NodesDirtied; got != 7 {
		t.Errorf("NodesDirtied = %d, want 7", got)
	}
}

func TestRecordVerticesAccumulatesByAmount(t *testing.T) {
	m := New()
	m.RecordVertices(100)
	m.RecordVertices(50)
	if got := m.Snapshot().VerticesEmitted; got != 150 {
		t.Errorf("VerticesEmitted = %d, want 150", got)
	}
}

func TestRecordCountersIncrementIndependently(t *testing.T) {
	m := New()
	m.RecordTilePruned()
	m.RecordTileEmitted()
	m.RecordTileEmitted()
	m.RecordCancelled()
	m.RecordSolverError()
	m.RecordPlotKernelRun()

	snap := m.Snapshot()
	if snap.TilesPruned != 1 {
		t.Errorf("TilesPruned = %d, want 1", snap.TilesPruned)
	}
	if snap.TilesEmitted != 2 {
		t.Errorf("TilesEmitted = %d, want 2", snap.TilesEmitted)
	}
	if snap.CancelledJobs != 1 {
		t.Errorf("CancelledJobs = %d, want 1", snap.CancelledJobs)
	}
	if snap.SolverErrors != 1 {
		t.Errorf("SolverErrors = %d, want 1", snap.SolverErrors)
	}
	if snap.PlotKernelRuns != 1 {
		t.Errorf("PlotKernelRuns = %d, want 1", snap.PlotKernelRuns)
	}
}

func TestSnapshotIsIndependentOfLaterUpdates(t *testing.T) {
	m := New()
	m.RecordFrame()
	snap := m.Snapshot()
	m.RecordFrame()
	if snap.FramesSolved != 1 {
		t.Errorf("earlier snapshot's FramesSolved = %d, want 1 (unaffected by the later RecordFrame)", snap.FramesSolved)
	}
	if m.Snapshot().FramesSolved != 2 {
		t.Errorf("current FramesSolved = %d, want 2", m.Snapshot().FramesSolved)
	}
}
