package command

import (
	"context"
	"testing"

	"geoengine/internal/config"
	"geoengine/internal/dag"
	"geoengine/internal/plot"
	"geoengine/internal/solver"
	"geoengine/internal/view"
)

func newTestManager() (*Manager, *dag.Pool) {
	pool := dag.NewPool()
	solver.RegisterAll(pool)
	cfg := config.New(config.WithWorkerCount(2))
	collector := plot.NewCollector(cfg)
	v := view.Default(100, 100)
	return NewManager(pool, collector, v, cfg), pool
}

func addFreePointTx(id dag.NodeID, x, y float64) *Transaction {
	tx := NewTransaction("add_point")
	tx.Add(Mutation{NodeID: id, Kind: MutationActive, OldValue: false, NewValue: true})
	tx.Add(Mutation{NodeID: id, Kind: MutationData, OldValue: dag.Payload{}, NewValue: dag.Payload{
		Kind: dag.PayloadPoint, Point: &dag.PointData{Free: true, X: x, Y: y},
	}})
	tx.Add(Mutation{NodeID: id, Kind: MutationStyle, OldValue: dag.Config{}, NewValue: dag.Config{Visible: true}})
	return tx
}

func TestManagerCommitAppliesAndSolvesFreePoint(t *testing.T) {
	mgr, pool := newTestManager()
	id := pool.AllocateNode()
	pool.Node(id).RenderType = dag.RenderPoint

	mgr.Submit(addFreePointTx(id, 3, 4))
	if err := mgr.Commit(context.Background()); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}

	n := pool.Node(id)
	if !n.Active {
		t.Error("node.Active = false after committing an activating transaction")
	}
	if !n.Result.IsValid || n.Result.X != 3 || n.Result.Y != 4 {
		t.Errorf("node.Result = %+v, want valid (3,4)", n.Result)
	}
}

func TestManagerCommitWithNoPendingTasksIsNoop(t *testing.T) {
	mgr, _ := newTestManager()
	if err := mgr.Commit(context.Background()); err != nil {
		t.Fatalf("Commit on an empty queue returned error: %v", err)
	}
}

func TestManagerUndoRevertsActivation(t *testing.T) {
	mgr, pool := newTestManager()
	id := pool.AllocateNode()
	pool.Node(id).RenderType = dag.RenderPoint

	mgr.Submit(addFreePointTx(id, 1, 1))
	if err := mgr.Commit(context.Background()); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	if !mgr.Undo() {
		t.Fatal("Undo() = false, want true with one committed transaction on the stack")
	}
	if err := mgr.Commit(context.Background()); err != nil {
		t.Fatalf("Commit (undo) returned error: %v", err)
	}
	if pool.Node(id).Active {
		t.Error("node.Active = true after undoing its creation, want false")
	}
}

func TestManagerRedoReappliesUndoneTransaction(t *testing.T) {
	mgr, pool := newTestManager()
	id := pool.AllocateNode()
	pool.Node(id).RenderType = dag.RenderPoint

	mgr.Submit(addFreePointTx(id, 2, 2))
	mgr.Commit(context.Background())
	mgr.Undo()
	mgr.Commit(context.Background())
	if !mgr.Redo() {
		t.Fatal("Redo() = false, want true after one undo")
	}
	if err := mgr.Commit(context.Background()); err != nil {
		t.Fatalf("Commit (redo) returned error: %v", err)
	}
	if !pool.Node(id).Active {
		t.Error("node.Active = false after redoing its creation, want true")
	}
}

func TestManagerUndoOnEmptyStackReturnsFalse(t *testing.T) {
	mgr, _ := newTestManager()
	if mgr.Undo() {
		t.Error("Undo() = true on an empty undo stack, want false")
	}
}

func TestManagerSubmitClearsRedoStack(t *testing.T) {
	mgr, pool := newTestManager()
	id := pool.AllocateNode()
	pool.Node(id).RenderType = dag.RenderPoint

	mgr.Submit(addFreePointTx(id, 0, 0))
	mgr.Commit(context.Background())
	mgr.Undo()
	mgr.Commit(context.Background())

	id2 := pool.AllocateNode()
	pool.Node(id2).RenderType = dag.RenderPoint
	mgr.Submit(addFreePointTx(id2, 5, 5))

	if mgr.Redo() {
		t.Error("Redo() = true after a fresh Submit, want the redo stack cleared")
	}
}

func TestManagerViewportMutationTriggersGlobalReplot(t *testing.T) {
	mgr, pool := newTestManager()
	id := pool.AllocateNode()
	pool.Node(id).RenderType = dag.RenderPoint
	mgr.Submit(addFreePointTx(id, 0, 0))
	mgr.Commit(context.Background())

	newView := view.Default(100, 100)
	newView.Zoom = 2
	tx := NewTransaction("pan_zoom")
	tx.Add(Mutation{Kind: MutationViewport, OldValue: mgr.view, NewValue: newView})
	mgr.SetViewport(newView)
	mgr.Submit(tx)
	if err := mgr.Commit(context.Background()); err != nil {
		t.Fatalf("Commit returned error for a viewport-only transaction: %v", err)
	}
}

func TestManagerOnCommitHookReceivesVisitedNodes(t *testing.T) {
	mgr, pool := newTestManager()
	id := pool.AllocateNode()
	pool.Node(id).RenderType = dag.RenderPoint

	var visited []dag.NodeID
	mgr.OnCommit = func(v []dag.NodeID) { visited = v }

	mgr.Submit(addFreePointTx(id, 0, 0))
	if err := mgr.Commit(context.Background()); err != nil {
		t.Fatalf("Commit returned error: %v", err)
	}
	found := false
	for _, v := range visited {
		if v == id {
			found = true
		}
	}
	if !found {
		t.Errorf("OnCommit visited = %v, want it to include node %d", visited, id)
	}
}
