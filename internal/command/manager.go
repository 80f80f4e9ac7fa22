package command

import (
	"context"

	"geoengine/internal/config"
	"geoengine/internal/dag"
	"geoengine/internal/plot"
	"geoengine/internal/view"
)

// task is a queued transaction plus the undo-direction flag it must be
// applied with (spec §4.G "enqueue task with an is_undo_op flag").
type task struct {
	tx       *Transaction
	isUndoOp bool
	isRedo   bool // applied forward; already back on the undo stack
}

// Manager owns the pending task queue and the undo/redo stacks (spec
// §4.G "Command manager"). It is the sole writer of the node pool;
// workers only read it during solve/plot (spec §7 "Node pool: mutated
// only by the control thread during commit").
type Manager struct {
	pending []task
	undo    []*Transaction
	redo    []*Transaction
	cap     int

	pool      *dag.Pool
	collector *plot.Collector
	view      view.State
	cfg       config.Config

	// OnCommit, when set, is called with the frame's visited
	// render-capable nodes after a successful commit — the hook the
	// introspection server uses to broadcast a snapshot without this
	// package importing it directly (spec §13 supplement: live
	// introspection surface).
	OnCommit func(visited []dag.NodeID)
}

func NewManager(pool *dag.Pool, collector *plot.Collector, v view.State, cfg config.Config) *Manager {
	return &Manager{pool: pool, collector: collector, view: v, cfg: cfg, cap: cfg.UndoDepthCap}
}

// Submit enqueues tx as a normal forward task and clears the redo
// stack, since redoing past a fresh submission would no longer replay
// a coherent history (spec §4.G "submit(tx) -> push as normal task;
// clear redo").
func (m *Manager) Submit(tx *Transaction) {
	m.pending = append(m.pending, task{tx: tx})
	m.redo = nil
}

// Undo pops the most recent transaction from the undo stack, pushes it
// to redo, and enqueues it to be applied in reverse (spec §4.G
// "undo()/redo() -> pop from one stack; push to the other; enqueue
// task with an is_undo_op flag").
func (m *Manager) Undo() bool {
	if len(m.undo) == 0 {
		return false
	}
	n := len(m.undo) - 1
	tx := m.undo[n]
	m.undo = m.undo[:n]
	m.redo = append(m.redo, tx)
	m.pending = append(m.pending, task{tx: tx, isUndoOp: true})
	return true
}

func (m *Manager) Redo() bool {
	if len(m.redo) == 0 {
		return false
	}
	n := len(m.redo) - 1
	tx := m.redo[n]
	m.redo = m.redo[:n]
	m.undo = append(m.undo, tx)
	m.pending = append(m.pending, task{tx: tx, isRedo: true})
	return true
}

// Commit is the frame entry point (spec §4.G "commit(view_mut,
// draw_order)"): drain the pending queue, apply every task's
// mutations, then dispatch a global or incremental replot depending on
// whether any task touched the viewport.
func (m *Manager) Commit(ctx context.Context) error {
	if len(m.pending) == 0 {
		return nil
	}
	m.pool.BeginFrame()

	dirty := make(map[dag.NodeID]bool)
	viewportTouched := false

	tasks := m.pending
	m.pending = nil

	for _, t := range tasks {
		muts := t.tx.Mutations
		if t.isUndoOp {
			muts = reversed(muts)
		}
		for _, mut := range muts {
			applyMutation(m.pool, mut, t.isUndoOp)
			if mut.Kind != MutationViewport {
				dirty[mut.NodeID] = true
			} else {
				viewportTouched = true
			}
		}
		if !t.isUndoOp && !t.isRedo {
			m.pushUndo(t.tx)
		}
	}

	for id := range dirty {
		m.pool.Touch(id)
	}

	visited := m.pool.SolveFrame()
	var err error
	if viewportTouched {
		err = m.collector.RunGlobal(ctx, m.pool, m.view, visited)
	} else {
		err = m.collector.RunIncremental(ctx, m.pool, m.view, visited)
	}
	if err == nil && m.OnCommit != nil {
		m.OnCommit(visited)
	}
	return err
}

// SetViewport updates the viewport state the next commit's plot pass
// will use; the command manager owns the single live view.State copy
// (spec §9 "no implicit singletons" — it's threaded explicitly, not
// read from a package-level global).
func (m *Manager) SetViewport(v view.State) { m.view = v }

func (m *Manager) pushUndo(tx *Transaction) {
	m.undo = append(m.undo, tx)
	if m.cap > 0 && len(m.undo) > m.cap {
		m.undo = m.undo[len(m.undo)-m.cap:]
	}
}

func reversed(muts []Mutation) []Mutation {
	out := make([]Mutation, len(muts))
	for i, m := range muts {
		out[len(muts)-1-i] = m
	}
	return out
}

// applyMutation applies one mutation's new_value (or old_value when
// undoing) onto the node, per its kind (spec §4.G "each mutation (a)
// updates the node field indicated by its kind").
func applyMutation(pool *dag.Pool, mut Mutation, isUndo bool) {
	n := pool.Node(mut.NodeID)
	if n == nil {
		return
	}
	value := mut.NewValue
	if isUndo {
		value = mut.OldValue
	}
	switch mut.Kind {
	case MutationActive:
		active, _ := value.(bool)
		if active {
			pool.Activate(mut.NodeID)
		} else {
			pool.Deactivate(mut.NodeID)
		}
	case MutationData:
		if payload, ok := value.(dag.Payload); ok {
			n.Data = payload
		}
	case MutationStyle:
		if cfg, ok := value.(dag.Config); ok {
			n.Config = cfg
		}
	case MutationLinks:
		if parents, ok := value.([]dag.NodeID); ok {
			_ = pool.Link(mut.NodeID, parents)
		}
	case MutationViewport:
		// Handled by the caller via SetViewport before Commit; the
		// mutation's presence alone triggers the global-replot branch.
	}
}
