package plot

import (
	"context"

	"geoengine/internal/config"
	"geoengine/internal/dag"
	"geoengine/internal/view"
	"geoengine/internal/worker"
)

// Collector runs every dirty render-capable node's kernel across the
// worker pool, pushes each curve's vertices through the result queue
// as one batch, then applies every batch to the buffer — the glue the
// command manager's commit step drives after solve_frame (spec §5
// "push them as one batch per logical curve", "the control thread
// blocks on plot completion by draining the result queue after each
// commit").
type Collector struct {
	Buffer *Buffer
	Queue  *ResultQueue
	Pool   *worker.Pool
	Config config.Config
}

func NewCollector(cfg config.Config) *Collector {
	return &Collector{
		Buffer: NewBuffer(),
		Queue:  NewResultQueue(256),
		Pool:   worker.New(cfg.WorkerCount),
		Config: cfg,
	}
}

// RunGlobal wipes the buffer and replots every active render-capable
// node in pool (spec §4.G "global replot").
func (c *Collector) RunGlobal(ctx context.Context, pool *dag.Pool, v view.State, ids []dag.NodeID) error {
	c.Buffer.Reset()
	return c.run(ctx, pool, v, ids, true)
}

// RunIncremental replots only the supplied dirty-closure node IDs,
// appending their new slices without disturbing the rest of the buffer
// (spec §4.G "incremental replot").
func (c *Collector) RunIncremental(ctx context.Context, pool *dag.Pool, v view.State, ids []dag.NodeID) error {
	return c.run(ctx, pool, v, ids, false)
}

func (c *Collector) run(ctx context.Context, pool *dag.Pool, v view.State, ids []dag.NodeID, global bool) error {
	results := make([][]Vertex, len(ids))
	err := c.Pool.RunIndexed(ctx, len(ids), func(ctx context.Context, i int) error {
		n := pool.Node(ids[i])
		if n == nil {
			return nil
		}
		if n.RenderType == dag.RenderImplicit && n.Data.SingleRPN != nil {
			results[i] = Implicit(ctx, n.Data.SingleRPN.Program, v, c.Config.QuadtreeLeafPx, c.Pool)
			return nil
		}
		results[i] = Dispatch(n, pool, v, c.Config)
		return nil
	})
	if err != nil {
		return err
	}

	for i, id := range ids {
		n := pool.Node(id)
		if n == nil {
			continue
		}
		verts := results[i]
		if global || !n.IsBufferDependent {
			offset, count := c.Buffer.Append(verts)
			n.BufferOffset, n.CurrentPointCount = offset, count
		} else {
			offset, count := c.Buffer.Replace(n.BufferOffset, n.CurrentPointCount, verts)
			n.BufferOffset, n.CurrentPointCount = offset, count
		}
		n.IsBufferDependent = true
		c.Queue.Push(CurveBatch{NodeID: id, Points: verts})
	}
	return nil
}
