package solver

import "geoengine/internal/dag"

// evalSingleRPN evaluates a SingleRPN payload's program at a specific
// (x, y), used by the Newton refinement in GraphicalIntersectionSolver
// (intersection.go); the
// plot kernels (internal/plot) do their own batched evaluation for
// sampling and don't go through this helper.
func evalSingleRPN(d *dag.SingleRPNData, pool *dag.Pool, x, y float64) float64 {
	s := scalarStack.get()
	defer scalarStack.put(s)
	return evalEnv(s, d.Program, d.Bindings, pool, x, y, 0)
}

// SingleRPNSolver rewrites a curve's variable bindings (named
// references to other scalar nodes) ahead of each frame's sampling;
// the curve itself has no single cached numeric result (spec §3
// distinguishes the curve payloads from scalar/point payloads by
// RenderType), so success here only means "ready to be sampled".
func SingleRPNSolver(n *dag.GeoNode, pool *dag.Pool) error {
	d := n.Data.SingleRPN
	if !rewriteBindings(d.Program, d.Bindings, pool) {
		return fail(n, "curve formula references an invalid or missing node")
	}
	n.Result.IsValid = true
	return nil
}

// DualRPNSolver is SingleRPNSolver for parametric curves, rewriting
// both the x(t) and y(t) programs' bindings.
func DualRPNSolver(n *dag.GeoNode, pool *dag.Pool) error {
	d := n.Data.DualRPN
	okX := rewriteBindings(d.XProgram, d.XBindings, pool)
	okY := rewriteBindings(d.YProgram, d.YBindings, pool)
	if !okX || !okY {
		return fail(n, "parametric curve formula references an invalid or missing node")
	}
	n.Result.IsValid = true
	return nil
}

// TextLabelSolver recomputes a label's anchor from its host node plus
// the dragged offset (spec §13 "Label anchoring").
func TextLabelSolver(n *dag.GeoNode, pool *dag.Pool) error {
	d := n.Data.Text
	host := pool.Node(d.HostID)
	if host == nil || !host.Result.IsValid {
		return fail(n, "label host invalid")
	}
	n.Result.X = host.Result.X + d.OffsetX
	n.Result.Y = host.Result.Y + d.OffsetY
	n.Result.IsValid = true
	return nil
}
