package solver

import "geoengine/internal/dag"

// LineSolver validates a line/segment's endpoint parents and marks
// the cached result valid; the actual endpoint coordinates live on the
// parent point nodes and are read directly by the line plot kernel
// (spec §4.F.4), so this solver's job is purely to propagate
// invalidity from a degenerate or missing endpoint.
func LineSolver(n *dag.GeoNode, pool *dag.Pool) error {
	data := n.Data.Line
	p1, p2 := pool.Node(data.P1), pool.Node(data.P2)
	if p1 == nil || p2 == nil || !p1.Result.IsValid || !p2.Result.IsValid {
		return fail(n, "line endpoint invalid")
	}
	if p1.Result.X == p2.Result.X && p1.Result.Y == p2.Result.Y {
		return fail(n, "degenerate line: endpoints coincide")
	}
	n.Result.X, n.Result.Y = p1.Result.X, p1.Result.Y
	n.Result.IsValid = true
	return nil
}
