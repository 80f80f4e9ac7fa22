package solver

import "geoengine/internal/dag"

// PointSolver is the single entry point registered for
// (RenderPoint, PayloadPoint); it dispatches to the concrete point
// solver by inspecting the node's parent shape, since every point
// variant shares one payload kind (spec §3 "Point: (x,y) (free) or
// derived from parents").
func PointSolver(n *dag.GeoNode, pool *dag.Pool) error {
	if n.Data.Point.Free || len(n.Parents) == 0 {
		return FreePoint(n, pool)
	}
	if len(n.Parents) == 2 {
		p0, p1 := pool.Node(n.Parents[0]), pool.Node(n.Parents[1])
		if p0 != nil && p1 != nil {
			switch {
			case p0.RenderType == dag.RenderScalar && p1.RenderType == dag.RenderScalar:
				return ScalarPoint(n, pool)
			case p0.RenderType == dag.RenderPoint && p1.RenderType == dag.RenderPoint:
				return Midpoint(n, pool)
			case p0.RenderType == dag.RenderPoint && p1.RenderType == dag.RenderLine:
				return PerpendicularFoot(n, pool)
			}
		}
	}
	return fail(n, "point has an unrecognised parent shape")
}

// FreePoint validates a directly-mutated point (spec §4.E "Free
// point"). Free points carry no scalar parents in this engine — their
// (x, y) lives in the PointData payload that the command manager's
// Data mutation replaces — so the solver copies that payload's (x, y)
// into Result and marks it valid when the node is touched (e.g. after
// an undo restores it).
func FreePoint(n *dag.GeoNode, pool *dag.Pool) error {
	data := n.Data.Point
	n.Result.X, n.Result.Y = data.X, data.Y
	n.Result.IsValid = true
	return nil
}

// Midpoint derives a point as the average of two point parents (spec
// §4.E "Midpoint / ratio point"). A non-zero Result.R is used as the
// blend ratio; otherwise the ratio is 0.5. No factory constructor
// writes Result.R.
func Midpoint(n *dag.GeoNode, pool *dag.Pool) error {
	if len(n.Parents) != 2 {
		return fail(n, "midpoint requires exactly two point parents")
	}
	a, b := pool.Node(n.Parents[0]), pool.Node(n.Parents[1])
	if a == nil || b == nil || !a.Result.IsValid || !b.Result.IsValid {
		return fail(n, "midpoint parent is invalid")
	}
	t := n.Result.R
	if t == 0 && n.Data.Point != nil && !n.Data.Point.Free {
		t = 0.5
	}
	n.Result.X = a.Result.X + (b.Result.X-a.Result.X)*t
	n.Result.Y = a.Result.Y + (b.Result.Y-a.Result.Y)*t
	n.Result.IsValid = true
	return nil
}

// RatioPoint is Midpoint generalised to an arbitrary blend ratio
// stored in Result.R ahead of the solve. It is not registered with the
// pool; PointSolver reaches Midpoint directly.
func RatioPoint(n *dag.GeoNode, pool *dag.Pool) error {
	return Midpoint(n, pool)
}

// PerpendicularFoot projects a point parent onto a line/segment parent
// (spec §4.E "Perpendicular foot").
func PerpendicularFoot(n *dag.GeoNode, pool *dag.Pool) error {
	if len(n.Parents) != 2 {
		return fail(n, "perpendicular foot requires a point and a line parent")
	}
	pt := pool.Node(n.Parents[0])
	line := pool.Node(n.Parents[1])
	if pt == nil || line == nil || !pt.Result.IsValid || line.Data.Kind != dag.PayloadLine {
		return fail(n, "perpendicular foot parents invalid")
	}
	p1 := pool.Node(line.Data.Line.P1)
	p2 := pool.Node(line.Data.Line.P2)
	if p1 == nil || p2 == nil || !p1.Result.IsValid || !p2.Result.IsValid {
		return fail(n, "perpendicular foot line endpoints invalid")
	}
	dx, dy := p2.Result.X-p1.Result.X, p2.Result.Y-p1.Result.Y
	lenSq := dx*dx + dy*dy
	if lenSq < 1e-12 {
		return fail(n, "degenerate line: endpoints coincide")
	}
	t := ((pt.Result.X-p1.Result.X)*dx + (pt.Result.Y-p1.Result.Y)*dy) / lenSq
	if !line.Data.Line.IsInfinite {
		if t < 0 {
			t = 0
		} else if t > 1 {
			t = 1
		}
	}
	n.Result.X = p1.Result.X + t*dx
	n.Result.Y = p1.Result.Y + t*dy
	n.Result.IsValid = true
	return nil
}

// ScalarPoint derives a point's (x, y) from two scalar parents (spec
// §4.E "Free point: evaluate two scalar parents").
func ScalarPoint(n *dag.GeoNode, pool *dag.Pool) error {
	if len(n.Parents) != 2 {
		return fail(n, "scalar-derived point requires two scalar parents")
	}
	xn, yn := pool.Node(n.Parents[0]), pool.Node(n.Parents[1])
	if xn == nil || yn == nil || !xn.Result.IsValid || !yn.Result.IsValid {
		return fail(n, "scalar-derived point parent is invalid")
	}
	n.Result.X, n.Result.Y = xn.Result.X, yn.Result.X
	n.Result.IsValid = true
	return nil
}
