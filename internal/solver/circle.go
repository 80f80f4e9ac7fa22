package solver

import (
	"math"

	"geoengine/internal/dag"
)

const collinearEps = 1e-9

// CircleSolver dispatches on parent shape the same way PointSolver
// does, since center+radius and three-point circles share PayloadCircle
// (spec §3 "Circle: (cx, cy, r)").
func CircleSolver(n *dag.GeoNode, pool *dag.Pool) error {
	switch len(n.Parents) {
	case 0:
		return CircleLiteral(n, pool)
	case 2:
		return CircleFromCenterRadius(n, pool)
	case 3:
		return ThreePointCircle(n, pool)
	default:
		return fail(n, "circle has an unrecognised parent shape")
	}
}

// CircleLiteral keeps a directly-specified circle's cached result in
// sync with its baked-in (cx, cy, r), mirroring FreePoint.
func CircleLiteral(n *dag.GeoNode, pool *dag.Pool) error {
	c := n.Data.Circle
	n.Result.X, n.Result.Y, n.Result.R = c.CX, c.CY, c.R
	n.Result.IsValid = true
	return nil
}

// CircleFromCenterRadius reads a center point parent and a scalar
// radius parent (spec §4.E "Circle from centre + radius").
func CircleFromCenterRadius(n *dag.GeoNode, pool *dag.Pool) error {
	center, radius := pool.Node(n.Parents[0]), pool.Node(n.Parents[1])
	if center == nil || radius == nil || !center.Result.IsValid || !radius.Result.IsValid {
		return fail(n, "circle center or radius parent invalid")
	}
	if radius.Result.X <= 0 {
		return fail(n, "circle radius must be positive")
	}
	n.Result.X, n.Result.Y, n.Result.R = center.Result.X, center.Result.Y, radius.Result.X
	n.Result.IsValid = true
	return nil
}

// ThreePointCircle fits the unique circumscribed circle through three
// point parents, failing if they are collinear (spec §4.E
// "Three-point circle").
func ThreePointCircle(n *dag.GeoNode, pool *dag.Pool) error {
	a, b, c := pool.Node(n.Parents[0]), pool.Node(n.Parents[1]), pool.Node(n.Parents[2])
	if a == nil || b == nil || c == nil || !a.Result.IsValid || !b.Result.IsValid || !c.Result.IsValid {
		return fail(n, "three-point circle parent invalid")
	}
	ax, ay := a.Result.X, a.Result.Y
	bx, by := b.Result.X, b.Result.Y
	cx, cy := c.Result.X, c.Result.Y

	d := 2 * (ax*(by-cy) + bx*(cy-ay) + cx*(ay-by))
	if math.Abs(d) < collinearEps {
		return fail(n, "three points are collinear")
	}
	ax2ay2 := ax*ax + ay*ay
	bx2by2 := bx*bx + by*by
	cx2cy2 := cx*cx + cy*cy

	ux := (ax2ay2*(by-cy) + bx2by2*(cy-ay) + cx2cy2*(ay-by)) / d
	uy := (ax2ay2*(cx-bx) + bx2by2*(ax-cx) + cx2cy2*(bx-ax)) / d

	n.Result.X, n.Result.Y = ux, uy
	n.Result.R = math.Hypot(ux-ax, uy-ay)
	n.Result.IsValid = true
	return nil
}
