package solver

import (
	"math"

	"geoengine/internal/dag"
)

// AnalyticalIntersectionSolver resolves a closed-form two-curve
// intersection (line/line, line/circle, circle/circle), selecting
// between the two solutions with BranchSign when the discriminant is
// positive (spec §3 "AnalyticalIntersection", §13 "Analytical vs.
// iterative intersections").
func AnalyticalIntersectionSolver(n *dag.GeoNode, pool *dag.Pool) error {
	data := n.Data.Analytical
	a, b := pool.Node(data.CurveAID), pool.Node(data.CurveBID)
	if a == nil || b == nil || !a.Result.IsValid || !b.Result.IsValid {
		return fail(n, "analytical intersection curve invalid")
	}

	switch {
	case a.Data.Kind == dag.PayloadLine && b.Data.Kind == dag.PayloadLine:
		return lineLineIntersection(n, pool, a, b)
	case a.Data.Kind == dag.PayloadLine && b.Data.Kind == dag.PayloadCircle:
		return lineCircleIntersection(n, pool, a, b, data.BranchSign)
	case a.Data.Kind == dag.PayloadCircle && b.Data.Kind == dag.PayloadLine:
		return lineCircleIntersection(n, pool, b, a, data.BranchSign)
	case a.Data.Kind == dag.PayloadCircle && b.Data.Kind == dag.PayloadCircle:
		return circleCircleIntersection(n, pool, a, b, data.BranchSign)
	default:
		return fail(n, "analytical intersection needs two line/circle curves")
	}
}

func lineLineIntersection(n *dag.GeoNode, pool *dag.Pool, l1, l2 *dag.GeoNode) error {
	p1, p2 := pool.Node(l1.Data.Line.P1), pool.Node(l1.Data.Line.P2)
	p3, p4 := pool.Node(l2.Data.Line.P1), pool.Node(l2.Data.Line.P2)
	x1, y1, x2, y2 := p1.Result.X, p1.Result.Y, p2.Result.X, p2.Result.Y
	x3, y3, x4, y4 := p3.Result.X, p3.Result.Y, p4.Result.X, p4.Result.Y

	denom := (x1-x2)*(y3-y4) - (y1-y2)*(x3-x4)
	if math.Abs(denom) < collinearEps {
		return fail(n, "lines are parallel or coincident")
	}
	px := ((x1*y2-y1*x2)*(x3-x4) - (x1-x2)*(x3*y4-y3*x4)) / denom
	py := ((x1*y2-y1*x2)*(y3-y4) - (y1-y2)*(x3*y4-y3*x4)) / denom
	n.Result.X, n.Result.Y = px, py
	n.Result.IsValid = true
	return nil
}

func lineCircleIntersection(n *dag.GeoNode, pool *dag.Pool, line, circle *dag.GeoNode, branch int8) error {
	p1, p2 := pool.Node(line.Data.Line.P1), pool.Node(line.Data.Line.P2)
	dx, dy := p2.Result.X-p1.Result.X, p2.Result.Y-p1.Result.Y
	fx, fy := p1.Result.X-circle.Result.X, p1.Result.Y-circle.Result.Y

	a := dx*dx + dy*dy
	bb := 2 * (fx*dx + fy*dy)
	c := fx*fx + fy*fy - circle.Result.R*circle.Result.R
	disc := bb*bb - 4*a*c
	if disc < 0 {
		return fail(n, "line does not intersect circle")
	}
	sq := math.Sqrt(disc)
	var t float64
	if branch < 0 {
		t = (-bb - sq) / (2 * a)
	} else {
		t = (-bb + sq) / (2 * a)
	}
	n.Result.X = p1.Result.X + t*dx
	n.Result.Y = p1.Result.Y + t*dy
	n.Result.IsValid = true
	return nil
}

func circleCircleIntersection(n *dag.GeoNode, pool *dag.Pool, c1, c2 *dag.GeoNode, branch int8) error {
	x1, y1, r1 := c1.Result.X, c1.Result.Y, c1.Result.R
	x2, y2, r2 := c2.Result.X, c2.Result.Y, c2.Result.R

	dx, dy := x2-x1, y2-y1
	d := math.Hypot(dx, dy)
	if d < collinearEps || d > r1+r2 || d < math.Abs(r1-r2) {
		return fail(n, "circles do not intersect")
	}
	a := (r1*r1 - r2*r2 + d*d) / (2 * d)
	hSq := r1*r1 - a*a
	if hSq < 0 {
		return fail(n, "circles do not intersect")
	}
	h := math.Sqrt(hSq)
	mx, my := x1+a*dx/d, y1+a*dy/d
	if branch < 0 {
		n.Result.X = mx + h*dy/d
		n.Result.Y = my - h*dx/d
	} else {
		n.Result.X = mx - h*dy/d
		n.Result.Y = my + h*dx/d
	}
	n.Result.IsValid = true
	return nil
}

const (
	newtonMaxIter = 50
	newtonEps     = 1e-10
	newtonStep    = 1e-6
)

// GraphicalIntersectionSolver refines the stored (x, y) guess with
// Newton's method against the two target curves' implicit forms
// f1(x,y)=0, f2(x,y)=0 (spec §4.E "Graphical intersection"). Each
// target curve is required to carry a SingleRPN payload, whose program
// is used as is as f(x,y); an explicit curve's y=f(x) program is not
// rewritten as y-f(x), and the factory has no intersection constructor.
func GraphicalIntersectionSolver(n *dag.GeoNode, pool *dag.Pool) error {
	data := n.Data.Intersection
	if len(data.TargetIDs) != 2 {
		return fail(n, "graphical intersection needs exactly two target curves")
	}
	c1, c2 := pool.Node(data.TargetIDs[0]), pool.Node(data.TargetIDs[1])
	gx, gy := pool.Node(data.GuessXID), pool.Node(data.GuessYID)
	if c1 == nil || c2 == nil || gx == nil || gy == nil {
		return fail(n, "graphical intersection parent missing")
	}
	if c1.Data.Kind != dag.PayloadSingleRPN || c2.Data.Kind != dag.PayloadSingleRPN {
		return fail(n, "graphical intersection targets must be implicit/explicit curves")
	}

	x, y := gx.Result.X, gy.Result.X

	f := func(curve *dag.GeoNode, x, y float64) float64 {
		d := curve.Data.SingleRPN
		rewriteBindings(d.Program, d.Bindings, pool)
		return evalSingleRPN(d, pool, x, y)
	}

	for iter := 0; iter < newtonMaxIter; iter++ {
		f1 := f(c1, x, y)
		f2 := f(c2, x, y)
		if math.Abs(f1) < newtonEps && math.Abs(f2) < newtonEps {
			break
		}
		df1dx := (f(c1, x+newtonStep, y) - f1) / newtonStep
		df1dy := (f(c1, x, y+newtonStep) - f1) / newtonStep
		df2dx := (f(c2, x+newtonStep, y) - f2) / newtonStep
		df2dy := (f(c2, x, y+newtonStep) - f2) / newtonStep

		det := df1dx*df2dy - df1dy*df2dx
		if math.Abs(det) < 1e-14 {
			return fail(n, "graphical intersection Jacobian singular")
		}
		dx := (f2*df1dy - f1*df2dy) / det
		dy := (f1*df2dx - f2*df1dx) / det
		x += dx
		y += dy
		if iter == newtonMaxIter-1 {
			return fail(n, "graphical intersection did not converge")
		}
	}
	n.Result.X, n.Result.Y = x, y
	n.Result.IsValid = true
	return nil
}

