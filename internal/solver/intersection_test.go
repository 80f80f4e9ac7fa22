package solver

import (
	"math"
	"testing"

	"geoengine/internal/bytecode"
	"geoengine/internal/dag"
)

func addLine(t *testing.T, p *dag.Pool, p1, p2 dag.NodeID) dag.NodeID {
	t.Helper()
	id := p.AllocateNode()
	n := p.Node(id)
	n.Active = true
	n.RenderType = dag.RenderLine
	n.Data = dag.Payload{Kind: dag.PayloadLine, Line: &dag.LineData{P1: p1, P2: p2}}
	if err := p.Link(id, []dag.NodeID{p1, p2}); err != nil {
		t.Fatal(err)
	}
	return id
}

func addCircleLiteral(t *testing.T, p *dag.Pool, cx, cy, r float64) dag.NodeID {
	t.Helper()
	id := p.AllocateNode()
	n := p.Node(id)
	n.Active = true
	n.RenderType = dag.RenderCircle
	n.Data = dag.Payload{Kind: dag.PayloadCircle, Circle: &dag.CircleData{CX: cx, CY: cy, R: r}}
	return id
}

func TestLineLineIntersection(t *testing.T) {
	p := newTestPool()
	a1, a2 := addFreePoint(t, p, 0, 0), addFreePoint(t, p, 10, 10)
	b1, b2 := addFreePoint(t, p, 0, 10), addFreePoint(t, p, 10, 0)
	la := addLine(t, p, a1, a2)
	lb := addLine(t, p, b1, b2)

	x := p.AllocateNode()
	xn := p.Node(x)
	xn.Active = true
	xn.RenderType = dag.RenderPoint
	xn.Data = dag.Payload{Kind: dag.PayloadAnalyticalIntersection, Analytical: &dag.AnalyticalData{CurveAID: la, CurveBID: lb}}
	if err := p.Link(x, []dag.NodeID{la, lb}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(a1)
	p.Touch(a2)
	p.Touch(b1)
	p.Touch(b2)
	p.SolveFrame()

	got := p.Node(x).Result
	if !got.IsValid || math.Abs(got.X-5) > 1e-9 || math.Abs(got.Y-5) > 1e-9 {
		t.Fatalf("Result = %+v, want valid (5,5)", got)
	}
}

func TestLineLineIntersectionFailsOnParallelLines(t *testing.T) {
	p := newTestPool()
	a1, a2 := addFreePoint(t, p, 0, 0), addFreePoint(t, p, 10, 0)
	b1, b2 := addFreePoint(t, p, 0, 5), addFreePoint(t, p, 10, 5)
	la := addLine(t, p, a1, a2)
	lb := addLine(t, p, b1, b2)

	x := p.AllocateNode()
	xn := p.Node(x)
	xn.Active = true
	xn.RenderType = dag.RenderPoint
	xn.Data = dag.Payload{Kind: dag.PayloadAnalyticalIntersection, Analytical: &dag.AnalyticalData{CurveAID: la, CurveBID: lb}}
	if err := p.Link(x, []dag.NodeID{la, lb}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(a1)
	p.Touch(a2)
	p.Touch(b1)
	p.Touch(b2)
	p.SolveFrame()

	if p.Node(x).Result.IsValid {
		t.Fatal("Result.IsValid = true, want false for parallel lines")
	}
}

func TestCircleCircleIntersectionBranchSign(t *testing.T) {
	p := newTestPool()
	c1 := addCircleLiteral(t, p, -1, 0, 2)
	c2 := addCircleLiteral(t, p, 1, 0, 2)

	solveCircleLiteral := func(id dag.NodeID) {
		p.BeginFrame()
		p.Touch(id)
		p.SolveFrame()
	}
	solveCircleLiteral(c1)
	solveCircleLiteral(c2)

	mkXsect := func(branch int8) dag.NodeID {
		x := p.AllocateNode()
		xn := p.Node(x)
		xn.Active = true
		xn.RenderType = dag.RenderPoint
		xn.Data = dag.Payload{Kind: dag.PayloadAnalyticalIntersection, Analytical: &dag.AnalyticalData{CurveAID: c1, CurveBID: c2, BranchSign: branch}}
		if err := p.Link(x, []dag.NodeID{c1, c2}); err != nil {
			t.Fatal(err)
		}
		return x
	}
	xPos := mkXsect(1)
	xNeg := mkXsect(-1)

	p.BeginFrame()
	p.Touch(xPos)
	p.Touch(xNeg)
	p.SolveFrame()

	gp := p.Node(xPos).Result
	gn := p.Node(xNeg).Result
	if !gp.IsValid || !gn.IsValid {
		t.Fatalf("both branches should be valid: %+v, %+v", gp, gn)
	}
	if math.Abs(gp.Y-gn.Y) < 1e-6 {
		t.Errorf("branch sign produced the same y for both solutions: %v vs %v", gp.Y, gn.Y)
	}
}

// addImplicitCurve builds a SingleRPN curve node directly from an RPN
// program over PushX/PushY, bypassing the text compiler (which has no
// special case for bare "x"/"y" identifiers — those are reserved for
// callers that assemble bytecode directly, such as the implicit/
// graphical-intersection solvers).
func addImplicitCurve(t *testing.T, p *dag.Pool, build func(prog *bytecode.Program)) dag.NodeID {
	t.Helper()
	prog := bytecode.NewProgram()
	build(prog)
	prog.Terminate()
	id := p.AllocateNode()
	n := p.Node(id)
	n.Active = true
	n.RenderType = dag.RenderImplicit
	n.Data = dag.Payload{Kind: dag.PayloadSingleRPN, SingleRPN: &dag.SingleRPNData{Program: prog}}
	return id
}

func TestGraphicalIntersectionConvergesOnCrossingLines(t *testing.T) {
	p := newTestPool()
	// f1: y - x = 0  (line y=x)
	f1 := addImplicitCurve(t, p, func(prog *bytecode.Program) {
		prog.EmitOp(bytecode.PushY)
		prog.EmitOp(bytecode.PushX)
		prog.EmitOp(bytecode.Sub)
	})
	// f2: y + x - 2 = 0  (line y = 2-x); intersects f1 at (1,1)
	f2 := addImplicitCurve(t, p, func(prog *bytecode.Program) {
		prog.EmitOp(bytecode.PushY)
		prog.EmitOp(bytecode.PushX)
		prog.EmitOp(bytecode.Add)
		prog.EmitConst(2)
		prog.EmitOp(bytecode.Sub)
	})

	gx := addScalar(t, p, 0.2)
	gy := addScalar(t, p, 0.9)

	x := p.AllocateNode()
	xn := p.Node(x)
	xn.Active = true
	xn.RenderType = dag.RenderPoint
	xn.Data = dag.Payload{Kind: dag.PayloadIntersectionPoint, Intersection: &dag.IntersectionData{
		TargetIDs: []dag.NodeID{f1, f2}, GuessXID: gx, GuessYID: gy,
	}}
	if err := p.Link(x, []dag.NodeID{f1, f2, gx, gy}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(f1)
	p.Touch(f2)
	p.Touch(gx)
	p.Touch(gy)
	p.SolveFrame()

	got := p.Node(x).Result
	if !got.IsValid {
		t.Fatalf("Result.IsValid = false, want converged intersection")
	}
	if math.Abs(got.X-1) > 1e-6 || math.Abs(got.Y-1) > 1e-6 {
		t.Fatalf("Result = (%v,%v), want (1,1)", got.X, got.Y)
	}
}
