package solver

import (
	"testing"

	"geoengine/internal/dag"
)

func newTestPool() *dag.Pool {
	p := dag.NewPool()
	RegisterAll(p)
	return p
}

func addFreePoint(t *testing.T, p *dag.Pool, x, y float64) dag.NodeID {
	t.Helper()
	id := p.AllocateNode()
	n := p.Node(id)
	n.Active = true
	n.RenderType = dag.RenderPoint
	n.Data = dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{Free: true, X: x, Y: y}}
	return id
}

func solveOne(t *testing.T, p *dag.Pool, id dag.NodeID) {
	t.Helper()
	p.BeginFrame()
	p.Touch(id)
	p.SolveFrame()
}

func TestFreePointCachesXY(t *testing.T) {
	p := newTestPool()
	id := addFreePoint(t, p, 3, 4)
	solveOne(t, p, id)
	n := p.Node(id)
	if !n.Result.IsValid || n.Result.X != 3 || n.Result.Y != 4 {
		t.Fatalf("Result = %+v, want valid (3,4)", n.Result)
	}
}

func TestMidpointAveragesParents(t *testing.T) {
	p := newTestPool()
	a := addFreePoint(t, p, 0, 0)
	b := addFreePoint(t, p, 4, 8)
	mid := p.AllocateNode()
	n := p.Node(mid)
	n.Active = true
	n.RenderType = dag.RenderPoint
	n.Data = dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{}}
	if err := p.Link(mid, []dag.NodeID{a, b}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(a)
	p.Touch(b)
	p.SolveFrame()

	got := p.Node(mid).Result
	if !got.IsValid || got.X != 2 || got.Y != 4 {
		t.Fatalf("midpoint Result = %+v, want valid (2,4)", got)
	}
}

func TestMidpointFailsOnInvalidParent(t *testing.T) {
	p := newTestPool()
	a := p.AllocateNode()
	p.Node(a).Active = true
	p.Node(a).RenderType = dag.RenderPoint
	p.Node(a).Data = dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{}}
	// a.Result.IsValid stays false: never solved.
	b := addFreePoint(t, p, 1, 1)

	mid := p.AllocateNode()
	n := p.Node(mid)
	n.Active = true
	n.RenderType = dag.RenderPoint
	n.Data = dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{}}
	if err := p.Link(mid, []dag.NodeID{a, b}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(mid)
	p.SolveFrame()

	if p.Node(mid).Result.IsValid {
		t.Fatal("Result.IsValid = true, want false when a parent never solved")
	}
}

func TestPerpendicularFootClampsToSegmentEnds(t *testing.T) {
	p := newTestPool()
	p1 := addFreePoint(t, p, 0, 0)
	p2 := addFreePoint(t, p, 10, 0)
	line := p.AllocateNode()
	ln := p.Node(line)
	ln.Active = true
	ln.RenderType = dag.RenderLine
	ln.Data = dag.Payload{Kind: dag.PayloadLine, Line: &dag.LineData{P1: p1, P2: p2}}
	if err := p.Link(line, []dag.NodeID{p1, p2}); err != nil {
		t.Fatal(err)
	}

	pt := addFreePoint(t, p, 20, 5) // projects past p2

	foot := p.AllocateNode()
	fn := p.Node(foot)
	fn.Active = true
	fn.RenderType = dag.RenderPoint
	fn.Data = dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{}}
	if err := p.Link(foot, []dag.NodeID{pt, line}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(p1)
	p.Touch(p2)
	p.Touch(pt)
	p.SolveFrame()

	got := p.Node(foot).Result
	if !got.IsValid || got.X != 10 || got.Y != 0 {
		t.Fatalf("foot Result = %+v, want valid (10,0) clamped to segment end", got)
	}
}
