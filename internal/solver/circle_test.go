package solver

import (
	"math"
	"testing"

	"geoengine/internal/bytecode"
	"geoengine/internal/dag"
)

func addScalar(t *testing.T, p *dag.Pool, v float64) dag.NodeID {
	t.Helper()
	prog := bytecode.NewProgram()
	prog.EmitConst(v)
	prog.Terminate()
	id := p.AllocateNode()
	n := p.Node(id)
	n.Active = true
	n.RenderType = dag.RenderScalar
	n.Data = dag.Payload{Kind: dag.PayloadScalar, Scalar: &dag.ScalarData{Program: prog}}
	n.Result.X, n.Result.IsValid = v, true
	return id
}

func TestCircleFromCenterRadius(t *testing.T) {
	p := newTestPool()
	center := addFreePoint(t, p, 1, 2)
	radius := addScalar(t, p, 5)

	circle := p.AllocateNode()
	cn := p.Node(circle)
	cn.Active = true
	cn.RenderType = dag.RenderCircle
	cn.Data = dag.Payload{Kind: dag.PayloadCircle, Circle: &dag.CircleData{CenterID: center, RadiusID: radius}}
	if err := p.Link(circle, []dag.NodeID{center, radius}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(center)
	p.SolveFrame()

	got := p.Node(circle).Result
	if !got.IsValid || got.X != 1 || got.Y != 2 || got.R != 5 {
		t.Fatalf("Result = %+v, want valid (1,2,r=5)", got)
	}
}

func TestCircleFromCenterRadiusRejectsNonPositiveRadius(t *testing.T) {
	p := newTestPool()
	center := addFreePoint(t, p, 0, 0)
	radius := addScalar(t, p, 0)

	circle := p.AllocateNode()
	cn := p.Node(circle)
	cn.Active = true
	cn.RenderType = dag.RenderCircle
	cn.Data = dag.Payload{Kind: dag.PayloadCircle, Circle: &dag.CircleData{CenterID: center, RadiusID: radius}}
	if err := p.Link(circle, []dag.NodeID{center, radius}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(center)
	p.SolveFrame()

	if p.Node(circle).Result.IsValid {
		t.Fatal("Result.IsValid = true, want false for radius <= 0")
	}
}

func TestThreePointCircle(t *testing.T) {
	p := newTestPool()
	a := addFreePoint(t, p, 1, 0)
	b := addFreePoint(t, p, 0, 1)
	c := addFreePoint(t, p, -1, 0)

	circle := p.AllocateNode()
	cn := p.Node(circle)
	cn.Active = true
	cn.RenderType = dag.RenderCircle
	cn.Data = dag.Payload{Kind: dag.PayloadCircle, Circle: &dag.CircleData{}}
	if err := p.Link(circle, []dag.NodeID{a, b, c}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(a)
	p.Touch(b)
	p.Touch(c)
	p.SolveFrame()

	got := p.Node(circle).Result
	if !got.IsValid {
		t.Fatal("Result.IsValid = false, want true")
	}
	if math.Abs(got.X) > 1e-9 || math.Abs(got.Y) > 1e-9 || math.Abs(got.R-1) > 1e-9 {
		t.Fatalf("Result = %+v, want center (0,0) radius 1", got)
	}
}

func TestThreePointCircleFailsOnCollinearPoints(t *testing.T) {
	p := newTestPool()
	a := addFreePoint(t, p, 0, 0)
	b := addFreePoint(t, p, 1, 0)
	c := addFreePoint(t, p, 2, 0)

	circle := p.AllocateNode()
	cn := p.Node(circle)
	cn.Active = true
	cn.RenderType = dag.RenderCircle
	cn.Data = dag.Payload{Kind: dag.PayloadCircle, Circle: &dag.CircleData{}}
	if err := p.Link(circle, []dag.NodeID{a, b, c}); err != nil {
		t.Fatal(err)
	}

	p.BeginFrame()
	p.Touch(a)
	p.Touch(b)
	p.Touch(c)
	p.SolveFrame()

	if p.Node(circle).Result.IsValid {
		t.Fatal("Result.IsValid = true, want false for collinear points")
	}
}
