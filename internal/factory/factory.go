// Package factory implements the high-level Engine API (spec §6):
// add_point, add_line, add_circle, add_circle_3p, move_point,
// update_style, delete, pan_zoom, undo, redo, render. Each constructor
// allocates its nodes, compiles any formulas, and submits one creation
// Transaction per node (AddCircle submits two: the internal radius
// scalar, then the circle) to the command manager, never
// touching the pool directly outside of allocation (spec §2 "user
// action -> factory builds a Transaction -> command manager queues
// it").
package factory

import (
	"context"
	"fmt"

	"geoengine/internal/bytecode"
	"geoengine/internal/command"
	"geoengine/internal/compiler"
	"geoengine/internal/dag"
	"geoengine/internal/view"
)

// Engine is the façade external tools drive (spec §6 "Engine API
// (surface consumed by external tools)").
type Engine struct {
	pool *dag.Pool
	mgr  *command.Manager
	view view.State
}

func New(pool *dag.Pool, mgr *command.Manager, v view.State) *Engine {
	return &Engine{pool: pool, mgr: mgr, view: v}
}

// Node exposes a node's current state for inspection tools driving the
// Engine API (e.g. a REPL's "show" command); the Engine API itself
// never returns a *dag.GeoNode from a constructor, only its NodeID.
func (e *Engine) Node(id dag.NodeID) *dag.GeoNode { return e.pool.Node(id) }

func canonicalName(id dag.NodeID) string { return fmt.Sprintf("n%d", id) }

// allocate reserves a node, binds its canonical lookup name, and
// returns both; the caller still owns submitting the transaction that
// actually activates it.
func (e *Engine) allocate() dag.NodeID {
	id := e.pool.AllocateNode()
	e.pool.BindName(canonicalName(id), id)
	return id
}

// compileConstant builds a one-token scalar program for a literal
// value, reusing the expression compiler so every scalar — free
// parameter or internal constant alike — goes through the same
// normalise/shunting-yard pipeline (spec §4.B).
func (e *Engine) compileConstant(v float64) (*bytecode.Program, []bytecode.BindingSlot, error) {
	res := compiler.Compile(fmt.Sprintf("%v", v), e.pool)
	if !res.Success {
		return nil, nil, fmt.Errorf("factory: failed to compile constant %v: %s", v, res.ErrorArg)
	}
	return res.Program, res.Bindings, nil
}

func creationTx(description string, id dag.NodeID, payload dag.Payload, parents []dag.NodeID, cfg dag.Config) *command.Transaction {
	tx := command.NewTransaction(description)
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationActive, OldValue: false, NewValue: true})
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationData, OldValue: dag.Payload{}, NewValue: payload})
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationStyle, OldValue: dag.Config{}, NewValue: cfg})
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationLinks, OldValue: []dag.NodeID(nil), NewValue: parents})
	return tx
}

// AddPoint creates a free point at (x, y) (spec §6 "add_point(x, y) ->
// id").
func (e *Engine) AddPoint(x, y float64) dag.NodeID {
	id := e.allocate()
	n := e.pool.Node(id)
	n.RenderType = dag.RenderPoint
	payload := dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{Free: true, X: x, Y: y}}
	tx := creationTx("add_point", id, payload, nil, dag.Config{Visible: true})
	e.mgr.Submit(tx)
	return id
}

// AddLine creates a two-point line or infinite line through p1/p2
// (spec §6 "add_line(p1, p2, infinite) -> id").
func (e *Engine) AddLine(p1, p2 dag.NodeID, infinite bool) dag.NodeID {
	id := e.allocate()
	n := e.pool.Node(id)
	n.RenderType = dag.RenderLine
	payload := dag.Payload{Kind: dag.PayloadLine, Line: &dag.LineData{P1: p1, P2: p2, IsInfinite: infinite}}
	tx := creationTx("add_line", id, payload, []dag.NodeID{p1, p2}, dag.Config{Visible: true})
	e.mgr.Submit(tx)
	return id
}

// AddCircle creates a circle from a centre point and a scalar radius,
// compiling radius as an internal constant scalar node so the circle
// solver's center+radius dispatch (two point/scalar parents) applies
// uniformly whether the radius came from a literal or a formula (spec
// §6 "add_circle(centre_id, radius) -> id").
func (e *Engine) AddCircle(centerID dag.NodeID, radius float64) (dag.NodeID, error) {
	radiusID := e.allocate()
	prog, bindings, err := e.compileConstant(radius)
	if err != nil {
		return 0, err
	}
	rn := e.pool.Node(radiusID)
	rn.RenderType = dag.RenderScalar
	radiusPayload := dag.Payload{Kind: dag.PayloadScalar, Scalar: &dag.ScalarData{Program: prog, Bindings: bindings}}
	radiusTx := creationTx("add_circle: internal radius scalar", radiusID, radiusPayload, nil, dag.Config{Visible: false})

	circleID := e.allocate()
	cn := e.pool.Node(circleID)
	cn.RenderType = dag.RenderCircle
	circlePayload := dag.Payload{Kind: dag.PayloadCircle, Circle: &dag.CircleData{CenterID: centerID, RadiusID: radiusID}}
	circleTx := creationTx("add_circle", circleID, circlePayload, []dag.NodeID{centerID, radiusID}, dag.Config{Visible: true})

	e.mgr.Submit(radiusTx)
	e.mgr.Submit(circleTx)
	return circleID, nil
}

// AddCircle3P creates the circumscribed circle through three points
// (spec §6 "add_circle_3p(p1, p2, p3) -> id").
func (e *Engine) AddCircle3P(p1, p2, p3 dag.NodeID) dag.NodeID {
	id := e.allocate()
	n := e.pool.Node(id)
	n.RenderType = dag.RenderCircle
	payload := dag.Payload{Kind: dag.PayloadCircle, Circle: &dag.CircleData{}}
	tx := creationTx("add_circle_3p", id, payload, []dag.NodeID{p1, p2, p3}, dag.Config{Visible: true})
	e.mgr.Submit(tx)
	return id
}

// MovePoint relocates a free point (spec §6 "move_point(id, x, y)").
func (e *Engine) MovePoint(id dag.NodeID, x, y float64) error {
	n := e.pool.Node(id)
	if n == nil || n.Data.Kind != dag.PayloadPoint {
		return fmt.Errorf("factory: node %d is not a point", id)
	}
	old := dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{Free: n.Data.Point.Free, X: n.Data.Point.X, Y: n.Data.Point.Y}}
	updated := dag.Payload{Kind: dag.PayloadPoint, Point: &dag.PointData{Free: true, X: x, Y: y}}
	tx := command.NewTransaction("move_point")
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationData, OldValue: old, NewValue: updated})
	e.mgr.Submit(tx)
	return nil
}

// UpdateStyle replaces a node's visual config (spec §6
// "update_style(id, style)").
func (e *Engine) UpdateStyle(id dag.NodeID, style dag.Config) error {
	n := e.pool.Node(id)
	if n == nil {
		return fmt.Errorf("factory: node %d does not exist", id)
	}
	tx := command.NewTransaction("update_style")
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationStyle, OldValue: n.Config, NewValue: style})
	e.mgr.Submit(tx)
	return nil
}

// Delete deactivates a node (spec §6 "delete(id)"; spec §3
// "Lifecycle" — the slot is preserved for undo, never freed).
//
// Deactivate unlinks the node from its parents/children as a side
// effect, so delete must also record the old parent list as a
// MutationLinks mutation alongside the MutationActive one: undoing in
// reverse order then reactivates the node and re-links it to its old
// parents, restoring the exact pre-delete pool state (spec §3 invariant 6
// "applying in reverse restores bit-exact prior state").
func (e *Engine) Delete(id dag.NodeID) error {
	n := e.pool.Node(id)
	if n == nil {
		return fmt.Errorf("factory: node %d does not exist", id)
	}
	oldParents := append([]dag.NodeID(nil), n.Parents...)
	tx := command.NewTransaction("delete")
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationLinks, OldValue: oldParents, NewValue: []dag.NodeID(nil)})
	tx.Add(command.Mutation{NodeID: id, Kind: command.MutationActive, OldValue: n.Active, NewValue: false})
	e.mgr.Submit(tx)
	return nil
}

// PanZoom applies a viewport mutation, forcing the next commit's
// global replot (spec §6 "pan_zoom(offset_x, offset_y, zoom)", §4.G
// "If any task carried a viewport mutation -> global replot").
func (e *Engine) PanZoom(offsetX, offsetY, zoom float64) {
	old := e.view
	e.view.OffsetX, e.view.OffsetY, e.view.Zoom = offsetX, offsetY, zoom
	e.view = e.view.Derive()
	e.mgr.SetViewport(e.view)

	tx := command.NewTransaction("pan_zoom")
	tx.Add(command.Mutation{Kind: command.MutationViewport, OldValue: old, NewValue: e.view})
	e.mgr.Submit(tx)
}

// Undo/Redo pop the respective stack and re-enter the queue; nothing
// takes effect until the next Render (spec §6 "undo()/redo()").
func (e *Engine) Undo() bool { return e.mgr.Undo() }
func (e *Engine) Redo() bool { return e.mgr.Redo() }

// Render drains the pending queue through one commit-solve-plot cycle
// (spec §6 "render() returns after one commit-solve-plot cycle").
func (e *Engine) Render(ctx context.Context) error {
	return e.mgr.Commit(ctx)
}
