// Package dag implements the dependency graph at the heart of the
// engine (spec §3, §4.D): a pool of GeoNodes, rank-bucketed dirty
// tracking, and incremental re-solve in strict rank order.
package dag

import "geoengine/internal/bytecode"

// NodeID is a stable 32-bit index into the Pool. IDs are never reused
// within a session; deletion deactivates a node but keeps its slot
// (spec §3 "Lifecycle").
type NodeID uint32

// RenderType classifies what, if anything, a node contributes to the
// vertex buffer (spec §3 "Node").
type RenderType uint8

const (
	RenderNone RenderType = iota
	RenderScalar
	RenderPoint
	RenderLine
	RenderCircle
	RenderExplicit
	RenderParametric
	RenderImplicit
	RenderText
)

// PayloadKind tags which field of Payload is populated. Kept as an
// explicit enum rather than a Go interface so solver/plotter dispatch
// is a single switch, not virtual calls (spec §9 "no dynamic dispatch
// on the hot path").
type PayloadKind uint8

const (
	PayloadScalar PayloadKind = iota
	PayloadPoint
	PayloadLine
	PayloadCircle
	PayloadSingleRPN
	PayloadDualRPN
	PayloadIntersectionPoint
	PayloadAnalyticalIntersection
	PayloadTextLabel
)

// Payload is the tagged variant carried by every node (spec §3
// "Payload variants"). Exactly one of the pointer fields matching Kind
// is non-nil; the rest are zero value.
type Payload struct {
	Kind PayloadKind

	Scalar       *ScalarData
	Point        *PointData
	Line         *LineData
	Circle       *CircleData
	SingleRPN    *SingleRPNData
	DualRPN      *DualRPNData
	Intersection *IntersectionData
	Analytical   *AnalyticalData
	Text         *TextLabelData
}

// ScalarData carries a compiled formula for a free-standing numeric
// value (e.g. a length or an independent parameter).
type ScalarData struct {
	Program  *bytecode.Program
	Bindings []bytecode.BindingSlot
}

// PointData is a free point (no parents, directly mutated) or a point
// derived by a solver from scalar parents.
type PointData struct {
	Free bool
	X, Y float64
}

// LineData is a two-point line, optionally extended infinitely in
// both directions. There is no ray variant: no factory constructor
// creates rays, and ray clipping exists only as a parameter range of
// the line plot kernel.
type LineData struct {
	P1, P2     NodeID
	IsInfinite bool
}

// CircleData is a solved or directly-specified circle, optionally
// restricted to an arc window (spec §4.F.5).
type CircleData struct {
	CenterID NodeID // 0 (no parent) when center is baked into CX/CY directly
	RadiusID NodeID // 0 when radius is baked into R directly
	CX, CY, R float64

	IsArc            bool
	ArcMin, ArcMax   float64 // radians, only meaningful when IsArc
}

// SingleRPNData backs an explicit y=f(x) curve or an implicit
// f(x,y)=0 curve — the distinction is RenderType, not payload shape.
type SingleRPNData struct {
	Program  *bytecode.Program
	Bindings []bytecode.BindingSlot
}

// DualRPNData backs a parametric (x(t), y(t)) curve.
type DualRPNData struct {
	XProgram, YProgram   *bytecode.Program
	XBindings, YBindings []bytecode.BindingSlot
	TMin, TMax           float64
}

// IntersectionData is an iteratively-refined intersection point: the
// Newton solver walks from the stored guess using the two target
// curves' RPN forms (spec §4.E "Graphical intersection").
type IntersectionData struct {
	TargetIDs  []NodeID // the two (or more) curves being intersected
	GuessXID   NodeID   // scalar node carrying the current x guess
	GuessYID   NodeID   // scalar node carrying the current y guess
}

// AnalyticalData is a closed-form two-curve intersection (line/line,
// line/circle, circle/circle) selected by BranchSign when two
// solutions exist (spec §3 "AnalyticalIntersection").
type AnalyticalData struct {
	CurveAID, CurveBID NodeID
	GuessXID, GuessYID NodeID
	BranchSign         int8 // -1 or +1
}

// TextLabelData anchors a label to a host node, with an offset the
// user can drag (spec §13 "Label anchoring").
type TextLabelData struct {
	HostID     NodeID
	OffsetX    float64
	OffsetY    float64
	Text       string
}

// Config carries visual attributes irrelevant to computation but
// needed for undo/redo to restore bit-exact node state (spec §3
// invariant 6).
type Config struct {
	Name        string
	Color       uint32 // 0xRRGGBBAA
	Thickness   float64
	Visible     bool
	ShowLabel   bool
	LabelOffset [2]float64
}

// Result is the cached numeric output of a node's solver.
type Result struct {
	IsValid bool
	// Point/line/circle results share X, Y, R; scalars use only X.
	X, Y, R float64
}

// GeoNode is the atomic unit of the dependency graph (spec §3).
type GeoNode struct {
	ID       NodeID
	Active   bool
	Rank     uint32
	RenderType RenderType
	Data     Payload
	Parents  []NodeID
	Children []NodeID
	Result   Result
	Config   Config

	IsBufferDependent bool

	BufferOffset       int
	CurrentPointCount  int
	LastUpdateFrame    uint64
}

func newNode(id NodeID) *GeoNode {
	return &GeoNode{
		ID:     id,
		Active: false,
		Config: Config{Visible: true},
	}
}
