package plot

import (
	"math"

	"geoengine/internal/config"
	"geoengine/internal/dag"
	"geoengine/internal/view"
)

// Dispatch runs the correct kernel for n's (RenderType, PayloadKind)
// and returns the vertices it produced, or nil for an inactive or
// hidden node, a missing payload, or a render type with no kernel here.
// The node's own Result.IsValid is not consulted, so a node whose
// solver failed is still plotted; only the line kernel checks its
// endpoints' validity, and the circle kernel falls back to the baked
// CX/CY/R when a parent is invalid.
// Mirrors the solver package's (render, payload) dispatch table (spec
// §9 "no dynamic dispatch on the hot path"), but plot kernels don't
// need a Pool-wide registry: the set of kernels is closed and small.
func Dispatch(n *dag.GeoNode, pool *dag.Pool, v view.State, cfg config.Config) []Vertex {
	if n == nil || !n.Active || !n.Config.Visible {
		return nil
	}
	switch n.RenderType {
	case dag.RenderLine:
		if n.Data.Line == nil {
			return nil
		}
		t0, t1 := 0.0, 1.0
		if n.Data.Line.IsInfinite {
			t0, t1 = math.Inf(-1), math.Inf(1)
		}
		return Line(n.Data.Line, pool, v, t0, t1)
	case dag.RenderCircle:
		if n.Data.Circle == nil {
			return nil
		}
		c := n.Data.Circle
		arcMin, arcMax := 0.0, 2*math.Pi
		if c.IsArc {
			arcMin, arcMax = c.ArcMin, c.ArcMax
		}
		return Circle(c, pool, v, arcMin, arcMax, c.IsArc)
	case dag.RenderExplicit:
		if n.Data.SingleRPN == nil {
			return nil
		}
		return Explicit(n.Data.SingleRPN, v)
	case dag.RenderParametric:
		if n.Data.DualRPN == nil {
			return nil
		}
		if cfg.IndustrialPrecision {
			return ParametricIndustrial(n.Data.DualRPN, v)
		}
		return Parametric(n.Data.DualRPN, v)
	default:
		// RenderImplicit is dispatched separately by the collector: it
		// needs a worker pool and a cancellable context that this
		// synchronous dispatch table doesn't carry.
		return nil
	}
}
