package plot

import (
	"math"

	"geoengine/internal/dag"
	"geoengine/internal/view"
)

// maxLinePoints caps the tessellated output of a single line/segment/
// ray, however long its visible chord (spec §4.F.4 "capped at 16384
// points").
const maxLinePoints = 16384

// lineMargin is the world-space viewport extension Liang-Barsky clips
// against, expressed as a fraction of the half-extent (spec §4.F.4
// "margin 1.05 viewport box").
const lineMargin = 1.05

// Line clips and tessellates a two-point line, honoring whether it is
// a bounded segment, a ray, or an infinite line via the caller-
// supplied parameter range (spec §4.F.4). t0/t1 are the Liang-Barsky
// initial range along P1->P2: [0,1] for a segment, [0,+Inf) for a ray,
// (-Inf,+Inf) for an infinite line.
func Line(d *dag.LineData, pool *dag.Pool, v view.State, t0, t1 float64) []Vertex {
	p1 := pool.Node(d.P1)
	p2 := pool.Node(d.P2)
	if p1 == nil || p2 == nil || !p1.Result.IsValid || !p2.Result.IsValid {
		return nil
	}
	x0, y0 := p1.Result.X, p1.Result.Y
	x1, y1 := p2.Result.X, p2.Result.Y

	xmin, ymin, xmax, ymax := v.WorldBounds()
	cx, cy := (xmin+xmax)/2, (ymin+ymax)/2
	hx, hy := (xmax-xmin)/2*lineMargin, (ymax-ymin)/2*lineMargin
	bxmin, bymin, bxmax, bymax := cx-hx, cy-hy, cx+hx, cy+hy

	ct0, ct1, ok := liangBarsky(x0, y0, x1, y1, bxmin, bymin, bxmax, bymax, t0, t1)
	if !ok {
		return nil
	}

	ax, ay := x0+(x1-x0)*ct0, y0+(y1-y0)*ct0
	bx, by := x0+(x1-x0)*ct1, y0+(y1-y0)*ct1

	cax, cay := v.WorldToClipF(ax, ay)
	cbx, cby := v.WorldToClipF(bx, by)
	return tessellateFixed(cax, cay, cbx, cby, v)
}

// tessellateFixed steps along the clipped chord in 16.16 fixed-point,
// choosing a step count so consecutive vertices are at most 0.5 clip-
// pixels apart per axis (spec §4.F.4).
func tessellateFixed(ax, ay, bx, by float64, v view.State) []Vertex {
	pxW, pxH := v.PixelSize()
	pixel := math.Min(pxW, pxH)
	if pixel <= 0 {
		pixel = 1
	}
	length := math.Hypot(bx-ax, by-ay)
	steps := 1
	if length > 0.5*pixel {
		steps = int(math.Ceil(length / (0.5 * pixel)))
	}
	if steps > maxLinePoints-1 {
		steps = maxLinePoints - 1
	}
	if steps < 1 {
		steps = 1
	}

	dxStep := toFixed(bx-ax) / int64(steps)
	dyStep := toFixed(by-ay) / int64(steps)
	fx, fy := toFixed(ax), toFixed(ay)

	out := make([]Vertex, 0, steps+1)
	out = append(out, clipVertex(fromFixed(fx), fromFixed(fy), 0))
	for i := 1; i <= steps; i++ {
		fx += dxStep
		fy += dyStep
		out = append(out, clipVertex(fromFixed(fx), fromFixed(fy), 0))
	}
	return out
}

func toFixed(v float64) int64   { return int64(math.Round(v * (1 << 16))) }
func fromFixed(v int64) float64 { return float64(v) / (1 << 16) }
