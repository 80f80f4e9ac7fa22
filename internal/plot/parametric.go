package plot

import (
	"math"

	"geoengine/internal/dag"
	"geoengine/internal/rpnvm"
	"geoengine/internal/view"
)

// skeletonDensity is samples per unit of t (spec §4.F.2 "(t_max -
// t_min)*20 skeleton points").
const skeletonDensity = 20

// Parametric samples (x(t), y(t)) with a fixed skeleton density and
// the same tessellation rule as Explicit (spec §4.F.2).
func Parametric(d *dag.DualRPNData, v view.State) []Vertex {
	span := d.TMax - d.TMin
	n := int(math.Ceil(math.Abs(span) * skeletonDensity))
	if n < 2 {
		n = 2
	}

	ts := make([]float64, n)
	for i := 0; i < n; i++ {
		ts[i] = d.TMin + span*float64(i)/float64(n-1)
	}

	sx := rpnvm.NewStack()
	sy := rpnvm.NewStack()
	xs := make([]float64, n)
	ys := make([]float64, n)
	for i, t := range ts {
		xs[i] = rpnvm.Eval(sx, d.XProgram, d.XBindings, rpnvm.Env{T: t}, nil)
		ys[i] = rpnvm.Eval(sy, d.YProgram, d.YBindings, rpnvm.Env{T: t}, nil)
	}

	pxW, pxH := v.PixelSize()
	pixel := math.Min(pxW, pxH)
	if pixel <= 0 {
		pixel = 1
	}
	mx := clipMargin * view.ClipMax

	var out []Vertex
	havePrev := false
	startOfChain := true
	var px, py float64
	for i := 0; i < n; i++ {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
			havePrev = false
			startOfChain = true
			continue
		}
		cx, cy := v.WorldToClipF(x, y)
		if !havePrev {
			px, py = cx, cy
			havePrev = true
			continue
		}
		t0, t1, ok := liangBarsky(px, py, cx, cy, -mx, -mx, mx, mx, 0, 1)
		if !ok {
			px, py = cx, cy
			continue
		}
		ax, ay := px+(cx-px)*t0, py+(cy-py)*t0
		bx, by := px+(cx-px)*t1, py+(cy-py)*t1
		emitTessellated(&out, ax, ay, bx, by, pixel, maxTessPerSegment, &startOfChain)
		px, py = cx, cy
	}
	return out
}

// bbox is an axis-aligned world-space bounding box used by the
// industrial-precision recursive subdivider.
type bbox struct{ xmin, ymin, xmax, ymax float64 }

func (b bbox) outside(v view.State) bool {
	vxmin, vymin, vxmax, vymax := v.WorldBounds()
	return b.xmax < vxmin || b.xmin > vxmax || b.ymax < vymin || b.ymin > vymax
}

// ParametricIndustrial replaces skeleton sampling with recursive
// bounding-box subdivision: a branch whose box lies fully outside the
// viewport is rejected outright, otherwise it subdivides until pixel
// width falls under 0.5 and emits the leaf box outline (spec §4.F.2
// "industrial-precision mode", §13 "Industrial-precision parametric
// mode").
func ParametricIndustrial(d *dag.DualRPNData, v view.State) []Vertex {
	var out []Vertex
	const maxDepth = 24
	var subdivide func(tmin, tmax float64, depth int)

	sx, sy := rpnvm.NewStack(), rpnvm.NewStack()
	boxOf := func(tmin, tmax float64) bbox {
		const probes = 5
		b := bbox{math.Inf(1), math.Inf(1), math.Inf(-1), math.Inf(-1)}
		for i := 0; i < probes; i++ {
			t := tmin + (tmax-tmin)*float64(i)/float64(probes-1)
			x := rpnvm.Eval(sx, d.XProgram, d.XBindings, rpnvm.Env{T: t}, nil)
			y := rpnvm.Eval(sy, d.YProgram, d.YBindings, rpnvm.Env{T: t}, nil)
			if math.IsNaN(x) || math.IsNaN(y) {
				continue
			}
			b.xmin, b.xmax = math.Min(b.xmin, x), math.Max(b.xmax, x)
			b.ymin, b.ymax = math.Min(b.ymin, y), math.Max(b.ymax, y)
		}
		return b
	}

	pxW, _ := v.PixelSize()

	subdivide = func(tmin, tmax float64, depth int) {
		b := boxOf(tmin, tmax)
		if b.outside(v) {
			return
		}
		cxmin, cymin := v.WorldToClipF(b.xmin, b.ymin)
		cxmax, cymax := v.WorldToClipF(b.xmax, b.ymax)
		pixelWidth := math.Abs(cxmax-cxmin) / pxW
		if pixelWidth < 0.5 || depth >= maxDepth {
			out = append(out,
				clipVertex(cxmin, cymin, 0), clipVertex(cxmax, cymin, 0),
				clipVertex(cxmax, cymax, 0), clipVertex(cxmin, cymax, 0),
				clipVertex(cxmin, cymin, 0),
			)
			return
		}
		mid := (tmin + tmax) / 2
		subdivide(tmin, mid, depth+1)
		subdivide(mid, tmax, depth+1)
	}

	subdivide(d.TMin, d.TMax, 0)
	return out
}
