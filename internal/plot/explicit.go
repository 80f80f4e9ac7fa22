package plot

import (
	"math"

	"geoengine/internal/dag"
	"geoengine/internal/rpnvm"
	"geoengine/internal/view"
)

const clipMargin = 1.1

// maxTessPerSegment caps sub-tessellation per consecutive sample pair
// (spec §4.F.1 "capped at 2048 per segment").
const maxTessPerSegment = 2048

// Explicit samples y = f(x) at one sample per horizontal pixel,
// clips each consecutive pair against an extended clip-space box, and
// tessellates long clipped segments (spec §4.F.1).
func Explicit(d *dag.SingleRPNData, v view.State) []Vertex {
	width := int(math.Ceil(v.ScreenWidth))
	if width < 1 {
		width = 1
	}
	xmin, _, xmax, _ := v.WorldBounds()

	xs := make([]float64, width)
	for i := 0; i < width; i++ {
		frac := float64(i) / float64(width-1)
		if width == 1 {
			frac = 0
		}
		xs[i] = xmin + frac*(xmax-xmin)
	}

	ys := make([]float64, width)
	s := rpnvm.NewStack()
	for i, x := range xs {
		ys[i] = rpnvm.Eval(s, d.Program, d.Bindings, rpnvm.Env{X: x}, nil)
	}

	pxW, pxH := v.PixelSize()
	pixel := math.Min(pxW, pxH)
	if pixel <= 0 {
		pixel = 1
	}

	mx := clipMargin * view.ClipMax
	var out []Vertex
	var havePrev bool
	var px, py float64
	// startOfChain tracks whether the next emitted segment begins a
	// fresh continuous run (the very first one, or the first one after
	// a NaN/Inf break), independent of whether earlier chains already
	// left vertices in out — so each chain after the first asymptote
	// still gets its own leading vertex.
	startOfChain := true

	flushBreak := func() { havePrev = false; startOfChain = true }

	for i := 0; i < width; i++ {
		x, y := xs[i], ys[i]
		if math.IsNaN(y) || math.IsInf(y, 0) {
			flushBreak()
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

// emitTessellated appends the endpoint(s) of a clipped segment,
// subdividing when its clip-space length exceeds one pixel (spec
// §4.F.1 step iii), rounding each sub-point to i16 clip space.
// startOfChain selects whether this segment's leading vertex must be
// emitted (the first segment of a continuous run) or is already the
// previous segment's trailing vertex (any later segment in the same
// run).
func emitTessellated(out *[]Vertex, ax, ay, bx, by, pixel float64, cap int, startOfChain *bool) {
	length := math.Hypot(bx-ax, by-ay)
	steps := 1
	if pixel > 0 && length > pixel {
		steps = int(math.Ceil(length / pixel))
		if steps > cap {
			steps = cap
		}
	}
	if *startOfChain {
		*out = append(*out, clipVertex(ax, ay, 0))
		*startOfChain = false
	}
	for i := 1; i <= steps; i++ {
		frac := float64(i) / float64(steps)
		*out = append(*out, clipVertex(ax+(bx-ax)*frac, ay+(by-ay)*frac, 0))
	}
}

func clipVertex(x, y float64, tag uint16) Vertex {
	return Vertex{X: clampI16(x), Y: clampI16(y), Tag: tag}
}

func clampI16(v float64) int16 {
	if v > view.ClipMax {
		return view.ClipMax
	}
	if v < -view.ClipMax {
		return -view.ClipMax
	}
	return int16(math.Round(v))
}
