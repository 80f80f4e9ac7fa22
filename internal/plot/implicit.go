package plot

import (
	"context"
	"math"

	"geoengine/internal/bytecode"
	"geoengine/internal/interval"
	"geoengine/internal/rpnvm"
	"geoengine/internal/view"
	"geoengine/internal/worker"
)

// tile is a candidate square in world space produced by the quadtree
// pruner (spec §4.F.3 step 1).
type tile struct {
	xmin, ymin, xmax, ymax float64
}

// Implicit plots f(x, y) = 0 by pruning a quadtree with interval
// arithmetic down to leaves of roughly leafPx screen pixels, then
// rasterising each leaf with marching squares (spec §4.F.3). Leaves
// are scheduled across pool; each worker owns its own row caches and
// local point buffer (spec §4.F.3 step 3).
func Implicit(ctx context.Context, prog *bytecode.Program, v view.State, leafPx float64, pool *worker.Pool) []Vertex {
	xmin, ymin, xmax, ymax := v.WorldBounds()
	worldPerPxX := (xmax - xmin) / v.ScreenWidth
	worldPerPxY := (ymax - ymin) / v.ScreenHeight
	leafWorldW := leafPx * worldPerPxX
	leafWorldH := leafPx * worldPerPxY

	leaves := pruneQuadtree(prog, tile{xmin, ymin, xmax, ymax}, leafWorldW, leafWorldH)

	results := make([][]Vertex, len(leaves))
	_ = pool.RunIndexed(ctx, len(leaves), func(ctx context.Context, i int) error {
		results[i] = rasterizeLeaf(prog, leaves[i], v, worldPerPxX, worldPerPxY)
		return nil
	})

	var out []Vertex
	for _, r := range results {
		out = append(out, r...)
	}
	return out
}

// pruneQuadtree recursively discards tiles whose interval-evaluated
// range excludes zero, subdividing survivors into four children until
// a tile is smaller than the leaf size on either side (spec §4.F.3
// step 1).
func pruneQuadtree(prog *bytecode.Program, t tile, leafW, leafH float64) []tile {
	xi := interval.New(t.xmin, t.xmax)
	yi := interval.New(t.ymin, t.ymax)
	bound := rpnvm.EvalInterval(prog, rpnvm.IntervalEnv{X: xi, Y: yi})
	if !bound.ContainsZero() {
		return nil
	}
	if (t.xmax-t.xmin) <= leafW || (t.ymax-t.ymin) <= leafH {
		return []tile{t}
	}
	mx, my := (t.xmin+t.xmax)/2, (t.ymin+t.ymax)/2
	var leaves []tile
	children := []tile{
		{t.xmin, t.ymin, mx, my},
		{mx, t.ymin, t.xmax, my},
		{t.xmin, my, mx, t.ymax},
		{mx, my, t.xmax, t.ymax},
	}
	for _, c := range children {
		leaves = append(leaves, pruneQuadtree(prog, c, leafW, leafH)...)
	}
	return leaves
}

// rasterizeLeaf walks the enclosed pixels row by row, running marching
// squares over each 2x2 subcell, swapping two row-value caches between
// rows so f is evaluated once per pixel corner, not once per cell
// (spec §4.F.3 step 2).
func rasterizeLeaf(prog *bytecode.Program, t tile, v view.State, wppx, wppy float64) []Vertex {
	if wppx <= 0 || wppy <= 0 {
		return nil
	}
	cols := int(math.Ceil((t.xmax - t.xmin) / wppx))
	rows := int(math.Ceil((t.ymax - t.ymin) / wppy))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	s := rpnvm.NewStack()
	evalF := func(x, y float64) float64 {
		return rpnvm.Eval(s, prog, nil, rpnvm.Env{X: x, Y: y}, nil)
	}

	xAt := func(col int) float64 { return t.xmin + float64(col)*wppx }
	yAt := func(row int) float64 { return t.ymin + float64(row)*wppy }

	top := make([]float64, cols+1)
	bottom := make([]float64, cols+1)
	for col := 0; col <= cols; col++ {
		top[col] = evalF(xAt(col), yAt(0))
	}

	var out []Vertex
	for row := 0; row < rows; row++ {
		y0, y1 := yAt(row), yAt(row+1)
		for col := 0; col <= cols; col++ {
			bottom[col] = evalF(xAt(col), y1)
		}
		for col := 0; col < cols; col++ {
			x0, x1 := xAt(col), xAt(col+1)
			tl, tr := top[col], top[col+1]
			bl := bottom[col]
			if sameSign(tl, tr, bl) {
				continue
			}
			br := bottom[col+1]
			out = append(out, marchCell(v, x0, y0, x1, y1, tl, tr, bl, br)...)
		}
		top, bottom = bottom, top
	}
	return out
}

func sameSign(a, b, c float64) bool {
	sa, sb, sc := sign(a), sign(b), sign(c)
	return sa == sb && sb == sc
}

func sign(v float64) int {
	if math.IsNaN(v) {
		return 0
	}
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

// marchCell emits a clip-space point for every sign change along the
// four edges of a 2x2 cell, linearly interpolating the zero crossing
// (spec §4.F.3 step 2).
func marchCell(v view.State, x0, y0, x1, y1, tl, tr, bl, br float64) []Vertex {
	var out []Vertex
	interp := func(va, vb, a, b float64) (float64, bool) {
		if math.IsNaN(va) || math.IsNaN(vb) || sign(va) == sign(vb) {
			return 0, false
		}
		frac := va / (va - vb)
		return a + frac*(b-a), true
	}
	if xc, ok := interp(tl, tr, x0, x1); ok {
		cx, cy := v.WorldToClipF(xc, y0)
		out = append(out, clipVertex(cx, cy, 0))
	}
	if xc, ok := interp(bl, br, x0, x1); ok {
		cx, cy := v.WorldToClipF(xc, y1)
		out = append(out, clipVertex(cx, cy, 0))
	}
	if yc, ok := interp(tl, bl, y0, y1); ok {
		cx, cy := v.WorldToClipF(x0, yc)
		out = append(out, clipVertex(cx, cy, 0))
	}
	if yc, ok := interp(tr, br, y0, y1); ok {
		cx, cy := v.WorldToClipF(x1, yc)
		out = append(out, clipVertex(cx, cy, 0))
	}
	return out
}
