package plot

import (
	"math"
	"sort"

	"geoengine/internal/dag"
	"geoengine/internal/view"
)

// Circle rasterizes a circle or arc via a fixed-point rotation DDA,
// with level of detail chosen from the on-screen pixel radius
// (spec §4.F.5). arcMin/arcMax select an arc window in [0, 2π); pass
// (0, 2π) for a full circle.
func Circle(d *dag.CircleData, pool *dag.Pool, v view.State, arcMin, arcMax float64, isArc bool) []Vertex {
	cx, cy, r := resolveCircle(d, pool)
	if r <= 0 {
		return nil
	}

	pxW, pxH := v.PixelSize()
	rPixX, rPixY := r*v.Sx()/pxW, r*v.Sy()/pxH
	rPix := math.Min(rPixX, rPixY)
	if rPix < 0.5 {
		return nil
	}

	cuts := circleCutPoints(cx, cy, r, v, arcMin, arcMax, isArc)
	if len(cuts) < 2 {
		return nil
	}

	dt := math.Pow(rPix, -0.95)

	var out []Vertex
	for i := 0; i+1 < len(cuts); i++ {
		a0, a1 := cuts[i], cuts[i+1]
		mid := (a0 + a1) / 2
		mx, my := cx+r*math.Cos(mid), cy+r*math.Sin(mid)
		if !pointVisible(mx, my, v) {
			continue
		}
		if isArc && !angleInArc(mid, arcMin, arcMax) {
			continue
		}
		out = append(out, rasterizeArcSpan(cx, cy, r, a0, a1, dt, v)...)
	}
	return out
}

func resolveCircle(d *dag.CircleData, pool *dag.Pool) (cx, cy, r float64) {
	cx, cy, r = d.CX, d.CY, d.R
	if d.CenterID != 0 {
		if n := pool.Node(d.CenterID); n != nil && n.Result.IsValid {
			cx, cy = n.Result.X, n.Result.Y
		}
	}
	if d.RadiusID != 0 {
		if n := pool.Node(d.RadiusID); n != nil && n.Result.IsValid {
			r = n.Result.X
		}
	}
	return
}

func pointVisible(x, y float64, v view.State) bool {
	xmin, ymin, xmax, ymax := v.WorldBounds()
	return x >= xmin && x <= xmax && y >= ymin && y <= ymax
}

// circleCutPoints builds the sorted, deduplicated angle partition: the
// full-turn bounds, the arc window bounds when not a full circle, and
// the angles where the circle crosses each of the four viewport edges,
// computed analytically (spec §4.F.5).
func circleCutPoints(cx, cy, r float64, v view.State, arcMin, arcMax float64, isArc bool) []float64 {
	const tau = 2 * math.Pi
	cuts := []float64{0, tau}
	if isArc {
		cuts = append(cuts, norm2Pi(arcMin), norm2Pi(arcMax))
	}

	xmin, ymin, xmax, ymax := v.WorldBounds()
	addEdgeCrossings := func(edgeVal, center, other float64, vertical bool) {
		d := edgeVal - center
		if math.Abs(d) > r {
			return
		}
		base := math.Acos(clampUnit(d / r))
		for _, a := range []float64{base, -base} {
			var x, y float64
			if vertical {
				x, y = edgeVal, cy+r*math.Sin(a)
				_ = other
			} else {
				x, y = cx+r*math.Cos(a), edgeVal
			}
			if vertical {
				if y >= ymin && y <= ymax {
					cuts = append(cuts, norm2Pi(a))
				}
			} else {
				if x >= xmin && x <= xmax {
					cuts = append(cuts, norm2Pi(a))
				}
			}
		}
	}
	addEdgeCrossings(xmin, cx, cy, true)
	addEdgeCrossings(xmax, cx, cy, true)
	addEdgeCrossings(ymin, cy, cx, false)
	addEdgeCrossings(ymax, cy, cx, false)

	sort.Float64s(cuts)
	out := cuts[:0:0]
	const eps = 1e-9
	for i, a := range cuts {
		if i == 0 || a-out[len(out)-1] > eps {
			out = append(out, a)
		}
	}
	return out
}

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

func norm2Pi(a float64) float64 {
	const tau = 2 * math.Pi
	for a < 0 {
		a += tau
	}
	for a >= tau {
		a -= tau
	}
	return a
}

func angleInArc(a, arcMin, arcMax float64) bool {
	a, arcMin, arcMax = norm2Pi(a), norm2Pi(arcMin), norm2Pi(arcMax)
	if arcMin <= arcMax {
		return a >= arcMin && a <= arcMax
	}
	return a >= arcMin || a <= arcMax
}

// rasterizeArcSpan walks from a0 to a1 using a per-step 16.16 fixed-
// point rotation matrix applied to the radius vector, then re-pins the
// final point from closed form to cancel accumulated rotation drift
// (spec §4.F.5).
func rasterizeArcSpan(cx, cy, r, a0, a1, dt float64, v view.State) []Vertex {
	span := a1 - a0
	if span < 0 {
		span += 2 * math.Pi
	}
	steps := int(math.Ceil(span / dt))
	if steps < 1 {
		steps = 1
	}

	const shift = 16
	const one = 1 << shift
	cosStep := int64(math.Round(math.Cos(span/float64(steps)) * one))
	sinStep := int64(math.Round(math.Sin(span/float64(steps)) * one))

	vx := int64(math.Round(r * math.Cos(a0) * one))
	vy := int64(math.Round(r * math.Sin(a0) * one))

	out := make([]Vertex, 0, steps+1)
	emit := func(px, py float64) {
		cx2, cy2 := v.WorldToClipF(px, py)
		out = append(out, clipVertex(cx2, cy2, 0))
	}
	emit(cx+float64(vx)/one, cy+float64(vy)/one)

	for i := 1; i < steps; i++ {
		nvx := (vx*cosStep - vy*sinStep) >> shift
		nvy := (vx*sinStep + vy*cosStep) >> shift
		vx, vy = nvx, nvy
		emit(cx+float64(vx)/one, cy+float64(vy)/one)
	}

	finalX := cx + r*math.Cos(a1)
	finalY := cy + r*math.Sin(a1)
	emit(finalX, finalY)
	return out
}
