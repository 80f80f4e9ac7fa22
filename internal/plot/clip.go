package plot

// liangBarsky clips the segment (x0,y0)-(x1,y1) against the axis-
// aligned box [xmin,xmax]x[ymin,ymax], returning the clipped
// parameter range [t0,t1] within the caller-supplied initial range.
// Used by the line/segment/ray kernel (spec §4.F.4) with t in [0,1]
// for a segment, [0,+Inf) for a ray, or the whole line for an
// infinite line, and by the explicit/parametric kernels for their
// extended clip-space margin box.
func liangBarsky(x0, y0, x1, y1, xmin, ymin, xmax, ymax, t0, t1 float64) (float64, float64, bool) {
	dx, dy := x1-x0, y1-y0
	p := [4]float64{-dx, dx, -dy, dy}
	q := [4]float64{x0 - xmin, xmax - x0, y0 - ymin, ymax - y0}

	for i := 0; i < 4; i++ {
		if p[i] == 0 {
			if q[i] < 0 {
				return 0, 0, false
			}
			continue
		}
		r := q[i] / p[i]
		if p[i] < 0 {
			if r > t1 {
				return 0, 0, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return 0, 0, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	if t0 > t1 {
		return 0, 0, false
	}
	return t0, t1, true
}
