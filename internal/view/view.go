// Package view implements the view/clip mapping (spec §4.H):
// world<->screen<->clip conversions and the viewport snapshot threaded
// explicitly through commit->solve->plot (spec §9 "no implicit
// singletons").
package view

import "math"

// ClipMax is the fixed-point half-range of the clip-space encoding
// (spec glossary "Clip space").
const ClipMax = 32767

// State carries everything needed to map between world and clip space
// (spec §4.H). It is immutable value data: the command manager
// snapshots it per viewport mutation and passes copies down through
// solve/plot.
type State struct {
	ScreenWidth  float64
	ScreenHeight float64
	OffsetX      float64
	OffsetY      float64
	Zoom         float64
	WorldOriginX float64
	WorldOriginY float64

	// WppX/WppY ("world per pixel") cache the derived scale; recomputed
	// by Derive whenever Zoom or screen size changes.
	WppX float64
	WppY float64
}

// Default returns a centered viewport with 1 world unit == 1 pixel at
// zoom 1, a reasonable starting point for a freshly constructed
// engine (see internal/config).
func Default(width, height float64) State {
	s := State{ScreenWidth: width, ScreenHeight: height, Zoom: 1}
	return s.Derive()
}

// Derive recomputes WppX/WppY (and thus Sx/Sy below) from Zoom and
// screen dimensions. Call after any mutation to Zoom, ScreenWidth, or
// ScreenHeight.
func (s State) Derive() State {
	if s.Zoom <= 0 {
		s.Zoom = 1
	}
	s.WppX = 1.0 / s.Zoom
	s.WppY = 1.0 / s.Zoom
	return s
}

// centerX/centerY is the world point mapped to the screen center,
// i.e. WorldOrigin shifted by the pan offset.
func (s State) centerX() float64 { return s.WorldOriginX + s.OffsetX }
func (s State) centerY() float64 { return s.WorldOriginY + s.OffsetY }

// scaleX/scaleY give screen pixels per world unit (1/WppX, 1/WppY);
// WorldToClip does not use them, it scales by Sx/Sy.
func (s State) scaleX() float64 {
	if s.ScreenWidth == 0 || s.WppX == 0 {
		return 1
	}
	return (2.0 / (s.ScreenWidth * s.WppX)) * (s.ScreenWidth / 2)
}

func (s State) scaleY() float64 {
	if s.ScreenHeight == 0 || s.WppY == 0 {
		return 1
	}
	return (2.0 / (s.ScreenHeight * s.WppY)) * (s.ScreenHeight / 2)
}

// Sx/Sy expose the scale factors used by WorldToClip, in clip-space
// units per world unit — i.e. nx = (wx-cx)*Sx.
func (s State) Sx() float64 {
	if s.WppX == 0 {
		return 1
	}
	return ClipMax / (s.halfWorldWidth())
}

func (s State) Sy() float64 {
	if s.WppY == 0 {
		return 1
	}
	return ClipMax / (s.halfWorldHeight())
}

func (s State) halfWorldWidth() float64 {
	w := s.ScreenWidth * s.WppX / 2
	if w == 0 {
		return 1
	}
	return w
}

func (s State) halfWorldHeight() float64 {
	h := s.ScreenHeight * s.WppY / 2
	if h == 0 {
		return 1
	}
	return h
}

// WorldToClip is the sole function that rounds to the i16 output
// (spec §4.H): every kernel passes through it for consistent visual
// alignment. Returns the clamped clip coordinates plus whether the
// input was finite (a NaN/Inf sample must break the sampler's chain).
func (s State) WorldToClip(wx, wy float64) (nx, ny int16, finite bool) {
	if math.IsNaN(wx) || math.IsNaN(wy) || math.IsInf(wx, 0) || math.IsInf(wy, 0) {
		return 0, 0, false
	}
	fx := (wx - s.centerX()) * s.Sx()
	fy := -(wy - s.centerY()) * s.Sy()
	return clamp16(fx), clamp16(fy), true
}

// WorldToClipF is WorldToClip without the final i16 rounding, used by
// kernels that need sub-pixel precision mid-computation (tessellation
// length checks, Liang-Barsky clipping) before the final emit.
func (s State) WorldToClipF(wx, wy float64) (nx, ny float64) {
	return (wx - s.centerX()) * s.Sx(), -(wy - s.centerY()) * s.Sy()
}

func clamp16(v float64) int16 {
	if v > ClipMax {
		return ClipMax
	}
	if v < -ClipMax {
		return -ClipMax
	}
	return int16(math.Round(v))
}

// PixelSize returns the clip-space length of one screen pixel along
// each axis, used by tessellation rules across every kernel (spec
// §4.F "one sample per horizontal pixel", "pixel-size computed from
// the actual scale").
func (s State) PixelSize() (px, py float64) {
	if s.ScreenWidth == 0 {
		px = 1
	} else {
		px = 2 * ClipMax / s.ScreenWidth
	}
	if s.ScreenHeight == 0 {
		py = 1
	} else {
		py = 2 * ClipMax / s.ScreenHeight
	}
	return
}

// WorldBounds returns the world-space rectangle currently visible,
// used by the implicit quadtree's root tile and by the circle
// kernel's edge-crossing cut points.
func (s State) WorldBounds() (xmin, ymin, xmax, ymax float64) {
	hw := s.halfWorldWidth()
	hh := s.halfWorldHeight()
	cx, cy := s.centerX(), s.centerY()
	return cx - hw, cy - hh, cx + hw, cy + hh
}
