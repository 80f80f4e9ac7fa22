// Package config holds engine-wide tunables (spec §11 "Configuration"),
// following the teacher's functional-option, zero-value-means-default
// convention for its worker-pool/concurrency-module constructors.
package config

import "runtime"

// Config bundles the knobs that size the worker pool, bound undo
// history, and tune the implicit-plot quadtree.
type Config struct {
	WorkerCount    int
	UndoDepthCap   int
	QuadtreeLeafPx float64
	ViewportWidth  float64
	ViewportHeight float64

	// IndustrialPrecision switches the parametric kernel from fixed-
	// density skeleton sampling to recursive bounding-box subdivision
	// (spec §13 "Industrial-precision parametric mode").
	IndustrialPrecision bool
}

// Option mutates a Config under construction.
type Option func(*Config)

// WithWorkerCount overrides the worker pool size; zero or negative
// falls back to runtime.NumCPU(), mirroring the teacher's
// CreateWorkerPool zero-means-default rule.
func WithWorkerCount(n int) Option {
	return func(c *Config) { c.WorkerCount = n }
}

func WithUndoDepthCap(n int) Option {
	return func(c *Config) { c.UndoDepthCap = n }
}

func WithQuadtreeLeafPx(px float64) Option {
	return func(c *Config) { c.QuadtreeLeafPx = px }
}

func WithViewport(w, h float64) Option {
	return func(c *Config) { c.ViewportWidth, c.ViewportHeight = w, h }
}

func WithIndustrialPrecision(on bool) Option {
	return func(c *Config) { c.IndustrialPrecision = on }
}

// New builds a Config with sane defaults, applying opts on top.
func New(opts ...Option) Config {
	c := Config{
		WorkerCount:    0,
		UndoDepthCap:   200,
		QuadtreeLeafPx: 10,
		ViewportWidth:  800,
		ViewportHeight: 600,
	}
	for _, opt := range opts {
		opt(&c)
	}
	if c.WorkerCount <= 0 {
		c.WorkerCount = runtime.NumCPU()
	}
	if c.UndoDepthCap <= 0 {
		c.UndoDepthCap = 200
	}
	if c.QuadtreeLeafPx <= 0 {
		c.QuadtreeLeafPx = 10
	}
	return c
}
