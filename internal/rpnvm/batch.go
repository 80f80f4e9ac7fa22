package rpnvm

import (
	"math"

	"geoengine/internal/bytecode"
)

// EnvBatch carries a lane of (x, y, t) inputs evaluated together,
// standing in for the SIMD register a native implementation would use
// (spec §4.C "SIMD batch"). The opcode loop below processes one
// element at a time but shares the exact element-wise rule the scalar
// evaluator uses; the plot kernels depend on the contract, not the
// instruction selection (see internal/interval/batch.go for the same
// note on the interval side).
type EnvBatch struct {
	X, Y, T []float64
}

func (e EnvBatch) Len() int {
	switch {
	case e.X != nil:
		return len(e.X)
	case e.Y != nil:
		return len(e.Y)
	default:
		return len(e.T)
	}
}

func (e EnvBatch) at(i int) Env {
	var env Env
	if e.X != nil {
		env.X = e.X[i]
	}
	if e.Y != nil {
		env.Y = e.Y[i]
	}
	if e.T != nil {
		env.T = e.T[i]
	}
	return env
}

// EvalBatch evaluates prog once per lane of env, writing results into
// out (which must be pre-sized to env.Len()). A single reusable Stack
// is used across all lanes, consistent with the per-thread
// preallocated-stack contract (spec §4.C).
func EvalBatch(s *Stack, prog *bytecode.Program, bindings []bytecode.BindingSlot, env EnvBatch, resolve CustomResolver, out []float64) {
	n := env.Len()
	for i := 0; i < n; i++ {
		v := Eval(s, prog, bindings, env.at(i), resolve)
		if math.IsNaN(v) || math.IsInf(v, 0) {
			out[i] = v
			continue
		}
		out[i] = v
	}
}
