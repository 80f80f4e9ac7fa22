package solver

import (
	"sync"

	"geoengine/internal/bytecode"
	"geoengine/internal/dag"
	"geoengine/internal/rpnvm"
)

// stackPool recycles rpnvm.Stacks across solver calls, keeping the hot
// evaluation path allocation-free (spec §4.C) without pinning one
// stack per call site.
type stackPool struct {
	pool sync.Pool
}

func newStackPool() *stackPool {
	return &stackPool{pool: sync.Pool{New: func() any { return rpnvm.NewStack() }}}
}

func (p *stackPool) get() *rpnvm.Stack { return p.pool.Get().(*rpnvm.Stack) }
func (p *stackPool) put(s *rpnvm.Stack) { p.pool.Put(s) }

func evalScalar(s *rpnvm.Stack, prog *bytecode.Program, bindings []bytecode.BindingSlot, pool *dag.Pool) float64 {
	return rpnvm.Eval(s, prog, bindings, rpnvm.Env{}, customResolver(pool))
}

func evalEnv(s *rpnvm.Stack, prog *bytecode.Program, bindings []bytecode.BindingSlot, pool *dag.Pool, x, y, t float64) float64 {
	return rpnvm.Eval(s, prog, bindings, rpnvm.Env{X: x, Y: y, T: t}, customResolver(pool))
}
