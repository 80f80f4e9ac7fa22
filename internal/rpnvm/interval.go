package rpnvm

import (
	"geoengine/internal/bytecode"
	"geoengine/internal/interval"
)

// IntervalEnv bounds x, y, t over the box/range being evaluated, used
// by the implicit-plot quadtree pruner (spec §4.F.3 step 1).
type IntervalEnv struct {
	X, Y, T interval.Interval[float64]
}

// EvalInterval runs prog under interval arithmetic, returning a sound
// bound on the program's value over env (spec §4.C "interval
// evaluation"). CUSTOM_FUNCTION opcodes are not sound under interval
// evaluation (they read live geometry, not a bounded quantity) and
// widen to Whole, which is conservative and never causes a missed
// zero-crossing (spec §7 "interval-prune misses are never fatal").
func EvalInterval(prog *bytecode.Program, env IntervalEnv) interval.Interval[float64] {
	var stack []interval.Interval[float64]
	push := func(v interval.Interval[float64]) { stack = append(stack, v) }
	pop := func() interval.Interval[float64] {
		n := len(stack) - 1
		v := stack[n]
		stack = stack[:n]
		return v
	}

	for _, tok := range prog.Tokens {
		switch tok.Type {
		case bytecode.PushX:
			push(env.X)
		case bytecode.PushY:
			push(env.Y)
		case bytecode.PushT:
			push(env.T)
		case bytecode.PushConst:
			push(interval.Of(tok.Value))
		case bytecode.Add:
			b, a := pop(), pop()
			push(interval.Add(a, b))
		case bytecode.Sub:
			b, a := pop(), pop()
			push(interval.Sub(a, b))
		case bytecode.Mul:
			b, a := pop(), pop()
			push(interval.Mul(a, b))
		case bytecode.Div:
			b, a := pop(), pop()
			push(interval.Div(a, b))
		case bytecode.Pow:
			b, a := pop(), pop()
			push(interval.Pow(a, b))
		case bytecode.Sin:
			push(interval.Sin(pop()))
		case bytecode.Cos:
			push(interval.Cos(pop()))
		case bytecode.Tan:
			push(interval.Tan(pop()))
		case bytecode.Exp:
			push(interval.Exp(pop()))
		case bytecode.Ln:
			push(interval.Ln(pop()))
		case bytecode.Abs:
			push(interval.Abs(pop()))
		case bytecode.Sign:
			push(interval.Sign(pop()))
		case bytecode.Sqrt:
			a := pop()
			if a.Min < 0 {
				push(interval.Whole[float64]())
			} else {
				push(interval.Pow(a, interval.Of(0.5)))
			}
		case bytecode.CustomFunction:
			push(interval.Whole[float64]())
		case bytecode.Stop:
		}
	}
	if len(stack) == 0 {
		return interval.Whole[float64]()
	}
	return stack[len(stack)-1]
}
