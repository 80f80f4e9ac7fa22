// Package solver implements the per-node-variant compute functions
// (spec §4.E): each reads parents' cached Result fields only, never
// re-solves a parent, and writes its own node's Result. Failure is
// reported through the returned error, never a panic; the DAG marks
// Result.IsValid = false and leaves the node's stale value in place
// (spec §7 "Solver errors").
package solver

import (
	"math"

	"geoengine/internal/bytecode"
	"geoengine/internal/dag"
	"geoengine/internal/geoerrors"
	"geoengine/internal/rpnvm"
)

// rewriteBindings rewrites every Variable binding slot's PUSH_CONST
// operand from the referenced node's live result (spec §4.B "Semantics
// of bindings at evaluation"). Returns false if any referenced node is
// missing or itself invalid, which the caller propagates as a domain
// failure (spec §7 "downstream solvers observing invalid input
// propagate the flag").
func rewriteBindings(prog *bytecode.Program, bindings []bytecode.BindingSlot, pool *dag.Pool) bool {
	ok := true
	for _, b := range bindings {
		if b.Kind != bytecode.SlotVariable {
			continue
		}
		id, found := pool.ResolveName(b.SourceName)
		if !found {
			ok = false
			continue
		}
		n := pool.Node(id)
		if n == nil || !n.Active || !n.Result.IsValid {
			ok = false
			continue
		}
		prog.Tokens[b.RPNIndex].Value = n.Result.X
	}
	return ok
}

// customResolver builds the CustomResolver the RPN evaluator calls for
// CUSTOM_FUNCTION opcodes (length/area/distance/extractX/extractY),
// resolving each argument name against the live pool (spec §13
// "Custom function catalogue").
func customResolver(pool *dag.Pool) rpnvm.CustomResolver {
	return func(fn bytecode.CustomFunc, args []string) float64 {
		lookup := func(name string) *dag.GeoNode {
			id, ok := pool.ResolveName(name)
			if !ok {
				return nil
			}
			return pool.Node(id)
		}
		switch fn {
		case bytecode.FuncDistance:
			if len(args) != 2 {
				return math.NaN()
			}
			a, b := lookup(args[0]), lookup(args[1])
			if a == nil || b == nil || !a.Result.IsValid || !b.Result.IsValid {
				return math.NaN()
			}
			dx, dy := a.Result.X-b.Result.X, a.Result.Y-b.Result.Y
			return math.Hypot(dx, dy)
		case bytecode.FuncLength:
			if len(args) != 1 {
				return math.NaN()
			}
			n := lookup(args[0])
			if n == nil || n.Data.Kind != dag.PayloadLine || !n.Result.IsValid {
				return math.NaN()
			}
			p1, p2 := pool.Node(n.Data.Line.P1), pool.Node(n.Data.Line.P2)
			return math.Hypot(p1.Result.X-p2.Result.X, p1.Result.Y-p2.Result.Y)
		case bytecode.FuncArea:
			if len(args) != 1 {
				return math.NaN()
			}
			n := lookup(args[0])
			if n == nil || n.Data.Kind != dag.PayloadCircle || !n.Result.IsValid {
				return math.NaN()
			}
			return math.Pi * n.Result.R * n.Result.R
		case bytecode.FuncExtractX:
			if len(args) != 1 {
				return math.NaN()
			}
			n := lookup(args[0])
			if n == nil || !n.Result.IsValid {
				return math.NaN()
			}
			return n.Result.X
		case bytecode.FuncExtractY:
			if len(args) != 1 {
				return math.NaN()
			}
			n := lookup(args[0])
			if n == nil || !n.Result.IsValid {
				return math.NaN()
			}
			return n.Result.Y
		default:
			return math.NaN()
		}
	}
}

func fail(n *dag.GeoNode, msg string) error {
	n.Result.IsValid = false
	return geoerrors.NewSolverError(msg, uint32(n.ID))
}
