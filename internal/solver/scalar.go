package solver

import "geoengine/internal/dag"

// scalarStack recycles rpnvm.Stacks through a sync.Pool (see
// stackpool.go), so each solve call takes its own stack and returns it
// afterwards. Workers evaluating plot kernels use their own
// rpnvm.Stack (see internal/plot).
var scalarStack = newStackPool()

// Scalar evaluates a free-standing formula node (e.g. an independent
// length or angle parameter referenced by other objects) and caches
// the number in Result.X (spec §3 "Payload variants: Scalar").
func Scalar(n *dag.GeoNode, pool *dag.Pool) error {
	data := n.Data.Scalar
	if !rewriteBindings(data.Program, data.Bindings, pool) {
		return fail(n, "scalar formula references an invalid or missing node")
	}
	s := scalarStack.get()
	defer scalarStack.put(s)
	v := evalScalar(s, data.Program, data.Bindings, pool)
	n.Result.X = v
	n.Result.IsValid = true
	return nil
}
