package solver

import "geoengine/internal/dag"

// RegisterAll wires every per-variant solver into pool, keyed by the
// (RenderType, PayloadKind) pair solve_frame dispatches on (spec §9
// "a small match — no dynamic dispatch on the hot path").
func RegisterAll(pool *dag.Pool) {
	pool.RegisterSolver(dag.RenderScalar, dag.PayloadScalar, Scalar)
	pool.RegisterSolver(dag.RenderPoint, dag.PayloadPoint, PointSolver)
	pool.RegisterSolver(dag.RenderLine, dag.PayloadLine, LineSolver)
	pool.RegisterSolver(dag.RenderCircle, dag.PayloadCircle, CircleSolver)
	pool.RegisterSolver(dag.RenderExplicit, dag.PayloadSingleRPN, SingleRPNSolver)
	pool.RegisterSolver(dag.RenderImplicit, dag.PayloadSingleRPN, SingleRPNSolver)
	pool.RegisterSolver(dag.RenderParametric, dag.PayloadDualRPN, DualRPNSolver)
	pool.RegisterSolver(dag.RenderPoint, dag.PayloadIntersectionPoint, GraphicalIntersectionSolver)
	pool.RegisterSolver(dag.RenderPoint, dag.PayloadAnalyticalIntersection, AnalyticalIntersectionSolver)
	pool.RegisterSolver(dag.RenderText, dag.PayloadTextLabel, TextLabelSolver)
}
