package interval

import "golang.org/x/exp/constraints"

// Batch holds Min/Max lanes for a group of intervals evaluated
// together, mirroring the scalar-register SIMD batch used by the
// plot kernels' sample loops (spec §4.A "Batched variant", §4.C). Real
// vector instructions aren't available from portable Go, so each lane
// op below is a plain loop the compiler is free to auto-vectorise —
// the contract (same element-wise rule as the scalar ops) is what the
// plot kernels depend on, not the instruction selection.
type Batch[T constraints.Float] struct {
	Min, Max []T
}

func NewBatch[T constraints.Float](n int) Batch[T] {
	return Batch[T]{Min: make([]T, n), Max: make([]T, n)}
}

func (b Batch[T]) Len() int { return len(b.Min) }

func (b Batch[T]) At(i int) Interval[T] { return Interval[T]{Min: b.Min[i], Max: b.Max[i]} }

func (b Batch[T]) Set(i int, v Interval[T]) { b.Min[i], b.Max[i] = v.Min, v.Max }

func zipBatch[T constraints.Float](a, b Batch[T], op func(Interval[T], Interval[T]) Interval[T]) Batch[T] {
	out := NewBatch[T](a.Len())
	for i := range out.Min {
		out.Set(i, op(a.At(i), b.At(i)))
	}
	return out
}

func mapBatch[T constraints.Float](a Batch[T], op func(Interval[T]) Interval[T]) Batch[T] {
	out := NewBatch[T](a.Len())
	for i := range out.Min {
		out.Set(i, op(a.At(i)))
	}
	return out
}

func AddBatch[T constraints.Float](a, b Batch[T]) Batch[T] { return zipBatch(a, b, Add[T]) }
func SubBatch[T constraints.Float](a, b Batch[T]) Batch[T] { return zipBatch(a, b, Sub[T]) }
func MulBatch[T constraints.Float](a, b Batch[T]) Batch[T] { return zipBatch(a, b, Mul[T]) }
func DivBatch[T constraints.Float](a, b Batch[T]) Batch[T] { return zipBatch(a, b, Div[T]) }
func PowBatch[T constraints.Float](a, b Batch[T]) Batch[T] { return zipBatch(a, b, Pow[T]) }

func SinBatch[T constraints.Float](a Batch[T]) Batch[T]  { return mapBatch(a, Sin[T]) }
func CosBatch[T constraints.Float](a Batch[T]) Batch[T]  { return mapBatch(a, Cos[T]) }
func TanBatch[T constraints.Float](a Batch[T]) Batch[T]  { return mapBatch(a, Tan[T]) }
func ExpBatch[T constraints.Float](a Batch[T]) Batch[T]  { return mapBatch(a, Exp[T]) }
func LnBatch[T constraints.Float](a Batch[T]) Batch[T]   { return mapBatch(a, Ln[T]) }
func AbsBatch[T constraints.Float](a Batch[T]) Batch[T]  { return mapBatch(a, Abs[T]) }
func SignBatch[T constraints.Float](a Batch[T]) Batch[T] { return mapBatch(a, Sign[T]) }
