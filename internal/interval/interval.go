// Package interval implements sound interval arithmetic over floats
// (spec §4.A). Every operation returns a bound that is guaranteed to
// contain the image of the true mathematical function over the input
// interval(s); ties round outward so a borderline case never
// understates the true range. Division by an interval containing zero,
// tan across an asymptote and the pow cases it cannot bound widen to
// [-Inf, +Inf] rather than risk excluding a value the pruner must not
// miss (spec §7 "interval-prune misses" are never fatal); exp and ln
// saturate at the scalar evaluator's 1e270/1e-270/-1e270 sentinels,
// and sin/cos stay within [-1, 1].
package interval

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Interval is a closed bound [Min, Max] over a floating type. The
// generic parameter exists so the same arithmetic serves both the
// scalar f64 pruner and a narrower lane type, without duplicating the
// rules for sin/cos/tan quadrant analysis.
type Interval[T constraints.Float] struct {
	Min, Max T
}

// Of builds a degenerate interval from a single value (e.g. a constant
// operand reached through a binding slot).
func Of[T constraints.Float](v T) Interval[T] { return Interval[T]{Min: v, Max: v} }

// New builds [min, max], swapping the arguments if given reversed.
func New[T constraints.Float](min, max T) Interval[T] {
	if min > max {
		min, max = max, min
	}
	return Interval[T]{Min: min, Max: max}
}

// Whole is the unbounded interval used whenever soundness can't be
// established cheaply (division through zero, domain violations).
func Whole[T constraints.Float]() Interval[T] {
	return Interval[T]{Min: T(math.Inf(-1)), Max: T(math.Inf(1))}
}

func (a Interval[T]) ContainsZero() bool { return a.Min <= 0 && a.Max >= 0 }

func (a Interval[T]) Width() T { return a.Max - a.Min }

// outward nudges a bound one ULP away from the computed value, in the
// direction that only ever grows the interval.
func outward(v float64, towardPositive bool) float64 {
	if math.IsInf(v, 0) || math.IsNaN(v) {
		return v
	}
	if towardPositive {
		return math.Nextafter(v, math.Inf(1))
	}
	return math.Nextafter(v, math.Inf(-1))
}

func Add[T constraints.Float](a, b Interval[T]) Interval[T] {
	return Interval[T]{
		Min: T(outward(float64(a.Min+b.Min), false)),
		Max: T(outward(float64(a.Max+b.Max), true)),
	}
}

func Sub[T constraints.Float](a, b Interval[T]) Interval[T] {
	return Interval[T]{
		Min: T(outward(float64(a.Min-b.Max), false)),
		Max: T(outward(float64(a.Max-b.Min), true)),
	}
}

func Mul[T constraints.Float](a, b Interval[T]) Interval[T] {
	p1, p2, p3, p4 := a.Min*b.Min, a.Min*b.Max, a.Max*b.Min, a.Max*b.Max
	min, max := p1, p1
	for _, p := range []T{p2, p3, p4} {
		if p < min {
			min = p
		}
		if p > max {
			max = p
		}
	}
	return Interval[T]{Min: T(outward(float64(min), false)), Max: T(outward(float64(max), true))}
}

// Div returns [-Inf, +Inf] whenever the divisor's interval contains 0
// (spec §4.A "Division by intervals containing 0").
func Div[T constraints.Float](a, b Interval[T]) Interval[T] {
	if b.ContainsZero() {
		return Whole[T]()
	}
	recip := Interval[T]{Min: 1 / b.Max, Max: 1 / b.Min}
	return Mul(a, recip)
}

// Pow handles the common case of a degenerate (constant) integer
// exponent with the usual even/odd monotonicity rules, and falls back
// to exp(exponent*ln(base)) — itself interval-sound — for the general
// case, widening to the whole line wherever the base interval isn't
// strictly positive (ln is undefined there).
func Pow[T constraints.Float](base, exp Interval[T]) Interval[T] {
	if exp.Min == exp.Max && exp.Min == T(math.Trunc(float64(exp.Min))) {
		n := int(exp.Min)
		return powInt(base, n)
	}
	if base.Min <= 0 {
		return Whole[T]()
	}
	return Exp(Mul(exp, Ln(base)))
}

func powInt[T constraints.Float](base Interval[T], n int) Interval[T] {
	switch {
	case n == 0:
		return Of[T](1)
	case n < 0:
		pos := powInt(base, -n)
		if pos.ContainsZero() {
			return Whole[T]()
		}
		return Div(Of[T](1), pos)
	case n%2 == 0:
		// even power: monotonic in |x|, minimum can be 0 if base spans zero
		a := math.Pow(float64(base.Min), float64(n))
		b := math.Pow(float64(base.Max), float64(n))
		min, max := a, b
		if min > max {
			min, max = max, min
		}
		if base.ContainsZero() {
			min = 0
		}
		return Interval[T]{Min: T(outward(min, false)), Max: T(outward(max, true))}
	default:
		// odd power: strictly monotonic increasing
		return Interval[T]{
			Min: T(outward(math.Pow(float64(base.Min), float64(n)), false)),
			Max: T(outward(math.Pow(float64(base.Max), float64(n)), true)),
		}
	}
}

const tau = 2 * math.Pi

// Sin reduces the interval modulo 2π conceptually by checking whether
// any extremum (π/2 + kπ for +1/-1) falls inside the true range,
// rather than actually reducing the bounds (spec §4.A).
func Sin[T constraints.Float](a Interval[T]) Interval[T] {
	if float64(a.Width()) >= tau {
		return Interval[T]{Min: -1, Max: 1}
	}
	lo, hi := math.Sin(float64(a.Min)), math.Sin(float64(a.Max))
	min, max := math.Min(lo, hi), math.Max(lo, hi)
	if crossesExtremum(float64(a.Min), float64(a.Max), math.Pi/2) {
		max = 1
	}
	if crossesExtremum(float64(a.Min), float64(a.Max), -math.Pi/2) {
		min = -1
	}
	return Interval[T]{Min: T(outward(min, false)), Max: T(outward(max, true))}
}

func Cos[T constraints.Float](a Interval[T]) Interval[T] {
	if float64(a.Width()) >= tau {
		return Interval[T]{Min: -1, Max: 1}
	}
	lo, hi := math.Cos(float64(a.Min)), math.Cos(float64(a.Max))
	min, max := math.Min(lo, hi), math.Max(lo, hi)
	if crossesExtremum(float64(a.Min), float64(a.Max), 0) {
		max = 1
	}
	if crossesExtremum(float64(a.Min), float64(a.Max), math.Pi) {
		min = -1
	}
	return Interval[T]{Min: T(outward(min, false)), Max: T(outward(max, true))}
}

// crossesExtremum reports whether [lo, hi] contains phase + k*2π for
// some integer k.
func crossesExtremum(lo, hi, phase float64) bool {
	k := math.Floor((lo - phase) / tau)
	for x := phase + k*tau; x <= hi+1e-12; x += tau {
		if x >= lo-1e-12 {
			return true
		}
	}
	return false
}

// Tan returns the whole line when the interval crosses an odd
// multiple of π/2, since tan is unbounded there (spec §4.A).
func Tan[T constraints.Float](a Interval[T]) Interval[T] {
	lo, hi := float64(a.Min), float64(a.Max)
	k := math.Floor((lo - math.Pi/2) / math.Pi)
	for x := math.Pi/2 + k*math.Pi; x <= hi+1e-12; x += math.Pi {
		if x >= lo-1e-12 {
			return Whole[T]()
		}
	}
	return Interval[T]{
		Min: T(outward(math.Tan(lo), false)),
		Max: T(outward(math.Tan(hi), true)),
	}
}

// Exp saturates the same way the scalar evaluator's safe variant does
// (spec §4.C) so a wide positive interval never actually reaches +Inf
// and contaminates downstream arithmetic with NaNs.
func Exp[T constraints.Float](a Interval[T]) Interval[T] {
	lo := safeExp(float64(a.Min))
	hi := safeExp(float64(a.Max))
	return Interval[T]{Min: T(outward(lo, false)), Max: T(outward(hi, true))}
}

func safeExp(x float64) float64 {
	if x >= 1 && math.Exp(x) > 1e270 {
		return 1e270
	}
	if x <= -100 {
		return 1e-270
	}
	return math.Exp(x)
}

// Ln returns -1e270 (the evaluator's saturated "safe ln" sentinel)
// whenever any part of the domain is non-positive, rather than
// producing NaN (spec §4.C).
func Ln[T constraints.Float](a Interval[T]) Interval[T] {
	if a.Max <= 0 {
		return Of[T](-1e270)
	}
	lo := -1e270
	if a.Min > 0 {
		lo = math.Log(float64(a.Min))
	}
	hi := math.Log(float64(a.Max))
	return Interval[T]{Min: T(outward(lo, false)), Max: T(outward(hi, true))}
}

func Abs[T constraints.Float](a Interval[T]) Interval[T] {
	if a.Min >= 0 {
		return a
	}
	if a.Max <= 0 {
		return Interval[T]{Min: -a.Max, Max: -a.Min}
	}
	max := a.Max
	if -a.Min > max {
		max = -a.Min
	}
	return Interval[T]{Min: 0, Max: max}
}

func Sign[T constraints.Float](a Interval[T]) Interval[T] {
	min, max := T(0), T(0)
	if a.Min < 0 {
		min = -1
	} else if a.Min > 0 {
		min = 1
	}
	if a.Max < 0 {
		max = -1
	} else if a.Max > 0 {
		max = 1
	}
	if min > max {
		min, max = max, min
	}
	if a.ContainsZero() && (min != 0 || max != 0) {
		min = T(math.Min(float64(min), 0))
		max = T(math.Max(float64(max), 0))
	}
	return Interval[T]{Min: min, Max: max}
}
