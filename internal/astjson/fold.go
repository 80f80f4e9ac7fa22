package astjson

// Fold walks the AST rooted at h bottom-up, partially folding numeric
// subsets of Add/Multiply and dropping identity operands: +0 and ×1
// vanish, ×0 annihilates the whole product (spec §4.I "Constant
// folding walks bottom-up; for Add/Multiply it partially folds
// numeric subsets of operands and drops identity operands (+0, x1) and
// annihilates x0"). Returns a handle into the same arena; folded
// subtrees allocate new nodes rather than mutating existing ones, so
// an unfolded alias of the original AST is never invalidated.
func Fold(a *Arena, h Handle) Handle {
	n := a.Get(h)
	if n.Kind != KindFunction {
		return h
	}

	folded := make([]Handle, len(n.Args))
	for i, arg := range n.Args {
		folded[i] = Fold(a, arg)
	}

	switch n.Op {
	case "Add":
		return foldAdd(a, folded)
	case "Multiply":
		return foldMultiply(a, folded)
	default:
		return a.Function(n.Op, folded...)
	}
}

func foldAdd(a *Arena, args []Handle) Handle {
	sum := 0.0
	haveNumeric := false
	var rest []Handle
	for _, h := range args {
		n := a.Get(h)
		if n.Kind == KindConstant && n.Big == nil {
			sum += n.Value
			haveNumeric = true
			continue
		}
		rest = append(rest, h)
	}
	if haveNumeric && sum != 0 {
		rest = append(rest, a.Constant(sum))
	}
	switch len(rest) {
	case 0:
		return a.Constant(0)
	case 1:
		return rest[0]
	default:
		return a.Function("Add", rest...)
	}
}

func foldMultiply(a *Arena, args []Handle) Handle {
	product := 1.0
	haveNumeric := false
	var rest []Handle
	for _, h := range args {
		n := a.Get(h)
		if n.Kind == KindConstant && n.Big == nil {
			product *= n.Value
			haveNumeric = true
			continue
		}
		rest = append(rest, h)
	}
	if haveNumeric && product == 0 {
		return a.Constant(0)
	}
	if haveNumeric && product != 1 {
		rest = append(rest, a.Constant(product))
	}
	switch len(rest) {
	case 0:
		return a.Constant(1)
	case 1:
		return rest[0]
	default:
		return a.Function("Multiply", rest...)
	}
}
