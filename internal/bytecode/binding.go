package bytecode

// SlotKind distinguishes a binding slot that resolves to another
// node's scalar result from one that resolves to a custom-function
// call over named geometry arguments (spec §3 "Binding slot").
type SlotKind uint8

const (
	SlotVariable SlotKind = iota
	SlotFunction
)

// BindingSlot points at a PushConst placeholder in a Program whose
// value is rewritten from live node state immediately before each
// frame's evaluation (spec §4.B "Semantics of bindings at evaluation").
type BindingSlot struct {
	RPNIndex   int
	Kind       SlotKind
	SourceName string

	FuncType CustomFunc
	Args     []string
}

// CompileResult is the output of the expression compiler (spec §4.B).
type CompileResult struct {
	Program     *Program
	Bindings    []BindingSlot
	Success     bool
	ErrorArg    string
	ErrorOffset int
}
