package compiler

import (
	"testing"

	"geoengine/internal/bytecode"
)

type fakeCtx struct{ names map[string]bool }

func (f fakeCtx) HasNode(name string) bool { return f.names[name] }

func opTypes(prog *bytecode.Program) []bytecode.TokenType {
	out := make([]bytecode.TokenType, len(prog.Tokens))
	for i, tok := range prog.Tokens {
		out[i] = tok.Type
	}
	return out
}

func TestCompileSimpleArithmeticToRPN(t *testing.T) {
	res := Compile("3+4*2", nil)
	if !res.Success {
		t.Fatalf("Compile failed: %+v", res)
	}
	got := opTypes(res.Program)
	want := []bytecode.TokenType{
		bytecode.PushConst, bytecode.PushConst, bytecode.PushConst,
		bytecode.Mul, bytecode.Add, bytecode.Stop,
	}
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("opcodes[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCompileUnaryMinusNormalisesToZeroMinusX(t *testing.T) {
	res := Compile("-x", nil)
	if !res.Success {
		t.Fatalf("Compile failed: %+v", res)
	}
	got := opTypes(res.Program)
	want := []bytecode.TokenType{bytecode.PushConst, bytecode.PushConst, bytecode.Sub, bytecode.Stop}
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
	if len(res.Bindings) != 1 || res.Bindings[0].SourceName != "x" {
		t.Fatalf("Bindings = %+v, want one binding for x", res.Bindings)
	}
}

func TestCompileVariableEmitsBindingSlot(t *testing.T) {
	res := Compile("a+b", nil)
	if !res.Success {
		t.Fatalf("Compile failed: %+v", res)
	}
	if len(res.Bindings) != 2 {
		t.Fatalf("len(Bindings) = %d, want 2", len(res.Bindings))
	}
	if res.Bindings[0].SourceName != "a" || res.Bindings[1].SourceName != "b" {
		t.Fatalf("Bindings = %+v, want a then b", res.Bindings)
	}
	for _, b := range res.Bindings {
		if b.Kind != bytecode.SlotVariable {
			t.Errorf("binding kind = %v, want SlotVariable", b.Kind)
		}
	}
}

func TestCompileMathBuiltinFunction(t *testing.T) {
	res := Compile("sin(x)", nil)
	if !res.Success {
		t.Fatalf("Compile failed: %+v", res)
	}
	got := opTypes(res.Program)
	want := []bytecode.TokenType{bytecode.PushConst, bytecode.Sin, bytecode.Stop}
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
}

func TestCompileCustomFunctionEmitsBindingWithArgs(t *testing.T) {
	res := Compile("distance(p1,p2)", nil)
	if !res.Success {
		t.Fatalf("Compile failed: %+v", res)
	}
	if len(res.Bindings) != 1 {
		t.Fatalf("len(Bindings) = %d, want 1", len(res.Bindings))
	}
	b := res.Bindings[0]
	if b.Kind != bytecode.SlotFunction || b.FuncType != bytecode.FuncDistance {
		t.Fatalf("binding = %+v, want SlotFunction/FuncDistance", b)
	}
	if len(b.Args) != 2 || b.Args[0] != "p1" || b.Args[1] != "p2" {
		t.Fatalf("Args = %v, want [p1 p2]", b.Args)
	}
}

func TestCompileCustomFunctionRejectsNumericArg(t *testing.T) {
	res := Compile("extractx(1)", nil)
	if res.Success {
		t.Fatalf("Compile succeeded unexpectedly: %+v", res)
	}
}

func TestCompilePowerIsRightAssociative(t *testing.T) {
	res := Compile("2^3^2", nil)
	if !res.Success {
		t.Fatalf("Compile failed: %+v", res)
	}
	got := opTypes(res.Program)
	// 2 3 2 ^ ^  (3^2 evaluated first)
	want := []bytecode.TokenType{
		bytecode.PushConst, bytecode.PushConst, bytecode.PushConst,
		bytecode.Pow, bytecode.Pow, bytecode.Stop,
	}
	if len(got) != len(want) {
		t.Fatalf("opcodes = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("opcodes[%d] = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestCompileUnbalancedParensFails(t *testing.T) {
	res := Compile("(1+2", nil)
	if res.Success {
		t.Fatalf("Compile succeeded unexpectedly: %+v", res)
	}
}

func TestCompileEmptyExpressionFails(t *testing.T) {
	res := Compile("", nil)
	if res.Success {
		t.Fatalf("Compile succeeded unexpectedly: %+v", res)
	}
}
