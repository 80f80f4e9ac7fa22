package geoerrors

import "testing"

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name string
		err  *EngineError
		want bool
	}{
		{"parse error is fatal", NewParseError("bad", "1+", 2, "+"), true},
		{"structural error is fatal", NewStructuralError("cycle", 4), true},
		{"solver error is not fatal", NewSolverError("divide by zero", 4), false},
		{"prune miss is not fatal", NewPruneMiss("widened to whole"), false},
		{"cancelled is not fatal", &EngineError{Kind: Cancelled}, false},
	}
	for _, tt := range tests {
		if got := tt.err.IsFatal(); got != tt.want {
			t.Errorf("%s: IsFatal() = %v, want %v", tt.name, got, tt.want)
		}
	}
}

func TestErrorMessageIncludesArgAndCaret(t *testing.T) {
	err := NewParseError("missing_operand", "3+*2", 2, "*")
	msg := err.Error()
	if !contains(msg, "missing_operand") {
		t.Errorf("Error() = %q, want it to contain the message", msg)
	}
	if !contains(msg, `"*"`) {
		t.Errorf("Error() = %q, want it to contain the offending arg", msg)
	}
	if !contains(msg, "3+*2") {
		t.Errorf("Error() = %q, want it to contain the source expression", msg)
	}
}

func TestErrorMessageWithoutPosition(t *testing.T) {
	err := NewSolverError("non-converging intersection", 7)
	msg := err.Error()
	if !contains(msg, "SolverError") {
		t.Errorf("Error() = %q, want it to contain the kind", msg)
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
