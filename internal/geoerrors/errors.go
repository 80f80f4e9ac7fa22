// Package geoerrors implements the engine's error taxonomy (spec §7).
//
// Errors are local: a single bad node never halts a frame. Parse and
// structural errors reject a command outright; solver errors are
// recorded on the offending node and propagate downstream by marking
// results invalid; plot kernels simply skip invalid nodes.
package geoerrors

import (
	"fmt"
	"strings"
)

// Kind classifies an engine error per the taxonomy in spec §7.
type Kind string

const (
	// ParseError: the compiler rejected an infix expression; no mutation
	// is produced and the offending command is rejected outright.
	ParseError Kind = "ParseError"
	// StructuralError: link() detected a cycle or rank overflow; the
	// whole transaction is aborted atomically.
	StructuralError Kind = "StructuralError"
	// SolverError: divide-by-zero, non-converging intersection, domain
	// violation, degenerate geometry. Recorded on the node, not fatal.
	SolverError Kind = "SolverError"
	// PruneMiss: an implicit-plot tile's interval evaluation could not
	// exclude zero (e.g. widened to [-Inf, +Inf] by division or ln);
	// never fatal, the pruner conservatively keeps the tile.
	PruneMiss Kind = "PruneMiss"
	// Cancelled: a long-running plot job observed its cancel flag.
	// Not an error condition; the job returns whatever it produced.
	Cancelled Kind = "Cancelled"
)

// Position locates an error within an infix expression string.
type Position struct {
	Expr   string
	Offset int // byte offset of the offending token, -1 if not applicable
}

// EngineError is the error type returned by the compiler, the DAG, and
// solvers. It carries enough context for the caller to render a
// caret-annotated diagnostic without re-deriving the offending token.
type EngineError struct {
	Kind     Kind
	Message  string
	NodeID   uint32 // 0 if not tied to a specific node
	Pos      Position
	ErrorArg string // offending token/symbol, e.g. "sin(" or "++"
}

func (e *EngineError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s", e.Kind, e.Message))
	if e.ErrorArg != "" {
		sb.WriteString(fmt.Sprintf(" (at %q)", e.ErrorArg))
	}
	if e.Pos.Expr != "" && e.Pos.Offset >= 0 {
		sb.WriteString(fmt.Sprintf("\n  %s\n  %s^\n", e.Pos.Expr, strings.Repeat(" ", e.Pos.Offset)))
	}
	return sb.String()
}

// NewParseError builds a compiler-stage error with a source position.
func NewParseError(message, expr string, offset int, arg string) *EngineError {
	return &EngineError{
		Kind:     ParseError,
		Message:  message,
		Pos:      Position{Expr: expr, Offset: offset},
		ErrorArg: arg,
	}
}

// NewStructuralError builds a DAG-linkage error tied to a node.
func NewStructuralError(message string, nodeID uint32) *EngineError {
	return &EngineError{Kind: StructuralError, Message: message, NodeID: nodeID}
}

// NewSolverError builds a solver-stage error tied to a node.
func NewSolverError(message string, nodeID uint32) *EngineError {
	return &EngineError{Kind: SolverError, Message: message, NodeID: nodeID}
}

// NewPruneMiss builds a non-fatal implicit-plot interval-widening note.
func NewPruneMiss(message string) *EngineError {
	return &EngineError{Kind: PruneMiss, Message: message}
}

// IsFatal reports whether the error should abort the enclosing
// transaction (ParseError, StructuralError) as opposed to merely
// invalidating one node's result (SolverError, PruneMiss, Cancelled).
func (e *EngineError) IsFatal() bool {
	return e.Kind == ParseError || e.Kind == StructuralError
}
