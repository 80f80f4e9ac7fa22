// Package command implements the transaction/mutation manager (spec
// §4.G): atomic mutation batches applied by the control thread at
// commit time, with undo/redo restoring bit-exact prior state (spec §3
// invariant 6). Transaction IDs are stamped with google/uuid so a
// client-visible handle survives a round trip to the introspection
// server without colliding across sessions, mirroring the teacher's
// use of uuid for scan/job identifiers.
package command

import (
	"github.com/google/uuid"

	"geoengine/internal/dag"
)

// MutationKind selects which part of a node a Mutation touches (spec
// §3 "Transaction").
type MutationKind uint8

const (
	MutationActive MutationKind = iota
	MutationData
	MutationStyle
	MutationLinks
	MutationViewport
)

// Mutation is one field-level change, carrying enough of the prior
// state to be replayed in reverse (spec §3 invariant 6).
type Mutation struct {
	NodeID   dag.NodeID
	Kind     MutationKind
	OldValue any
	NewValue any
}

// Transaction is an ordered, atomically-applied batch of mutations
// (spec §3 "Transaction").
type Transaction struct {
	ID          uuid.UUID
	Description string
	Mutations   []Mutation
	IsViewport  bool
	IsUndoOp    bool
}

// NewTransaction starts an empty transaction tagged with a fresh ID.
func NewTransaction(description string) *Transaction {
	return &Transaction{ID: uuid.New(), Description: description}
}

// Add appends a mutation and, for a MutationViewport, marks the
// transaction as a viewport change (IsViewport), the flag that routes a
// commit to the global replot (spec §4.G).
func (t *Transaction) Add(m Mutation) {
	t.Mutations = append(t.Mutations, m)
	if m.Kind == MutationViewport {
		t.IsViewport = true
	}
}
