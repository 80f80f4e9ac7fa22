package plot

import (
	"testing"

	"geoengine/internal/dag"
)

func TestResultQueuePushAndDrain(t *testing.T) {
	q := NewResultQueue(4)
	q.Push(CurveBatch{NodeID: 1, Points: []Vertex{{X: 1}}})
	q.Push(CurveBatch{NodeID: 2, Points: []Vertex{{X: 2}}})

	out := make(map[dag.NodeID][]Vertex)
	q.DrainInto(out)

	if len(out) != 2 {
		t.Fatalf("len(out) = %d, want 2", len(out))
	}
	if out[1][0].X != 1 || out[2][0].X != 2 {
		t.Errorf("out = %+v, want node 1 -> X=1, node 2 -> X=2", out)
	}
}

func TestResultQueueDrainIntoEmptyQueueIsNoop(t *testing.T) {
	q := NewResultQueue(4)
	out := make(map[dag.NodeID][]Vertex)
	q.DrainInto(out)
	if len(out) != 0 {
		t.Fatalf("len(out) = %d, want 0", len(out))
	}
}

func TestNewResultQueueDefaultsCapacity(t *testing.T) {
	q := NewResultQueue(0)
	if cap(q.ch) != 256 {
		t.Errorf("cap = %d, want default 256", cap(q.ch))
	}
}
