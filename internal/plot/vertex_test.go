package plot

import "testing"

func TestVertexEncodeLittleEndian(t *testing.T) {
	v := Vertex{X: 1, Y: -1, Tag: 0x0102}
	enc := v.Encode()
	if enc[0] != 1 || enc[1] != 0 {
		t.Errorf("X bytes = %v, want [1 0]", enc[0:2])
	}
	if enc[2] != 0xFF || enc[3] != 0xFF {
		t.Errorf("Y bytes = %v, want [0xFF 0xFF] (-1 as u16)", enc[2:4])
	}
	if enc[4] != 0x02 || enc[5] != 0x01 {
		t.Errorf("Tag bytes = %v, want [0x02 0x01]", enc[4:6])
	}
}

func TestBufferAppendReturnsOffsetAndCount(t *testing.T) {
	b := NewBuffer()
	verts := []Vertex{{X: 1}, {X: 2}, {X: 3}}
	offset, count := b.Append(verts)
	if offset != 0 || count != 3 {
		t.Fatalf("Append = (%d,%d), want (0,3)", offset, count)
	}
	offset2, count2 := b.Append(verts)
	if offset2 != 3 || count2 != 3 {
		t.Fatalf("second Append = (%d,%d), want (3,3)", offset2, count2)
	}
	if b.Len() != 6 {
		t.Fatalf("Len() = %d, want 6", b.Len())
	}
}

func TestBufferReplaceSameLengthInPlace(t *testing.T) {
	b := NewBuffer()
	offset, count := b.Append([]Vertex{{X: 1}, {X: 2}})
	newOffset, newCount := b.Replace(offset, count, []Vertex{{X: 9}, {X: 8}})
	if newOffset != offset || newCount != count {
		t.Fatalf("Replace = (%d,%d), want unchanged (%d,%d)", newOffset, newCount, offset, count)
	}
	got := b.Slice(newOffset, newCount)
	if got[0].X != 9 || got[1].X != 8 {
		t.Fatalf("Slice = %+v, want [9 8]", got)
	}
}

func TestBufferReplaceDifferentLengthAppendsAtTail(t *testing.T) {
	b := NewBuffer()
	offset, count := b.Append([]Vertex{{X: 1}, {X: 2}})
	tailBefore := b.Len()
	newOffset, newCount := b.Replace(offset, count, []Vertex{{X: 5}, {X: 6}, {X: 7}})
	if newOffset != tailBefore {
		t.Fatalf("newOffset = %d, want %d (appended at the prior tail, not truncated at the old offset)", newOffset, tailBefore)
	}
	if newCount != 3 {
		t.Fatalf("newCount = %d, want 3", newCount)
	}
	if b.Len() != tailBefore+3 {
		t.Fatalf("Len() = %d, want %d", b.Len(), tailBefore+3)
	}
}

func TestBufferReplaceDifferentLengthDoesNotDisturbLaterNodesSlice(t *testing.T) {
	b := NewBuffer()
	offset1, count1 := b.Append([]Vertex{{X: 1}, {X: 2}})
	offset2, count2 := b.Append([]Vertex{{X: 10}, {X: 11}, {X: 12}})

	// curve1 resamples to a different vertex count; curve2's already-owned
	// slice must still read back intact afterward.
	b.Replace(offset1, count1, []Vertex{{X: 100}, {X: 101}, {X: 102}, {X: 103}})

	got := b.Slice(offset2, count2)
	if got == nil {
		t.Fatal("Slice(offset2, count2) = nil, want curve2's untouched vertices")
	}
	if got[0].X != 10 || got[1].X != 11 || got[2].X != 12 {
		t.Fatalf("curve2's slice = %+v, want [10 11 12] (unchanged by curve1's resize)", got)
	}
}

func TestBufferSliceOutOfRangeReturnsNil(t *testing.T) {
	b := NewBuffer()
	b.Append([]Vertex{{X: 1}})
	if got := b.Slice(0, 5); got != nil {
		t.Errorf("Slice(0,5) = %v, want nil", got)
	}
	if got := b.Slice(-1, 1); got != nil {
		t.Errorf("Slice(-1,1) = %v, want nil", got)
	}
}

func TestBufferResetClearsData(t *testing.T) {
	b := NewBuffer()
	b.Append([]Vertex{{X: 1}, {X: 2}})
	b.Reset()
	if b.Len() != 0 {
		t.Fatalf("Len() after Reset = %d, want 0", b.Len())
	}
}

func TestBufferBytesLength(t *testing.T) {
	b := NewBuffer()
	b.Append([]Vertex{{X: 1}, {X: 2}, {X: 3}})
	if got := len(b.Bytes()); got != 24 {
		t.Errorf("len(Bytes()) = %d, want 24 (3 * 8 bytes)", got)
	}
}
