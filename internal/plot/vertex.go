// Package plot implements the plot kernels (spec §4.F): explicit,
// parametric, implicit, line/segment/ray, and circle/arc samplers,
// each producing compact clip-space vertex data that the result
// collector appends to a shared buffer.
package plot

// Vertex is the GPU-visible vertex record (spec §6): two little-endian
// i16 clip-space coordinates plus a small tag (function index or
// reserved), fixed 8-byte stride once laid out by Encode.
type Vertex struct {
	X, Y int16
	Tag  uint16
	_    uint16 // padding to keep the record a flat 8 bytes
}

// Encode packs a Vertex into its 8-byte little-endian GPU wire form.
func (v Vertex) Encode() [8]byte {
	var b [8]byte
	putI16(b[0:2], v.X)
	putI16(b[2:4], v.Y)
	putU16(b[4:6], v.Tag)
	return b
}

func putI16(b []byte, v int16) { putU16(b, uint16(v)) }
func putU16(b []byte, v uint16) {
	b[0] = byte(v)
	b[1] = byte(v >> 8)
}

// Buffer is the global contiguous vertex buffer the GPU reads. Workers
// never write into it: the result collector appends or replaces each
// node's slice on its own goroutine after the workers finish, so it
// needs no lock or atomic allocator. Offsets are node-owned between
// successive solves (spec §3 invariant 5).
type Buffer struct {
	data []Vertex
}

func NewBuffer() *Buffer { return &Buffer{} }

// Reset clears the buffer for a global replot (spec §4.G "wipe the
// vertex buffer").
func (b *Buffer) Reset() { b.data = b.data[:0] }

// Append grows the buffer with verts and returns the (offset, count)
// slice now owned exclusively by the calling node.
func (b *Buffer) Append(verts []Vertex) (offset, count int) {
	offset = len(b.data)
	b.data = append(b.data, verts...)
	return offset, len(verts)
}

// Replace overwrites the node's previous [offset, offset+oldCount)
// slice in place when the new vertex count matches. Otherwise the old
// slice is abandoned where it sits — never truncated — and the new
// vertices are appended at the buffer's tail instead, so a resized
// node can never clobber another node's already-owned slice (spec §3
// invariant 5: a node's [buffer_offset, offset+count) range is owned
// exclusively by that node between successive solves, including every
// *other* node's range).
func (b *Buffer) Replace(offset, oldCount int, verts []Vertex) (newOffset, newCount int) {
	if len(verts) == oldCount {
		copy(b.data[offset:offset+oldCount], verts)
		return offset, oldCount
	}
	return b.Append(verts)
}

func (b *Buffer) Len() int { return len(b.data) }

func (b *Buffer) Slice(offset, count int) []Vertex {
	if offset < 0 || offset+count > len(b.data) {
		return nil
	}
	return b.data[offset : offset+count]
}

// Bytes serialises the whole buffer to its GPU wire form.
func (b *Buffer) Bytes() []byte {
	out := make([]byte, 0, len(b.data)*8)
	for _, v := range b.data {
		enc := v.Encode()
		out = append(out, enc[:]...)
	}
	return out
}
