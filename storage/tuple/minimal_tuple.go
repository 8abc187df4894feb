package tuple

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/types"
)

// MinimalTuple is the body of a heap tuple without transaction and location
// fields. It may be preceded by extra bytes the creator reserved for its own
// use; both live in one chunk.
type MinimalTuple struct {
	data  []byte
	extra []byte
	chunk []byte
	mcxt  *memory.Context
}

func maxAlign(n uint32) uint32 {
	return (n + common.MaxAlign - 1) &^ (common.MaxAlign - 1)
}

func newMinimal(ctx *memory.Context, size uint32, extra uint32) *MinimalTuple {
	extra = maxAlign(extra)
	chunk := allocBytes(ctx, int(extra+size))
	return &MinimalTuple{chunk[extra:], chunk[:extra:extra], chunk, ctx}
}

func newMinimalFromBody(ctx *memory.Context, body []byte, extra uint32) *MinimalTuple {
	ret := newMinimal(ctx, uint32(len(body)), extra)
	copy(ret.data, body)
	return ret
}

// FormMinimalTuple encodes values into a new minimal tuple allocated in ctx
// with extra bytes reserved in front of it (rounded up to MaxAlign).
func FormMinimalTuple(ctx *memory.Context, schema_ *schema.Schema, values []types.Value, isnull []bool, extra uint32) *MinimalTuple {
	common.SH_Assert(len(values) >= int(schema_.GetColumnCount()) && len(isnull) >= int(schema_.GetColumnCount()),
		"tuple: fewer values than columns")
	size, hoff := bodySize(schema_, values, isnull)
	ret := newMinimal(ctx, size, extra)
	fillBody(ret.data, hoff, schema_, values, isnull)
	return ret
}

// NewMinimalTupleFromBytes wraps data without copying.
func NewMinimalTupleFromBytes(data []byte) *MinimalTuple {
	common.SH_Assert(len(data) >= BodyHeaderSize, "tuple: bytes shorter than the header")
	return &MinimalTuple{data, nil, nil, nil}
}

// Copy returns a copy of m allocated in ctx with extra reserved bytes.
func (m *MinimalTuple) Copy(ctx *memory.Context, extra uint32) *MinimalTuple {
	return newMinimalFromBody(ctx, m.data, extra)
}

// ToHeap returns a full tuple with the body of m and an empty header.
func (m *MinimalTuple) ToHeap(ctx *memory.Context) *HeapTuple {
	return newHeapFromBody(ctx, m.data)
}

// Free returns the chunk of m, extra bytes included, to its context.
func (m *MinimalTuple) Free() {
	common.SH_Assert(m.mcxt != nil, "tuple: free of a minimal tuple not owned by a memory context")
	m.mcxt.Free(m.chunk)
	m.data = nil
	m.extra = nil
	m.chunk = nil
	m.mcxt = nil
}

func (m *MinimalTuple) Data() []byte {
	return m.data
}

// Extra returns the reserved bytes in front of the tuple.
func (m *MinimalTuple) Extra() []byte {
	return m.extra
}

func (m *MinimalTuple) Len() uint32 {
	return uint32(len(m.data))
}

func (m *MinimalTuple) Owner() *memory.Context {
	return m.mcxt
}
