package slot

import (
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

// minimalSlot references a minimal tuple. The decoder reads it through
// wrapper, a heap tuple sharing the minimal tuple's bytes.
type minimalSlot struct {
	mintuple *tuple.MinimalTuple
	wrapper  tuple.HeapTuple
	tuple    *tuple.HeapTuple // &wrapper while mintuple is set
	off      uint32
}

func (m *minimalSlot) init(slot *TupleTableSlot) {
	m.tuple = nil
}

func (m *minimalSlot) release(slot *TupleTableSlot) {}

func (m *minimalSlot) clear(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		m.mintuple.Free()
	}
	m.mintuple = nil
	m.wrapper.Unbind()
	m.tuple = nil
	m.off = 0
	slot.markEmpty()
}

func (m *minimalSlot) getSomeAttrs(slot *TupleTableSlot, natts int) {
	deformHeapTuple(slot, m.tuple, &m.off, natts)
}

func (m *minimalSlot) getSysAttr(slot *TupleTableSlot, attnum int) (types.Value, bool, error) {
	return types.Value{}, true, errors.Wrapf(ErrUnsupportedOperation, "minimal tuple slot has no system attribute %s", tuple.SystemAttributeName(attnum))
}

func (m *minimalSlot) isCurrentXactTuple(slot *TupleTableSlot, txn TransactionIdentity) (bool, error) {
	return false, errors.Wrap(ErrUnsupportedOperation, "minimal tuple slot has no transaction information")
}

func (m *minimalSlot) materialize(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		return
	}
	decoded := slot.nvalid

	if m.mintuple == nil {
		m.mintuple = tuple.FormMinimalTuple(slot.mcxt, slot.desc, slot.values, slot.isnull, 0)
	} else {
		m.mintuple = m.mintuple.Copy(slot.mcxt, 0)
	}
	m.bind()
	slot.nvalid = 0
	m.off = 0
	slot.flags |= FlagShouldFree
	slot.redeform(decoded)
}

func (m *minimalSlot) bind() {
	m.wrapper.BindMinimal(m.mintuple)
	m.tuple = &m.wrapper
}

func (m *minimalSlot) copySlot(dst *TupleTableSlot, src *TupleTableSlot) {
	mintuple := copySourceMinimalTuple(src, dst.mcxt)
	m.storeTuple(dst, mintuple, true)
}

func (m *minimalSlot) storeTuple(slot *TupleTableSlot, mtup *tuple.MinimalTuple, shouldFree bool) {
	m.clear(slot)

	slot.flags &^= FlagEmpty
	slot.nvalid = 0
	m.off = 0
	m.mintuple = mtup
	m.bind()
	if shouldFree {
		slot.flags |= FlagShouldFree
	}
}

func (m *minimalSlot) getHeapTuple(slot *TupleTableSlot) (*tuple.HeapTuple, bool) {
	return nil, false
}

func (m *minimalSlot) getMinimalTuple(slot *TupleTableSlot) (*tuple.MinimalTuple, bool) {
	if m.mintuple == nil {
		m.materialize(slot)
	}
	return m.mintuple, true
}

func (m *minimalSlot) copyHeapTuple(slot *TupleTableSlot, ctx *memory.Context) *tuple.HeapTuple {
	if m.mintuple == nil {
		return formHeapTuple(slot, ctx)
	}
	return m.mintuple.ToHeap(ctx)
}

func (m *minimalSlot) copyMinimalTuple(slot *TupleTableSlot, ctx *memory.Context, extra uint32) *tuple.MinimalTuple {
	if m.mintuple == nil {
		return tuple.FormMinimalTuple(ctx, slot.desc, slot.values, slot.isnull, extra)
	}
	return m.mintuple.Copy(ctx, extra)
}
