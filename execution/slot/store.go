package slot

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

func (slot *TupleTableSlot) checkStorable() error {
	if slot.desc == nil {
		return errors.Wrap(ErrInvalidState, "store into a slot without descriptor")
	}
	return nil
}

// StoreHeapTuple makes t the row of a heap slot. With shouldFree the slot
// frees t when it is done with it, so t must be owned by a memory context.
func (slot *TupleTableSlot) StoreHeapTuple(t *tuple.HeapTuple, shouldFree bool) error {
	common.SH_Assert(t != nil, "slot: nil heap tuple")
	h, ok := slot.ops.(*heapSlot)
	if !ok {
		return errors.Wrapf(ErrWrongSlotKind, "heap tuple into %v slot", slot.kind)
	}
	if err := slot.checkStorable(); err != nil {
		return err
	}
	h.storeTuple(slot, t, shouldFree)
	return nil
}

// StoreBufferHeapTuple makes t, which lives in the pinned page pg, the row of
// a buffer slot. The slot takes a pin of its own; the caller keeps its pin.
func (slot *TupleTableSlot) StoreBufferHeapTuple(t *tuple.HeapTuple, pg page.PageIF, bpm BufferManager) error {
	common.SH_Assert(t != nil && pg != nil && bpm != nil, "slot: buffer store needs tuple, page and buffer manager")
	b, ok := slot.ops.(*bufferHeapSlot)
	if !ok {
		return errors.Wrapf(ErrWrongSlotKind, "buffer tuple into %v slot", slot.kind)
	}
	if err := slot.checkStorable(); err != nil {
		return err
	}
	b.storeTuple(slot, t, pg, bpm, false)
	return nil
}

// StorePinnedBufferHeapTuple is StoreBufferHeapTuple where the caller's pin
// passes to the slot. The pin is released also when the store fails.
func (slot *TupleTableSlot) StorePinnedBufferHeapTuple(t *tuple.HeapTuple, pg page.PageIF, bpm BufferManager) error {
	common.SH_Assert(t != nil && pg != nil && bpm != nil, "slot: buffer store needs tuple, page and buffer manager")
	b, ok := slot.ops.(*bufferHeapSlot)
	var err error
	if !ok {
		err = errors.Wrapf(ErrWrongSlotKind, "buffer tuple into %v slot", slot.kind)
	} else {
		err = slot.checkStorable()
	}
	if err != nil {
		if uerr := bpm.UnpinPage(pg.GetPageId(), false); uerr != nil {
			common.ShPrintf(common.WARN, "StorePinnedBufferHeapTuple: unpin of page %d failed: %v\n", pg.GetPageId(), uerr)
		}
		return err
	}
	b.storeTuple(slot, t, pg, bpm, true)
	return nil
}

// StoreMinimalTuple makes m the row of a minimal slot.
func (slot *TupleTableSlot) StoreMinimalTuple(m *tuple.MinimalTuple, shouldFree bool) error {
	common.SH_Assert(m != nil, "slot: nil minimal tuple")
	ms, ok := slot.ops.(*minimalSlot)
	if !ok {
		return errors.Wrapf(ErrWrongSlotKind, "minimal tuple into %v slot", slot.kind)
	}
	if err := slot.checkStorable(); err != nil {
		return err
	}
	ms.storeTuple(slot, m, shouldFree)
	return nil
}

// ForceStoreHeapTuple stores t into a slot of any kind, converting it when
// the kind keeps rows in another form. With shouldFree t is freed once the
// slot no longer needs it.
func (slot *TupleTableSlot) ForceStoreHeapTuple(t *tuple.HeapTuple, shouldFree bool) error {
	common.SH_Assert(t != nil, "slot: nil heap tuple")
	if err := slot.checkStorable(); err != nil {
		return err
	}

	switch ops := slot.ops.(type) {
	case *heapSlot:
		ops.storeTuple(slot, t, shouldFree)
		return nil
	case *bufferHeapSlot:
		// a tuple without page goes into slot memory
		slot.Clear()
		slot.flags &^= FlagEmpty
		ops.tuple = t.Copy(slot.mcxt)
		ops.off = 0
		slot.tid = t.GetSelf()
		slot.tableOid = t.GetTableOid()
		slot.flags |= FlagShouldFree
		if shouldFree {
			t.Free()
		}
		return nil
	}

	slot.Clear()
	slot.deformInto(t)
	if err := slot.StoreVirtualTuple(); err != nil {
		return err
	}
	slot.tid = t.GetSelf()
	slot.tableOid = t.GetTableOid()
	if shouldFree {
		slot.ops.materialize(slot)
		t.Free()
	}
	return nil
}

// ForceStoreMinimalTuple is ForceStoreHeapTuple for minimal tuples.
func (slot *TupleTableSlot) ForceStoreMinimalTuple(m *tuple.MinimalTuple, shouldFree bool) error {
	common.SH_Assert(m != nil, "slot: nil minimal tuple")
	if err := slot.checkStorable(); err != nil {
		return err
	}

	if ms, ok := slot.ops.(*minimalSlot); ok {
		ms.storeTuple(slot, m, shouldFree)
		return nil
	}

	slot.Clear()
	var wrapper tuple.HeapTuple
	wrapper.BindMinimal(m)
	slot.deformInto(&wrapper)
	if err := slot.StoreVirtualTuple(); err != nil {
		return err
	}
	if shouldFree {
		slot.ops.materialize(slot)
		m.Free()
	}
	return nil
}

// deformInto decodes every attribute of t into the values of the empty slot.
func (slot *TupleTableSlot) deformInto(t *tuple.HeapTuple) {
	var off uint32
	natts := slot.Natts()
	deformHeapTuple(slot, t, &off, natts)
	if slot.nvalid < natts {
		slot.missing(slot.desc, slot.nvalid, natts, slot.values, slot.isnull)
	}
	slot.nvalid = 0
	slot.flags &^= FlagSlow
}

// StoreVirtualTuple marks the values the caller put into Values and Nulls of
// the empty slot as its row.
func (slot *TupleTableSlot) StoreVirtualTuple() error {
	if !slot.IsEmpty() {
		return errors.Wrap(ErrInvalidState, "virtual store into a slot which is not empty")
	}
	if err := slot.checkStorable(); err != nil {
		return err
	}
	slot.flags &^= FlagEmpty
	slot.nvalid = slot.Natts()
	return nil
}

// StoreAllNullTuple stores a row whose attributes are all NULL.
func (slot *TupleTableSlot) StoreAllNullTuple() error {
	if err := slot.checkStorable(); err != nil {
		return err
	}
	slot.Clear()
	for i := range slot.values {
		slot.values[i] = types.Value{}
		slot.isnull[i] = true
	}
	return slot.StoreVirtualTuple()
}

// FetchHeapTuple returns the row as a heap tuple. With materialize the slot is
// made independent first. shouldFree tells whether the tuple is a copy in ctx
// which the caller must free; otherwise the slot keeps owning it.
func (slot *TupleTableSlot) FetchHeapTuple(ctx *memory.Context, materialize bool) (*tuple.HeapTuple, bool, error) {
	if slot.IsEmpty() {
		return nil, false, errors.Wrap(ErrInvalidState, "fetch from an empty slot")
	}
	if materialize {
		slot.ops.materialize(slot)
	}
	if t, ok := slot.ops.getHeapTuple(slot); ok {
		return t, false, nil
	}
	return slot.ops.copyHeapTuple(slot, ctx), true, nil
}

// FetchMinimalTuple is FetchHeapTuple for minimal tuples.
func (slot *TupleTableSlot) FetchMinimalTuple(ctx *memory.Context) (*tuple.MinimalTuple, bool, error) {
	if slot.IsEmpty() {
		return nil, false, errors.Wrap(ErrInvalidState, "fetch from an empty slot")
	}
	if m, ok := slot.ops.getMinimalTuple(slot); ok {
		return m, false, nil
	}
	return slot.ops.copyMinimalTuple(slot, ctx, 0), true, nil
}
