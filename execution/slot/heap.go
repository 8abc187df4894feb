package slot

import (
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

// heapSlot references a heap tuple. The slot frees it on clear when
// FlagShouldFree is set. tuple is nil while the slot holds virtual contents.
type heapSlot struct {
	tuple *tuple.HeapTuple
	off   uint32 // data offset of attribute nvalid+1, kept for the decoder
}

func (h *heapSlot) init(slot *TupleTableSlot) {}

func (h *heapSlot) release(slot *TupleTableSlot) {}

func (h *heapSlot) clear(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		h.tuple.Free()
	}
	h.tuple = nil
	h.off = 0
	slot.markEmpty()
}

func (h *heapSlot) getSomeAttrs(slot *TupleTableSlot, natts int) {
	deformHeapTuple(slot, h.tuple, &h.off, natts)
}

// getSysAttr serves the row id and table oid from the slot and the rest
// from the tuple header.
func (h *heapSlot) getSysAttr(slot *TupleTableSlot, attnum int) (types.Value, bool, error) {
	switch attnum {
	case tuple.SelfItemPointerAttributeNumber:
		return types.NewBigInt(slot.tid.Pack()), false, nil
	case tuple.TableOidAttributeNumber:
		return types.NewBigInt(int64(slot.tableOid)), false, nil
	}
	if h.tuple == nil {
		return types.Value{}, true, errors.Wrapf(ErrUnsupportedOperation, "no stored tuple to read %s from", tuple.SystemAttributeName(attnum))
	}
	v, isnull := h.tuple.GetSysAttr(attnum)
	return v, isnull, nil
}

func (h *heapSlot) isCurrentXactTuple(slot *TupleTableSlot, txn TransactionIdentity) (bool, error) {
	if h.tuple == nil {
		return false, errors.Wrap(ErrUnsupportedOperation, "no stored tuple to check")
	}
	return h.tuple.Xmin() == txn.GetTransactionId(), nil
}

// materialize copies a borrowed tuple, or forms one from virtual contents,
// into the slot's context. Decoded values pointed into the old bytes, so
// decoding starts over.
func (h *heapSlot) materialize(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		return
	}
	decoded := slot.nvalid

	if h.tuple == nil {
		h.tuple = formHeapTuple(slot, slot.mcxt)
	} else {
		h.tuple = h.tuple.Copy(slot.mcxt)
	}
	slot.nvalid = 0
	h.off = 0
	slot.flags |= FlagShouldFree
	slot.redeform(decoded)
}

func (h *heapSlot) copySlot(dst *TupleTableSlot, src *TupleTableSlot) {
	t := copySourceHeapTuple(src, dst.mcxt)
	h.storeTuple(dst, t, true)
}

func (h *heapSlot) storeTuple(slot *TupleTableSlot, t *tuple.HeapTuple, shouldFree bool) {
	h.clear(slot)

	slot.flags &^= FlagEmpty
	slot.nvalid = 0
	h.tuple = t
	h.off = 0
	slot.tid = t.GetSelf()
	slot.tableOid = t.GetTableOid()
	if shouldFree {
		slot.flags |= FlagShouldFree
	}
}

func (h *heapSlot) getHeapTuple(slot *TupleTableSlot) (*tuple.HeapTuple, bool) {
	if h.tuple == nil {
		h.materialize(slot)
	}
	return h.tuple, true
}

func (h *heapSlot) getMinimalTuple(slot *TupleTableSlot) (*tuple.MinimalTuple, bool) {
	return nil, false
}

func (h *heapSlot) copyHeapTuple(slot *TupleTableSlot, ctx *memory.Context) *tuple.HeapTuple {
	if h.tuple == nil {
		return formHeapTuple(slot, ctx)
	}
	return h.tuple.Copy(ctx)
}

func (h *heapSlot) copyMinimalTuple(slot *TupleTableSlot, ctx *memory.Context, extra uint32) *tuple.MinimalTuple {
	if h.tuple == nil {
		return tuple.FormMinimalTuple(ctx, slot.desc, slot.values, slot.isnull, extra)
	}
	return h.tuple.ToMinimal(ctx, extra)
}
