package slot

import (
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

// virtualSlot keeps no tuple; values are the row. By-reference values may
// borrow memory of another slot until materialize copies them into data.
type virtualSlot struct {
	data []byte // chunk of slot.mcxt holding materialized payloads
}

func (v *virtualSlot) init(slot *TupleTableSlot) {}

func (v *virtualSlot) release(slot *TupleTableSlot) {}

func (v *virtualSlot) clear(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		slot.mcxt.Free(v.data)
		v.data = nil
	}
	slot.markEmpty()
}

// Contents of a virtual slot are always fully available.
func (v *virtualSlot) getSomeAttrs(slot *TupleTableSlot, natts int) {
	panic("getSomeAttrs is never needed on a virtual slot")
}

func (v *virtualSlot) getSysAttr(slot *TupleTableSlot, attnum int) (types.Value, bool, error) {
	return types.Value{}, true, errors.Wrapf(ErrUnsupportedOperation, "virtual slot has no system attribute %s", tuple.SystemAttributeName(attnum))
}

func (v *virtualSlot) isCurrentXactTuple(slot *TupleTableSlot, txn TransactionIdentity) (bool, error) {
	return false, errors.Wrap(ErrUnsupportedOperation, "virtual slot has no tuple")
}

// materialize copies every by-reference value into one chunk owned by the slot.
func (v *virtualSlot) materialize(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		return
	}

	sz := uint32(0)
	for i := 0; i < slot.Natts(); i++ {
		if !slot.isnull[i] {
			sz += slot.values[i].PayloadSize()
		}
	}
	if sz == 0 {
		return
	}

	v.data = slot.mcxt.Alloc(int(sz))
	slot.flags |= FlagShouldFree

	off := uint32(0)
	for i := 0; i < slot.Natts(); i++ {
		if slot.isnull[i] || !slot.values[i].IsByRef() {
			continue
		}
		var n uint32
		slot.values[i], n = slot.values[i].Detach(v.data[off:])
		off += n
	}
}

func (v *virtualSlot) copySlot(dst *TupleTableSlot, src *TupleTableSlot) {
	v.clear(dst)
	if err := src.GetAllAttrs(); err != nil {
		panic(err)
	}
	copy(dst.values, src.values)
	copy(dst.isnull, src.isnull)
	dst.nvalid = dst.Natts()
	dst.flags &^= FlagEmpty
	dst.tid = src.tid
	dst.tableOid = src.tableOid

	// make the copy independent of src
	v.materialize(dst)
}

func (v *virtualSlot) getHeapTuple(slot *TupleTableSlot) (*tuple.HeapTuple, bool) {
	return nil, false
}

func (v *virtualSlot) getMinimalTuple(slot *TupleTableSlot) (*tuple.MinimalTuple, bool) {
	return nil, false
}

func (v *virtualSlot) copyHeapTuple(slot *TupleTableSlot, ctx *memory.Context) *tuple.HeapTuple {
	return formHeapTuple(slot, ctx)
}

func (v *virtualSlot) copyMinimalTuple(slot *TupleTableSlot, ctx *memory.Context, extra uint32) *tuple.MinimalTuple {
	return tuple.FormMinimalTuple(ctx, slot.desc, slot.values, slot.isnull, extra)
}

// formHeapTuple encodes the values of a slot with virtual contents.
func formHeapTuple(slot *TupleTableSlot, ctx *memory.Context) *tuple.HeapTuple {
	ret := tuple.FormHeapTuple(ctx, slot.desc, slot.values, slot.isnull)
	ret.SetSelf(slot.tid)
	ret.SetTableOid(slot.tableOid)
	return ret
}
