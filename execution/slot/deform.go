package slot

import (
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

// GetAttr returns attribute attnum (1-based) of the stored row and whether it
// is null. Negative numbers address system attributes.
func (slot *TupleTableSlot) GetAttr(attnum int) (types.Value, bool, error) {
	if attnum > 0 && attnum <= slot.nvalid {
		return slot.values[attnum-1], slot.isnull[attnum-1], nil
	}
	if attnum < 0 {
		return slot.GetSysAttr(attnum)
	}
	if err := slot.GetSomeAttrs(attnum); err != nil {
		return types.Value{}, true, err
	}
	return slot.values[attnum-1], slot.isnull[attnum-1], nil
}

// AttIsNull reports whether attribute attnum (1-based) is null.
func (slot *TupleTableSlot) AttIsNull(attnum int) (bool, error) {
	if attnum > 0 && attnum <= slot.nvalid {
		return slot.isnull[attnum-1], nil
	}
	if err := slot.GetSomeAttrs(attnum); err != nil {
		return true, err
	}
	return slot.isnull[attnum-1], nil
}

// GetSomeAttrs makes at least the first attnum attributes available in
// Values and Nulls.
func (slot *TupleTableSlot) GetSomeAttrs(attnum int) error {
	if slot.IsEmpty() {
		return errors.Wrapf(ErrInvalidState, "attribute %d of an empty slot", attnum)
	}
	if attnum <= 0 || attnum > slot.Natts() {
		return errors.Wrapf(ErrInvalidAttribute, "attribute %d of a row with %d attributes", attnum, slot.Natts())
	}
	if attnum <= slot.nvalid {
		return nil
	}

	slot.ops.getSomeAttrs(slot, attnum)

	// the tuple may have fewer attributes than the descriptor
	if slot.nvalid < attnum {
		slot.missing(slot.desc, slot.nvalid, attnum, slot.values, slot.isnull)
		slot.nvalid = attnum
	}
	return nil
}

// GetAllAttrs decodes every attribute.
func (slot *TupleTableSlot) GetAllAttrs() error {
	if slot.IsEmpty() {
		return errors.Wrap(ErrInvalidState, "attributes of an empty slot")
	}
	if slot.Natts() == 0 {
		return nil
	}
	return slot.GetSomeAttrs(slot.Natts())
}

// deformHeapTuple decodes attributes of t from slot.nvalid up to natts into
// the slot. *offp keeps the data offset of the next attribute between calls,
// so decoding resumes where the previous call stopped. Cached column offsets
// are used until a null or variable width attribute is passed.
func deformHeapTuple(slot *TupleTableSlot, t *tuple.HeapTuple, offp *uint32, natts int) {
	tupNatts := t.Natts()
	if natts > tupNatts {
		natts = tupNatts
	}

	attnum := slot.nvalid
	var off uint32
	var slow bool
	if attnum == 0 {
		off = 0
		slow = false
	} else {
		off = *offp
		slow = slot.flags&FlagSlow != 0
	}

	data := t.DataArea()
	hasNulls := t.HasNulls()
	for ; attnum < natts; attnum++ {
		col := slot.desc.GetColumn(uint32(attnum))

		if hasNulls && t.AttIsNull(attnum) {
			slot.values[attnum] = types.Value{}
			slot.isnull[attnum] = true
			slow = true
			continue
		}
		slot.isnull[attnum] = false

		if !slow && col.GetCacheOffset() >= 0 {
			off = uint32(col.GetCacheOffset())
		}
		var n uint32
		slot.values[attnum], n = types.DecodeValue(data[off:], col.GetType())
		off += n
		if col.IsByRef() {
			slow = true
		}
	}

	slot.nvalid = attnum
	*offp = off
	if slow {
		slot.flags |= FlagSlow
	} else {
		slot.flags &^= FlagSlow
	}
}
