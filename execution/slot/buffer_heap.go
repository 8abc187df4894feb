package slot

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/tuple"
)

// bufferHeapSlot is a heap slot whose tuple may live inside a buffer page.
// While pg is set the slot holds one pin on it and FlagShouldFree is unset.
type bufferHeapSlot struct {
	heapSlot
	pg  page.PageIF
	bpm BufferManager
}

func (b *bufferHeapSlot) clear(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		common.SH_Assert(b.pg == nil, "buffer slot owns its tuple and holds a pin")
		b.tuple.Free()
	}
	b.releasePin()
	b.tuple = nil
	b.off = 0
	slot.markEmpty()
}

func (b *bufferHeapSlot) releasePin() {
	if b.pg == nil {
		return
	}
	if err := b.bpm.UnpinPage(b.pg.GetPageId(), false); err != nil {
		common.ShPrintf(common.WARN, "buffer slot: unpin of page %d failed: %v\n", b.pg.GetPageId(), err)
	}
	b.pg = nil
	b.bpm = nil
}

// materialize copies the tuple out of the page and drops the pin.
func (b *bufferHeapSlot) materialize(slot *TupleTableSlot) {
	if slot.ShouldFree() {
		return
	}
	decoded := slot.nvalid

	if b.tuple == nil {
		b.tuple = formHeapTuple(slot, slot.mcxt)
	} else {
		b.tuple = b.tuple.Copy(slot.mcxt)
	}
	b.releasePin()
	slot.nvalid = 0
	b.off = 0
	slot.flags |= FlagShouldFree
	slot.redeform(decoded)
}

// copySlot shares the page of a pinned source tuple, taking its own pin, and
// copies everything else. A short tuple is never shared, its missing
// attributes follow the source's policy.
func (b *bufferHeapSlot) copySlot(dst *TupleTableSlot, src *TupleTableSlot) {
	if bsrc, ok := src.ops.(*bufferHeapSlot); ok && !src.ShouldFree() && bsrc.tuple != nil && bsrc.pg != nil && !src.hasShortTuple() {
		b.storeTuple(dst, bsrc.tuple, bsrc.pg, bsrc.bpm, false)
		dst.tid = src.tid
		dst.tableOid = src.tableOid
		return
	}

	b.clear(dst)
	dst.flags &^= FlagEmpty
	b.tuple = copySourceHeapTuple(src, dst.mcxt)
	dst.tid = b.tuple.GetSelf()
	dst.tableOid = b.tuple.GetTableOid()
	dst.flags |= FlagShouldFree
}

// storeTuple makes t, which lives in pg, the slot's row. The pin of a
// previous page is released. With transferPin the caller's pin on pg passes
// to the slot, otherwise the slot takes its own.
func (b *bufferHeapSlot) storeTuple(slot *TupleTableSlot, t *tuple.HeapTuple, pg page.PageIF, bpm BufferManager, transferPin bool) {
	if slot.ShouldFree() {
		b.tuple.Free()
		slot.flags &^= FlagShouldFree
	}

	slot.flags &^= FlagEmpty | FlagSlow
	slot.nvalid = 0
	b.tuple = t
	b.off = 0
	slot.tid = t.GetSelf()
	slot.tableOid = t.GetTableOid()

	if b.pg != pg {
		b.releasePin()
		b.pg = pg
		b.bpm = bpm
		if !transferPin {
			bpm.IncPinOfPage(pg)
		}
	} else if transferPin {
		// the slot already holds a pin on this page
		if err := bpm.UnpinPage(pg.GetPageId(), false); err != nil {
			common.ShPrintf(common.WARN, "buffer slot: unpin of page %d failed: %v\n", pg.GetPageId(), err)
		}
	}
}

// getHeapTuple needs the buffer slot's materialize.
func (b *bufferHeapSlot) getHeapTuple(slot *TupleTableSlot) (*tuple.HeapTuple, bool) {
	if b.tuple == nil {
		b.materialize(slot)
	}
	return b.tuple, true
}
