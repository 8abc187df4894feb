package slot

import (
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
)

// slotOps is the behavior table of a slot kind. Each kind has its own
// implementation, created with the slot and holding the kind's own fields.
// The methods get the owning slot for the shared state.
type slotOps interface {
	init(slot *TupleTableSlot)
	release(slot *TupleTableSlot)
	// clear drops the contents and leaves the slot empty.
	clear(slot *TupleTableSlot)
	// getSomeAttrs fills values and isnull up to natts, or fewer when the
	// stored tuple is shorter, and advances nvalid.
	getSomeAttrs(slot *TupleTableSlot, natts int)
	getSysAttr(slot *TupleTableSlot, attnum int) (types.Value, bool, error)
	isCurrentXactTuple(slot *TupleTableSlot, txn TransactionIdentity) (bool, error)
	// materialize makes the contents independent of anything the slot does not own.
	materialize(slot *TupleTableSlot)
	// copySlot replaces the contents of dst (the slot owning these ops) with those of src.
	copySlot(dst *TupleTableSlot, src *TupleTableSlot)
	// getHeapTuple and getMinimalTuple return the slot's own tuple. ok is
	// false when the kind does not keep a tuple of that format.
	getHeapTuple(slot *TupleTableSlot) (*tuple.HeapTuple, bool)
	getMinimalTuple(slot *TupleTableSlot) (*tuple.MinimalTuple, bool)
	// copyHeapTuple and copyMinimalTuple return a new tuple allocated in ctx
	// and leave the slot untouched.
	copyHeapTuple(slot *TupleTableSlot, ctx *memory.Context) *tuple.HeapTuple
	copyMinimalTuple(slot *TupleTableSlot, ctx *memory.Context, extra uint32) *tuple.MinimalTuple
}

// BufferManager is what buffer slots need from the buffer pool: adding a
// pin to a page already pinned by the caller, and dropping one.
type BufferManager interface {
	IncPinOfPage(page.PageIF)
	UnpinPage(types.PageID, bool) error
}

// TransactionIdentity identifies the running transaction.
type TransactionIdentity interface {
	GetTransactionId() types.TxnID
}

// MissingAttrPolicy fills values and isnull for the attributes startAttno up
// to lastAttno (0-based, exclusive) which the stored tuple is too short to
// hold. The filled values are cached in the slot like decoded ones.
type MissingAttrPolicy func(desc *schema.Schema, startAttno int, lastAttno int, values []types.Value, isnull []bool)

// DefaultMissingAttrs uses the missing value of each column and NULL for
// columns without one.
func DefaultMissingAttrs(desc *schema.Schema, startAttno int, lastAttno int, values []types.Value, isnull []bool) {
	for i := startAttno; i < lastAttno; i++ {
		missing, ok := desc.GetColumn(uint32(i)).GetMissing()
		if ok && missing.IsValid() {
			values[i] = missing
			isnull[i] = false
		} else {
			values[i] = types.Value{}
			isnull[i] = true
		}
	}
}

// NullMissingAttrs reads every missing attribute as NULL.
func NullMissingAttrs(desc *schema.Schema, startAttno int, lastAttno int, values []types.Value, isnull []bool) {
	for i := startAttno; i < lastAttno; i++ {
		values[i] = types.Value{}
		isnull[i] = true
	}
}
