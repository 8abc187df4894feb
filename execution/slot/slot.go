// Package slot provides tuple table slots: the containers through which
// executor nodes pass rows.
//
// A slot exposes the attributes of one row whatever holds its bytes. Four
// kinds exist. A virtual slot holds values only. A heap slot references a
// heap tuple in memory. A buffer slot references a heap tuple inside a buffer
// page and keeps that page pinned. A minimal slot references a minimal tuple.
// Attributes are decoded lazily: reading attribute k decodes attributes up to
// k and no further, and remembers how far it got.
//
// By-reference values read from a slot point into memory the slot (or
// whatever the slot borrows from) keeps alive. They stay valid until the slot
// is cleared, stores another row, or is materialized.
//
// Slots are not safe for concurrent use.
package slot

import (
	"fmt"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

type SlotKind int32

const (
	KindVirtual SlotKind = iota
	KindHeapTuple
	KindBufferHeapTuple
	KindMinimalTuple
)

func (k SlotKind) String() string {
	switch k {
	case KindVirtual:
		return "Virtual"
	case KindHeapTuple:
		return "HeapTuple"
	case KindBufferHeapTuple:
		return "BufferHeapTuple"
	case KindMinimalTuple:
		return "MinimalTuple"
	}
	return fmt.Sprintf("SlotKind(%d)", int32(k))
}

type SlotFlags uint16

const (
	// FlagEmpty is set while the slot holds no row.
	FlagEmpty SlotFlags = 1 << iota
	// FlagShouldFree is set when the slot owns the memory of its row.
	FlagShouldFree
	// FlagSlow is set when the decoder passed a null or variable width
	// attribute and can no longer use cached column offsets.
	FlagSlow
	// FlagFixed is set when the descriptor was given at creation and can not change.
	FlagFixed
)

type TupleTableSlot struct {
	flags    SlotFlags
	nvalid   int // leading attributes of values/isnull which are decoded
	kind     SlotKind
	ops      slotOps
	desc     *schema.Schema
	values   []types.Value
	isnull   []bool
	mcxt     *memory.Context // holds the rows the slot owns
	tid      page.RID
	tableOid types.OID
	missing  MissingAttrPolicy
}

func newSlotOps(kind SlotKind) slotOps {
	switch kind {
	case KindVirtual:
		return &virtualSlot{}
	case KindHeapTuple:
		return &heapSlot{}
	case KindBufferHeapTuple:
		return &bufferHeapSlot{}
	case KindMinimalTuple:
		return &minimalSlot{}
	}
	panic(fmt.Sprintf("unknown slot kind %d", kind))
}

// MakeTupleTableSlot creates an empty slot of kind whose rows are kept in
// mcxt. A slot created with a descriptor keeps it for its whole life; one
// created without gets it from SetDescriptor.
func MakeTupleTableSlot(desc *schema.Schema, kind SlotKind, mcxt *memory.Context) *TupleTableSlot {
	common.SH_Assert(mcxt != nil, "slot: memory context is required")

	slot := &TupleTableSlot{
		flags:   FlagEmpty,
		kind:    kind,
		ops:     newSlotOps(kind),
		mcxt:    mcxt,
		tid:     page.InvalidRID,
		missing: DefaultMissingAttrs,
	}
	if desc != nil {
		slot.flags |= FlagFixed
		slot.bindDescriptor(desc)
	}
	slot.ops.init(slot)

	if common.EnableDebug {
		common.ShPrintf(common.DEBUG_INFO_DETAIL, "MakeTupleTableSlot: kind=%v desc=%v\n", kind, desc)
	}
	return slot
}

// MakeSingleTupleTableSlot creates a slot which does not belong to a tuple
// table. Release it with DropSingleTupleTableSlot.
func MakeSingleTupleTableSlot(desc *schema.Schema, kind SlotKind, mcxt *memory.Context) *TupleTableSlot {
	return MakeTupleTableSlot(desc, kind, mcxt)
}

// DropSingleTupleTableSlot clears slot and releases everything it holds.
func DropSingleTupleTableSlot(slot *TupleTableSlot) {
	slot.Clear()
	slot.ops.release(slot)
	slot.unbindDescriptor()
}

func (slot *TupleTableSlot) bindDescriptor(desc *schema.Schema) {
	desc.IncrRefCount()
	slot.desc = desc
	natts := int(desc.GetColumnCount())
	slot.values = make([]types.Value, natts)
	slot.isnull = make([]bool, natts)
}

func (slot *TupleTableSlot) unbindDescriptor() {
	if slot.desc == nil {
		return
	}
	slot.desc.DecrRefCount()
	slot.desc = nil
	slot.values = nil
	slot.isnull = nil
}

// SetDescriptor clears the slot and binds it to desc.
func (slot *TupleTableSlot) SetDescriptor(desc *schema.Schema) error {
	if slot.flags&FlagFixed != 0 {
		return errors.Wrap(ErrInvalidState, "descriptor of the slot is fixed")
	}
	slot.Clear()
	// take the new reference first, desc may be the current descriptor
	desc.IncrRefCount()
	slot.unbindDescriptor()
	slot.bindDescriptor(desc)
	desc.DecrRefCount()
	return nil
}

// SetMissingAttrPolicy replaces the policy which fills attributes a stored
// tuple is too short to hold.
func (slot *TupleTableSlot) SetMissingAttrPolicy(policy MissingAttrPolicy) {
	slot.missing = policy
}

func (slot *TupleTableSlot) Kind() SlotKind {
	return slot.kind
}

func (slot *TupleTableSlot) IsEmpty() bool {
	return slot.flags&FlagEmpty != 0
}

func (slot *TupleTableSlot) ShouldFree() bool {
	return slot.flags&FlagShouldFree != 0
}

func (slot *TupleTableSlot) Flags() SlotFlags {
	return slot.flags
}

// NValid is the number of leading attributes already decoded.
func (slot *TupleTableSlot) NValid() int {
	return slot.nvalid
}

func (slot *TupleTableSlot) Descriptor() *schema.Schema {
	return slot.desc
}

// Natts is the attribute count of the descriptor, 0 without one.
func (slot *TupleTableSlot) Natts() int {
	return len(slot.values)
}

func (slot *TupleTableSlot) MemoryContext() *memory.Context {
	return slot.mcxt
}

// Values and Nulls expose the attribute arrays. Before StoreVirtualTuple the
// caller fills them; afterwards only the first NValid entries are meaningful.
func (slot *TupleTableSlot) Values() []types.Value {
	return slot.values
}

func (slot *TupleTableSlot) Nulls() []bool {
	return slot.isnull
}

func (slot *TupleTableSlot) TID() page.RID {
	return slot.tid
}

func (slot *TupleTableSlot) SetTID(tid page.RID) {
	slot.tid = tid
}

func (slot *TupleTableSlot) TableOid() types.OID {
	return slot.tableOid
}

func (slot *TupleTableSlot) SetTableOid(oid types.OID) {
	slot.tableOid = oid
}

// PinnedPage returns the page a buffer slot holds a pin on, nil otherwise.
func (slot *TupleTableSlot) PinnedPage() page.PageIF {
	if b, ok := slot.ops.(*bufferHeapSlot); ok {
		return b.pg
	}
	return nil
}

// Clear drops the row. Owned memory is freed and a held pin released. The
// descriptor stays.
func (slot *TupleTableSlot) Clear() {
	if slot.IsEmpty() {
		return
	}
	slot.ops.clear(slot)
}

// markEmpty resets the shared state after a kind specific clear.
func (slot *TupleTableSlot) markEmpty() {
	slot.flags |= FlagEmpty
	slot.flags &^= FlagShouldFree | FlagSlow
	slot.nvalid = 0
	slot.tid = page.InvalidRID
}

// Materialize makes the slot independent of memory it does not own and of
// buffer pins. Calling it again does nothing.
func (slot *TupleTableSlot) Materialize() error {
	if slot.IsEmpty() {
		return errors.Wrap(ErrInvalidState, "materialize an empty slot")
	}
	slot.ops.materialize(slot)
	return nil
}

// CopySlot replaces the contents of dst with those of src, the way dst's kind
// stores rows, and returns dst.
func CopySlot(dst *TupleTableSlot, src *TupleTableSlot) (*TupleTableSlot, error) {
	if src == dst {
		return nil, errors.Wrap(ErrInvalidState, "copy of a slot into itself")
	}
	if src.IsEmpty() {
		return nil, errors.Wrap(ErrInvalidState, "copy from an empty slot")
	}
	if dst.desc == nil {
		return nil, errors.Wrap(ErrInvalidState, "copy into a slot without descriptor")
	}
	if dst.Natts() != src.Natts() {
		return nil, errors.Wrapf(ErrShapeMismatch, "copy of %d attributes into %d", src.Natts(), dst.Natts())
	}
	dst.ops.copySlot(dst, src)
	return dst, nil
}

// storedTuple returns the tuple a physical slot references, nil for virtual
// contents.
func storedTuple(slot *TupleTableSlot) *tuple.HeapTuple {
	switch ops := slot.ops.(type) {
	case *heapSlot:
		return ops.tuple
	case *bufferHeapSlot:
		return ops.tuple
	case *minimalSlot:
		return ops.tuple
	}
	return nil
}

// hasShortTuple reports whether the stored tuple lacks trailing attributes of
// the descriptor. Those are filled by the slot's missing attribute policy, so
// copies of such a slot are formed from its values.
func (slot *TupleTableSlot) hasShortTuple() bool {
	t := storedTuple(slot)
	return t != nil && t.Natts() < slot.Natts()
}

// redeform decodes the first natts attributes again after the stored tuple
// was replaced by a copy, so materializing never lowers nvalid.
func (slot *TupleTableSlot) redeform(natts int) {
	if natts == 0 {
		return
	}
	if err := slot.GetSomeAttrs(natts); err != nil {
		panic(err)
	}
}

func (slot *TupleTableSlot) deformAllForCopy() {
	if err := slot.GetAllAttrs(); err != nil {
		panic(err)
	}
}

// copySourceHeapTuple is src's heap tuple copied into ctx for a CopySlot.
func copySourceHeapTuple(src *TupleTableSlot, ctx *memory.Context) *tuple.HeapTuple {
	if src.hasShortTuple() {
		src.deformAllForCopy()
		return formHeapTuple(src, ctx)
	}
	return src.ops.copyHeapTuple(src, ctx)
}

// copySourceMinimalTuple is src's minimal tuple copied into ctx for a CopySlot.
func copySourceMinimalTuple(src *TupleTableSlot, ctx *memory.Context) *tuple.MinimalTuple {
	if src.hasShortTuple() {
		src.deformAllForCopy()
		return tuple.FormMinimalTuple(ctx, src.desc, src.values, src.isnull, 0)
	}
	return src.ops.copyMinimalTuple(src, ctx, 0)
}

// GetSysAttr returns the system attribute attnum (a negative number).
func (slot *TupleTableSlot) GetSysAttr(attnum int) (types.Value, bool, error) {
	if !tuple.IsSystemAttribute(attnum) {
		return types.Value{}, true, errors.Wrapf(ErrInvalidAttribute, "%d is not a system attribute", attnum)
	}
	if slot.IsEmpty() {
		return types.Value{}, true, errors.Wrap(ErrInvalidState, "system attribute of an empty slot")
	}
	return slot.ops.getSysAttr(slot, attnum)
}

// IsCurrentXactTuple reports whether txn inserted the stored row.
func (slot *TupleTableSlot) IsCurrentXactTuple(txn TransactionIdentity) (bool, error) {
	if slot.IsEmpty() {
		return false, errors.Wrap(ErrInvalidState, "transaction check on an empty slot")
	}
	return slot.ops.isCurrentXactTuple(slot, txn)
}

// GetHeapTuple returns the heap tuple the slot holds, materializing virtual
// contents of a heap or buffer slot first. The tuple stays owned by the slot.
// ok is false for kinds which do not hold heap tuples.
func (slot *TupleTableSlot) GetHeapTuple() (*tuple.HeapTuple, bool, error) {
	if slot.IsEmpty() {
		return nil, false, errors.Wrap(ErrInvalidState, "heap tuple of an empty slot")
	}
	t, ok := slot.ops.getHeapTuple(slot)
	return t, ok, nil
}

// GetMinimalTuple is GetHeapTuple for minimal tuples.
func (slot *TupleTableSlot) GetMinimalTuple() (*tuple.MinimalTuple, bool, error) {
	if slot.IsEmpty() {
		return nil, false, errors.Wrap(ErrInvalidState, "minimal tuple of an empty slot")
	}
	t, ok := slot.ops.getMinimalTuple(slot)
	return t, ok, nil
}

// CopyHeapTuple returns a heap tuple of the row allocated in ctx. The slot
// does not change.
func (slot *TupleTableSlot) CopyHeapTuple(ctx *memory.Context) (*tuple.HeapTuple, error) {
	if slot.IsEmpty() {
		return nil, errors.Wrap(ErrInvalidState, "copy of an empty slot")
	}
	return slot.ops.copyHeapTuple(slot, ctx), nil
}

// CopyMinimalTuple returns a minimal tuple of the row allocated in ctx with
// extra bytes reserved in front of it. The slot does not change.
func (slot *TupleTableSlot) CopyMinimalTuple(ctx *memory.Context, extra uint32) (*tuple.MinimalTuple, error) {
	if slot.IsEmpty() {
		return nil, errors.Wrap(ErrInvalidState, "copy of an empty slot")
	}
	return slot.ops.copyMinimalTuple(slot, ctx, extra), nil
}

func (slot *TupleTableSlot) String() string {
	if slot.IsEmpty() {
		return fmt.Sprintf("%v slot (empty)", slot.kind)
	}
	ret := fmt.Sprintf("%v slot [", slot.kind)
	for i := 0; i < slot.nvalid; i++ {
		if i > 0 {
			ret += ", "
		}
		if slot.isnull[i] {
			ret += "NULL"
		} else {
			ret += slot.values[i].String()
		}
	}
	if slot.nvalid < slot.Natts() {
		ret += fmt.Sprintf(" +%d undecoded", slot.Natts()-slot.nvalid)
	}
	return ret + "]"
}
