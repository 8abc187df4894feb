package slot

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/table/schema"
	"golang.org/x/exp/slices"
)

// TupleTable owns the slots of one query. All of them keep their rows in the
// table's memory context.
type TupleTable struct {
	mcxt    *memory.Context
	slots   []*TupleTableSlot
	members mapset.Set[*TupleTableSlot]
}

func NewTupleTable(mcxt *memory.Context) *TupleTable {
	common.SH_Assert(mcxt != nil, "tuple table: memory context is required")
	return &TupleTable{
		mcxt:    mcxt,
		slots:   make([]*TupleTableSlot, 0),
		members: mapset.NewThreadUnsafeSet[*TupleTableSlot](),
	}
}

// AllocSlot creates a slot of kind and adds it to the table.
func (tt *TupleTable) AllocSlot(desc *schema.Schema, kind SlotKind) *TupleTableSlot {
	slot := MakeTupleTableSlot(desc, kind, tt.mcxt)
	tt.slots = append(tt.slots, slot)
	tt.members.Add(slot)
	return slot
}

// Reset clears every slot, releasing pins and owned rows, and drops the
// descriptor references. With shouldFree the slots are also removed from the
// table. Without it they stay listed, which suits a caller about to throw
// away the whole memory context anyway.
func (tt *TupleTable) Reset(shouldFree bool) {
	for _, slot := range tt.slots {
		slot.Clear()
		slot.ops.release(slot)
		slot.unbindDescriptor()
	}
	if shouldFree {
		tt.slots = tt.slots[:0]
		tt.members.Clear()
	}
	common.ShPrintf(common.DEBUG_INFO, "TupleTable.Reset: shouldFree=%v remaining=%d\n", shouldFree, len(tt.slots))
}

func (tt *TupleTable) Len() int {
	return len(tt.slots)
}

// Slots returns the slots in allocation order.
func (tt *TupleTable) Slots() []*TupleTableSlot {
	return slices.Clone(tt.slots)
}

func (tt *TupleTable) Contains(slot *TupleTableSlot) bool {
	return tt.members.Contains(slot)
}

func (tt *TupleTable) MemoryContext() *memory.Context {
	return tt.mcxt
}
