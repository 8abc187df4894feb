// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"encoding/binary"
	"unsafe"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
)

// static constexpr uint64_t DELETE_MASK = (1U << (8 * sizeof(uint32_t) - 1));
const deleteMask = uint32(1 << ((8 * 4) - 1))

const sizeTablePageHeader = uint32(20)
const sizeTuple = uint32(8)
const offSetPrevPageId = uint32(4)
const offSetNextPageId = uint32(8)
const offsetFreeSpace = uint32(12)
const offSetTupleCount = uint32(16)
const offsetTupleOffset = uint32(20)
const offsetTupleSize = uint32(24)

const ErrEmptyTuple = common.Error("tuple cannot be empty")
const ErrNotEnoughSpace = common.Error("there is not enough space")
const ErrInvalidSlot = common.Error("slot number is out of range")
const ErrTupleDeleted = common.Error("tuple is deleted")

// Slotted page format:
//
//	---------------------------------------------------------
//	| HEADER | ... FREE SPACE ... | ... INSERTED TUPLES ... |
//	---------------------------------------------------------
//	                              ^
//	                              free space pointer
//	Header format (size in bytes):
//	--------------------------------------------------------------------
//	| PageId (4)| PrevPageId (4)| NextPageId (4)| FreeSpacePointer(4) |
//	--------------------------------------------------------------------
//	----------------------------------------------------------------
//	| TupleCount (4) | Tuple_1 offset (4) | Tuple_1 size (4) | ... |
//	----------------------------------------------------------------
//
// Tuples are stored in the heap tuple format and never move once inserted.
type TablePage struct {
	page.Page
}

// CastPageAsTablePage casts the abstract Page struct into TablePage
func CastPageAsTablePage(page *page.Page) *TablePage {
	if page == nil {
		return nil
	}

	return (*TablePage)(unsafe.Pointer(page))
}

// Init initializes the table header
func (tp *TablePage) Init(pageId types.PageID, prevPageId types.PageID) {
	tp.SetPageId(pageId)
	tp.SetPrevPageId(prevPageId)
	tp.SetNextPageId(types.InvalidPageID)
	tp.SetTupleCount(0)
	tp.SetFreeSpacePointer(common.PageSize) // point to the end of the page
}

// InsertTuple copies t into the page. The stored copy gets xmin of txn and
// its own location as ctid.
func (tp *TablePage) InsertTuple(t *tuple.HeapTuple, txn *Transaction) (page.RID, error) {
	if common.EnableDebug {
		common.ShPrintf(common.RDB_OP_FUNC_CALL, "TablePage::InsertTuple called. txn.txn_id:%v tuple:%v\n", txn.txn_id, t)
	}
	common.SH_Assert(!t.IsMinimalWrapper(), "TablePage::InsertTuple needs a full tuple")
	size := t.Len()
	if size == 0 {
		return page.InvalidRID, ErrEmptyTuple
	}

	var slot uint32

	// try to find a free slot
	for slot = uint32(0); slot < tp.GetTupleCount(); slot++ {
		if tp.GetTupleSize(slot) == 0 {
			break
		}
	}

	needed := size
	if slot == tp.GetTupleCount() {
		needed += sizeTuple
	}
	if tp.getFreeSpaceRemaining() < needed {
		return page.InvalidRID, ErrNotEnoughSpace
	}

	rid := page.RID{}
	rid.Set(tp.GetTablePageId(), slot)

	fsp := tp.GetFreeSpacePointer() - size
	tp.SetFreeSpacePointer(fsp)
	tp.Copy(fsp, t.Data())
	tp.SetTupleOffsetAtSlot(slot, fsp)
	tp.SetTupleSize(slot, size)

	stored := tuple.NewHeapTupleFromBytes(tp.Data()[fsp:fsp+size:fsp+size], rid, types.InvalidOID)
	stored.SetSelf(rid)
	stored.SetXmin(txn.GetTransactionId())
	stored.SetXmax(types.InvalidTxnID)

	if slot == tp.GetTupleCount() {
		tp.SetTupleCount(tp.GetTupleCount() + 1)
	}
	tp.SetIsDirty(true)
	return rid, nil
}

// MarkDelete flags the tuple deleted and stamps xmax. The space is kept
// until ApplyDelete.
func (tp *TablePage) MarkDelete(rid page.RID, txn *Transaction) error {
	if common.EnableDebug {
		common.ShPrintf(common.RDB_OP_FUNC_CALL, "TablePage::MarkDelete called. txn.txn_id:%v rid:%v\n", txn.txn_id, rid)
	}
	slotNum := rid.GetSlotNum()
	if slotNum >= tp.GetTupleCount() {
		return ErrInvalidSlot
	}
	tupleSize := tp.GetTupleSize(slotNum)
	if IsDeleted(tupleSize) {
		return ErrTupleDeleted
	}

	tp.tupleAt(rid, tupleSize).SetXmax(txn.GetTransactionId())
	tp.SetTupleSize(slotNum, SetDeletedFlag(tupleSize))
	tp.SetIsDirty(true)
	return nil
}

// ApplyDelete frees the slot of a tuple flagged by MarkDelete.
func (tp *TablePage) ApplyDelete(rid page.RID) {
	slotNum := rid.GetSlotNum()
	common.SH_Assert(slotNum < tp.GetTupleCount(), "Cannot have more slots than tuples.")
	tp.SetTupleSize(slotNum, 0)
	tp.SetIsDirty(true)
}

// RollbackDelete undoes MarkDelete.
func (tp *TablePage) RollbackDelete(rid page.RID) {
	slotNum := rid.GetSlotNum()
	common.SH_Assert(slotNum < tp.GetTupleCount(), "We can't have more slots than tuples.")
	tupleSize := UnsetDeletedFlag(tp.GetTupleSize(slotNum))
	if tupleSize == 0 {
		return
	}
	tp.tupleAt(rid, tupleSize).SetXmax(types.InvalidTxnID)
	tp.SetTupleSize(slotNum, tupleSize)
	tp.SetIsDirty(true)
}

func (tp *TablePage) tupleAt(rid page.RID, size uint32) *tuple.HeapTuple {
	off := tp.GetTupleOffsetAtSlot(rid.GetSlotNum())
	return tuple.NewHeapTupleFromBytes(tp.Data()[off:off+size:off+size], rid, types.InvalidOID)
}

// GetTuple returns the tuple at rid. Its bytes are the page's: the caller
// keeps the page pinned while the tuple is in use.
func (tp *TablePage) GetTuple(rid page.RID, tableOid types.OID) (*tuple.HeapTuple, error) {
	// If somehow we have more slots than tuples, abort
	if rid.GetSlotNum() >= tp.GetTupleCount() {
		return nil, ErrInvalidSlot
	}

	tupleSize := tp.GetTupleSize(rid.GetSlotNum())
	// If the tuple is deleted, abort the access.
	if IsDeleted(tupleSize) {
		return nil, ErrTupleDeleted
	}

	ret := tp.tupleAt(rid, tupleSize)
	ret.SetTableOid(tableOid)
	return ret, nil
}

func (tp *TablePage) SetPageId(pageId types.PageID) {
	tp.Copy(0, pageId.Serialize())
}

func (tp *TablePage) SetPrevPageId(pageId types.PageID) {
	tp.Copy(offSetPrevPageId, pageId.Serialize())
}

func (tp *TablePage) SetNextPageId(pageId types.PageID) {
	tp.Copy(offSetNextPageId, pageId.Serialize())
}

func (tp *TablePage) SetFreeSpacePointer(freeSpacePointer uint32) {
	binary.LittleEndian.PutUint32(tp.Data()[offsetFreeSpace:], freeSpacePointer)
}

func (tp *TablePage) SetTupleCount(tupleCount uint32) {
	binary.LittleEndian.PutUint32(tp.Data()[offSetTupleCount:], tupleCount)
}

func (tp *TablePage) GetTablePageId() types.PageID {
	return types.NewPageIDFromBytes(tp.Data()[:])
}

func (tp *TablePage) GetPrevPageId() types.PageID {
	return types.NewPageIDFromBytes(tp.Data()[offSetPrevPageId:])
}

func (tp *TablePage) GetNextPageId() types.PageID {
	return types.NewPageIDFromBytes(tp.Data()[offSetNextPageId:])
}

func (tp *TablePage) GetTupleCount() uint32 {
	return binary.LittleEndian.Uint32(tp.Data()[offSetTupleCount:])
}

func (tp *TablePage) GetTupleOffsetAtSlot(slot_num uint32) uint32 {
	return binary.LittleEndian.Uint32(tp.Data()[offsetTupleOffset+sizeTuple*slot_num:])
}

/** Set tuple offset at slot slot_num. */
func (tp *TablePage) SetTupleOffsetAtSlot(slot_num uint32, offset uint32) {
	binary.LittleEndian.PutUint32(tp.Data()[offsetTupleOffset+sizeTuple*slot_num:], offset)
}

func (tp *TablePage) GetTupleSize(slot_num uint32) uint32 {
	return binary.LittleEndian.Uint32(tp.Data()[offsetTupleSize+sizeTuple*slot_num:])
}

/** Set tuple size at slot slot_num. */
func (tp *TablePage) SetTupleSize(slot_num uint32, size uint32) {
	binary.LittleEndian.PutUint32(tp.Data()[offsetTupleSize+sizeTuple*slot_num:], size)
}

func (tp *TablePage) getFreeSpaceRemaining() uint32 {
	return tp.GetFreeSpacePointer() - sizeTablePageHeader - sizeTuple*tp.GetTupleCount()
}

func (tp *TablePage) GetFreeSpacePointer() uint32 {
	return binary.LittleEndian.Uint32(tp.Data()[offsetFreeSpace:])
}

// GetNextTupleRID returns the first live tuple after cur, or the first live
// tuple of the page when cur is nil. ok is false when there is none.
func (tp *TablePage) GetNextTupleRID(cur *page.RID) (rid page.RID, ok bool) {
	// Find and return the first valid tuple after our current slot number.
	tupleCount := tp.GetTupleCount()
	var init_val uint32 = 0
	if cur != nil {
		init_val = cur.GetSlotNum() + 1
	}
	for ii := init_val; ii < tupleCount; ii++ {
		if !IsDeleted(tp.GetTupleSize(ii)) {
			rid.Set(tp.GetTablePageId(), ii)
			return rid, true
		}
	}
	return page.InvalidRID, false
}

/** @return true if the tuple is deleted or empty */
func IsDeleted(tuple_size uint32) bool {
	return tuple_size&uint32(deleteMask) == uint32(deleteMask) || tuple_size == 0
}

/** @return tuple size with the deleted flag set */
func SetDeletedFlag(tuple_size uint32) uint32 {
	return tuple_size | uint32(deleteMask)
}

/** @return tuple size with the deleted flag unset */
func UnsetDeletedFlag(tuple_size uint32) uint32 {
	return tuple_size & (^uint32(deleteMask))
}
