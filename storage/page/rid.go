// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package page

import (
	"fmt"

	"github.com/kovdb75/postgres/types"
)

// RID is the record identifier for the given page identifier and slot number
type RID struct {
	PageId  types.PageID
	SlotNum uint32
}

// InvalidRID does not address any row.
var InvalidRID = RID{types.InvalidPageID, 0}

// Set sets the recod identifier
func (r *RID) Set(pageId types.PageID, slot uint32) {
	r.PageId = pageId
	r.SlotNum = slot
}

// GetPageId gets the page id
func (r *RID) GetPageId() types.PageID {
	return r.PageId
}

// GetSlotNum gets the slot number
func (r *RID) GetSlotNum() uint32 {
	return r.SlotNum
}

func (r RID) IsValid() bool {
	return r.PageId.IsValid()
}

// Pack folds the RID into one integer, page id in the high half.
func (r RID) Pack() int64 {
	return int64(r.PageId)<<32 | int64(r.SlotNum)
}

func UnpackRID(v int64) RID {
	return RID{types.PageID(int32(v >> 32)), uint32(v)}
}

func (r RID) String() string {
	return fmt.Sprintf("(%d,%d)", r.PageId, r.SlotNum)
}
