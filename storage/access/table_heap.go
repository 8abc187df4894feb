// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/buffer"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

const ErrNoFreeFrame = common.Error("no buffer frame is available")

// TableHeap represents a physical table on disk.
// It contains the id of the first table page. The table page is a doubly-linked to other table pages.
type TableHeap struct {
	bpm         *buffer.BufferPoolManager
	firstPageId types.PageID
	oid         types.OID
}

// NewTableHeap creates a table heap without a  (open table)
func NewTableHeap(bpm *buffer.BufferPoolManager, oid types.OID) (*TableHeap, error) {
	p := bpm.NewPage()
	if p == nil {
		return nil, errors.Wrap(ErrNoFreeFrame, "create table heap")
	}

	firstPage := CastPageAsTablePage(p)
	firstPage.WLatch()
	firstPage.Init(p.GetPageId(), types.InvalidPageID)
	firstPage.WUnlatch()
	if err := bpm.UnpinPage(p.GetPageId(), true); err != nil {
		return nil, err
	}
	return &TableHeap{bpm, p.GetPageId(), oid}, nil
}

// InitTableHeap ...
func InitTableHeap(bpm *buffer.BufferPoolManager, pageId types.PageID, oid types.OID) *TableHeap {
	return &TableHeap{bpm, pageId, oid}
}

// GetFirstPageId returns firstPageId
func (t *TableHeap) GetFirstPageId() types.PageID {
	return t.firstPageId
}

func (t *TableHeap) GetOid() types.OID {
	return t.oid
}

func (t *TableHeap) BufferPool() *buffer.BufferPoolManager {
	return t.bpm
}

func (t *TableHeap) fetchTablePage(pageID types.PageID) (*TablePage, error) {
	p := t.bpm.FetchPage(pageID)
	if p == nil {
		return nil, errors.Wrapf(ErrNoFreeFrame, "fetch page %d", pageID)
	}
	return CastPageAsTablePage(p), nil
}

// InsertTuple inserts a copy of tuple_ into the table
//
// It fetches the first page and tries to insert the tuple there.
// If the tuple is too large (>= page_size):
// 1. It tries to insert in the next page
// 2. If there is no next page, it creates a new page and insert in it
func (t *TableHeap) InsertTuple(tuple_ *tuple.HeapTuple, txn *Transaction) (page.RID, error) {
	if common.EnableDebug {
		common.ShPrintf(common.RDB_OP_FUNC_CALL, "TableHeap::InsertTuple called. txn.txn_id:%v tuple_:%v\n", txn.txn_id, tuple_)
	}
	currentPage, err := t.fetchTablePage(t.firstPageId)
	if err != nil {
		return page.InvalidRID, err
	}

	// Insert into the first page with enough space. If no such page exists, create a new page and insert into that.
	var rid page.RID
	for {
		currentPage.WLatch()
		rid, err = currentPage.InsertTuple(tuple_, txn)
		currentPage.WUnlatch()
		if err == nil {
			break
		}
		if err != ErrNotEnoughSpace {
			t.bpm.UnpinPage(currentPage.GetTablePageId(), false)
			return page.InvalidRID, err
		}

		nextPageId := currentPage.GetNextPageId()
		if nextPageId.IsValid() {
			t.bpm.UnpinPage(currentPage.GetTablePageId(), false)
			if currentPage, err = t.fetchTablePage(nextPageId); err != nil {
				return page.InvalidRID, err
			}
			continue
		}

		p := t.bpm.NewPage()
		if p == nil {
			t.bpm.UnpinPage(currentPage.GetTablePageId(), false)
			return page.InvalidRID, errors.Wrap(ErrNoFreeFrame, "extend table heap")
		}
		newPage := CastPageAsTablePage(p)
		newPage.Init(p.GetPageId(), currentPage.GetTablePageId())
		currentPage.WLatch()
		currentPage.SetNextPageId(p.GetPageId())
		currentPage.WUnlatch()
		t.bpm.UnpinPage(currentPage.GetTablePageId(), true)
		currentPage = newPage
	}

	t.bpm.UnpinPage(currentPage.GetTablePageId(), true)
	// Update the transaction's write set.
	txn.AddIntoWriteSet(NewWriteRecord(rid, INSERT, t))
	return rid, nil
}

// MarkDelete flags the tuple at rid deleted by txn. Commit frees its slot.
func (t *TableHeap) MarkDelete(rid page.RID, txn *Transaction) error {
	tp, err := t.fetchTablePage(rid.GetPageId())
	if err != nil {
		return err
	}
	tp.WLatch()
	err = tp.MarkDelete(rid, txn)
	tp.WUnlatch()
	t.bpm.UnpinPage(tp.GetTablePageId(), err == nil)
	if err != nil {
		return errors.Wrapf(err, "delete %v", rid)
	}
	txn.AddIntoWriteSet(NewWriteRecord(rid, DELETE, t))
	return nil
}

func (t *TableHeap) ApplyDelete(rid page.RID) error {
	tp, err := t.fetchTablePage(rid.GetPageId())
	if err != nil {
		return err
	}
	tp.WLatch()
	tp.ApplyDelete(rid)
	tp.WUnlatch()
	return t.bpm.UnpinPage(tp.GetTablePageId(), true)
}

func (t *TableHeap) RollbackDelete(rid page.RID) error {
	tp, err := t.fetchTablePage(rid.GetPageId())
	if err != nil {
		return err
	}
	tp.WLatch()
	tp.RollbackDelete(rid)
	tp.WUnlatch()
	return t.bpm.UnpinPage(tp.GetTablePageId(), true)
}

// GetTuple reads the tuple at rid. The returned page stays pinned for the
// caller, who either unpins it or hands the pin to a buffer slot.
func (t *TableHeap) GetTuple(rid page.RID) (*tuple.HeapTuple, *page.Page, error) {
	tp, err := t.fetchTablePage(rid.GetPageId())
	if err != nil {
		return nil, nil, err
	}
	tp.RLatch()
	ret, err := tp.GetTuple(rid, t.oid)
	tp.RUnlatch()
	if err != nil {
		t.bpm.UnpinPage(tp.GetTablePageId(), false)
		return nil, nil, errors.Wrapf(err, "get %v", rid)
	}
	return ret, &tp.Page, nil
}

// Iterator returns an iterator over the live tuples of the table.
func (t *TableHeap) Iterator() *TableHeapIterator {
	return NewTableHeapIterator(t)
}
