// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/tuple"
)

// TableHeapIterator is the access method for table heaps
//
// It iterates through a table heap when Next is called. It keeps one pin on
// the page of the tuple returned last, and releases it when it moves to the
// next page or is closed. A caller keeping a tuple longer takes its own pin.
type TableHeapIterator struct {
	tableHeap   *TableHeap
	currentPage *TablePage // pinned while not nil
	rid         page.RID
	done        bool
}

// NewTableHeapIterator creates a new table heap operator for the given table heap
func NewTableHeapIterator(tableHeap *TableHeap) *TableHeapIterator {
	return &TableHeapIterator{tableHeap, nil, page.InvalidRID, false}
}

// Next returns the next live tuple and the page it lives on, or nil tuple at
// the end of the table.
func (it *TableHeapIterator) Next() (*tuple.HeapTuple, *page.Page, error) {
	if it.done {
		return nil, nil, nil
	}

	var cur *page.RID
	if it.currentPage == nil {
		tp, err := it.tableHeap.fetchTablePage(it.tableHeap.firstPageId)
		if err != nil {
			return nil, nil, err
		}
		it.currentPage = tp
	} else {
		cur = &it.rid
	}

	for {
		it.currentPage.RLatch()
		nextRID, ok := it.currentPage.GetNextTupleRID(cur)
		if ok {
			ret, err := it.currentPage.GetTuple(nextRID, it.tableHeap.oid)
			it.currentPage.RUnlatch()
			if err != nil {
				return nil, nil, err
			}
			it.rid = nextRID
			return ret, &it.currentPage.Page, nil
		}
		nextPageId := it.currentPage.GetNextPageId()
		it.currentPage.RUnlatch()

		it.unpinCurrent()
		if !nextPageId.IsValid() {
			it.done = true
			return nil, nil, nil
		}
		tp, err := it.tableHeap.fetchTablePage(nextPageId)
		if err != nil {
			it.done = true
			return nil, nil, err
		}
		it.currentPage = tp
		cur = nil
	}
}

// Close releases the pin of the iterator.
func (it *TableHeapIterator) Close() {
	if it.currentPage != nil {
		it.unpinCurrent()
	}
	it.done = true
}

func (it *TableHeapIterator) unpinCurrent() {
	pageID := it.currentPage.GetTablePageId()
	if err := it.tableHeap.bpm.UnpinPage(pageID, false); err != nil {
		common.ShPrintf(common.WARN, "TableHeapIterator: unpin of page %d failed: %v\n", pageID, err)
	}
	it.currentPage = nil
}
