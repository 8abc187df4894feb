// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package access

import (
	"bytes"
	"strings"
	"testing"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/buffer"
	"github.com/kovdb75/postgres/storage/disk"
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/storage/table/column"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	testingpkg "github.com/kovdb75/postgres/testing/testing_assert"
	"github.com/kovdb75/postgres/types"
)

func TestTableHeap(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(10, dm)
	txn_mgr := NewTransactionManager()
	txn := txn_mgr.Begin(nil)

	th, err := NewTableHeap(bpm, types.OID(100))
	testingpkg.Ok(t, err)

	// this schema creates a tuple of 16 + 5 + 8 = 29 bytes, 37 bytes with its slot entry
	// it means that a page can only contains 110 tuples of this schema
	columnA := column.NewColumn("a", types.Integer)
	columnB := column.NewColumn("b", types.Integer)
	schema_ := schema.NewSchema([]*column.Column{columnA, columnB})
	perPage := int((common.PageSize - sizeTablePageHeader) / (tuple.MinimalTupleOffset + tuple.BodyHeaderSize + 8 + sizeTuple))

	// inserting 1000 tuples, means that we need 10 pages to insert all tuples
	for i := 0; i < 1000; i++ {
		row := make([]types.Value, 0)
		row = append(row, types.NewInteger(int32(i*2)))
		row = append(row, types.NewInteger(int32((i+1)*2)))

		tuple_ := tuple.FormHeapTuple(nil, schema_, row, []bool{false, false})
		rid, err := th.InsertTuple(tuple_, txn)
		testingpkg.Ok(t, err)
		testingpkg.Equals(t, page.RID{PageId: types.PageID(i / perPage), SlotNum: uint32(i % perPage)}, rid)
	}

	bpm.FlushAllPages()
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))

	for i := 0; i < 1000; i += 37 {
		rid := page.RID{}
		rid.Set(types.PageID(i/perPage), uint32(i%perPage))
		tuple_, pg, err := th.GetTuple(rid)
		testingpkg.Ok(t, err)
		values, _ := tuple.DeformTuple(tuple_, schema_)
		testingpkg.Equals(t, int32(i*2), values[0].ToInteger())
		testingpkg.Equals(t, int32((i+1)*2), values[1].ToInteger())
		testingpkg.Equals(t, rid, tuple_.GetSelf())
		testingpkg.Equals(t, rid, tuple_.Ctid())
		testingpkg.Equals(t, txn.GetTransactionId(), tuple_.Xmin())
		testingpkg.Equals(t, types.OID(100), tuple_.GetTableOid())
		testingpkg.Ok(t, bpm.UnpinPage(pg.GetPageId(), false))
	}

	// let's iterate through the heap using the iterator
	it := th.Iterator()
	i := int32(0)
	for {
		tuple_, pg, err := it.Next()
		testingpkg.Ok(t, err)
		if tuple_ == nil {
			break
		}
		testingpkg.Assert(t, pg.PinCount() > 0, "the page of the current tuple is pinned")
		values, _ := tuple.DeformTuple(tuple_, schema_)
		testingpkg.Equals(t, i*2, values[0].ToInteger())
		testingpkg.Equals(t, (i+1)*2, values[1].ToInteger())
		i++
	}
	testingpkg.Equals(t, int32(1000), i)
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))

	testingpkg.Ok(t, txn_mgr.Commit(txn))
}

func TestTableHeapDelete(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(4, dm)
	txn_mgr := NewTransactionManager()

	th, err := NewTableHeap(bpm, types.OID(1))
	testingpkg.Ok(t, err)
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("v", types.Varchar)})

	txn := txn_mgr.Begin(nil)
	rids := make([]page.RID, 0)
	for _, s := range []string{"a", "bb", "ccc"} {
		rid, err := th.InsertTuple(tuple.FormHeapTuple(nil, schema_, []types.Value{types.NewVarchar(s)}, []bool{false}), txn)
		testingpkg.Ok(t, err)
		rids = append(rids, rid)
	}
	testingpkg.Ok(t, txn_mgr.Commit(txn))

	// Scenario: a delete that is rolled back leaves the tuple readable.
	txn2 := txn_mgr.Begin(nil)
	testingpkg.Ok(t, th.MarkDelete(rids[1], txn2))
	_, _, err = th.GetTuple(rids[1])
	testingpkg.ErrorIs(t, err, ErrTupleDeleted)
	testingpkg.Ok(t, txn_mgr.Abort(txn2))
	tuple_, pg, err := th.GetTuple(rids[1])
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, types.InvalidTxnID, tuple_.Xmax())
	testingpkg.Ok(t, bpm.UnpinPage(pg.GetPageId(), false))

	// Scenario: a committed delete hides the tuple from the iterator.
	txn3 := txn_mgr.Begin(nil)
	testingpkg.Ok(t, th.MarkDelete(rids[0], txn3))
	testingpkg.Ok(t, txn_mgr.Commit(txn3))

	it := th.Iterator()
	got := make([]string, 0)
	for {
		tuple_, _, err := it.Next()
		testingpkg.Ok(t, err)
		if tuple_ == nil {
			break
		}
		values, _ := tuple.DeformTuple(tuple_, schema_)
		got = append(got, values[0].ToVarchar())
	}
	it.Close()
	testingpkg.Equals(t, []string{"bb", "ccc"}, got)
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))

	_, _, err = th.GetTuple(page.RID{PageId: 0, SlotNum: 10})
	testingpkg.ErrorIs(t, err, ErrInvalidSlot)
}

func TestIteratorLogsFailedUnpin(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(4, dm)
	txn := NewTransactionManager().Begin(nil)
	th, err := NewTableHeap(bpm, types.OID(7))
	testingpkg.Ok(t, err)
	schema_ := schema.NewSchema([]*column.Column{column.NewColumn("a", types.Integer)})
	for i := 0; i < 3; i++ {
		_, err := th.InsertTuple(tuple.FormHeapTuple(nil, schema_, []types.Value{types.NewInteger(int32(i))}, []bool{false}), txn)
		testingpkg.Ok(t, err)
	}

	var buf bytes.Buffer
	common.InitLogger("info", &buf)
	defer common.InitLogger("info", nil)

	it := th.Iterator()
	tuple_, pg, err := it.Next()
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, tuple_ != nil)

	// Scenario: the iterator's pin was dropped by someone else, closing it
	// reports the failed unpin instead of swallowing it.
	testingpkg.Ok(t, bpm.UnpinPage(pg.GetPageId(), false))
	it.Close()
	testingpkg.Assert(t, strings.Contains(buf.String(), "[WARN] TableHeapIterator: unpin of page"), "missing warning in %q", buf.String())
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))
}
