package tuplestore

import (
	"fmt"
	"testing"

	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/table/column"
	"github.com/kovdb75/postgres/storage/table/schema"
	testingpkg "github.com/kovdb75/postgres/testing/testing_assert"
	"github.com/kovdb75/postgres/types"
)

func sampleSchema() *schema.Schema {
	return schema.NewSchema([]*column.Column{
		column.NewColumn("id", types.Integer),
		column.NewColumn("name", types.Varchar),
	})
}

func TestTuplestoreFIFO(t *testing.T) {
	desc := sampleSchema()
	query := memory.NewContext("query", nil)
	ts := NewTuplestore(query)

	input := slot.MakeSingleTupleTableSlot(desc, slot.KindVirtual, query)
	for i := 0; i < 10; i++ {
		input.Clear()
		input.Values()[0] = types.NewInteger(int32(i))
		input.Values()[1] = types.NewVarchar(fmt.Sprintf("name-%d", i))
		input.Nulls()[0] = false
		input.Nulls()[1] = i%3 == 0
		testingpkg.Ok(t, input.StoreVirtualTuple())
		testingpkg.Ok(t, ts.PutSlot(input))
	}
	testingpkg.Ok(t, ts.PutValues(desc, []types.Value{types.NewInteger(10), types.NewVarchar("last")}, []bool{false, false}))
	testingpkg.Equals(t, 11, ts.Len())
	rows, _ := ts.Stats()
	testingpkg.Equals(t, uint64(11), rows)

	// Scenario: rows come back in order into a minimal slot without copies.
	out := slot.MakeSingleTupleTableSlot(desc, slot.KindMinimalTuple, query)
	for i := 0; i <= 10; i++ {
		ok, err := ts.GetSlot(out, false)
		testingpkg.Ok(t, err)
		testingpkg.SimpleAssert(t, ok)
		testingpkg.SimpleAssert(t, !out.ShouldFree())

		v, _, err := out.GetAttr(1)
		testingpkg.Ok(t, err)
		testingpkg.Equals(t, int32(i), v.ToInteger())
		null, err := out.AttIsNull(2)
		testingpkg.Ok(t, err)
		testingpkg.Equals(t, i%3 == 0 && i < 10, null)
	}

	ok, err := ts.GetSlot(out, false)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, !ok)
	testingpkg.SimpleAssert(t, out.IsEmpty())
	testingpkg.Equals(t, 0, ts.Len())

	ts.End()
	_, err = ts.GetSlot(out, false)
	testingpkg.ErrorIs(t, err, ErrStoreEnded)
	testingpkg.ErrorIs(t, ts.PutSlot(input), ErrStoreEnded)
}

func TestTuplestoreCopyOut(t *testing.T) {
	desc := sampleSchema()
	query := memory.NewContext("query", nil)
	ts := NewTuplestore(query)
	testingpkg.Ok(t, ts.PutValues(desc, []types.Value{types.NewInteger(1), types.NewVarchar("one")}, []bool{false, false}))
	testingpkg.Ok(t, ts.PutValues(desc, []types.Value{types.NewInteger(2), types.NewVarchar("two")}, []bool{false, false}))

	// Scenario: a copied row outlives the store.
	outCtx := memory.NewContext("out", nil)
	heap := slot.MakeSingleTupleTableSlot(desc, slot.KindHeapTuple, outCtx)
	ok, err := ts.GetSlot(heap, true)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, ok)
	testingpkg.SimpleAssert(t, heap.ShouldFree())
	ts.End()

	v, _, err := heap.GetAttr(2)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, "one", v.ToVarchar())
	slot.DropSingleTupleTableSlot(heap)
	testingpkg.Equals(t, 0, outCtx.LiveChunks())
}

func TestTuplestoreBorrowIntoVirtualSlot(t *testing.T) {
	desc := sampleSchema()
	query := memory.NewContext("query", nil)
	ts := NewTuplestore(query)
	for i := 0; i < 3; i++ {
		testingpkg.Ok(t, ts.PutValues(desc, []types.Value{types.NewInteger(int32(i)), types.NewVarchar("v")}, []bool{false, false}))
	}

	// Scenario: a borrowed row is released when the next one is read.
	out := slot.MakeSingleTupleTableSlot(desc, slot.KindVirtual, query)
	for i := 0; i < 3; i++ {
		ok, err := ts.GetSlot(out, false)
		testingpkg.Ok(t, err)
		testingpkg.SimpleAssert(t, ok)
		testingpkg.Equals(t, int32(i), out.Values()[0].ToInteger())
		testingpkg.Equals(t, 3-i, ts.mcxt.LiveChunks())
	}
	ok, err := ts.GetSlot(out, false)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, !ok)
	testingpkg.Equals(t, 0, ts.mcxt.LiveChunks())
	ts.End()
}

func TestTuplestoreAlternatingSlots(t *testing.T) {
	desc := sampleSchema()
	query := memory.NewContext("query", nil)
	ts := NewTuplestore(query)
	for i := 0; i < 3; i++ {
		testingpkg.Ok(t, ts.PutValues(desc, []types.Value{types.NewInteger(int32(i)), types.NewVarchar("v")}, []bool{false, false}))
	}

	// Scenario: reading into another slot clears the one borrowing the
	// previous row before that row is freed.
	first := slot.MakeSingleTupleTableSlot(desc, slot.KindMinimalTuple, query)
	second := slot.MakeSingleTupleTableSlot(desc, slot.KindVirtual, query)
	ok, err := ts.GetSlot(first, false)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, ok)
	ok, err = ts.GetSlot(second, false)
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, ok)
	testingpkg.SimpleAssert(t, first.IsEmpty())
	testingpkg.Equals(t, int32(1), second.Values()[0].ToInteger())
	testingpkg.Equals(t, 2, ts.mcxt.LiveChunks())

	// Scenario: End clears the last borrower too.
	ts.End()
	testingpkg.SimpleAssert(t, second.IsEmpty())
	testingpkg.Equals(t, 0, ts.Len())
}
