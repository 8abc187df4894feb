package tuplestore

import (
	"github.com/golang-collections/collections/queue"
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

const ErrStoreEnded = common.Error("tuplestore has ended")

// Tuplestore buffers rows as minimal tuples and returns them in the order
// they were put. Rows live in a memory context of the store. A row handed
// out by GetSlot without copy stays valid until the next GetSlot or End.
type Tuplestore struct {
	mcxt     *memory.Context
	rows     *queue.Queue
	current  *tuple.MinimalTuple  // row handed out last, freed on the next read
	borrower *slot.TupleTableSlot // slot holding current
	puts     uint64
	bytes    uint64
}

func NewTuplestore(parent *memory.Context) *Tuplestore {
	return &Tuplestore{
		mcxt: memory.NewContext("Tuplestore", parent),
		rows: queue.New(),
	}
}

func (ts *Tuplestore) checkOpen() error {
	if ts.mcxt.IsDeleted() {
		return ErrStoreEnded
	}
	return nil
}

func (ts *Tuplestore) put(m *tuple.MinimalTuple) {
	ts.rows.Enqueue(m)
	ts.puts++
	ts.bytes += uint64(m.Len())
}

// PutSlot appends a copy of the row in s.
func (ts *Tuplestore) PutSlot(s *slot.TupleTableSlot) error {
	if err := ts.checkOpen(); err != nil {
		return err
	}
	m, err := s.CopyMinimalTuple(ts.mcxt, 0)
	if err != nil {
		return errors.Wrap(err, "tuplestore put")
	}
	ts.put(m)
	return nil
}

// PutValues appends a row formed from values and isnull.
func (ts *Tuplestore) PutValues(desc *schema.Schema, values []types.Value, isnull []bool) error {
	if err := ts.checkOpen(); err != nil {
		return err
	}
	ts.put(tuple.FormMinimalTuple(ts.mcxt, desc, values, isnull, 0))
	return nil
}

// GetSlot stores the next row into s and reports whether there was one; s is
// cleared at the end. With copyRow the slot gets a copy of its own, otherwise
// it borrows the store's row until the next GetSlot or End, which clear the
// borrowing slot even when it is not s.
func (ts *Tuplestore) GetSlot(s *slot.TupleTableSlot, copyRow bool) (bool, error) {
	if err := ts.checkOpen(); err != nil {
		return false, err
	}
	ts.releaseCurrent()

	if ts.rows.Len() == 0 {
		s.Clear()
		return false, nil
	}
	m := ts.rows.Dequeue().(*tuple.MinimalTuple)
	if copyRow {
		defer m.Free()
		return true, s.ForceStoreMinimalTuple(m.Copy(s.MemoryContext(), 0), true)
	}
	ts.current = m
	ts.borrower = s
	return true, s.ForceStoreMinimalTuple(m, false)
}

// releaseCurrent frees the row handed out last after clearing the slot which
// borrowed it.
func (ts *Tuplestore) releaseCurrent() {
	if ts.current == nil {
		return
	}
	ts.borrower.Clear()
	ts.current.Free()
	ts.current = nil
	ts.borrower = nil
}

// Len is the number of rows not read yet.
func (ts *Tuplestore) Len() int {
	return ts.rows.Len()
}

// Stats returns the rows and tuple bytes put so far.
func (ts *Tuplestore) Stats() (rows uint64, bytes uint64) {
	return ts.puts, ts.bytes
}

// End releases every row and clears the slot borrowing one.
func (ts *Tuplestore) End() {
	if ts.mcxt.IsDeleted() {
		return
	}
	common.ShPrintf(common.DEBUG_INFO, "Tuplestore.End: rows=%d unread=%d\n", ts.puts, ts.rows.Len())
	ts.releaseCurrent()
	ts.rows = queue.New()
	ts.mcxt.Delete()
}
