package executors

import (
	"github.com/kovdb75/postgres/container/tuplestore"
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/storage/table/schema"
)

// MaterializeExecutor buffers every row of its child in a tuplestore on the
// first call to Next. The child's pins are released before the first row is
// returned.
type MaterializeExecutor struct {
	context    *ExecutorContext
	plan       *plans.MaterializePlanNode
	child      Executor
	store      *tuplestore.Tuplestore
	resultSlot *slot.TupleTableSlot
	filled     bool
}

func NewMaterializeExecutor(context *ExecutorContext, plan *plans.MaterializePlanNode, child Executor) Executor {
	return &MaterializeExecutor{context: context, plan: plan, child: child}
}

func (e *MaterializeExecutor) Init() error {
	e.store = tuplestore.NewTuplestore(e.context.MemoryContext())
	e.resultSlot = e.context.GetTupleTable().AllocSlot(e.plan.OutputSchema(), slot.KindMinimalTuple)
	return e.child.Init()
}

func (e *MaterializeExecutor) fill() error {
	for {
		s, done, err := e.child.Next()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		if err := e.store.PutSlot(s); err != nil {
			return err
		}
	}
}

func (e *MaterializeExecutor) Next() (*slot.TupleTableSlot, Done, error) {
	if !e.filled {
		if err := e.fill(); err != nil {
			return nil, true, err
		}
		e.filled = true
	}
	ok, err := e.store.GetSlot(e.resultSlot, false)
	if err != nil || !ok {
		return nil, true, err
	}
	return e.resultSlot, false, nil
}

func (e *MaterializeExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}

// Stats returns the rows and bytes buffered.
func (e *MaterializeExecutor) Stats() (uint64, uint64) {
	return e.store.Stats()
}

func (e *MaterializeExecutor) Close() {
	if e.store != nil {
		e.resultSlot.Clear()
		e.store.End()
		e.store = nil
	}
	e.child.Close()
}
