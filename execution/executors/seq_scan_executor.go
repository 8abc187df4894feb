// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/kovdb75/postgres/execution/expression"
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/storage/access"
	"github.com/kovdb75/postgres/storage/table/schema"
)

/**
 * SeqScanExecutor executes a sequential scan over a table. Rows are handed
 * out in a buffer slot which pins the page of the current row.
 */
type SeqScanExecutor struct {
	context  *ExecutorContext
	plan     *plans.SeqScanPlanNode
	it       *access.TableHeapIterator
	scanSlot *slot.TupleTableSlot
}

// NewSeqScanExecutor creates a new sequential executor
func NewSeqScanExecutor(context *ExecutorContext, plan *plans.SeqScanPlanNode) Executor {
	return &SeqScanExecutor{context: context, plan: plan}
}

func (e *SeqScanExecutor) Init() error {
	e.scanSlot = e.context.GetTupleTable().AllocSlot(e.plan.OutputSchema(), slot.KindBufferHeapTuple)
	e.it = e.plan.GetTable().Iterator()
	return nil
}

// Next stores the next row satisfying the predicate in the scan slot.
func (e *SeqScanExecutor) Next() (*slot.TupleTableSlot, Done, error) {
	for {
		t, pg, err := e.it.Next()
		if err != nil {
			return nil, true, err
		}
		if t == nil {
			e.scanSlot.Clear()
			return nil, true, nil
		}
		if err := e.scanSlot.StoreBufferHeapTuple(t, pg, e.context.GetBufferPoolManager()); err != nil {
			return nil, true, err
		}
		ok, err := expression.EvaluatePredicate(e.plan.GetPredicate(), e.scanSlot)
		if err != nil {
			return nil, true, err
		}
		if ok {
			return e.scanSlot, false, nil
		}
	}
}

func (e *SeqScanExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}

func (e *SeqScanExecutor) Close() {
	if e.scanSlot != nil {
		e.scanSlot.Clear()
	}
	if e.it != nil {
		e.it.Close()
	}
}
