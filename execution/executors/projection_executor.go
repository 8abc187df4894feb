package executors

import (
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/storage/table/schema"
)

// ProjectionExecutor evaluates the projection list into a virtual slot.
// By-reference results alias the child's row and are valid as long as it.
type ProjectionExecutor struct {
	context    *ExecutorContext
	plan       *plans.ProjectionPlanNode
	child      Executor
	resultSlot *slot.TupleTableSlot
}

func NewProjectionExecutor(context *ExecutorContext, plan *plans.ProjectionPlanNode, child Executor) Executor {
	return &ProjectionExecutor{context: context, plan: plan, child: child}
}

func (e *ProjectionExecutor) Init() error {
	e.resultSlot = e.context.GetTupleTable().AllocSlot(e.plan.OutputSchema(), slot.KindVirtual)
	return e.child.Init()
}

func (e *ProjectionExecutor) Next() (*slot.TupleTableSlot, Done, error) {
	s, done, err := e.child.Next()
	if err != nil || done {
		e.resultSlot.Clear()
		return nil, true, err
	}

	e.resultSlot.Clear()
	values, nulls := e.resultSlot.Values(), e.resultSlot.Nulls()
	for i, expr := range e.plan.GetExpressions() {
		v, isnull, err := expr.Evaluate(s)
		if err != nil {
			return nil, true, err
		}
		values[i], nulls[i] = v, isnull
	}
	if err := e.resultSlot.StoreVirtualTuple(); err != nil {
		return nil, true, err
	}
	return e.resultSlot, false, nil
}

func (e *ProjectionExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}

func (e *ProjectionExecutor) Close() {
	if e.resultSlot != nil {
		e.resultSlot.Clear()
	}
	e.child.Close()
}
