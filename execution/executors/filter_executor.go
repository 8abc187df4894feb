package executors

import (
	"github.com/kovdb75/postgres/execution/expression"
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/storage/table/schema"
)

// FilterExecutor returns the child's slot for rows satisfying the predicate.
type FilterExecutor struct {
	context *ExecutorContext
	plan    *plans.FilterPlanNode
	child   Executor
}

func NewFilterExecutor(context *ExecutorContext, plan *plans.FilterPlanNode, child Executor) Executor {
	return &FilterExecutor{context, plan, child}
}

func (e *FilterExecutor) Init() error {
	return e.child.Init()
}

func (e *FilterExecutor) Next() (*slot.TupleTableSlot, Done, error) {
	for {
		s, done, err := e.child.Next()
		if err != nil || done {
			return nil, true, err
		}
		ok, err := expression.EvaluatePredicate(e.plan.GetPredicate(), s)
		if err != nil {
			return nil, true, err
		}
		if ok {
			return s, false, nil
		}
	}
}

func (e *FilterExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}

func (e *FilterExecutor) Close() {
	e.child.Close()
}
