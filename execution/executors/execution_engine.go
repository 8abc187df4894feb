package executors

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/tuple"
)

type ExecutionEngine struct {
}

// Execute runs plan to the end and returns copies of its rows allocated in
// resultCtx. The executors are closed before returning.
func (e *ExecutionEngine) Execute(plan plans.Plan, context *ExecutorContext, resultCtx *memory.Context) ([]*tuple.HeapTuple, error) {
	executor := e.CreateExecutor(plan, context)
	defer executor.Close()

	if err := executor.Init(); err != nil {
		return nil, err
	}

	tuples := make([]*tuple.HeapTuple, 0)
	for {
		s, done, err := executor.Next()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		t, err := s.CopyHeapTuple(resultCtx)
		if err != nil {
			return nil, err
		}
		tuples = append(tuples, t)
	}
	common.ShPrintf(common.DEBUG_INFO, "ExecutionEngine: %d rows\n", len(tuples))
	return tuples, nil
}

func (e *ExecutionEngine) CreateExecutor(plan plans.Plan, context *ExecutorContext) Executor {
	switch p := plan.(type) {
	case *plans.SeqScanPlanNode:
		return NewSeqScanExecutor(context, p)
	case *plans.FilterPlanNode:
		return NewFilterExecutor(context, p, e.CreateExecutor(p.GetChildAt(0), context))
	case *plans.ProjectionPlanNode:
		return NewProjectionExecutor(context, p, e.CreateExecutor(p.GetChildAt(0), context))
	case *plans.AggregationPlanNode:
		return NewAggregationExecutor(context, p, e.CreateExecutor(p.GetChildAt(0), context))
	case *plans.MaterializePlanNode:
		return NewMaterializeExecutor(context, p, e.CreateExecutor(p.GetChildAt(0), context))
	}
	panic("illegal plan type is passed!")
}
