package executors

import (
	"encoding/binary"

	"github.com/kovdb75/postgres/container/hash"
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	pair "github.com/notEpsilon/go-pair"
	"github.com/pkg/errors"
)

// aggStateSize is the per group state of one aggregate: an int64
// accumulator followed by a flag telling whether a non NULL input was seen.
const aggStateSize = 16

/**
 * AggregationExecutor executes an aggregation operation (e.g. COUNT, SUM, MIN, MAX) on the tuples of a child executor.
 * All input is consumed on the first call to Next. Groups come out in the
 * order they were first seen.
 */
type AggregationExecutor struct {
	context *ExecutorContext
	plan    *plans.AggregationPlanNode
	child   Executor
	/** groups, keyed by the group by attributes of the child's rows */
	aht        *hash.TupleHashTable
	groupSlot  *slot.TupleTableSlot // reads the first row of a group
	resultSlot *slot.TupleTableSlot
	groups     []pair.Pair[uint32, *tuple.MinimalTuple] // filled once the input is consumed
	cursor     int
}

func NewAggregationExecutor(context *ExecutorContext, plan *plans.AggregationPlanNode, child Executor) Executor {
	return &AggregationExecutor{context: context, plan: plan, child: child}
}

func (e *AggregationExecutor) Init() error {
	if err := e.child.Init(); err != nil {
		return err
	}
	in := e.child.GetOutputSchema()
	tt := e.context.GetTupleTable()
	e.aht = hash.NewTupleHashTable(in, e.plan.GetGroupBys(), uint32(aggStateSize*len(e.plan.GetAggregates())), e.context.MemoryContext())
	e.groupSlot = tt.AllocSlot(in, slot.KindMinimalTuple)
	e.resultSlot = tt.AllocSlot(e.plan.OutputSchema(), slot.KindVirtual)
	return nil
}

func (e *AggregationExecutor) build() error {
	for {
		s, done, err := e.child.Next()
		if err != nil {
			return err
		}
		if done {
			return nil
		}
		entry, _, err := e.aht.LookupOrInsert(s)
		if err != nil {
			return err
		}
		if err := e.combine(e.aht.EntryData(entry), s); err != nil {
			return err
		}
	}
}

// combine folds the row in s into the state of its group.
func (e *AggregationExecutor) combine(state []byte, s *slot.TupleTableSlot) error {
	for i, agg := range e.plan.GetAggregates() {
		st := state[i*aggStateSize : (i+1)*aggStateSize]
		acc := int64(binary.LittleEndian.Uint64(st))
		seen := st[8] != 0

		if agg.Type == plans.COUNT_AGGREGATE {
			acc++
			seen = true
		} else {
			v, isnull, err := s.GetAttr(agg.Attnum)
			if err != nil {
				return err
			}
			if isnull {
				continue
			}
			var in int64
			switch v.ValueType() {
			case types.Integer:
				in = int64(v.ToInteger())
			case types.BigInt:
				in = v.ToBigInt()
			default:
				return errors.Errorf("%s over %s is not supported", agg.Type, v.ValueType())
			}
			switch agg.Type {
			case plans.SUM_AGGREGATE:
				acc += in
			case plans.MIN_AGGREGATE:
				if !seen || in < acc {
					acc = in
				}
			case plans.MAX_AGGREGATE:
				if !seen || in > acc {
					acc = in
				}
			}
			seen = true
		}

		binary.LittleEndian.PutUint64(st, uint64(acc))
		if seen {
			st[8] = 1
		}
	}
	return nil
}

func (e *AggregationExecutor) Next() (*slot.TupleTableSlot, Done, error) {
	if e.groups == nil {
		if err := e.build(); err != nil {
			return nil, true, err
		}
		e.groups = e.aht.Entries()
		e.cursor = 0
	}
	e.resultSlot.Clear()
	e.groupSlot.Clear()
	if e.cursor >= len(e.groups) {
		return nil, true, nil
	}
	entry := e.groups[e.cursor].Second
	e.cursor++

	if err := e.groupSlot.StoreMinimalTuple(entry, false); err != nil {
		return nil, true, err
	}
	values, nulls := e.resultSlot.Values(), e.resultSlot.Nulls()
	groupBys := e.plan.GetGroupBys()
	for i, attnum := range groupBys {
		v, isnull, err := e.groupSlot.GetAttr(attnum)
		if err != nil {
			return nil, true, err
		}
		values[i], nulls[i] = v, isnull
	}

	in := e.child.GetOutputSchema()
	state := e.aht.EntryData(entry)
	for i, agg := range e.plan.GetAggregates() {
		st := state[i*aggStateSize : (i+1)*aggStateSize]
		acc := int64(binary.LittleEndian.Uint64(st))
		out := len(groupBys) + i
		if st[8] == 0 {
			values[out], nulls[out] = types.Value{}, true
			continue
		}
		nulls[out] = false
		switch {
		case agg.Type == plans.COUNT_AGGREGATE || agg.Type == plans.SUM_AGGREGATE:
			values[out] = types.NewBigInt(acc)
		case in.GetColumn(uint32(agg.Attnum-1)).GetType() == types.Integer:
			values[out] = types.NewInteger(int32(acc))
		default:
			values[out] = types.NewBigInt(acc)
		}
	}
	if err := e.resultSlot.StoreVirtualTuple(); err != nil {
		return nil, true, err
	}
	return e.resultSlot, false, nil
}

func (e *AggregationExecutor) GetOutputSchema() *schema.Schema {
	return e.plan.OutputSchema()
}

func (e *AggregationExecutor) Close() {
	if e.aht != nil {
		e.resultSlot.Clear()
		e.groupSlot.Clear()
		e.aht.Destroy()
		e.aht = nil
		e.groups = nil
	}
	e.child.Close()
}
