package plans

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/types"
)

type AggregationType int32

const (
	COUNT_AGGREGATE AggregationType = iota
	SUM_AGGREGATE
	MIN_AGGREGATE
	MAX_AGGREGATE
)

func (t AggregationType) String() string {
	switch t {
	case COUNT_AGGREGATE:
		return "count"
	case SUM_AGGREGATE:
		return "sum"
	case MIN_AGGREGATE:
		return "min"
	case MAX_AGGREGATE:
		return "max"
	}
	return "unknown"
}

// AggregateTerm applies one aggregate function to one attribute of the child.
// COUNT ignores Attnum and counts rows.
type AggregateTerm struct {
	Type   AggregationType
	Attnum int
}

/**
 * AggregationPlanNode groups the rows of its child by the group by
 * attributes and computes the aggregates of each group. The output row holds
 * the group by attributes followed by the aggregates. COUNT and SUM yield BigInt,
 * MIN and MAX yield the type of their input. SUM, MIN and MAX work on
 * Integer and BigInt attributes and skip NULLs; a group of NULLs only yields
 * NULL.
 */
type AggregationPlanNode struct {
	*AbstractPlanNode
	groupBys   []int
	aggregates []AggregateTerm
}

func NewAggregationPlanNode(child Plan, outputSchema *schema.Schema, groupBys []int, aggregates []AggregateTerm) Plan {
	common.SH_Assert(len(groupBys) > 0, "aggregation: group by attributes are required")
	common.SH_Assert(uint32(len(groupBys)+len(aggregates)) == outputSchema.GetColumnCount(), "aggregation: output schema does not match")
	in := child.OutputSchema()
	for _, agg := range aggregates {
		if agg.Type == COUNT_AGGREGATE {
			continue
		}
		common.SH_Assertf(agg.Attnum > 0 && agg.Attnum <= int(in.GetColumnCount()), "aggregation: invalid attribute %d", agg.Attnum)
		typ := in.GetColumn(uint32(agg.Attnum - 1)).GetType()
		common.SH_Assertf(typ == types.Integer || typ == types.BigInt, "aggregation: %s over %s is not supported", agg.Type, typ)
	}
	return &AggregationPlanNode{&AbstractPlanNode{outputSchema, []Plan{child}}, groupBys, aggregates}
}

func (p *AggregationPlanNode) GetGroupBys() []int {
	return p.groupBys
}

func (p *AggregationPlanNode) GetAggregates() []AggregateTerm {
	return p.aggregates
}

func (p *AggregationPlanNode) GetType() PlanType {
	return Aggregation
}
