package plans

import (
	"github.com/kovdb75/postgres/execution/expression"
)

// FilterPlanNode passes the rows of its child satisfying the predicate.
type FilterPlanNode struct {
	*AbstractPlanNode
	predicate expression.Expression
}

func NewFilterPlanNode(child Plan, predicate expression.Expression) Plan {
	return &FilterPlanNode{&AbstractPlanNode{child.OutputSchema(), []Plan{child}}, predicate}
}

func (p *FilterPlanNode) GetPredicate() expression.Expression {
	return p.predicate
}

func (p *FilterPlanNode) GetType() PlanType {
	return Filter
}
