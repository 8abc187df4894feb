package plans

import (
	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/execution/expression"
	"github.com/kovdb75/postgres/storage/table/schema"
)

// ProjectionPlanNode computes one output column per expression.
type ProjectionPlanNode struct {
	*AbstractPlanNode
	exprs []expression.Expression
}

func NewProjectionPlanNode(child Plan, projectColumns *schema.Schema, exprs []expression.Expression) Plan {
	common.SH_Assert(uint32(len(exprs)) == projectColumns.GetColumnCount(), "projection: expression count does not match the output schema")
	return &ProjectionPlanNode{&AbstractPlanNode{projectColumns, []Plan{child}}, exprs}
}

func (p *ProjectionPlanNode) GetExpressions() []expression.Expression {
	return p.exprs
}

func (p *ProjectionPlanNode) GetType() PlanType {
	return Projection
}
