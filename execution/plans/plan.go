package plans

import (
	"github.com/kovdb75/postgres/storage/table/schema"
)

type PlanType int

const (
	SeqScan PlanType = iota
	Filter
	Projection
	Aggregation
	Materialize
)

type Plan interface {
	OutputSchema() *schema.Schema
	GetChildAt(childIndex uint32) Plan
	GetChildren() []Plan
	GetType() PlanType
}

type AbstractPlanNode struct {
	outputSchema *schema.Schema
	children     []Plan
}

func (p *AbstractPlanNode) GetChildAt(childIndex uint32) Plan {
	if childIndex >= uint32(len(p.children)) {
		return nil
	}
	return p.children[childIndex]
}

func (p *AbstractPlanNode) GetChildren() []Plan {
	return p.children
}

func (p *AbstractPlanNode) OutputSchema() *schema.Schema {
	return p.outputSchema
}
