package plans

import (
	"github.com/kovdb75/postgres/execution/expression"
	"github.com/kovdb75/postgres/storage/access"
	"github.com/kovdb75/postgres/storage/table/schema"
)

/**
 * SeqScanPlanNode reads every live row of a table heap. Rows failing the
 * predicate are skipped. The output schema is the schema of the table.
 */
type SeqScanPlanNode struct {
	*AbstractPlanNode
	predicate expression.Expression
	table     *access.TableHeap
}

func NewSeqScanPlanNode(tableSchema *schema.Schema, predicate expression.Expression, table *access.TableHeap) Plan {
	return &SeqScanPlanNode{&AbstractPlanNode{tableSchema, nil}, predicate, table}
}

func (p *SeqScanPlanNode) GetPredicate() expression.Expression {
	return p.predicate
}

func (p *SeqScanPlanNode) GetTable() *access.TableHeap {
	return p.table
}

func (p *SeqScanPlanNode) GetType() PlanType {
	return SeqScan
}
