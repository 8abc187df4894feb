// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/types"
)

/**
 * ColumnValue reads one attribute of the input row.
 */
type ColumnValue struct {
	*AbstractExpression
	attnum int // 1-based attribute number, system attributes are negative
}

func NewColumnValue(attnum int, colType types.TypeID) *ColumnValue {
	return &ColumnValue{&AbstractExpression{[2]Expression{}, colType}, attnum}
}

func (c *ColumnValue) Evaluate(s *slot.TupleTableSlot) (types.Value, bool, error) {
	return s.GetAttr(c.attnum)
}

func (c *ColumnValue) GetAttnum() int {
	return c.attnum
}

func (c *ColumnValue) GetType() ExpressionType {
	return EXPRESSION_TYPE_COLUMN_VALUE
}
