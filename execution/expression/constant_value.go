// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/types"
)

type ConstantValue struct {
	*AbstractExpression
	value  types.Value
	isnull bool
}

func NewConstantValue(value types.Value, colType types.TypeID) *ConstantValue {
	return &ConstantValue{&AbstractExpression{[2]Expression{}, colType}, value, false}
}

func NewNullConstant(colType types.TypeID) *ConstantValue {
	return &ConstantValue{&AbstractExpression{[2]Expression{}, colType}, types.Value{}, true}
}

func (c *ConstantValue) Evaluate(_ *slot.TupleTableSlot) (types.Value, bool, error) {
	return c.value, c.isnull, nil
}

func (c *ConstantValue) GetType() ExpressionType {
	return EXPRESSION_TYPE_CONSTANT_VALUE
}
