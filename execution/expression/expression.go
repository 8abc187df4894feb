// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/types"
)

type ExpressionType int

const (
	EXPRESSION_TYPE_INVALID ExpressionType = iota
	EXPRESSION_TYPE_COMPARISON
	EXPRESSION_TYPE_COLUMN_VALUE
	EXPRESSION_TYPE_CONSTANT_VALUE
	EXPRESSION_TYPE_LOGICAL_OP
)

/**
 * Expression interface is the base of all the expressions in the system.
 * Expressions are modeled as trees, i.e. every expression may have a variable number of children.
 *
 * Evaluate reads the attributes it needs from the row in the slot. The
 * second return value reports a NULL result.
 */
type Expression interface {
	Evaluate(s *slot.TupleTableSlot) (types.Value, bool, error)
	GetChildAt(childIdx uint32) Expression
	GetReturnType() types.TypeID
	GetType() ExpressionType
}
