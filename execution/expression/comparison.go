// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package expression

import (
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/types"
)

type ComparisonType int

/** ComparisonType represents the type of comparison that we want to perform. */
const (
	Equal ComparisonType = iota
	NotEqual
	GreaterThan
	GreaterThanOrEqual
	LessThan
	LessThanOrEqual
)

/**
 * Comparison represents two expressions being compared. A NULL operand makes
 * the result NULL.
 */
type Comparison struct {
	*AbstractExpression
	comparisonType ComparisonType
}

func NewComparison(left Expression, right Expression, comparisonType ComparisonType) *Comparison {
	return &Comparison{&AbstractExpression{[2]Expression{left, right}, types.Boolean}, comparisonType}
}

func (c *Comparison) Evaluate(s *slot.TupleTableSlot) (types.Value, bool, error) {
	lhs, lnull, err := c.children[0].Evaluate(s)
	if err != nil {
		return types.Value{}, false, err
	}
	rhs, rnull, err := c.children[1].Evaluate(s)
	if err != nil {
		return types.Value{}, false, err
	}
	if lnull || rnull {
		return types.Value{}, true, nil
	}
	return types.NewBoolean(c.performComparison(lhs, rhs)), false, nil
}

func (c *Comparison) performComparison(lhs types.Value, rhs types.Value) bool {
	switch c.comparisonType {
	case Equal:
		return lhs.CompareEquals(rhs)
	case NotEqual:
		return lhs.CompareNotEquals(rhs)
	case GreaterThan:
		return lhs.CompareGreaterThan(rhs)
	case GreaterThanOrEqual:
		return lhs.CompareGreaterThanOrEqual(rhs)
	case LessThan:
		return lhs.CompareLessThan(rhs)
	case LessThanOrEqual:
		return lhs.CompareLessThanOrEqual(rhs)
	}
	panic("unknown comparisonType is passed!")
}

func (c *Comparison) GetComparisonType() ComparisonType {
	return c.comparisonType
}

func (c *Comparison) GetType() ExpressionType {
	return EXPRESSION_TYPE_COMPARISON
}
