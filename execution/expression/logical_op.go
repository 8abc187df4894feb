package expression

import (
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/types"
)

type LogicalOpType int

/** LogicalOpType represents the type of comparison that we want to perform. */
const (
	AND LogicalOpType = iota
	OR
	NOT
)

/**
 * LogicalOp represents two expressions or one expression being evaluated with
 * logical operator. NULL follows three valued logic.
 */
type LogicalOp struct {
	*AbstractExpression
	logicalOpType LogicalOpType
}

// if logicalOpType is "NOT", right value must be nil
func NewLogicalOp(left Expression, right Expression, logicalOpType LogicalOpType) *LogicalOp {
	return &LogicalOp{&AbstractExpression{[2]Expression{left, right}, types.Boolean}, logicalOpType}
}

func (c *LogicalOp) Evaluate(s *slot.TupleTableSlot) (types.Value, bool, error) {
	lhs, lnull, err := c.children[0].Evaluate(s)
	if err != nil {
		return types.Value{}, false, err
	}
	if c.logicalOpType == NOT {
		if lnull {
			return types.Value{}, true, nil
		}
		return types.NewBoolean(!lhs.ToBoolean()), false, nil
	}

	// short circuit
	if !lnull {
		if c.logicalOpType == AND && !lhs.ToBoolean() {
			return types.NewBoolean(false), false, nil
		}
		if c.logicalOpType == OR && lhs.ToBoolean() {
			return types.NewBoolean(true), false, nil
		}
	}
	rhs, rnull, err := c.children[1].Evaluate(s)
	if err != nil {
		return types.Value{}, false, err
	}
	switch c.logicalOpType {
	case AND:
		if !rnull && !rhs.ToBoolean() {
			return types.NewBoolean(false), false, nil
		}
	case OR:
		if !rnull && rhs.ToBoolean() {
			return types.NewBoolean(true), false, nil
		}
	default:
		panic("unknown logicalOpType is passed!")
	}
	if lnull || rnull {
		return types.Value{}, true, nil
	}
	// both operands decided nothing: AND of two trues, OR of two falses
	return types.NewBoolean(c.logicalOpType == AND), false, nil
}

func (c *LogicalOp) GetLogicalOpType() LogicalOpType {
	return c.logicalOpType
}

func (c *LogicalOp) GetType() ExpressionType {
	return EXPRESSION_TYPE_LOGICAL_OP
}

// AppendLogicalCondition joins addCond to baseConds with opType. A nil
// baseConds yields addCond.
func AppendLogicalCondition(baseConds Expression, opType LogicalOpType, addCond Expression) Expression {
	if baseConds == nil {
		return addCond
	}
	return NewLogicalOp(baseConds, addCond, opType)
}
