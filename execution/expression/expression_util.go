package expression

import (
	"fmt"

	"github.com/kovdb75/postgres/execution/slot"
)

// PrintExpTree renders an expression tree in prefix form.
func PrintExpTree(exp Expression) string {
	switch e := exp.(type) {
	case *Comparison:
		return fmt.Sprintf("(%s %s %s)", comparisonNames[e.comparisonType], PrintExpTree(e.children[0]), PrintExpTree(e.children[1]))
	case *LogicalOp:
		if e.logicalOpType == NOT {
			return fmt.Sprintf("(NOT %s)", PrintExpTree(e.children[0]))
		}
		return fmt.Sprintf("(%s %s %s)", logicalOpNames[e.logicalOpType], PrintExpTree(e.children[0]), PrintExpTree(e.children[1]))
	case *ConstantValue:
		if e.isnull {
			return "NULL"
		}
		return e.value.String()
	case *ColumnValue:
		return fmt.Sprintf("$%d", e.attnum)
	default:
		panic("illegal type expression object is passed!")
	}
}

var comparisonNames = map[ComparisonType]string{
	Equal:              "=",
	NotEqual:           "<>",
	GreaterThan:        ">",
	GreaterThanOrEqual: ">=",
	LessThan:           "<",
	LessThanOrEqual:    "<=",
}

var logicalOpNames = map[LogicalOpType]string{
	AND: "AND",
	OR:  "OR",
}

// EvaluatePredicate evaluates a boolean expression over the row in s. A nil
// predicate and a NULL result are both handled: nil accepts, NULL rejects.
func EvaluatePredicate(pred Expression, s *slot.TupleTableSlot) (bool, error) {
	if pred == nil {
		return true, nil
	}
	v, isnull, err := pred.Evaluate(s)
	if err != nil || isnull {
		return false, err
	}
	return v.ToBoolean(), nil
}
