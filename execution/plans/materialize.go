package plans

// MaterializePlanNode reads its child to the end on the first call and
// returns the buffered rows afterwards.
type MaterializePlanNode struct {
	*AbstractPlanNode
}

func NewMaterializePlanNode(child Plan) Plan {
	return &MaterializePlanNode{&AbstractPlanNode{child.OutputSchema(), []Plan{child}}}
}

func (p *MaterializePlanNode) GetType() PlanType {
	return Materialize
}
