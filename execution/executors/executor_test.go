package executors

import (
	"testing"

	"github.com/kovdb75/postgres/execution/expression"
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/access"
	"github.com/kovdb75/postgres/storage/buffer"
	"github.com/kovdb75/postgres/storage/disk"
	"github.com/kovdb75/postgres/storage/table/column"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	testingpkg "github.com/kovdb75/postgres/testing/testing_assert"
	"github.com/kovdb75/postgres/types"
)

const numRows = 400

var depts = []string{"dev", "ops", "sales"}

func employeeSchema() *schema.Schema {
	return schema.NewSchema([]*column.Column{
		column.NewColumn("id", types.Integer),
		column.NewColumn("dept", types.Varchar),
		column.NewColumn("salary", types.BigInt),
	})
}

func salaryIsNull(i int) bool {
	return i%5 == 4
}

// setupEmployees fills a table heap spanning several pages.
func setupEmployees(t *testing.T) (*buffer.BufferPoolManager, *access.TableHeap, *access.Transaction, func()) {
	dm := disk.NewDiskManagerTest()
	bpm := buffer.NewBufferPoolManager(4, dm)
	txn := access.NewTransactionManager().Begin(nil)
	th, err := access.NewTableHeap(bpm, types.OID(42))
	testingpkg.Ok(t, err)

	desc := employeeSchema()
	for i := 0; i < numRows; i++ {
		values := []types.Value{types.NewInteger(int32(i)), types.NewVarchar(depts[i%3]), types.NewBigInt(int64(i * 10))}
		isnull := []bool{false, false, salaryIsNull(i)}
		_, err := th.InsertTuple(tuple.FormHeapTuple(nil, desc, values, isnull), txn)
		testingpkg.Ok(t, err)
	}
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))
	return bpm, th, txn, func() { dm.ShutDown() }
}

func TestSeqScanWithPredicate(t *testing.T) {
	bpm, th, txn, shutdown := setupEmployees(t)
	defer shutdown()
	desc := employeeSchema()

	// id >= 100 AND dept = 'ops' AND salary < 3000
	pred := expression.AppendLogicalCondition(
		expression.NewComparison(expression.NewColumnValue(1, types.Integer), expression.NewConstantValue(types.NewInteger(100), types.Integer), expression.GreaterThanOrEqual),
		expression.AND,
		expression.NewComparison(expression.NewColumnValue(2, types.Varchar), expression.NewConstantValue(types.NewVarchar("ops"), types.Varchar), expression.Equal))
	pred = expression.AppendLogicalCondition(pred, expression.AND,
		expression.NewComparison(expression.NewColumnValue(3, types.BigInt), expression.NewConstantValue(types.NewBigInt(3000), types.BigInt), expression.LessThan))

	expected := make([]int32, 0)
	for i := 0; i < numRows; i++ {
		if i >= 100 && i%3 == 1 && !salaryIsNull(i) && i*10 < 3000 {
			expected = append(expected, int32(i))
		}
	}

	ctx := NewExecutorContext(bpm, txn, nil)
	defer ctx.Close()
	resultCtx := memory.NewContext("result", nil)
	engine := &ExecutionEngine{}
	rows, err := engine.Execute(plans.NewSeqScanPlanNode(desc, pred, th), ctx, resultCtx)
	testingpkg.Ok(t, err)

	testingpkg.Equals(t, len(expected), len(rows))
	for i, row := range rows {
		values, isnull := tuple.DeformTuple(row, desc)
		testingpkg.Equals(t, expected[i], values[0].ToInteger())
		testingpkg.Equals(t, "ops", values[1].ToVarchar())
		testingpkg.SimpleAssert(t, !isnull[2])
		testingpkg.Equals(t, types.OID(42), row.GetTableOid())
	}
	testingpkg.Equals(t, len(rows), resultCtx.LiveChunks())

	// Scenario: the scan leaves no page pinned.
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))
}

func TestSeqScanPins(t *testing.T) {
	bpm, th, txn, shutdown := setupEmployees(t)
	defer shutdown()

	ctx := NewExecutorContext(bpm, txn, nil)
	defer ctx.Close()
	exec := NewSeqScanExecutor(ctx, plans.NewSeqScanPlanNode(employeeSchema(), nil, th).(*plans.SeqScanPlanNode))
	testingpkg.Ok(t, exec.Init())

	s, done, err := exec.Next()
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, !bool(done))
	testingpkg.Equals(t, slot.KindBufferHeapTuple, s.Kind())

	// Scenario: the iterator and the slot each hold a pin on the first page.
	testingpkg.Equals(t, [][2]int32{{int32(th.GetFirstPageId()), 2}}, bpm.PinnedPages())
	v, _, err := s.GetAttr(2)
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, "dev", v.ToVarchar())

	count := 1
	for {
		_, done, err := exec.Next()
		testingpkg.Ok(t, err)
		if done {
			break
		}
		count++
		testingpkg.SimpleAssert(t, len(bpm.PinnedPages()) <= 2)
	}
	testingpkg.Equals(t, numRows, count)
	testingpkg.SimpleAssert(t, s.IsEmpty())
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))
	exec.Close()
}

func TestFilterAndProjection(t *testing.T) {
	bpm, th, txn, shutdown := setupEmployees(t)
	defer shutdown()
	desc := employeeSchema()

	scan := plans.NewSeqScanPlanNode(desc, nil, th)
	filter := plans.NewFilterPlanNode(scan,
		expression.NewComparison(expression.NewColumnValue(3, types.BigInt), expression.NewConstantValue(types.NewBigInt(3900), types.BigInt), expression.GreaterThan))
	outSchema := schema.NewSchema([]*column.Column{
		column.NewColumn("dept", types.Varchar),
		column.NewColumn("id", types.Integer),
		column.NewColumn("ctid_page", types.Integer),
	})
	projection := plans.NewProjectionPlanNode(filter, outSchema, []expression.Expression{
		expression.NewColumnValue(2, types.Varchar),
		expression.NewColumnValue(1, types.Integer),
		expression.NewNullConstant(types.Integer),
	})

	ctx := NewExecutorContext(bpm, txn, nil)
	defer ctx.Close()
	resultCtx := memory.NewContext("result", nil)
	rows, err := (&ExecutionEngine{}).Execute(projection, ctx, resultCtx)
	testingpkg.Ok(t, err)

	// Scenario: rows with a NULL salary fail the predicate.
	expected := make([]int, 0)
	for i := 0; i < numRows; i++ {
		if !salaryIsNull(i) && i*10 > 3900 {
			expected = append(expected, i)
		}
	}
	testingpkg.Equals(t, len(expected), len(rows))
	for i, row := range rows {
		values, isnull := tuple.DeformTuple(row, outSchema)
		testingpkg.Equals(t, depts[expected[i]%3], values[0].ToVarchar())
		testingpkg.Equals(t, int32(expected[i]), values[1].ToInteger())
		testingpkg.SimpleAssert(t, isnull[2])
	}
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))
}

func TestHashAggregation(t *testing.T) {
	bpm, th, txn, shutdown := setupEmployees(t)
	defer shutdown()
	desc := employeeSchema()

	outSchema := schema.NewSchema([]*column.Column{
		column.NewColumn("dept", types.Varchar),
		column.NewColumn("cnt", types.BigInt),
		column.NewColumn("total", types.BigInt),
		column.NewColumn("min_id", types.Integer),
		column.NewColumn("max_salary", types.BigInt),
	})
	plan := plans.NewAggregationPlanNode(plans.NewSeqScanPlanNode(desc, nil, th), outSchema, []int{2}, []plans.AggregateTerm{
		{Type: plans.COUNT_AGGREGATE},
		{Type: plans.SUM_AGGREGATE, Attnum: 3},
		{Type: plans.MIN_AGGREGATE, Attnum: 1},
		{Type: plans.MAX_AGGREGATE, Attnum: 3},
	})

	counts := make([]int64, 3)
	sums := make([]int64, 3)
	mins := []int32{-1, -1, -1}
	maxs := make([]int64, 3)
	for i := 0; i < numRows; i++ {
		g := i % 3
		counts[g]++
		if mins[g] < 0 {
			mins[g] = int32(i)
		}
		if !salaryIsNull(i) {
			sums[g] += int64(i * 10)
			if int64(i*10) > maxs[g] {
				maxs[g] = int64(i * 10)
			}
		}
	}

	ctx := NewExecutorContext(bpm, txn, nil)
	defer ctx.Close()
	resultCtx := memory.NewContext("result", nil)
	rows, err := (&ExecutionEngine{}).Execute(plan, ctx, resultCtx)
	testingpkg.Ok(t, err)

	// Scenario: groups come out in first seen order.
	testingpkg.Equals(t, 3, len(rows))
	for g, row := range rows {
		values, isnull := tuple.DeformTuple(row, outSchema)
		for _, null := range isnull {
			testingpkg.SimpleAssert(t, !null)
		}
		testingpkg.Equals(t, depts[g], values[0].ToVarchar())
		testingpkg.Equals(t, counts[g], values[1].ToBigInt())
		testingpkg.Equals(t, sums[g], values[2].ToBigInt())
		testingpkg.Equals(t, mins[g], values[3].ToInteger())
		testingpkg.Equals(t, maxs[g], values[4].ToBigInt())
	}
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))
}

func TestNullPredicateRejectsRows(t *testing.T) {
	bpm, th, txn, shutdown := setupEmployees(t)
	defer shutdown()

	// salary = NULL is NULL for every row, and so is its negation
	eqNull := expression.NewComparison(expression.NewColumnValue(3, types.BigInt), expression.NewNullConstant(types.BigInt), expression.Equal)
	scan := plans.NewSeqScanPlanNode(employeeSchema(), expression.NewLogicalOp(eqNull, nil, expression.NOT), th)

	ctx := NewExecutorContext(bpm, txn, nil)
	defer ctx.Close()
	rows, err := (&ExecutionEngine{}).Execute(scan, ctx, memory.NewContext("result", nil))
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 0, len(rows))
}

func TestAggregationOfNullGroup(t *testing.T) {
	dm := disk.NewDiskManagerTest()
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(4, dm)
	txn := access.NewTransactionManager().Begin(nil)
	th, err := access.NewTableHeap(bpm, types.OID(43))
	testingpkg.Ok(t, err)

	desc := employeeSchema()
	for i, dept := range []string{"x", "y", "x"} {
		values := []types.Value{types.NewInteger(int32(i)), types.NewVarchar(dept), types.NewBigInt(5)}
		_, err := th.InsertTuple(tuple.FormHeapTuple(nil, desc, values, []bool{false, false, dept == "x"}), txn)
		testingpkg.Ok(t, err)
	}

	outSchema := schema.NewSchema([]*column.Column{
		column.NewColumn("dept", types.Varchar),
		column.NewColumn("cnt", types.BigInt),
		column.NewColumn("total", types.BigInt),
		column.NewColumn("max_id", types.Integer),
	})
	plan := plans.NewAggregationPlanNode(plans.NewSeqScanPlanNode(desc, nil, th), outSchema, []int{2}, []plans.AggregateTerm{
		{Type: plans.COUNT_AGGREGATE},
		{Type: plans.SUM_AGGREGATE, Attnum: 3},
		{Type: plans.MAX_AGGREGATE, Attnum: 1},
	})

	ctx := NewExecutorContext(bpm, txn, nil)
	defer ctx.Close()
	rows, err := (&ExecutionEngine{}).Execute(plan, ctx, memory.NewContext("result", nil))
	testingpkg.Ok(t, err)
	testingpkg.Equals(t, 2, len(rows))

	// Scenario: a group without non NULL input sums to NULL but still counts.
	values, isnull := tuple.DeformTuple(rows[0], outSchema)
	testingpkg.Equals(t, "x", values[0].ToVarchar())
	testingpkg.Equals(t, int64(2), values[1].ToBigInt())
	testingpkg.SimpleAssert(t, isnull[2])
	testingpkg.Equals(t, int32(2), values[3].ToInteger())

	values, isnull = tuple.DeformTuple(rows[1], outSchema)
	testingpkg.Equals(t, "y", values[0].ToVarchar())
	testingpkg.Equals(t, int64(1), values[1].ToBigInt())
	testingpkg.SimpleAssert(t, !isnull[2])
	testingpkg.Equals(t, int64(5), values[2].ToBigInt())
	testingpkg.Equals(t, int32(1), values[3].ToInteger())
}

func TestMaterialize(t *testing.T) {
	bpm, th, txn, shutdown := setupEmployees(t)
	defer shutdown()

	ctx := NewExecutorContext(bpm, txn, nil)
	plan := plans.NewMaterializePlanNode(plans.NewSeqScanPlanNode(employeeSchema(), nil, th))
	exec := (&ExecutionEngine{}).CreateExecutor(plan, ctx)
	testingpkg.Ok(t, exec.Init())

	s, done, err := exec.Next()
	testingpkg.Ok(t, err)
	testingpkg.SimpleAssert(t, !bool(done))
	testingpkg.Equals(t, slot.KindMinimalTuple, s.Kind())
	testingpkg.Equals(t, 0, len(bpm.PinnedPages()))

	// Scenario: rows come back in scan order after the child is exhausted.
	count := 0
	for !bool(done) {
		v, _, err := s.GetAttr(1)
		testingpkg.Ok(t, err)
		testingpkg.Equals(t, int32(count), v.ToInteger())
		null, err := s.AttIsNull(3)
		testingpkg.Ok(t, err)
		testingpkg.Equals(t, salaryIsNull(count), null)
		count++
		s, done, err = exec.Next()
		testingpkg.Ok(t, err)
	}
	testingpkg.Equals(t, numRows, count)
	rowsPut, _ := exec.(*MaterializeExecutor).Stats()
	testingpkg.Equals(t, uint64(numRows), rowsPut)

	exec.Close()
	tt := ctx.GetTupleTable()
	testingpkg.Equals(t, 2, tt.Len())
	ctx.Close()
	testingpkg.Equals(t, 0, tt.Len())
	testingpkg.SimpleAssert(t, ctx.MemoryContext().IsDeleted())
}
