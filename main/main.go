package main

import (
	"fmt"
	"os"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/execution/executors"
	"github.com/kovdb75/postgres/execution/expression"
	"github.com/kovdb75/postgres/execution/plans"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/access"
	"github.com/kovdb75/postgres/storage/buffer"
	"github.com/kovdb75/postgres/storage/disk"
	"github.com/kovdb75/postgres/storage/table/column"
	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/storage/tuple"
	"github.com/kovdb75/postgres/types"
	"github.com/pkg/errors"
)

// this entry point fills an in-memory table and runs a grouped scan over it,
// for checking the storage and executor layers end to end.
// usage: main [config.toml]
func main() {
	cfg := common.DefaultConfig()
	if len(os.Args) > 1 {
		loaded, err := common.LoadConfig(os.Args[1])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%+v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	}
	cfg.Apply()

	if err := run(cfg); err != nil {
		common.ShPrintf(common.ERROR, "%+v\n", err)
		os.Exit(1)
	}
}

func run(cfg *common.Config) error {
	dm := disk.NewVirtualDiskManagerImpl("kovdb.db")
	defer dm.ShutDown()
	bpm := buffer.NewBufferPoolManager(uint32(cfg.BufferPoolFrames), dm)
	txnMgr := access.NewTransactionManager()
	txn := txnMgr.Begin(nil)

	th, err := access.NewTableHeap(bpm, types.OID(1))
	if err != nil {
		return err
	}
	desc := schema.NewSchema([]*column.Column{
		column.NewColumn("id", types.Integer),
		column.NewColumn("kind", types.Varchar),
		column.NewColumn("amount", types.BigInt),
	})
	kinds := []string{"alpha", "beta", "gamma", "delta"}
	for i := 0; i < 1000; i++ {
		values := []types.Value{types.NewInteger(int32(i)), types.NewVarchar(kinds[i%len(kinds)]), types.NewBigInt(int64(i % 97))}
		if _, err := th.InsertTuple(tuple.FormHeapTuple(nil, desc, values, []bool{false, false, i%10 == 0}), txn); err != nil {
			return err
		}
	}
	if err := txnMgr.Commit(txn); err != nil {
		return err
	}

	// SELECT kind, count(*), sum(amount), max(amount) FROM t WHERE id >= 100 GROUP BY kind
	scan := plans.NewSeqScanPlanNode(desc,
		expression.NewComparison(expression.NewColumnValue(1, types.Integer), expression.NewConstantValue(types.NewInteger(100), types.Integer), expression.GreaterThanOrEqual),
		th)
	outSchema := schema.NewSchema([]*column.Column{
		column.NewColumn("kind", types.Varchar),
		column.NewColumn("count", types.BigInt),
		column.NewColumn("sum", types.BigInt),
		column.NewColumn("max", types.BigInt),
	})
	plan := plans.NewAggregationPlanNode(plans.NewMaterializePlanNode(scan), outSchema, []int{2}, []plans.AggregateTerm{
		{Type: plans.COUNT_AGGREGATE},
		{Type: plans.SUM_AGGREGATE, Attnum: 3},
		{Type: plans.MAX_AGGREGATE, Attnum: 3},
	})

	query := memory.NewContext("query", nil)
	defer query.Delete()
	ctx := executors.NewExecutorContext(bpm, txnMgr.Begin(nil), query)
	defer ctx.Close()
	rows, err := (&executors.ExecutionEngine{}).Execute(plan, ctx, query)
	if err != nil {
		return err
	}

	common.ShPrintf(common.INFO, "%s\n", outSchema)
	for _, row := range rows {
		values, isnull := tuple.DeformTuple(row, outSchema)
		line := ""
		for i, v := range values {
			if i > 0 {
				line += " | "
			}
			if isnull[i] {
				line += "NULL"
			} else {
				line += v.String()
			}
		}
		common.ShPrintf(common.INFO, "%s\n", line)
	}
	if pinned := bpm.PinnedPages(); len(pinned) > 0 {
		return errors.Errorf("pages left pinned: %v", pinned)
	}
	return nil
}
