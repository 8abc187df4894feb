// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package executors

import (
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/memory"
	"github.com/kovdb75/postgres/storage/access"
	"github.com/kovdb75/postgres/storage/buffer"
)

/**
 * ExecutorContext stores all the context necessary to run an executor.
 * Slots of every executor of one query come from its tuple table, and
 * executor state lives in its memory context.
 */
type ExecutorContext struct {
	bpm        *buffer.BufferPoolManager
	txn        *access.Transaction
	mcxt       *memory.Context
	tupleTable *slot.TupleTable
}

func NewExecutorContext(bpm *buffer.BufferPoolManager, txn *access.Transaction, parent *memory.Context) *ExecutorContext {
	mcxt := memory.NewContext("ExecutorState", parent)
	return &ExecutorContext{bpm, txn, mcxt, slot.NewTupleTable(mcxt)}
}

func (e *ExecutorContext) GetBufferPoolManager() *buffer.BufferPoolManager {
	return e.bpm
}

func (e *ExecutorContext) GetTransaction() *access.Transaction {
	return e.txn
}

func (e *ExecutorContext) SetTransaction(txn *access.Transaction) {
	e.txn = txn
}

func (e *ExecutorContext) GetTupleTable() *slot.TupleTable {
	return e.tupleTable
}

func (e *ExecutorContext) MemoryContext() *memory.Context {
	return e.mcxt
}

// Close drops every slot of the query and its memory.
func (e *ExecutorContext) Close() {
	if e.mcxt.IsDeleted() {
		return
	}
	e.tupleTable.Reset(true)
	e.mcxt.Delete()
}
