package access

import (
	"github.com/kovdb75/postgres/storage/page"
	"github.com/kovdb75/postgres/types"
)

/**
 * Transaction states:
 *
 *     _______________
 *    |               v
 * GROWING -> COMMITTED   ABORTED
 *    |___________________^
 *
 **/

type TransactionState int32

const (
	GROWING TransactionState = iota
	COMMITTED
	ABORTED
)

/**
 * Type of write operation.
 */
type WType int32

const (
	INSERT WType = iota
	DELETE
)

/**
 * WriteRecord tracks information related to a write.
 */
type WriteRecord struct {
	rid   page.RID
	wtype WType
	/** The table heap specifies which table this write record is for. */
	table *TableHeap
}

func NewWriteRecord(rid page.RID, wtype WType, table *TableHeap) *WriteRecord {
	return &WriteRecord{rid, wtype, table}
}

/**
 * Transaction tracks information related to a transaction.
 */
type Transaction struct {
	/** The current transaction state. */
	state TransactionState

	/** The id of this transaction. */
	txn_id types.TxnID

	/** The undo set of the transaction. */
	write_set []*WriteRecord
	dbgInfo   string
}

func NewTransaction(txn_id types.TxnID) *Transaction {
	return &Transaction{
		GROWING,
		txn_id,
		make([]*WriteRecord, 0),
		"",
	}
}

/** @return the id of this transaction */
func (txn *Transaction) GetTransactionId() types.TxnID { return txn.txn_id }

/** @return the list of of write records of this transaction */
func (txn *Transaction) GetWriteSet() []*WriteRecord { return txn.write_set }

func (txn *Transaction) SetWriteSet(write_set []*WriteRecord) { txn.write_set = write_set }

func (txn *Transaction) AddIntoWriteSet(write_record *WriteRecord) {
	txn.write_set = append(txn.write_set, write_record)
}

/** @return the current state of the transaction */
func (txn *Transaction) GetState() TransactionState { return txn.state }

func (txn *Transaction) SetState(state TransactionState) {
	txn.state = state
}

func (txn *Transaction) GetDebugInfo() string { return txn.dbgInfo }

func (txn *Transaction) SetDebugInfo(dbgInfo string) { txn.dbgInfo = dbgInfo }
