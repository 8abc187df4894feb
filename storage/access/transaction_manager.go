package access

import (
	"sync"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/types"
)

/**
 * TransactionManager hands out transaction ids and finishes transactions
 * by applying or undoing their write sets.
 */
type TransactionManager struct {
	next_txn_id types.TxnID
	mutex       *sync.Mutex
}

func NewTransactionManager() *TransactionManager {
	return &TransactionManager{0, new(sync.Mutex)}
}

func (transaction_manager *TransactionManager) Begin(txn *Transaction) *Transaction {
	if txn != nil {
		return txn
	}
	transaction_manager.mutex.Lock()
	defer transaction_manager.mutex.Unlock()
	transaction_manager.next_txn_id += 1
	return NewTransaction(transaction_manager.next_txn_id)
}

// Commit makes the deletes of txn final.
func (transaction_manager *TransactionManager) Commit(txn *Transaction) error {
	txn.SetState(COMMITTED)

	// Perform all deletes before we commit.
	write_set := txn.GetWriteSet()
	for len(write_set) != 0 {
		item := write_set[len(write_set)-1]
		if item.wtype == DELETE {
			if err := item.table.ApplyDelete(item.rid); err != nil {
				return err
			}
		}
		write_set = write_set[:len(write_set)-1]
	}
	txn.SetWriteSet(write_set)
	return nil
}

// Abort undoes the writes of txn, newest first.
func (transaction_manager *TransactionManager) Abort(txn *Transaction) error {
	txn.SetState(ABORTED)

	write_set := txn.GetWriteSet()
	for len(write_set) != 0 {
		item := write_set[len(write_set)-1]
		var err error
		switch item.wtype {
		case INSERT:
			err = item.table.ApplyDelete(item.rid)
		case DELETE:
			err = item.table.RollbackDelete(item.rid)
		}
		if err != nil {
			common.ShPrintf(common.ERROR, "TransactionManager::Abort: %v\n", err)
			return err
		}
		write_set = write_set[:len(write_set)-1]
	}
	txn.SetWriteSet(write_set)
	return nil
}
