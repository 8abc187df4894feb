package executors

import (
	"github.com/kovdb75/postgres/execution/slot"
	"github.com/kovdb75/postgres/storage/table/schema"
)

type Done bool

// Executor executes a plan
//
// Init initializes this executor.
// This function must be called before Next() is called!
//
// Next produces the next row in a slot owned by this executor. The row stays
// valid until the following call to Next or Close.
//
// Close releases the slots, pins and memory of this executor and its children.
type Executor interface {
	Init() error
	Next() (*slot.TupleTableSlot, Done, error)
	GetOutputSchema() *schema.Schema
	Close()
}
