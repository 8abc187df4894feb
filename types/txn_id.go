// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"encoding/binary"

	"github.com/kovdb75/postgres/common"
)

// TxnID is the type of the transaction identifier
type TxnID int32

const InvalidTxnID = TxnID(common.InvalidTxnID)

// Serialize casts it to []byte
func (id TxnID) Serialize() []byte {
	buf := make([]byte, 4)
	binary.LittleEndian.PutUint32(buf, uint32(id))
	return buf
}

func NewTxnIDFromBytes(data []byte) TxnID {
	return TxnID(binary.LittleEndian.Uint32(data))
}

// OID identifies a relation.
type OID uint32

const InvalidOID = OID(0)
