package tuple

import (
	"fmt"

	"github.com/kovdb75/postgres/storage/table/schema"
	"github.com/kovdb75/postgres/types"
)

// System attributes are addressed with negative attribute numbers.
const (
	SelfItemPointerAttributeNumber     = -1
	MinTransactionIdAttributeNumber    = -2
	MaxTransactionIdAttributeNumber    = -3
	TableOidAttributeNumber            = -4
	FirstLowInvalidHeapAttributeNumber = -5
)

func IsSystemAttribute(attnum int) bool {
	return attnum < 0 && attnum > FirstLowInvalidHeapAttributeNumber
}

// SystemAttributeName returns the column name of a system attribute.
func SystemAttributeName(attnum int) string {
	switch attnum {
	case SelfItemPointerAttributeNumber:
		return "ctid"
	case MinTransactionIdAttributeNumber:
		return "xmin"
	case MaxTransactionIdAttributeNumber:
		return "xmax"
	case TableOidAttributeNumber:
		return "tableoid"
	}
	return fmt.Sprintf("invalid(%d)", attnum)
}

// DeformTuple decodes every attribute of t. Attributes the tuple is too short
// to hold get the missing value of their column, or NULL. By-reference values
// alias the bytes of t.
func DeformTuple(t *HeapTuple, schema_ *schema.Schema) ([]types.Value, []bool) {
	natts := int(schema_.GetColumnCount())
	values := make([]types.Value, natts)
	isnull := make([]bool, natts)

	tupNatts := t.Natts()
	if tupNatts > natts {
		tupNatts = natts
	}
	data := t.DataArea()
	off := uint32(0)
	for i := 0; i < tupNatts; i++ {
		if t.AttIsNull(i) {
			isnull[i] = true
			continue
		}
		var n uint32
		values[i], n = types.DecodeValue(data[off:], schema_.GetColumn(uint32(i)).GetType())
		off += n
	}
	for i := tupNatts; i < natts; i++ {
		missing, ok := schema_.GetColumn(uint32(i)).GetMissing()
		if ok && missing.IsValid() {
			values[i] = missing
		} else {
			isnull[i] = true
		}
	}
	return values, isnull
}

// GetSysAttr returns a system attribute of t. isnull is true for attributes
// a minimal tuple wrapper does not carry.
func (t *HeapTuple) GetSysAttr(attnum int) (types.Value, bool) {
	switch attnum {
	case SelfItemPointerAttributeNumber:
		return types.NewBigInt(t.self.Pack()), false
	case MinTransactionIdAttributeNumber:
		if t.data == nil {
			return types.Value{}, true
		}
		return types.NewInteger(int32(t.Xmin())), false
	case MaxTransactionIdAttributeNumber:
		if t.data == nil {
			return types.Value{}, true
		}
		return types.NewInteger(int32(t.Xmax())), false
	case TableOidAttributeNumber:
		return types.NewBigInt(int64(t.tableOid)), false
	}
	panic(fmt.Sprintf("tuple: invalid system attribute number %d", attnum))
}
