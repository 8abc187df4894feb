// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package column

import (
	"github.com/kovdb75/postgres/types"
)

// UnknownOffset marks a column whose position inside tuple data depends on
// the values stored before it.
const UnknownOffset = -1

type Column struct {
	columnName  string
	columnType  types.TypeID
	cacheOffset int32       // byte offset from the start of tuple data when no earlier value is null or variable width
	hasMissing  bool        // rows stored before the column was added read back missingVal
	missingVal  types.Value // only meaningful when hasMissing
}

func NewColumn(name string, columnType types.TypeID) *Column {
	return &Column{name, columnType, UnknownOffset, false, types.Value{}}
}

// NewColumnWithMissing creates a column added to a table after rows were
// already stored. Those shorter rows report missing for this attribute.
func NewColumnWithMissing(name string, columnType types.TypeID, missing types.Value) *Column {
	if missing.IsValid() && missing.ValueType() != columnType {
		panic("missing value type differs from the column type")
	}
	return &Column{name, columnType, UnknownOffset, true, missing}
}

// IsInlined is true for fixed width columns.
func (c *Column) IsInlined() bool {
	return !c.columnType.IsByRef()
}

func (c *Column) IsByRef() bool {
	return c.columnType.IsByRef()
}

func (c *Column) GetType() types.TypeID {
	return c.columnType
}

// FixedLength is the stored width of an inlined column, 0 otherwise.
func (c *Column) FixedLength() uint32 {
	return c.columnType.Size()
}

func (c *Column) GetCacheOffset() int32 {
	return c.cacheOffset
}

func (c *Column) SetCacheOffset(offset int32) {
	c.cacheOffset = offset
}

func (c *Column) GetColumnName() string {
	return c.columnName
}

// GetMissing returns the value of this attribute for rows stored before the
// column existed. ok is false when the column has no such value, in which case
// those rows read NULL. A valid return with an invalid Value also means NULL.
func (c *Column) GetMissing() (types.Value, bool) {
	return c.missingVal, c.hasMissing
}
