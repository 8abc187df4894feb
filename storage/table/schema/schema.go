// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package schema

import (
	"fmt"
	"math"

	"github.com/kovdb75/postgres/common"
	"github.com/kovdb75/postgres/storage/table/column"
)

// Schema describes the shape of a row: attribute count and per attribute
// type. It also carries the per column cached offsets used when decoding
// tuples.
//
// A schema made by NewRefCountedSchema counts its holders. The creator holds
// the first reference; every slot bound to it holds one more.
type Schema struct {
	length           uint32           // bytes used by the leading run of fixed width columns
	columns          []*column.Column // All the columns in the schema, inlined and uninlined.
	tupleIsInlined   bool             // True if all the columns are inlined, false otherwise
	uninlinedColumns []uint32         // Indices of all uninlined columns
	refCounted       bool
	refCount         int32
}

// NewSchema takes ownership of columns: their cached offsets are rewritten for
// this schema.
func NewSchema(columns []*column.Column) *Schema {
	common.SH_Assertf(len(columns) <= common.MaxTupleAttributeNumber,
		"schema: %d columns exceed the limit %d", len(columns), common.MaxTupleAttributeNumber)

	schema := &Schema{}
	schema.tupleIsInlined = true

	var currentOffset uint32
	for i := uint32(0); i < uint32(len(columns)); i++ {
		column_ := columns[i]

		if schema.tupleIsInlined {
			column_.SetCacheOffset(int32(currentOffset))
		} else {
			column_.SetCacheOffset(column.UnknownOffset)
		}

		if !column_.IsInlined() {
			if schema.tupleIsInlined {
				schema.length = currentOffset
			}
			schema.tupleIsInlined = false
			schema.uninlinedColumns = append(schema.uninlinedColumns, i)
		} else {
			currentOffset += column_.FixedLength()
		}

		schema.columns = append(schema.columns, column_)
	}
	if schema.tupleIsInlined {
		schema.length = currentOffset
	}
	return schema
}

func NewRefCountedSchema(columns []*column.Column) *Schema {
	schema := NewSchema(columns)
	schema.refCounted = true
	schema.refCount = 1
	return schema
}

func (s *Schema) GetColumn(colIndex uint32) *column.Column {
	return s.columns[colIndex]
}

func (s *Schema) GetUnlinedColumns() []uint32 {
	return s.uninlinedColumns
}

func (s *Schema) GetColumnCount() uint32 {
	return uint32(len(s.columns))
}

// Length is the width of the leading fixed width columns.
func (s *Schema) Length() uint32 {
	return s.length
}

func (s *Schema) IsInlined() bool {
	return s.tupleIsInlined
}

func (s *Schema) GetColIndex(columnName string) uint32 {
	for i := uint32(0); i < s.GetColumnCount(); i++ {
		if s.columns[i].GetColumnName() == columnName {
			return i
		}
	}

	return math.MaxUint32
}

func (s *Schema) GetColumns() []*column.Column {
	return s.columns
}

func (s *Schema) IsHaveColumn(columnName *string) bool {
	for _, col := range s.columns {
		if col.GetColumnName() == *columnName {
			return true
		}
	}
	return false
}

func (s *Schema) IsRefCounted() bool {
	return s.refCounted
}

func (s *Schema) RefCount() int32 {
	return s.refCount
}

// IncrRefCount is a no-op for schemas which are not reference counted.
func (s *Schema) IncrRefCount() {
	if !s.refCounted {
		return
	}
	common.SH_Assert(s.refCount > 0, "schema: reference taken on a released schema")
	s.refCount++
}

func (s *Schema) DecrRefCount() {
	if !s.refCounted {
		return
	}
	common.SH_Assert(s.refCount > 0, "schema: reference count underflow")
	s.refCount--
}

func (s *Schema) String() string {
	ret := "("
	for i, col := range s.columns {
		if i > 0 {
			ret += ", "
		}
		ret += fmt.Sprintf("%s %s", col.GetColumnName(), col.GetType())
	}
	return ret + ")"
}

// CopySchema builds a schema of the attrs columns of from. The result is
// not reference counted.
func CopySchema(from *Schema, attrs []uint32) *Schema {
	cols := make([]*column.Column, 0, len(attrs))
	for _, attr := range attrs {
		col := *from.columns[attr]
		cols = append(cols, &col)
	}
	return NewSchema(cols)
}
