// this code is from https://github.com/brunocalza/go-bustub
// there is license and copyright notice in licenses/go-bustub dir

package types

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"unsafe"

	"github.com/shopspring/decimal"
)

// A Value is a view over one SQL datum. Fixed width types are held in the
// Value itself. Varchar and Decimal keep their payload in ref, which may
// point into memory the Value does not own (a tuple in a buffer page, a chunk
// owned by another slot). Whoever produced such a Value keeps that memory
// alive; Detach makes a Value independent of it.
//
// NULL is not a Value state; nullness travels next to the Value.
type Value struct {
	valueType TypeID
	word      uint64
	ref       []byte
}

func NewBoolean(value bool) Value {
	var w uint64
	if value {
		w = 1
	}
	return Value{Boolean, w, nil}
}

func NewInteger(value int32) Value {
	return Value{Integer, uint64(uint32(value)), nil}
}

func NewBigInt(value int64) Value {
	return Value{BigInt, uint64(value), nil}
}

func NewFloat(value float32) Value {
	return Value{Float, uint64(math.Float32bits(value)), nil}
}

// NewVarchar copies value into a fresh payload.
func NewVarchar(value string) Value {
	return Value{Varchar, 0, []byte(value)}
}

// NewVarcharFromBytes aliases data. The caller keeps data alive and unchanged
// while the Value is in use.
func NewVarcharFromBytes(data []byte) Value {
	return Value{Varchar, 0, data}
}

// NewDecimal stores the canonical text form of value.
func NewDecimal(value decimal.Decimal) Value {
	return Value{Decimal, 0, []byte(value.String())}
}

func (v Value) ValueType() TypeID {
	return v.valueType
}

// IsValid is false for the zero Value, which is what NULL attributes hold.
func (v Value) IsValid() bool {
	return v.valueType != Invalid
}

func (v Value) IsByRef() bool {
	return v.valueType.IsByRef()
}

// Ref returns the by-reference payload without copying.
func (v Value) Ref() []byte {
	return v.ref
}

// Aliases reports whether v's payload lies inside mem.
func (v Value) Aliases(mem []byte) bool {
	if len(v.ref) == 0 || len(mem) == 0 {
		return false
	}
	start := uintptr(unsafe.Pointer(unsafe.SliceData(mem)))
	end := start + uintptr(cap(mem))
	p := uintptr(unsafe.Pointer(unsafe.SliceData(v.ref)))
	return p >= start && p < end
}

func (v Value) ToBoolean() bool {
	return v.word != 0
}

func (v Value) ToInteger() int32 {
	return int32(uint32(v.word))
}

func (v Value) ToBigInt() int64 {
	return int64(v.word)
}

func (v Value) ToFloat() float32 {
	return math.Float32frombits(uint32(v.word))
}

// ToVarchar copies the payload into a Go string.
func (v Value) ToVarchar() string {
	return string(v.ref)
}

func (v Value) ToDecimal() decimal.Decimal {
	return decimal.RequireFromString(string(v.ref))
}

// Size returns the number of bytes the value occupies inside a tuple.
func (v Value) Size() uint32 {
	if v.valueType.IsByRef() {
		return VarlenaHeaderSize + uint32(len(v.ref))
	}
	return v.valueType.Size()
}

// PayloadSize is the number of bytes Detach needs.
func (v Value) PayloadSize() uint32 {
	if v.valueType.IsByRef() {
		return uint32(len(v.ref))
	}
	return 0
}

// SerializeTo writes the tuple encoding of v at the head of dst and returns
// the number of bytes written.
func (v Value) SerializeTo(dst []byte) uint32 {
	switch v.valueType {
	case Boolean:
		dst[0] = byte(v.word)
		return 1
	case Integer, Float:
		binary.LittleEndian.PutUint32(dst, uint32(v.word))
		return 4
	case BigInt:
		binary.LittleEndian.PutUint64(dst, v.word)
		return 8
	case Varchar, Decimal:
		binary.LittleEndian.PutUint32(dst, uint32(len(v.ref)))
		copy(dst[VarlenaHeaderSize:], v.ref)
		return VarlenaHeaderSize + uint32(len(v.ref))
	}
	panic(fmt.Sprintf("illegal valueType %v is passed!", v.valueType))
}

func (v Value) Serialize() []byte {
	buf := make([]byte, v.Size())
	v.SerializeTo(buf)
	return buf
}

// DecodeValue reads one value of type valueType from the head of data and
// returns it with the number of bytes consumed. By-reference payloads alias
// data.
func DecodeValue(data []byte, valueType TypeID) (Value, uint32) {
	switch valueType {
	case Boolean:
		return Value{Boolean, uint64(data[0]), nil}, 1
	case Integer, Float:
		return Value{valueType, uint64(binary.LittleEndian.Uint32(data)), nil}, 4
	case BigInt:
		return Value{BigInt, binary.LittleEndian.Uint64(data), nil}, 8
	case Varchar, Decimal:
		length := binary.LittleEndian.Uint32(data)
		end := VarlenaHeaderSize + length
		return Value{valueType, 0, data[VarlenaHeaderSize:end:end]}, end
	}
	panic(fmt.Sprintf("%v is illegal", valueType))
}

// Detach copies a by-reference payload into buf (which must hold at least
// PayloadSize bytes) and returns the value pointing at buf with the number of
// bytes used. By-value types are returned unchanged.
func (v Value) Detach(buf []byte) (Value, uint32) {
	if !v.valueType.IsByRef() {
		return v, 0
	}
	n := uint32(len(v.ref))
	copy(buf, v.ref)
	return Value{v.valueType, 0, buf[:n:n]}, n
}

func (v Value) CompareEquals(right Value) bool {
	if v.valueType != right.valueType {
		return false
	}
	switch v.valueType {
	case Varchar:
		return bytes.Equal(v.ref, right.ref)
	case Decimal:
		return v.ToDecimal().Equal(right.ToDecimal())
	}
	return v.word == right.word
}

func (v Value) CompareNotEquals(right Value) bool {
	return !v.CompareEquals(right)
}

// compare orders two values of one type. Values of different types compare as
// equal.
func (v Value) compare(right Value) int {
	if v.valueType != right.valueType {
		return 0
	}
	switch v.valueType {
	case Boolean:
		l, r := v.ToBoolean(), right.ToBoolean()
		if l == r {
			return 0
		} else if !l {
			return -1
		}
		return 1
	case Integer:
		return cmpOrdered(v.ToInteger(), right.ToInteger())
	case BigInt:
		return cmpOrdered(v.ToBigInt(), right.ToBigInt())
	case Float:
		return cmpOrdered(v.ToFloat(), right.ToFloat())
	case Varchar:
		return bytes.Compare(v.ref, right.ref)
	case Decimal:
		return v.ToDecimal().Cmp(right.ToDecimal())
	}
	return 0
}

func cmpOrdered[T int32 | int64 | float32](l T, r T) int {
	if l < r {
		return -1
	} else if l > r {
		return 1
	}
	return 0
}

func (v Value) CompareLessThan(right Value) bool {
	return v.valueType == right.valueType && v.compare(right) < 0
}

func (v Value) CompareLessThanOrEqual(right Value) bool {
	return v.valueType == right.valueType && v.compare(right) <= 0
}

func (v Value) CompareGreaterThan(right Value) bool {
	return v.valueType == right.valueType && v.compare(right) > 0
}

func (v Value) CompareGreaterThanOrEqual(right Value) bool {
	return v.valueType == right.valueType && v.compare(right) >= 0
}

func (v Value) String() string {
	switch v.valueType {
	case Boolean:
		return fmt.Sprintf("%t", v.ToBoolean())
	case Integer:
		return fmt.Sprintf("%d", v.ToInteger())
	case BigInt:
		return fmt.Sprintf("%d", v.ToBigInt())
	case Float:
		return fmt.Sprintf("%g", v.ToFloat())
	case Varchar, Decimal:
		return string(v.ref)
	}
	return "<invalid>"
}
