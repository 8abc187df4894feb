package types

type TypeID int

const (
	Invalid TypeID = iota
	Boolean
	Integer
	BigInt
	Float
	Varchar
	Decimal
)

// VarlenaHeaderSize is the length prefix stored in front of variable width values.
const VarlenaHeaderSize = 4

// Size returns the width of a fixed width type, 0 for variable width types.
func (t TypeID) Size() uint32 {
	switch t {
	case Boolean:
		return 1
	case Integer, Float:
		return 4
	case BigInt:
		return 8
	}
	return 0
}

// IsByRef reports whether values of the type carry their payload in memory
// outside the Value itself.
func (t TypeID) IsByRef() bool {
	return t == Varchar || t == Decimal
}

func (t TypeID) String() string {
	switch t {
	case Boolean:
		return "Boolean"
	case Integer:
		return "Integer"
	case BigInt:
		return "BigInt"
	case Float:
		return "Float"
	case Varchar:
		return "Varchar"
	case Decimal:
		return "Decimal"
	}
	return "Invalid"
}
