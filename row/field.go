package row

import (
	"fmt"
	"strings"
)

// Field identifies one column of the schema.
type Field uint8

const (
	// AmountOfMoney is the account balance, [0, 1000000].
	AmountOfMoney Field = iota
	// Gender is 0 or 1.
	Gender
	// Age is [0, 100].
	Age
	// Code is [0, 1000000].
	Code
	// Height is [0, 300].
	Height

	// NumFields is the number of schema fields. Keep it last.
	NumFields
)

// fieldInfo describes the layout of one field.
type fieldInfo struct {
	name  string
	max   uint32
	bits  uint8
	shift uint8
}

// fields is the schema table, indexed by Field.
// Shifts are filled in by init from the bit widths (LSB first, enum order).
var fields = [NumFields]fieldInfo{
	AmountOfMoney: {name: "amount_of_money", max: 1_000_000, bits: 20},
	Gender:        {name: "gender", max: 1, bits: 1},
	Age:           {name: "age", max: 100, bits: 7},
	Code:          {name: "code", max: 1_000_000, bits: 20},
	Height:        {name: "height", max: 300, bits: 9},
}

// PackedBits is the total width of a PackedRow in bits.
var PackedBits uint8

func init() {
	var shift uint8
	for f := range NumFields {
		fields[f].shift = shift
		shift += fields[f].bits
	}
	if shift > 64 {
		panic(fmt.Sprintf("row: packed layout needs %d bits", shift))
	}
	PackedBits = shift
}

// Fields returns all schema fields in enumeration order.
func Fields() []Field {
	out := make([]Field, NumFields)
	for f := range NumFields {
		out[f] = f
	}
	return out
}

// String returns the schema name of the field (e.g. "amount_of_money").
func (f Field) String() string {
	if !f.Valid() {
		return fmt.Sprintf("Field(%d)", uint8(f))
	}
	return fields[f].name
}

// Valid reports whether f names a schema field.
func (f Field) Valid() bool {
	return f < NumFields
}

// Max returns the largest value the field is documented to hold.
func (f Field) Max() uint32 { return fields[f].max }

// Bits returns the width of the field in the packed representation.
func (f Field) Bits() uint8 { return fields[f].bits }

// Shift returns the bit offset of the field in the packed representation.
func (f Field) Shift() uint8 { return fields[f].shift }

// Mask returns the right-aligned bit mask of the field's packed width.
func (f Field) Mask() uint64 {
	return uint64(1)<<fields[f].bits - 1
}

// ParseField parses a schema field name. Matching is case-insensitive.
func ParseField(s string) (Field, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	for f := range NumFields {
		if fields[f].name == s {
			return f, true
		}
	}
	return NumFields, false
}
