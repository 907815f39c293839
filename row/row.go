package row

import (
	"fmt"
	"strings"
	"unsafe"
)

// Row is the natural-width representation of a record: one machine word per
// field, indexed by Field.
type Row [NumFields]uint32

// Size is the in-memory size of a Row in bytes.
const Size = int(unsafe.Sizeof(Row{}))

// New builds a Row from its field values.
func New(amountOfMoney, gender, age, code, height uint32) Row {
	var r Row
	r[AmountOfMoney] = amountOfMoney
	r[Gender] = gender
	r[Age] = age
	r[Code] = code
	r[Height] = height
	return r
}

// Get returns the value of field f.
func (r Row) Get(f Field) uint32 { return r[f] }

// Set assigns v to field f.
func (r *Row) Set(f Field, v uint32) { r[f] = v }

func (r Row) AmountOfMoney() uint32 { return r[AmountOfMoney] }
func (r Row) Gender() uint32        { return r[Gender] }
func (r Row) Age() uint32           { return r[Age] }
func (r Row) Code() uint32          { return r[Code] }
func (r Row) Height() uint32        { return r[Height] }

// InRange reports whether every field lies within its documented range.
// Rows outside the range are accepted everywhere but do not survive packing.
func (r Row) InRange() bool {
	for f := range NumFields {
		if r[f] > fields[f].max {
			return false
		}
	}
	return true
}

// String formats the row as "name=value" pairs in field order.
func (r Row) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for f := range NumFields {
		if f > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%s=%d", fields[f].name, r[f])
	}
	sb.WriteByte('}')
	return sb.String()
}
