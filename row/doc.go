// Package row defines the fixed record schema scanned by rangescan.
//
// # Schema
//
// A Row has five unsigned fields addressed by the closed Field enumeration:
//
//	Field          Range          Packed bits
//	amount_of_money [0, 1000000]  20
//	gender          [0, 1]         1
//	age             [0, 100]       7
//	code            [0, 1000000]  20
//	height          [0, 300]       9
//
// Every per-field structure in the module is an array sized by NumFields, so
// extending the schema is a new Field constant plus one entry in the field
// table; array literals elsewhere stop compiling until they are updated.
//
// # Representations
//
// Row is the natural-width form (one uint32 per field). PackedRow stores the
// same values in 57 bits of a uint64. Encode and Decode are inverses for
// values within the declared ranges; wider values lose their high bits.
package row
