package row

// PackedRow is the bit-packed representation of a Row.
//
// Fields are laid out LSB first in Field order using the widths from the
// schema table (20/1/7/20/9, 57 bits in total); the remaining high bits are
// always zero.
type PackedRow uint64

// Encode packs r. Field values wider than their bit width are truncated to
// the low bits; this is the accepted lossy edge case of the packed form.
func Encode(r Row) PackedRow {
	var p uint64
	for f := range NumFields {
		p |= (uint64(r[f]) & f.Mask()) << fields[f].shift
	}
	return PackedRow(p)
}

// Decode unpacks p into its natural-width form.
func Decode(p PackedRow) Row {
	var r Row
	for f := range NumFields {
		r[f] = uint32((uint64(p) >> fields[f].shift) & f.Mask())
	}
	return r
}

// Get extracts a single field without decoding the whole row.
func (p PackedRow) Get(f Field) uint32 {
	return uint32((uint64(p) >> fields[f].shift) & f.Mask())
}

// Row decodes p. Shorthand for Decode(p).
func (p PackedRow) Row() Row { return Decode(p) }

// EncodeAll packs rows into dst, growing it when its capacity is too small.
func EncodeAll(dst []PackedRow, rows []Row) []PackedRow {
	if cap(dst) < len(rows) {
		dst = make([]PackedRow, len(rows))
	} else {
		dst = dst[:len(rows)]
	}
	for i := range rows {
		dst[i] = Encode(rows[i])
	}
	return dst
}

// DecodeAll unpacks packed into dst, growing it when its capacity is too small.
func DecodeAll(dst []Row, packed []PackedRow) []Row {
	if cap(dst) < len(packed) {
		dst = make([]Row, len(packed))
	} else {
		dst = dst[:len(packed)]
	}
	for i, p := range packed {
		dst[i] = Decode(p)
	}
	return dst
}
