package row

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldTable(t *testing.T) {
	tests := []struct {
		f     Field
		name  string
		max   uint32
		bits  uint8
		shift uint8
	}{
		{AmountOfMoney, "amount_of_money", 1_000_000, 20, 0},
		{Gender, "gender", 1, 1, 20},
		{Age, "age", 100, 7, 21},
		{Code, "code", 1_000_000, 20, 28},
		{Height, "height", 300, 9, 48},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.name, tt.f.String())
			assert.Equal(t, tt.max, tt.f.Max())
			assert.Equal(t, tt.bits, tt.f.Bits())
			assert.Equal(t, tt.shift, tt.f.Shift())
			// The documented maximum must fit the packed width.
			assert.LessOrEqual(t, uint64(tt.f.Max()), tt.f.Mask())
		})
	}

	assert.Equal(t, uint8(57), PackedBits)
	assert.Len(t, Fields(), int(NumFields))
}

func TestParseField(t *testing.T) {
	f, ok := ParseField("age")
	require.True(t, ok)
	assert.Equal(t, Age, f)

	f, ok = ParseField("  Amount_Of_Money ")
	require.True(t, ok)
	assert.Equal(t, AmountOfMoney, f)

	_, ok = ParseField("weight")
	assert.False(t, ok)

	assert.Equal(t, "Field(9)", Field(9).String())
	assert.False(t, Field(9).Valid())
}

func TestRowAccessors(t *testing.T) {
	r := New(500, 1, 30, 100, 180)

	assert.Equal(t, uint32(500), r.AmountOfMoney())
	assert.Equal(t, uint32(1), r.Gender())
	assert.Equal(t, uint32(30), r.Age())
	assert.Equal(t, uint32(100), r.Code())
	assert.Equal(t, uint32(180), r.Height())

	r.Set(Age, 31)
	assert.Equal(t, uint32(31), r.Get(Age))
	assert.True(t, r.InRange())

	r.Set(Height, 301)
	assert.False(t, r.InRange())

	assert.Equal(t, "{amount_of_money=500 gender=1 age=31 code=100 height=301}", r.String())
}

func TestCodecRoundTrip_Boundaries(t *testing.T) {
	rows := []Row{
		{},
		New(1_000_000, 1, 100, 1_000_000, 300),
		New(1, 0, 1, 1, 1),
		New(500, 1, 30, 100, 180),
		// Largest values representable in the packed widths.
		New(1<<20-1, 1, 1<<7-1, 1<<20-1, 1<<9-1),
	}

	for _, r := range rows {
		p := Encode(r)
		assert.Zero(t, uint64(p)>>PackedBits, "high bits must stay clear")
		assert.Equal(t, r, Decode(p))
		assert.Equal(t, r, p.Row())
		for _, f := range Fields() {
			assert.Equal(t, r.Get(f), p.Get(f))
		}
	}
}

func TestCodecRoundTrip_Random(t *testing.T) {
	rng := rand.New(rand.NewSource(42))

	for range 10_000 {
		var r Row
		for _, f := range Fields() {
			r.Set(f, uint32(rng.Int63n(int64(f.Max())+1)))
		}
		require.Equal(t, r, Decode(Encode(r)))
	}
}

func TestCodecTruncation(t *testing.T) {
	r := New(1<<20|5, 3, 1<<7|9, 0, 1<<9|300)

	got := Decode(Encode(r))

	assert.Equal(t, uint32(5), got.AmountOfMoney())
	assert.Equal(t, uint32(1), got.Gender())
	assert.Equal(t, uint32(9), got.Age())
	assert.Equal(t, uint32(0), got.Code())
	assert.Equal(t, uint32(300), got.Height())
}

func TestEncodeDecodeAll(t *testing.T) {
	rows := []Row{New(1, 0, 2, 3, 4), New(5, 1, 6, 7, 8), New(9, 0, 10, 11, 12)}

	packed := EncodeAll(nil, rows)
	require.Len(t, packed, 3)

	decoded := DecodeAll(make([]Row, 0, 8), packed)
	assert.Equal(t, rows, decoded)

	assert.Empty(t, EncodeAll(nil, nil))
	assert.Empty(t, DecodeAll(nil, nil))
}
