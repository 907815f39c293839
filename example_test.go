package rangescan_test

import (
	"fmt"
	"log"

	"github.com/hupe1980/rangescan"
	"github.com/hupe1980/rangescan/filter"
	"github.com/hupe1980/rangescan/row"
	"github.com/hupe1980/rangescan/scan"
)

var exampleRows = []row.Row{
	row.New(500, 1, 30, 2, 170),
	row.New(10, 0, 40, 2, 160),
	row.New(7, 1, 26, 5, 180),
	row.New(7, 1, 26, 6, 180),
}

// Example demonstrates counting and scanning on every backend.
func Example() {
	eng, err := rangescan.New()
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	f := filter.New().
		Set(row.Age, 25, 35).
		Set(row.Code, 0, 5)

	for _, b := range rangescan.Backends() {
		res, err := eng.Scan(b, exampleRows, f)
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%s: %d\n", b, res.Count)
	}
	// Output:
	// scalar: 2
	// task-parallel: 2
	// data-parallel: 2
}

// Example_mask demonstrates the data-parallel match mask.
func Example_mask() {
	eng, err := rangescan.New(rangescan.WithDevice(scan.SerialDevice{}))
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	m, err := eng.Mask(exampleRows, filter.New().Set(row.Height, 170, 200))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(m.Mask, m.Indices())
	// Output: [1 0 1 1] [0 2 3]
}

// Example_packed demonstrates the packed row encoding.
func Example_packed() {
	p := row.Encode(exampleRows[0])

	fmt.Println(row.PackedBits, p.Get(row.Height), p.Row())
	// Output: 57 170 {amount_of_money=500 gender=1 age=30 code=2 height=170}
}

// Example_verify demonstrates cross-backend verification.
func Example_verify() {
	eng, err := rangescan.New()
	if err != nil {
		log.Fatal(err)
	}
	defer eng.Close()

	r, err := eng.Verify(exampleRows, filter.New().Set(row.Gender, 1, 1))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(r.Rows, r.Count)
	// Output: 4 3
}
