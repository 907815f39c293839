package filter

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/hupe1980/rangescan/row"
)

var (
	// ErrUnknownField is returned when a filter document names a field that
	// is not part of the schema.
	ErrUnknownField = errors.New("unknown field")

	// ErrInvalidBounds is returned when a field's bounds are not a
	// [begin, end] pair.
	ErrInvalidBounds = errors.New("bounds must be [begin, end]")
)

// MarshalJSON encodes the active ranges as {"field": [begin, end], ...}.
func (r Range) MarshalJSON() ([]byte, error) {
	doc := make(map[string][2]uint32)
	for f := range row.NumFields {
		if r.Active[f] {
			doc[f.String()] = [2]uint32{r.Begin[f], r.End[f]}
		}
	}
	return json.Marshal(doc)
}

// UnmarshalJSON decodes a document produced by MarshalJSON. Fields absent from
// the document are inactive.
func (r *Range) UnmarshalJSON(data []byte) error {
	var doc map[string][]uint32
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}

	var out Range
	for name, bounds := range doc {
		f, ok := row.ParseField(name)
		if !ok {
			return fmt.Errorf("%w: %q", ErrUnknownField, name)
		}
		if len(bounds) != 2 {
			return fmt.Errorf("%w: %s has %d values", ErrInvalidBounds, name, len(bounds))
		}
		out.Set(f, bounds[0], bounds[1])
	}

	*r = out
	return nil
}
