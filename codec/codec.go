// Package codec selects the encoding used for filter documents and reports.
package codec

import (
	"fmt"

	"github.com/hupe1980/rangescan/filter"
)

// Codec encodes/decodes values.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// Default is the codec used when none is named.
var Default Codec = GoJSON{}

// Names lists the built-in codecs.
func Names() []string {
	return []string{JSON{}.Name(), GoJSON{}.Name()}
}

// ByName returns a built-in codec by its stable name.
// The empty name selects Default.
func ByName(name string) (Codec, bool) {
	switch name {
	case "":
		return Default, true
	case "json":
		return JSON{}, true
	case "go-json":
		return GoJSON{}, true
	default:
		return nil, false
	}
}

// DecodeFilter decodes a filter document such as {"age": [25, 35]}.
func DecodeFilter(c Codec, data []byte) (*filter.Range, error) {
	if c == nil {
		c = Default
	}
	var r filter.Range
	if err := c.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("codec %s: decode filter: %w", c.Name(), err)
	}
	return &r, nil
}
