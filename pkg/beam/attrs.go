package beam

import (
	"fmt"

	"github.com/smaximov/elixir-sense/internal/etf"
)

// DecodeBehaviours extracts the behaviour declarations from an "Attr" chunk
// payload. The chunk carries the module's attribute proplist; both the
// behaviour and the legacy behavior spelling count, flattened in attribute
// order.
func DecodeBehaviours(chunk []byte) ([]string, error) {
	term, err := etf.Decode(chunk)
	if err != nil {
		return nil, fmt.Errorf("%w %s: %w", ErrMalformedChunk, AttrChunk, err)
	}
	attrs, ok := term.([]etf.Term)
	if !ok {
		return nil, fmt.Errorf("%w %s: attributes are not a list", ErrMalformedChunk, AttrChunk)
	}

	var behaviours []string
	for _, attr := range attrs {
		pair, ok := attr.(etf.Tuple)
		if !ok || len(pair) != 2 {
			continue
		}
		if pair[0] != etf.Atom("behaviour") && pair[0] != etf.Atom("behavior") {
			continue
		}
		values, ok := pair[1].([]etf.Term)
		if !ok {
			continue
		}
		for _, value := range values {
			if atom, ok := value.(etf.Atom); ok {
				behaviours = append(behaviours, moduleName(atom))
			}
		}
	}
	return behaviours, nil
}
