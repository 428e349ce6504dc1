package normalize

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/value"
)

// Container returns v as a sequence of records. A mapping becomes a
// one-element sequence and a sequence whose entries are all mappings is
// returned as is. Anything else is a *goshape.NormalizationError.
func Container(v any) ([]any, error) {
	switch x := v.(type) {
	case *value.Map:
		return []any{x}, nil
	case []any:
		for i, e := range x {
			if _, ok := e.(*value.Map); !ok {
				return nil, &goshape.NormalizationError{
					Path:    goshape.Root().Index(i).String(),
					Message: "sequence entries must be mappings",
					Value:   e,
				}
			}
		}
		return x, nil
	}
	return nil, &goshape.NormalizationError{
		Path:    "/",
		Message: "data must be a mapping or a sequence of mappings",
		Value:   v,
	}
}
