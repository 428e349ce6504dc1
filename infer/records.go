package infer

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/value"
)

// RecordSchema returns the Struct describing every record in records. Keys
// absent from some records unify with Null. An empty input yields an empty
// Struct.
func RecordSchema(records []any) (dtype.Type, error) {
	types := make([]dtype.Type, 0, len(records))
	for i, r := range records {
		m, ok := r.(*value.Map)
		if !ok {
			return dtype.Type{}, &goshape.NormalizationError{
				Path:    goshape.Root().Index(i).String(),
				Message: "record is not a mapping",
				Value:   r,
			}
		}
		types = append(types, InferSchema(m))
	}
	if len(types) == 0 {
		return dtype.StructOf(), nil
	}
	return Unify(types...), nil
}
