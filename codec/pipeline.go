package codec

import (
	"context"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/infer"
	"github.com/reoring/goshape/normalize"
	"github.com/reoring/goshape/value"
)

// prepare turns encoder input into canonical data, checks the container
// shape and infers the schema.
func prepare(ctx context.Context, data any) (any, dtype.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, dtype.Type{}, err
	}
	v, err := value.FromNative(data)
	if err != nil {
		return nil, dtype.Type{}, &goshape.NormalizationError{Path: "/", Message: err.Error(), Value: data}
	}
	if _, err := normalize.Container(v); err != nil {
		return nil, dtype.Type{}, err
	}
	return v, infer.InferSchema(v), nil
}

// finish runs the shared steps after a decoder produced v: container check,
// optional cleanup, inference.
func finish(v any, opt goshape.Options) (any, dtype.Type, error) {
	if _, err := normalize.Container(v); err != nil {
		return nil, dtype.Type{}, err
	}
	v, err := cleanup(v, opt)
	if err != nil {
		return nil, dtype.Type{}, err
	}
	return v, infer.InferSchema(v), nil
}

func cleanup(v any, opt goshape.Options) (any, error) {
	if opt.KeyCase != "" {
		var err error
		if v, err = recaseRecords(v, normalize.Case(opt.KeyCase)); err != nil {
			return nil, err
		}
	}
	if opt.CollapseWhitespace {
		v = collapse(v)
	}
	if opt.ReplaceNullTokens {
		v = normalize.NewNullTokens(opt.NullTokens...).HandleNulls(v)
	}
	return v, nil
}

func recaseRecords(v any, c normalize.Case) (any, error) {
	switch x := v.(type) {
	case *value.Map:
		return normalize.Keys(x, c)
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			m, err := normalize.Keys(e.(*value.Map), c)
			if err != nil {
				return nil, err
			}
			out[i] = m
		}
		return out, nil
	}
	return v, nil
}

func collapse(v any) any {
	switch x := v.(type) {
	case string:
		return normalize.Whitespace(x)
	case *value.Map:
		out := value.NewMap(x.Len())
		x.Range(func(k string, e any) bool {
			out.Set(k, collapse(e))
			return true
		})
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = collapse(e)
		}
		return out
	}
	return v
}
