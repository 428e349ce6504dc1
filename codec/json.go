package codec

import (
	"context"
	"errors"

	json "github.com/goccy/go-json"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
	eng "github.com/reoring/goshape/internal/engine"
	"github.com/reoring/goshape/source/gojson"
	stdjson "github.com/reoring/goshape/source/json"
	"github.com/reoring/goshape/value"
)

// JSONFormat reads and writes JSON text. Objects keep their member order,
// numbers decode per Options.NumberMode and Options.JSONDriver picks the
// tokenizer.
type JSONFormat struct {
	opt goshape.Options
}

// JSON returns the JSON adapter for opt.
func JSON(opt goshape.Options) *JSONFormat { return &JSONFormat{opt: opt} }

func (f *JSONFormat) Name() string         { return "JSON" }
func (f *JSONFormat) Extensions() []string { return []string{".json"} }

// Encode serializes data deterministically with Options.Indent per level.
func (f *JSONFormat) Encode(ctx context.Context, data any) ([]byte, dtype.Type, error) {
	v, schema, err := prepare(ctx, data)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	b, err := value.MarshalJSONIndent(v, f.opt.Indent)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	return b, schema, nil
}

// Decode parses one JSON object or array of objects.
func (f *JSONFormat) Decode(ctx context.Context, text []byte) (any, dtype.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	v, err := decodeJSON(text, f.opt)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	v, schema, err := finish(v, f.opt)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	return v, schema, nil
}

// decodeJSON checks the grammar up front: the token streams only track
// nesting and accept missing separators and trailing commas.
func decodeJSON(text []byte, opt goshape.Options) (any, error) {
	if !json.Valid(text) {
		return nil, &goshape.ParseError{Path: "/", Offset: -1, Message: "invalid JSON text"}
	}
	src := eng.WrapWithEnforcement(tokenizer(opt.JSONDriver, text), eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
	})
	v, err := eng.Decode(src, numberConv(opt.NumberMode))
	if err != nil {
		var pe *goshape.ParseError
		if errors.As(err, &pe) {
			return nil, err
		}
		return nil, &goshape.ParseError{Path: "/", Offset: src.Location(), Cause: err}
	}
	return v, nil
}

func tokenizer(d goshape.JSONDriver, text []byte) eng.TokenSource {
	if d == goshape.DriverStdlib {
		return stdjson.NewBytes(text)
	}
	return gojson.NewBytes(text)
}

func toEngineDup(p goshape.DuplicatePolicy) eng.DuplicateStrictness {
	if p == goshape.DuplicateError {
		return eng.DupError
	}
	return eng.DupIgnore
}

func numberConv(m goshape.NumberMode) eng.NumberConv {
	switch m {
	case goshape.NumberFloat64:
		return eng.Float64Number
	case goshape.NumberDecimal:
		return eng.DecimalNumber
	default:
		return eng.AutoNumber
	}
}
