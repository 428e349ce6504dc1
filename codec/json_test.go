package codec_test

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/codec"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/value"
)

func compact() goshape.Options {
	opt := goshape.DefaultOptions()
	opt.Indent = ""
	return opt
}

func TestJSON_Decode(t *testing.T) {
	ctx := context.Background()
	v, schema, err := codec.JSON(compact()).Decode(ctx, []byte(`{"name":"Ann","scores":[1,2,3]}`))
	require.NoError(t, err)

	want := value.MapOf("name", "Ann", "scores", []any{int64(1), int64(2), int64(3)})
	assert.True(t, value.Equal(want, v), "got %v", v)
	assert.True(t, dtype.StructOf(
		dtype.F("name", dtype.String),
		dtype.F("scores", dtype.ListOf(dtype.Integer)),
	).Equal(schema), "got %s", schema)
}

func TestJSON_DecodeRecords(t *testing.T) {
	v, schema, err := codec.JSON(compact()).Decode(context.Background(), []byte(`[{"id":1},{"id":2.5,"x":null}]`))
	require.NoError(t, err)
	require.Len(t, v, 2)
	assert.True(t, dtype.ListOf(dtype.StructOf(
		dtype.F("id", dtype.Float),
		dtype.F("x", dtype.Null),
	)).Equal(schema), "got %s", schema)
}

func TestJSON_EncodeCompactAndIndent(t *testing.T) {
	ctx := context.Background()
	data := value.MapOf("b", int64(1), "a", []any{true, nil, 2.5, "s"})

	b, schema, err := codec.JSON(compact()).Encode(ctx, data)
	require.NoError(t, err)
	assert.Equal(t, `{"b":1,"a":[true,null,2.5,"s"]}`, string(b))
	assert.Equal(t, dtype.KindStruct, schema.Kind())

	b, _, err = codec.JSON(goshape.DefaultOptions()).Encode(ctx, data)
	require.NoError(t, err)
	assert.Contains(t, string(b), "\n    \"b\": 1,")
}

func TestJSON_EncodeNative(t *testing.T) {
	type rec struct {
		ID   int    `json:"id"`
		Name string `json:"name"`
	}
	b, schema, err := codec.JSON(compact()).Encode(context.Background(), []rec{{1, "a"}, {2, "b"}})
	require.NoError(t, err)
	assert.Equal(t, `[{"id":1,"name":"a"},{"id":2,"name":"b"}]`, string(b))
	assert.True(t, dtype.ListOf(dtype.StructOf(
		dtype.F("id", dtype.Integer),
		dtype.F("name", dtype.String),
	)).Equal(schema), "got %s", schema)
}

func TestJSON_RejectsNonContainer(t *testing.T) {
	ctx := context.Background()
	for _, in := range []string{`5`, `"x"`, `null`, `[1,2]`} {
		_, _, err := codec.JSON(compact()).Decode(ctx, []byte(in))
		var ce *goshape.ConversionError
		require.ErrorAs(t, err, &ce, in)
		assert.Equal(t, "decode", ce.Op)
		assert.Equal(t, goshape.CodeNormalization, goshape.CodeOf(err), in)
	}

	_, _, err := codec.JSON(compact()).Encode(ctx, int64(5))
	assert.Equal(t, goshape.CodeNormalization, goshape.CodeOf(err))
}

func TestJSON_ParseErrors(t *testing.T) {
	ctx := context.Background()
	inputs := []string{
		``,
		`{"a":1`,
		`{"a":1} {"b":2}`,
		`{"a" 1}`,
		`[{"a":1} {"b":2}]`,
		`{"a":1,}`,
		`{"a":[1,2,]}`,
	}
	for _, driver := range []goshape.JSONDriver{goshape.DriverGoJSON, goshape.DriverStdlib} {
		opt := compact()
		opt.JSONDriver = driver
		for _, in := range inputs {
			_, _, err := codec.JSON(opt).Decode(ctx, []byte(in))
			var ce *goshape.ConversionError
			require.ErrorAs(t, err, &ce, "%s: %s", driver, in)
			assert.Equal(t, goshape.CodeParseError, goshape.CodeOf(err), "%s: %s", driver, in)
		}
	}
}

func TestJSON_DuplicateKeys(t *testing.T) {
	ctx := context.Background()
	in := []byte(`{"a":1,"a":2}`)

	v, _, err := codec.JSON(compact()).Decode(ctx, in)
	require.NoError(t, err)
	a, _ := v.(*value.Map).Get("a")
	assert.Equal(t, int64(2), a)

	opt := compact()
	opt.OnDuplicateKey = goshape.DuplicateError
	_, _, err = codec.JSON(opt).Decode(ctx, in)
	var pe *goshape.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/a", pe.Path)
	assert.Equal(t, goshape.CodeDuplicateKey, goshape.CodeOf(err))
}

func TestJSON_MaxDepth(t *testing.T) {
	opt := compact()
	opt.MaxDepth = 2
	_, _, err := codec.JSON(opt).Decode(context.Background(), []byte(`{"a":{"b":{"c":1}}}`))
	assert.Equal(t, goshape.CodeMaxDepth, goshape.CodeOf(err))
}

func TestJSON_NumberModes(t *testing.T) {
	ctx := context.Background()
	in := []byte(`{"i":7,"f":0.1}`)

	opt := compact()
	opt.NumberMode = goshape.NumberDecimal
	v, schema, err := codec.JSON(opt).Decode(ctx, in)
	require.NoError(t, err)
	f, _ := v.(*value.Map).Get("f")
	assert.True(t, decimal.RequireFromString("0.1").Equal(f.(decimal.Decimal)))
	ft, _ := schema.Field("f")
	assert.Equal(t, dtype.KindDecimal, ft.Kind())

	opt.NumberMode = goshape.NumberFloat64
	v, _, err = codec.JSON(opt).Decode(ctx, in)
	require.NoError(t, err)
	i, _ := v.(*value.Map).Get("i")
	assert.Equal(t, 7.0, i)
}

func TestJSON_Cleanup(t *testing.T) {
	opt := compact()
	opt.KeyCase = "lower"
	opt.CollapseWhitespace = true
	opt.ReplaceNullTokens = true
	v, schema, err := codec.JSON(opt).Decode(context.Background(), []byte(`{"Name":"  Ann   Lee ","City":"N/A"}`))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.MapOf("name", "Ann Lee", "city", nil), v), "got %v", v)
	ct, _ := schema.Field("city")
	assert.Equal(t, dtype.KindNull, ct.Kind())
}

func TestJSON_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := codec.JSON(compact()).Decode(ctx, []byte(`{}`))
	assert.True(t, errors.Is(err, context.Canceled))
	_, _, err = codec.JSON(compact()).Encode(ctx, value.MapOf())
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestJSON_StdlibDriver(t *testing.T) {
	opt := compact()
	opt.JSONDriver = goshape.DriverStdlib
	v, _, err := codec.JSON(opt).Decode(context.Background(), []byte(`{"b":[1,2.5],"a":"x"}`))
	require.NoError(t, err)
	assert.True(t, value.Equal(value.MapOf("b", []any{int64(1), 2.5}, "a", "x"), v))

	opt.OnDuplicateKey = goshape.DuplicateError
	_, _, err = codec.JSON(opt).Decode(context.Background(), []byte(`{"a":1,"a":2}`))
	var pe *goshape.ParseError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "/a", pe.Path)
	assert.Greater(t, pe.Offset, int64(0))
}
