package codec_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/codec"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/value"
)

func TestYAML_RoundTrip(t *testing.T) {
	ctx := context.Background()
	data := value.MapOf(
		"name", "Ann",
		"zip", "0123",
		"n", int64(3),
		"f", 2.5,
		"ok", true,
		"none", nil,
		"born", value.Date{Year: 1990, Month: time.May, Day: 17},
		"seen", time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		"raw", []byte("hi"),
		"tags", []any{"x", "y"},
		"inner", value.MapOf("z", int64(1), "a", int64(2)),
	)
	f := codec.YAML(goshape.DefaultOptions())
	b, schema, err := f.Encode(ctx, data)
	require.NoError(t, err)

	v, back, err := f.Decode(ctx, b)
	require.NoError(t, err)
	assert.True(t, value.Equal(data, v), "got %v from\n%s", v, b)
	assert.Equal(t, data.Keys(), v.(*value.Map).Keys())
	inner, _ := v.(*value.Map).Get("inner")
	assert.Equal(t, []string{"z", "a"}, inner.(*value.Map).Keys())
	assert.True(t, schema.Equal(back), "%s != %s", schema, back)
}

func TestYAML_EncodeBlockStyle(t *testing.T) {
	b, _, err := codec.YAML(goshape.DefaultOptions()).Encode(context.Background(), value.MapOf("b", int64(1), "a", []any{"x"}))
	require.NoError(t, err)
	assert.Equal(t, "b: 1\na:\n    - x\n", string(b))
}

func TestYAML_Decode(t *testing.T) {
	in := []byte(`
base: &base
  x: 1
  y: 2
item:
  <<: *base
  y: 3
list: [a, "1", 2024-02-29]
`)
	v, schema, err := codec.YAML(goshape.DefaultOptions()).Decode(context.Background(), in)
	require.NoError(t, err)
	m := v.(*value.Map)

	item, _ := m.Get("item")
	assert.True(t, value.Equal(value.MapOf("x", int64(1), "y", int64(3)), item), "got %v", item)
	assert.Equal(t, []string{"x", "y"}, item.(*value.Map).Keys())

	list, _ := m.Get("list")
	assert.Equal(t, []any{"a", "1", value.Date{Year: 2024, Month: time.February, Day: 29}}, list)

	lt, _ := schema.Field("list")
	assert.True(t, dtype.ListOf(dtype.String).Equal(lt), "got %s", lt)
}

func TestYAML_NumberModes(t *testing.T) {
	in := []byte("big: 99999999999999999999\nf: 0.1\ni: 4\n")

	opt := goshape.DefaultOptions()
	opt.NumberMode = goshape.NumberDecimal
	v, _, err := codec.YAML(opt).Decode(context.Background(), in)
	require.NoError(t, err)
	m := v.(*value.Map)
	big, _ := m.Get("big")
	assert.Equal(t, "99999999999999999999", big.(decimal.Decimal).String())
	f, _ := m.Get("f")
	assert.True(t, decimal.RequireFromString("0.1").Equal(f.(decimal.Decimal)))
	i, _ := m.Get("i")
	assert.Equal(t, int64(4), i)

	opt.NumberMode = goshape.NumberFloat64
	v, _, err = codec.YAML(opt).Decode(context.Background(), in)
	require.NoError(t, err)
	i, _ = v.(*value.Map).Get("i")
	assert.Equal(t, 4.0, i)
}

func TestYAML_Errors(t *testing.T) {
	cases := []struct {
		name string
		in   string
		code string
	}{
		{"empty", ``, goshape.CodeParseError},
		{"unterminated", "a: [1, 2\n", goshape.CodeParseError},
		{"sequence key", "? [a]\n: 1\n", goshape.CodeParseError},
		{"scalar document", "5\n", goshape.CodeNormalization},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := codec.YAML(goshape.DefaultOptions()).Decode(context.Background(), []byte(tc.in))
			require.Error(t, err)
			assert.Equal(t, tc.code, goshape.CodeOf(err))
		})
	}
}

func TestYAML_MaxDepth(t *testing.T) {
	opt := goshape.DefaultOptions()
	opt.MaxDepth = 2
	_, _, err := codec.YAML(opt).Decode(context.Background(), []byte("a:\n  b:\n    c: 1\n"))
	assert.Equal(t, goshape.CodeMaxDepth, goshape.CodeOf(err))
}
