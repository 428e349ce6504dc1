package dtype_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/goshape/dtype"
)

func TestKind_CategoryAndFlags(t *testing.T) {
	cases := []struct {
		kind     dtype.Kind
		name     string
		category dtype.Category
		null     bool
		generic  bool
	}{
		{dtype.KindInteger, "integer", dtype.CategoryNumeric, false, false},
		{dtype.KindNumeric, "numeric", dtype.CategoryNumeric, false, true},
		{dtype.KindNumericNull, "numeric_null", dtype.CategoryNumeric, true, false},
		{dtype.KindDuration, "duration", dtype.CategoryTemporal, false, false},
		{dtype.KindTemporalNull, "temporal_null", dtype.CategoryTemporal, true, false},
		{dtype.KindEnum, "enum", dtype.CategoryCategorical, false, false},
		{dtype.KindCategorical, "categorical", dtype.CategoryCategorical, false, true},
		{dtype.KindStruct, "struct", dtype.CategoryNested, false, false},
		{dtype.KindNull, "null", dtype.CategoryNested, true, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.name, tc.kind.String())
			assert.Equal(t, tc.category, tc.kind.Category())
			assert.Equal(t, tc.null, tc.kind.IsNull())
			assert.Equal(t, tc.generic, tc.kind.IsGeneric())

			k, err := dtype.ParseKind(tc.name)
			require.NoError(t, err)
			assert.Equal(t, tc.kind, k)
		})
	}
}

func TestParseKind_Unknown(t *testing.T) {
	_, err := dtype.ParseKind("complex")
	require.Error(t, err)
	_, err = dtype.ParseKind("invalid")
	require.Error(t, err)
}

func TestParseKind_CaseInsensitive(t *testing.T) {
	k, err := dtype.ParseKind(" DateTime ")
	require.NoError(t, err)
	assert.Equal(t, dtype.KindDatetime, k)
}

func TestNullOf(t *testing.T) {
	assert.Equal(t, dtype.NumericNull, dtype.NullOf(dtype.CategoryNumeric))
	assert.Equal(t, dtype.TemporalNull, dtype.NullOf(dtype.CategoryTemporal))
	assert.Equal(t, dtype.CategoricalNull, dtype.NullOf(dtype.CategoryCategorical))
	assert.Equal(t, dtype.Null, dtype.NullOf(dtype.CategoryNested))
	assert.Equal(t, dtype.Null, dtype.NullOf(dtype.CategoryNone))
}

func TestType_Predicates(t *testing.T) {
	assert.True(t, dtype.Decimal.IsNumeric())
	assert.True(t, dtype.Time.IsTemporal())
	assert.True(t, dtype.Binary.IsCategorical())
	assert.True(t, dtype.ListOf(dtype.Integer).IsNested())
	assert.False(t, dtype.String.IsNested())
	assert.False(t, dtype.Type{}.IsValid())
	assert.True(t, dtype.Null.IsValid())
}

func TestStructOf_DuplicateNameKeepsFirstPosition(t *testing.T) {
	st := dtype.StructOf(
		dtype.F("a", dtype.Integer),
		dtype.F("b", dtype.String),
		dtype.F("a", dtype.Float),
	)
	require.Equal(t, 2, st.NumFields())
	fields := st.Fields()
	assert.Equal(t, "a", fields[0].Name)
	assert.Equal(t, dtype.Float, fields[0].Type)

	ft, ok := st.Field("b")
	require.True(t, ok)
	assert.Equal(t, dtype.String, ft)
	_, ok = st.Field("c")
	assert.False(t, ok)
}

func TestType_Fields_IsCopy(t *testing.T) {
	st := dtype.StructOf(dtype.F("a", dtype.Integer))
	fields := st.Fields()
	fields[0].Type = dtype.String
	ft, _ := st.Field("a")
	assert.Equal(t, dtype.Integer, ft)
}

func TestType_Elem(t *testing.T) {
	assert.Equal(t, dtype.Integer, dtype.ListOf(dtype.Integer).Elem())
	assert.Equal(t, dtype.Null, dtype.String.Elem())
	assert.Equal(t, dtype.Null, dtype.Of(dtype.KindList).Elem())
}

func TestEnum(t *testing.T) {
	e := dtype.EnumOf("red", "green", "red")
	assert.Equal(t, []string{"red", "green"}, e.Values())
	assert.True(t, e.HasValue("green"))
	assert.False(t, e.HasValue("blue"))
	assert.True(t, dtype.EnumOf().HasValue("anything"))
}

func TestType_Equal(t *testing.T) {
	a := dtype.StructOf(dtype.F("x", dtype.Integer), dtype.F("y", dtype.ListOf(dtype.String)))
	b := dtype.StructOf(dtype.F("y", dtype.ListOf(dtype.String)), dtype.F("x", dtype.Integer))
	c := dtype.StructOf(dtype.F("x", dtype.Integer), dtype.F("y", dtype.ListOf(dtype.Integer)))

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.True(t, dtype.EnumOf("a", "b").Equal(dtype.EnumOf("b", "a")))
	assert.False(t, dtype.EnumOf("a").Equal(dtype.EnumOf("a", "b")))
	assert.False(t, dtype.Integer.Equal(dtype.Float))
}

func TestType_IsCompatible(t *testing.T) {
	cases := []struct {
		name string
		a, b dtype.Type
		want bool
	}{
		{"same kind", dtype.Integer, dtype.Integer, true},
		{"different kinds", dtype.Integer, dtype.Float, false},
		{"category null", dtype.Integer, dtype.NumericNull, true},
		{"foreign category null", dtype.Integer, dtype.TemporalNull, false},
		{"generic null", dtype.Date, dtype.Null, true},
		{"generic null left", dtype.Null, dtype.String, true},
		{"generic kind", dtype.Numeric, dtype.Decimal, true},
		{"generic foreign kind", dtype.Numeric, dtype.String, false},
		{"list elems", dtype.ListOf(dtype.Integer), dtype.ListOf(dtype.NumericNull), true},
		{"list elems mismatch", dtype.ListOf(dtype.Integer), dtype.ListOf(dtype.String), false},
		{
			"struct missing field",
			dtype.StructOf(dtype.F("a", dtype.Integer), dtype.F("b", dtype.String)),
			dtype.StructOf(dtype.F("a", dtype.Integer)),
			true,
		},
		{
			"struct field mismatch",
			dtype.StructOf(dtype.F("a", dtype.Integer)),
			dtype.StructOf(dtype.F("a", dtype.Boolean)),
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.a.IsCompatible(tc.b))
			assert.Equal(t, tc.want, tc.b.IsCompatible(tc.a))
		})
	}
}

func TestType_String(t *testing.T) {
	st := dtype.StructOf(
		dtype.F("name", dtype.String),
		dtype.F("scores", dtype.ListOf(dtype.Integer)),
		dtype.F("color", dtype.EnumOf("red", "blue")),
	)
	assert.Equal(t, "struct{name: string, scores: list<integer>, color: enum[red, blue]}", st.String())
	assert.Equal(t, "enum", dtype.EnumOf().String())
}
