package value_test

import (
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reoring/goshape/value"
)

type color string

type address struct {
	City string `json:"city"`
}

type audit struct {
	CreatedBy string `json:"created_by"`
}

type person struct {
	audit
	Name     string   `json:"name"`
	Age      int      `goshape:"name=years" json:"age"`
	Tags     []string `json:"tags,omitempty"`
	Home     *address `json:"home"`
	Secret   string   `json:"-"`
	internal int
	Plain    float32
}

func TestFromNative_Struct(t *testing.T) {
	got, err := value.FromNative(person{
		audit:  audit{CreatedBy: "ops"},
		Name:   "Ann",
		Age:    41,
		Tags:   []string{"a"},
		Secret: "s",
		Plain:  0.1,
	})
	require.NoError(t, err)
	m := got.(*value.Map)
	assert.Equal(t, []string{"created_by", "name", "years", "tags", "home", "Plain"}, m.Keys())

	age, _ := m.Get("years")
	assert.Equal(t, int64(41), age)
	home, _ := m.Get("home")
	assert.Nil(t, home)
	tags, _ := m.Get("tags")
	assert.Equal(t, []any{"a"}, tags)
	plain, _ := m.Get("Plain")
	assert.Equal(t, 0.1, plain)
}

func TestFromNative_Scalars(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want any
	}{
		{"int", 5, int64(5)},
		{"int8", int8(-3), int64(-3)},
		{"uint", uint16(9), int64(9)},
		{"duration", 2 * time.Second, 2 * time.Second},
		{"named string", color("red"), "red"},
		{"bytes", []byte("ok"), []byte("ok")},
		{"array", [2]int{1, 2}, []any{int64(1), int64(2)}},
		{"nil slice", []int(nil), nil},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := value.FromNative(tc.in)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestFromNative_LargeUint(t *testing.T) {
	got, err := value.FromNative(uint64(math.MaxUint64))
	require.NoError(t, err)
	d, ok := got.(decimal.Decimal)
	require.True(t, ok)
	assert.Equal(t, "18446744073709551615", d.String())
}

func TestFromNative_MapKeysSorted(t *testing.T) {
	got, err := value.FromNative(map[string]int{"b": 2, "a": 1})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got.(*value.Map).Keys())
}

func TestFromNative_Unsupported(t *testing.T) {
	_, err := value.FromNative(map[int]string{1: "a"})
	assert.ErrorIs(t, err, value.ErrUnsupported)
	_, err = value.FromNative(func() {})
	assert.ErrorIs(t, err, value.ErrUnsupported)
}

func TestEqual(t *testing.T) {
	a := value.MapOf("x", int64(1), "y", []any{math.NaN(), "s"})
	b := value.MapOf("y", []any{math.NaN(), "s"}, "x", int64(1))
	assert.True(t, value.Equal(a, b))
	assert.False(t, value.Equal(int64(1), 1.0))
	assert.True(t, value.Equal(decimal.RequireFromString("1.50"), decimal.RequireFromString("1.5")))
	assert.False(t, value.Equal([]any{int64(1)}, []any{int64(1), int64(2)}))
	assert.True(t, value.Equal(nil, nil))
	assert.False(t, value.Equal(nil, ""))
}
