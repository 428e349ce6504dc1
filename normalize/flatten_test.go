package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/normalize"
	"github.com/reoring/goshape/value"
)

func nested() *value.Map {
	return value.MapOf(
		"id", int64(1),
		"User", value.MapOf(
			"Name", "Ann",
			"tags", []any{"x", "y"},
			"deep", value.MapOf("k", true),
		),
		"empty", value.NewMap(0),
	)
}

func TestFlatten(t *testing.T) {
	got := normalize.FlattenMap(nested(), normalize.FlattenOptions{})
	assert.Equal(t, []string{"id", "User.Name", "User.tags.0", "User.tags.1", "User.deep.k", "empty"}, got.Keys())
	v, _ := got.Get("User.tags.1")
	assert.Equal(t, "y", v)
	e, _ := got.Get("empty")
	assert.Equal(t, 0, e.(*value.Map).Len())
}

func TestFlatten_SeparatorAndLowercase(t *testing.T) {
	got := normalize.FlattenMap(nested(), normalize.FlattenOptions{Separator: "__", LowercaseKeys: true})
	assert.Equal(t, []string{"id", "user__name", "user__tags__0", "user__tags__1", "user__deep__k", "empty"}, got.Keys())
}

func TestFlatten_MaxDepth(t *testing.T) {
	got := normalize.FlattenMap(nested(), normalize.FlattenOptions{MaxDepth: 1})
	assert.Equal(t, []string{"id", "User.Name", "User.tags", "User.deep", "empty"}, got.Keys())
	tags, _ := got.Get("User.tags")
	assert.Equal(t, []any{"x", "y"}, tags)
}

func TestFlatten_DeepInputIsIterative(t *testing.T) {
	var v any = "leaf"
	for i := 0; i < 1000; i++ {
		v = value.MapOf("n", v)
	}
	got := normalize.FlattenMap(v.(*value.Map), normalize.FlattenOptions{Separator: "/"})
	require.Equal(t, 1, got.Len())
	got.Range(func(_ string, leaf any) bool {
		assert.Equal(t, "leaf", leaf)
		return true
	})
}

func TestFlatten_Sequences(t *testing.T) {
	recs := []any{value.MapOf("a", value.MapOf("b", int64(1))), value.MapOf("c", []any{int64(2)})}
	got, err := normalize.Flatten(recs, normalize.FlattenOptions{})
	require.NoError(t, err)
	out := got.([]any)
	require.Len(t, out, 2)
	assert.Equal(t, []string{"a.b"}, out[0].(*value.Map).Keys())
	assert.Equal(t, []string{"c.0"}, out[1].(*value.Map).Keys())

	got, err = normalize.Flatten([]any{int64(1), []any{"x"}}, normalize.FlattenOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"0", "1.0"}, got.(*value.Map).Keys())

	_, err = normalize.Flatten("x", normalize.FlattenOptions{})
	var ne *goshape.NormalizationError
	require.ErrorAs(t, err, &ne)
}

func TestFlatten_InputUntouched(t *testing.T) {
	in := nested()
	normalize.FlattenMap(in, normalize.FlattenOptions{})
	assert.Equal(t, []string{"id", "User", "empty"}, in.Keys())
}
