package normalize_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/normalize"
	"github.com/reoring/goshape/value"
)

func TestContainer(t *testing.T) {
	rec := value.MapOf("x", int64(1))
	got, err := normalize.Container(rec)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Same(t, rec, got[0])

	seq := []any{value.MapOf("x", int64(1)), value.MapOf("y", int64(2))}
	got, err = normalize.Container(seq)
	require.NoError(t, err)
	assert.Equal(t, seq, got)

	got, err = normalize.Container([]any{})
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestContainer_Rejects(t *testing.T) {
	cases := []struct {
		name string
		in   any
		path string
	}{
		{"scalar", int64(5), "/"},
		{"null", nil, "/"},
		{"string", "x", "/"},
		{"mixed sequence", []any{value.MapOf(), int64(1)}, "/1"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := normalize.Container(tc.in)
			var ne *goshape.NormalizationError
			require.ErrorAs(t, err, &ne)
			assert.Equal(t, tc.path, ne.Path)
		})
	}
}

func TestWhitespace(t *testing.T) {
	assert.Equal(t, "a b c", normalize.Whitespace("  a \t b\n\nc "))
	assert.Equal(t, "", normalize.Whitespace(" \n "))
}

func TestKeys(t *testing.T) {
	m := value.MapOf("Name", "a", "AGE", int64(3), "name", "b")
	got, err := normalize.Keys(m, normalize.CaseLower)
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "age"}, got.Keys())
	v, _ := got.Get("name")
	assert.Equal(t, "b", v)

	got, err = normalize.Keys(value.MapOf("a", value.MapOf("inner", 1)), normalize.CaseUpper)
	require.NoError(t, err)
	inner, _ := got.Get("A")
	assert.Equal(t, []string{"inner"}, inner.(*value.Map).Keys())

	_, err = normalize.Keys(m, normalize.Case("title"))
	var ne *goshape.NormalizationError
	require.ErrorAs(t, err, &ne)
}

func TestURL(t *testing.T) {
	got, err := normalize.URL("  https://example.com/a?b=1 ")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/a?b=1", got)

	for _, bad := range []string{"example.com", "/relative/path", "http://", "://x", ""} {
		_, err := normalize.URL(bad)
		var ne *goshape.NormalizationError
		assert.ErrorAs(t, err, &ne, bad)
	}
}

func TestHostname(t *testing.T) {
	got, err := normalize.Hostname("  Web-01.Example.COM ")
	require.NoError(t, err)
	assert.Equal(t, "web-01.example.com", got)

	long := strings.Repeat("a", 63)
	_, err = normalize.Hostname(long + ".com")
	assert.NoError(t, err)

	bad := []string{
		"",
		"example.com.",
		"-web.example.com",
		"web-.example.com",
		"we_b.example.com",
		"a..b",
		strings.Repeat("a", 64) + ".com",
		strings.Repeat("abcdefg.", 32) + "com",
	}
	for _, h := range bad {
		_, err := normalize.Hostname(h)
		var ne *goshape.NormalizationError
		assert.ErrorAs(t, err, &ne, h)
	}
}
