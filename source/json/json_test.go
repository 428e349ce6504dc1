package json_test

import (
	"errors"
	"io"
	"testing"

	eng "github.com/reoring/goshape/internal/engine"
	"github.com/reoring/goshape/source/gojson"
	sjson "github.com/reoring/goshape/source/json"
	"github.com/reoring/goshape/value"
)

func drain(t *testing.T, src eng.TokenSource) []eng.Token {
	t.Helper()
	var out []eng.Token
	for {
		tok, err := src.NextToken()
		if errors.Is(err, io.EOF) {
			return out
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out = append(out, tok)
	}
}

func TestTokens_MatchGoJSON(t *testing.T) {
	in := []byte(`{"a":[1,"x",{"b":null}],"c":true,"d":{"e":2.5}}`)
	std := drain(t, sjson.NewBytes(in))
	goj := drain(t, gojson.NewBytes(in))
	if len(std) != len(goj) {
		t.Fatalf("token count differs: %d vs %d", len(std), len(goj))
	}
	for i := range std {
		a, b := std[i], goj[i]
		if a.Kind != b.Kind || a.String != b.String || a.Number != b.Number || a.Bool != b.Bool {
			t.Fatalf("token %d differs: %+v vs %+v", i, a, b)
		}
	}
}

func TestTokens_KeysAfterNestedValues(t *testing.T) {
	toks := drain(t, sjson.NewBytes([]byte(`{"a":{"x":"y"},"b":["s"],"c":"v"}`)))
	var keys []string
	for _, tok := range toks {
		if tok.Kind == eng.KindKey {
			keys = append(keys, tok.String)
		}
	}
	if len(keys) != 4 || keys[0] != "a" || keys[1] != "x" || keys[2] != "b" || keys[3] != "c" {
		t.Fatalf("unexpected keys: %v", keys)
	}
}

func TestOffsets(t *testing.T) {
	src := sjson.NewBytes([]byte(`{"a": 10}`))
	if src.Location() != -1 {
		t.Fatalf("expected -1 before reading, got %d", src.Location())
	}
	var last int64 = -1
	for _, tok := range drain(t, src) {
		if tok.Offset <= last {
			t.Fatalf("offsets must grow: %d after %d", tok.Offset, last)
		}
		last = tok.Offset
	}
	if src.Location() != 9 {
		t.Fatalf("expected final offset 9, got %d", src.Location())
	}
}

func TestDecode(t *testing.T) {
	v, err := eng.Decode(sjson.NewBytes([]byte(`[{"b":1,"a":[]}]`)), eng.AutoNumber)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []any{value.MapOf("b", int64(1), "a", []any{})}
	if !value.Equal(want, v) {
		t.Fatalf("got %v", v)
	}
}
