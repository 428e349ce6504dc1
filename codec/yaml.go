package codec

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/value"
)

// YAMLFormat reads and writes YAML through yaml.Node, so mapping order is
// kept in both directions.
type YAMLFormat struct {
	opt goshape.Options
}

// YAML returns the YAML adapter for opt.
func YAML(opt goshape.Options) *YAMLFormat { return &YAMLFormat{opt: opt} }

func (f *YAMLFormat) Name() string         { return "YAML" }
func (f *YAMLFormat) Extensions() []string { return []string{".yaml", ".yml"} }

// Encode writes a block-style document. Every scalar carries its tag so that
// Decode recovers the same kinds.
func (f *YAMLFormat) Encode(ctx context.Context, data any) ([]byte, dtype.Type, error) {
	v, schema, err := prepare(ctx, data)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	spaces := len(f.opt.Indent)
	if spaces < 2 {
		spaces = 4
	}
	enc.SetIndent(spaces)
	if err := enc.Encode(toNode(v)); err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	if err := enc.Close(); err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	return buf.Bytes(), schema, nil
}

func scalar(tag, text string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: text}
}

func toNode(v any) *yaml.Node {
	switch x := v.(type) {
	case nil:
		return scalar("!!null", "null")
	case bool:
		return scalar("!!bool", strconv.FormatBool(x))
	case int64:
		return scalar("!!int", strconv.FormatInt(x, 10))
	case float64:
		switch {
		case math.IsNaN(x):
			return scalar("!!float", ".nan")
		case math.IsInf(x, 1):
			return scalar("!!float", ".inf")
		case math.IsInf(x, -1):
			return scalar("!!float", "-.inf")
		}
		return scalar("!!float", value.FormatFloat(x))
	case decimal.Decimal:
		return scalar("!!float", x.String())
	case string:
		return scalar("!!str", x)
	case []byte:
		return scalar("!!binary", base64.StdEncoding.EncodeToString(x))
	case value.Date:
		return scalar("!!timestamp", x.String())
	case time.Time:
		return scalar("!!timestamp", x.Format(time.RFC3339Nano))
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, e := range x {
			n.Content = append(n.Content, toNode(e))
		}
		return n
	case *value.Map:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		x.Range(func(k string, e any) bool {
			n.Content = append(n.Content, scalar("!!str", k), toNode(e))
			return true
		})
		return n
	}
	return scalar("!!str", value.FormatText(v))
}

// Decode reads the first document of text.
func (f *YAMLFormat) Decode(ctx context.Context, text []byte) (any, dtype.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	var doc yaml.Node
	if err := yaml.NewDecoder(bytes.NewReader(text)).Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			err = io.ErrUnexpectedEOF
		}
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), &goshape.ParseError{Path: "/", Offset: -1, Cause: err})
	}
	v, err := f.fromNode(&doc, goshape.Root(), 0)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	v, schema, err := finish(v, f.opt)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	return v, schema, nil
}

func (f *YAMLFormat) fromNode(n *yaml.Node, p goshape.Pointer, depth int) (any, error) {
	if f.opt.MaxDepth > 0 && depth > f.opt.MaxDepth {
		return nil, &goshape.ParseError{
			Path:    p.String(),
			Rule:    goshape.CodeMaxDepth,
			Message: fmt.Sprintf("nesting deeper than %d", f.opt.MaxDepth),
			Offset:  -1,
		}
	}
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return nil, nil
		}
		return f.fromNode(n.Content[0], p, depth)
	case yaml.AliasNode:
		return f.fromNode(n.Alias, p, depth+1)
	case yaml.SequenceNode:
		out := make([]any, len(n.Content))
		for i, c := range n.Content {
			v, err := f.fromNode(c, p.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	case yaml.MappingNode:
		m := value.NewMap(len(n.Content) / 2)
		if err := f.fillMap(m, n, p, depth); err != nil {
			return nil, err
		}
		return m, nil
	case yaml.ScalarNode:
		return f.scalar(n, p)
	}
	return nil, &goshape.ParseError{Path: p.String(), Offset: -1, Message: fmt.Sprintf("unsupported node kind %d", n.Kind)}
}

func (f *YAMLFormat) fillMap(m *value.Map, n *yaml.Node, p goshape.Pointer, depth int) error {
	for i := 0; i+1 < len(n.Content); i += 2 {
		k, vn := n.Content[i], n.Content[i+1]
		if k.Kind != yaml.ScalarNode {
			return &goshape.ParseError{Path: p.String(), Line: k.Line, Offset: -1, Message: "mapping keys must be scalars"}
		}
		if k.ShortTag() == "!!merge" {
			if err := f.merge(m, vn, p, depth); err != nil {
				return err
			}
			continue
		}
		v, err := f.fromNode(vn, p.Field(k.Value), depth+1)
		if err != nil {
			return err
		}
		m.Set(k.Value, v)
	}
	return nil
}

// merge applies a "<<" key: entries from the referenced mappings are added
// unless the key is already present.
func (f *YAMLFormat) merge(m *value.Map, n *yaml.Node, p goshape.Pointer, depth int) error {
	for n.Kind == yaml.AliasNode {
		n = n.Alias
	}
	sources := []*yaml.Node{n}
	if n.Kind == yaml.SequenceNode {
		sources = n.Content
	}
	for _, s := range sources {
		for s.Kind == yaml.AliasNode {
			s = s.Alias
		}
		if s.Kind != yaml.MappingNode {
			return &goshape.ParseError{Path: p.String(), Line: s.Line, Offset: -1, Message: "merge value must be a mapping"}
		}
		tmp := value.NewMap(len(s.Content) / 2)
		if err := f.fillMap(tmp, s, p, depth); err != nil {
			return err
		}
		tmp.Range(func(k string, v any) bool {
			if !m.Has(k) {
				m.Set(k, v)
			}
			return true
		})
	}
	return nil
}

func (f *YAMLFormat) scalar(n *yaml.Node, p goshape.Pointer) (any, error) {
	bad := func(err error) error {
		return &goshape.ParseError{Path: p.String(), Line: n.Line, Offset: -1, Cause: err}
	}
	switch n.ShortTag() {
	case "!!null":
		return nil, nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, bad(err)
		}
		return b, nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err == nil {
			if f.opt.NumberMode == goshape.NumberFloat64 {
				return float64(i), nil
			}
			return i, nil
		}
		if d, err := decimal.NewFromString(strings.ReplaceAll(n.Value, "_", "")); err == nil {
			if f.opt.NumberMode == goshape.NumberDecimal {
				return d, nil
			}
			return d.InexactFloat64(), nil
		}
		return nil, bad(fmt.Errorf("invalid integer %q", n.Value))
	case "!!float":
		if f.opt.NumberMode == goshape.NumberDecimal {
			if d, err := decimal.NewFromString(n.Value); err == nil {
				return d, nil
			}
		}
		var x float64
		if err := n.Decode(&x); err != nil {
			return nil, bad(err)
		}
		return x, nil
	case "!!timestamp":
		var t time.Time
		if err := n.Decode(&t); err != nil {
			return nil, bad(err)
		}
		if len(strings.TrimSpace(n.Value)) == len(value.DateLayout) {
			return value.DateOf(t), nil
		}
		return t, nil
	case "!!binary":
		b, err := base64.StdEncoding.DecodeString(strings.Join(strings.Fields(n.Value), ""))
		if err != nil {
			return nil, bad(err)
		}
		return b, nil
	}
	return n.Value, nil
}
