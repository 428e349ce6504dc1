package codec

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/shopspring/decimal"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/value"
)

// XMLFormat reads and writes XML documents with a single root element.
//
// Mappings become child elements, list entries become ItemTag elements and
// scalars become element text. Attributes are ignored on input. XML cannot
// tell an empty string, an empty container and null apart: all three decode
// as null, except an empty root, which decodes as an empty mapping. A mapping
// whose only keys are ItemTag decodes as a sequence, so {"a":{"item":5}}
// comes back as {"a":[5]}.
type XMLFormat struct {
	opt goshape.Options
}

// XML returns the XML adapter for opt.
func XML(opt goshape.Options) *XMLFormat { return &XMLFormat{opt: opt} }

func (f *XMLFormat) Name() string         { return "XML" }
func (f *XMLFormat) Extensions() []string { return []string{".xml"} }

var xmlName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9._-]*$`)

// Encode writes data under one root. A mapping with a single key holding a
// nested value uses that key as the root element; everything else is wrapped
// in RootTag.
func (f *XMLFormat) Encode(ctx context.Context, data any) ([]byte, dtype.Type, error) {
	v, schema, err := prepare(ctx, data)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	doc := etree.NewDocument()
	if f.opt.XMLDeclaration {
		doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	}
	tag, content, p := f.rootOf(v)
	root := doc.CreateElement(tag)
	if err := f.fill(root, content, p); err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	switch {
	case f.opt.Indent == "":
	case strings.Contains(f.opt.Indent, "\t"):
		doc.IndentTabs()
	default:
		doc.Indent(len(f.opt.Indent))
	}
	b, err := doc.WriteToBytes()
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("encode", f.Name(), err)
	}
	return b, schema, nil
}

func (f *XMLFormat) rootOf(v any) (string, any, goshape.Pointer) {
	if m, ok := v.(*value.Map); ok && m.Len() == 1 {
		k := m.Keys()[0]
		inner, _ := m.Get(k)
		if isNested(inner) && xmlName.MatchString(k) {
			return k, inner, goshape.Root().Field(k)
		}
	}
	return f.opt.RootTag, v, goshape.Root()
}

func (f *XMLFormat) fill(el *etree.Element, v any, p goshape.Pointer) error {
	switch x := v.(type) {
	case nil:
	case *value.Map:
		var err error
		x.Range(func(k string, e any) bool {
			fp := p.Field(k)
			if !xmlName.MatchString(k) {
				err = &goshape.NormalizationError{Path: fp.String(), Message: fmt.Sprintf("%q is not a valid XML element name", k)}
				return false
			}
			err = f.fill(el.CreateElement(k), e, fp)
			return err == nil
		})
		return err
	case []any:
		for i, e := range x {
			if err := f.fill(el.CreateElement(f.opt.ItemTag), e, p.Index(i)); err != nil {
				return err
			}
		}
	default:
		el.SetText(value.FormatText(x))
	}
	return nil
}

// Decode parses one XML document. A root tagged RootTag yields its content;
// any other root yields a one-key mapping.
func (f *XMLFormat) Decode(ctx context.Context, text []byte) (any, dtype.Type, error) {
	if err := ctx.Err(); err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(text); err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), &goshape.ParseError{Path: "/", Offset: -1, Cause: err})
	}
	root := doc.Root()
	if root == nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), &goshape.ParseError{Path: "/", Offset: -1, Message: "no root element"})
	}

	var (
		v   any
		err error
	)
	if root.Tag == f.opt.RootTag {
		v, err = f.content(root, goshape.Root(), 1)
		if err == nil && v == nil {
			// <root/> is what an empty mapping or an empty sequence encodes to
			v = value.NewMap(0)
		}
	} else {
		var inner any
		inner, err = f.content(root, goshape.Root().Field(root.Tag), 1)
		m := value.NewMap(1)
		m.Set(root.Tag, inner)
		v = m
	}
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	v, schema, err := finish(v, f.opt)
	if err != nil {
		return nil, dtype.Type{}, goshape.Convert("decode", f.Name(), err)
	}
	return v, schema, nil
}

func (f *XMLFormat) content(el *etree.Element, p goshape.Pointer, depth int) (any, error) {
	if f.opt.MaxDepth > 0 && depth > f.opt.MaxDepth {
		return nil, &goshape.ParseError{
			Path:    p.String(),
			Rule:    goshape.CodeMaxDepth,
			Message: fmt.Sprintf("nesting deeper than %d", f.opt.MaxDepth),
			Offset:  -1,
		}
	}
	kids := el.ChildElements()
	if len(kids) == 0 {
		t := strings.TrimSpace(el.Text())
		if t == "" {
			return nil, nil
		}
		if f.opt.TypedText {
			return f.typed(t), nil
		}
		return t, nil
	}

	items := true
	for _, k := range kids {
		if k.Tag != f.opt.ItemTag {
			items = false
			break
		}
	}
	if items {
		seq := make([]any, len(kids))
		for i, k := range kids {
			c, err := f.content(k, p.Index(i), depth+1)
			if err != nil {
				return nil, err
			}
			seq[i] = c
		}
		return seq, nil
	}

	m := value.NewMap(len(kids))
	repeated := map[string]bool{}
	for _, k := range kids {
		c, err := f.content(k, p.Field(k.Tag), depth+1)
		if err != nil {
			return nil, err
		}
		prev, seen := m.Get(k.Tag)
		switch {
		case !seen:
			m.Set(k.Tag, c)
		case repeated[k.Tag]:
			m.Set(k.Tag, append(prev.([]any), c))
		default:
			repeated[k.Tag] = true
			m.Set(k.Tag, []any{prev, c})
		}
	}
	return m, nil
}

// typed recovers booleans and numbers whose text is exactly what the encoder
// would have written for them. Anything else stays a string.
func (f *XMLFormat) typed(t string) any {
	switch t {
	case "true":
		return true
	case "false":
		return false
	}
	if n, err := strconv.ParseInt(t, 10, 64); err == nil && strconv.FormatInt(n, 10) == t {
		if f.opt.NumberMode == goshape.NumberFloat64 {
			return float64(n)
		}
		return n
	}
	if !strings.ContainsAny(t, ".eE") {
		return t
	}
	if f.opt.NumberMode == goshape.NumberDecimal {
		if d, err := decimal.NewFromString(t); err == nil && d.String() == t {
			return d
		}
		return t
	}
	if x, err := strconv.ParseFloat(t, 64); err == nil && value.FormatFloat(x) == t {
		return x
	}
	return t
}

func isNested(v any) bool {
	switch v.(type) {
	case *value.Map, []any:
		return true
	}
	return false
}
