package table

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/cast"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/infer"
	"github.com/reoring/goshape/normalize"
	"github.com/reoring/goshape/value"
)

// Column is a typed sequence of values.
type Column struct {
	typ    dtype.Type
	values []any
}

// NewColumn casts every value to t.
func NewColumn(t dtype.Type, values []any) (*Column, error) {
	out := make([]any, len(values))
	for i, v := range values {
		c, err := cast.Cast(v, t)
		if err != nil {
			return nil, prefixRow(err, i)
		}
		out[i] = c
	}
	return &Column{typ: t, values: out}, nil
}

// InferColumn types values with their unified schema and casts them to it.
func InferColumn(values []any) (*Column, error) {
	seq := make([]any, len(values))
	for i, v := range values {
		cv, err := value.FromNative(v)
		if err != nil {
			return nil, &goshape.NormalizationError{Path: goshape.Root().Index(i).String(), Message: err.Error(), Value: v}
		}
		seq[i] = cv
	}
	return NewColumn(infer.InferSchema(seq).Elem(), seq)
}

func (c *Column) Type() dtype.Type { return c.typ }
func (c *Column) Len() int         { return len(c.values) }
func (c *Column) At(i int) any     { return c.values[i] }

// Values returns a copy of the column values.
func (c *Column) Values() []any {
	out := make([]any, len(c.values))
	copy(out, c.values)
	return out
}

// IsNull marks missing entries.
func (c *Column) IsNull() []bool {
	out := make([]bool, len(c.values))
	for i, v := range c.values {
		out[i] = normalize.IsNull(v)
	}
	return out
}

// FillNull replaces missing entries with fill cast to the column type.
func (c *Column) FillNull(fill any) (*Column, error) {
	fv, err := cast.Cast(fill, c.typ)
	if err != nil {
		return nil, err
	}
	out := make([]any, len(c.values))
	for i, v := range c.values {
		if normalize.IsNull(v) {
			v = fv
		}
		out[i] = v
	}
	return &Column{typ: c.typ, values: out}, nil
}

// Apply maps fn over the column. The result type is inferred from the
// returned values.
func (c *Column) Apply(fn func(any) (any, error)) (*Column, error) {
	out := make([]any, len(c.values))
	for i, v := range c.values {
		r, err := fn(v)
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return InferColumn(out)
}

// AsType casts the column to t.
func (c *Column) AsType(t dtype.Type) (*Column, error) {
	return NewColumn(t, c.values)
}
