package dtype

import (
	"strings"
)

// Type is an immutable, structurally comparable description of a value's shape.
//
// The zero Type is invalid. Use the predeclared scalar types or the ListOf,
// StructOf and EnumOf constructors. Types are values: copying one never shares
// mutable state, since every accessor returns fresh slices.
type Type struct {
	kind   Kind
	elem   *Type
	fields []Field
	values []string
}

// Field is a named member of a Struct type.
type Field struct {
	Name string
	Type Type
}

// F is shorthand for Field{Name: name, Type: t}.
func F(name string, t Type) Field { return Field{Name: name, Type: t} }

// Predeclared types.
var (
	Numeric     = Type{kind: KindNumeric}
	Integer     = Type{kind: KindInteger}
	Float       = Type{kind: KindFloat}
	Decimal     = Type{kind: KindDecimal}
	NumericNull = Type{kind: KindNumericNull}

	Temporal     = Type{kind: KindTemporal}
	Date         = Type{kind: KindDate}
	Datetime     = Type{kind: KindDatetime}
	Time         = Type{kind: KindTime}
	Duration     = Type{kind: KindDuration}
	TemporalNull = Type{kind: KindTemporalNull}

	Categorical     = Type{kind: KindCategorical}
	Boolean         = Type{kind: KindBoolean}
	String          = Type{kind: KindString}
	Binary          = Type{kind: KindBinary}
	CategoricalNull = Type{kind: KindCategoricalNull}

	Nested = Type{kind: KindNested}
	// Null is the generic null. It is absorbed by every other type.
	Null = Type{kind: KindNull}
)

// Of returns the type for a kind. List and Struct kinds yield List(Null) and
// an empty Struct; Enum yields an unrestricted enum.
func Of(k Kind) Type {
	switch k {
	case KindList:
		return ListOf(Null)
	case KindStruct:
		return StructOf()
	case KindEnum:
		return EnumOf()
	}
	if int(k) >= kindCount {
		return Type{}
	}
	return Type{kind: k}
}

// ListOf returns List(elem).
func ListOf(elem Type) Type {
	e := elem
	return Type{kind: KindList, elem: &e}
}

// StructOf returns a Struct with the given fields in order. A repeated name
// keeps its first position and takes the last type.
func StructOf(fields ...Field) Type {
	out := make([]Field, 0, len(fields))
	pos := make(map[string]int, len(fields))
	for _, f := range fields {
		if i, ok := pos[f.Name]; ok {
			out[i].Type = f.Type
			continue
		}
		pos[f.Name] = len(out)
		out = append(out, f)
	}
	return Type{kind: KindStruct, fields: out}
}

// EnumOf returns an Enum restricted to values. An empty set accepts any string.
func EnumOf(values ...string) Type {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return Type{kind: KindEnum, values: out}
}

// NullOf returns the null type of a category.
func NullOf(c Category) Type { return Type{kind: NullKind(c)} }

func (t Type) Kind() Kind         { return t.kind }
func (t Type) Category() Category { return t.kind.Category() }
func (t Type) IsValid() bool      { return t.kind != KindInvalid && int(t.kind) < kindCount }
func (t Type) IsNull() bool       { return t.kind.IsNull() }
func (t Type) IsGeneric() bool    { return t.kind.IsGeneric() }

func (t Type) IsNumeric() bool     { return t.Category() == CategoryNumeric }
func (t Type) IsTemporal() bool    { return t.Category() == CategoryTemporal }
func (t Type) IsCategorical() bool { return t.Category() == CategoryCategorical }
func (t Type) IsNested() bool      { return t.Category() == CategoryNested }

// Elem returns the element type of a List, Null for any other kind.
func (t Type) Elem() Type {
	if t.kind != KindList || t.elem == nil {
		return Null
	}
	return *t.elem
}

// Fields returns a copy of the Struct fields in declaration order.
func (t Type) Fields() []Field {
	if len(t.fields) == 0 {
		return nil
	}
	out := make([]Field, len(t.fields))
	copy(out, t.fields)
	return out
}

// NumFields reports the number of Struct fields.
func (t Type) NumFields() int { return len(t.fields) }

// Field looks up a Struct field by name.
func (t Type) Field(name string) (Type, bool) {
	for _, f := range t.fields {
		if f.Name == name {
			return f.Type, true
		}
	}
	return Type{}, false
}

// Values returns a copy of the allowed Enum values.
func (t Type) Values() []string {
	if len(t.values) == 0 {
		return nil
	}
	out := make([]string, len(t.values))
	copy(out, t.values)
	return out
}

// HasValue reports whether an Enum accepts s.
func (t Type) HasValue(s string) bool {
	if len(t.values) == 0 {
		return true
	}
	for _, v := range t.values {
		if v == s {
			return true
		}
	}
	return false
}

// Equal reports structural equality. Struct field order and Enum value order
// are not significant.
func (t Type) Equal(o Type) bool {
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindList:
		return t.Elem().Equal(o.Elem())
	case KindStruct:
		if len(t.fields) != len(o.fields) {
			return false
		}
		for _, f := range t.fields {
			ot, ok := o.Field(f.Name)
			if !ok || !f.Type.Equal(ot) {
				return false
			}
		}
		return true
	case KindEnum:
		if len(t.values) != len(o.values) {
			return false
		}
		for _, v := range t.values {
			if !o.HasValue(v) {
				return false
			}
		}
		return true
	}
	return true
}

// IsCompatible reports whether values of o may stand where t is expected:
// same kind (recursively for List and Struct), a null of the matching
// category on either side, the generic null, or the generic kind of the
// shared category.
func (t Type) IsCompatible(o Type) bool {
	if t.kind == KindNull || o.kind == KindNull {
		return true
	}
	if t.Category() == o.Category() {
		if t.IsNull() || o.IsNull() || t.IsGeneric() || o.IsGeneric() {
			return true
		}
	}
	if t.kind != o.kind {
		return false
	}
	switch t.kind {
	case KindList:
		return t.Elem().IsCompatible(o.Elem())
	case KindStruct:
		for _, f := range t.fields {
			if ot, ok := o.Field(f.Name); ok && !f.Type.IsCompatible(ot) {
				return false
			}
		}
		return true
	}
	return true
}

// String renders the type, e.g. struct{name: string, scores: list<integer>}.
func (t Type) String() string {
	var b strings.Builder
	t.write(&b)
	return b.String()
}

func (t Type) write(b *strings.Builder) {
	switch t.kind {
	case KindList:
		b.WriteString("list<")
		t.Elem().write(b)
		b.WriteByte('>')
	case KindStruct:
		b.WriteString("struct{")
		for i, f := range t.fields {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(f.Name)
			b.WriteString(": ")
			f.Type.write(b)
		}
		b.WriteByte('}')
	case KindEnum:
		b.WriteString("enum")
		if len(t.values) > 0 {
			b.WriteByte('[')
			b.WriteString(strings.Join(t.values, ", "))
			b.WriteByte(']')
		}
	default:
		b.WriteString(t.kind.String())
	}
}
