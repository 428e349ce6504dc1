package dtype

import (
	"fmt"

	"github.com/reoring/goshape/value"
)

// DescribeSchema renders t as a descriptive map for inspection and storage:
//
//	struct -> {"type": "struct", "fields": {name: <description>, ...}}
//	list   -> {"type": "list", "element": <description>}
//	enum   -> {"type": "enum", "values": [...]}   (values only when restricted)
//	other  -> {"type": <kind name>}
func DescribeSchema(t Type) *value.Map {
	m := value.NewMap(2)
	m.Set("type", t.Kind().String())
	switch t.Kind() {
	case KindStruct:
		fields := value.NewMap(len(t.fields))
		for _, f := range t.fields {
			fields.Set(f.Name, DescribeSchema(f.Type))
		}
		m.Set("fields", fields)
	case KindList:
		m.Set("element", DescribeSchema(t.Elem()))
	case KindEnum:
		if len(t.values) > 0 {
			vals := make([]any, len(t.values))
			for i, v := range t.values {
				vals[i] = v
			}
			m.Set("values", vals)
		}
	}
	return m
}

// FromDescription rebuilds a Type from the output of DescribeSchema. desc may
// be a *value.Map or any native form accepted by value.FromNative, such as a
// decoded map[string]any.
func FromDescription(desc any) (Type, error) {
	cv, err := value.FromNative(desc)
	if err != nil {
		return Type{}, fmt.Errorf("dtype: description: %w", err)
	}
	return fromDescription(cv, "")
}

func fromDescription(desc any, path string) (Type, error) {
	m, ok := desc.(*value.Map)
	if !ok {
		return Type{}, fmt.Errorf("dtype: description at %q: expected a map, got %T", pathOrRoot(path), desc)
	}
	raw, _ := m.Get("type")
	name, ok := raw.(string)
	if !ok {
		return Type{}, fmt.Errorf("dtype: description at %q: missing \"type\"", pathOrRoot(path))
	}
	k, err := ParseKind(name)
	if err != nil {
		return Type{}, fmt.Errorf("dtype: description at %q: %w", pathOrRoot(path), err)
	}
	switch k {
	case KindStruct:
		rf, _ := m.Get("fields")
		if rf == nil {
			return StructOf(), nil
		}
		fm, ok := rf.(*value.Map)
		if !ok {
			return Type{}, fmt.Errorf("dtype: description at %q: \"fields\" must be a map", pathOrRoot(path))
		}
		fields := make([]Field, 0, fm.Len())
		var ferr error
		fm.Range(func(name string, sub any) bool {
			var ft Type
			ft, ferr = fromDescription(sub, path+"/"+name)
			if ferr != nil {
				return false
			}
			fields = append(fields, F(name, ft))
			return true
		})
		if ferr != nil {
			return Type{}, ferr
		}
		return StructOf(fields...), nil
	case KindList:
		re, ok := m.Get("element")
		if !ok || re == nil {
			return ListOf(Null), nil
		}
		et, err := fromDescription(re, path+"/element")
		if err != nil {
			return Type{}, err
		}
		return ListOf(et), nil
	case KindEnum:
		rv, _ := m.Get("values")
		seq, _ := rv.([]any)
		vals := make([]string, 0, len(seq))
		for _, e := range seq {
			s, ok := e.(string)
			if !ok {
				return Type{}, fmt.Errorf("dtype: description at %q: enum values must be strings", pathOrRoot(path))
			}
			vals = append(vals, s)
		}
		return EnumOf(vals...), nil
	}
	return Of(k), nil
}

func pathOrRoot(p string) string {
	if p == "" {
		return "/"
	}
	return p
}
