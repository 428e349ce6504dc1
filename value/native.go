package value

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// ErrUnsupported is returned by FromNative for Go values with no canonical form.
var ErrUnsupported = errors.New("value: unsupported native value")

// maxNativeDepth bounds FromNative on pointer cycles.
const maxNativeDepth = 1000

// FromNative converts native Go data into canonical values: Go integers
// become int64 (uint64 beyond int64 becomes a decimal), float32 becomes
// float64, map[string]T becomes a *Map with sorted keys, slices and arrays
// become []any and structs become a *Map keyed per ResolveStructKey in field
// order. Canonical values pass through with their children converted.
func FromNative(v any) (any, error) {
	return fromNative(v, 0)
}

func fromNative(v any, depth int) (any, error) {
	if depth > maxNativeDepth {
		return nil, fmt.Errorf("%w: nesting deeper than %d", ErrUnsupported, maxNativeDepth)
	}
	switch x := v.(type) {
	case nil:
		return nil, nil
	case bool, int64, float64, string, Date, Time, time.Time, time.Duration, decimal.Decimal:
		return x, nil
	case *decimal.Decimal:
		if x == nil {
			return nil, nil
		}
		return *x, nil
	case []byte:
		out := make([]byte, len(x))
		copy(out, x)
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			c, err := fromNative(e, depth+1)
			if err != nil {
				return nil, err
			}
			out[i] = c
		}
		return out, nil
	case *Map:
		if x == nil {
			return nil, nil
		}
		out := NewMap(x.Len())
		var err error
		x.Range(func(k string, e any) bool {
			var c any
			c, err = fromNative(e, depth+1)
			if err != nil {
				return false
			}
			out.Set(k, c)
			return true
		})
		if err != nil {
			return nil, err
		}
		return out, nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		out := NewMap(len(keys))
		for _, k := range keys {
			c, err := fromNative(x[k], depth+1)
			if err != nil {
				return nil, err
			}
			out.Set(k, c)
		}
		return out, nil
	}
	return fromReflect(reflect.ValueOf(v), depth)
}

func fromReflect(rv reflect.Value, depth int) (any, error) {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return fromNative(rv.Elem().Interface(), depth+1)
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if d, ok := rv.Interface().(time.Duration); ok {
			return d, nil
		}
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return decimal.RequireFromString(strconv.FormatUint(u, 10)), nil
		}
		return int64(u), nil
	case reflect.Float32:
		f, _ := strconv.ParseFloat(strconv.FormatFloat(rv.Float(), 'g', -1, 32), 64)
		return f, nil
	case reflect.Float64:
		return rv.Float(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			out := make([]byte, rv.Len())
			reflect.Copy(reflect.ValueOf(out), rv)
			return out, nil
		}
		return fromSequence(rv, depth)
	case reflect.Array:
		return fromSequence(rv, depth)
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("%w: map key %s", ErrUnsupported, rv.Type().Key())
		}
		if rv.IsNil() {
			return nil, nil
		}
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		out := NewMap(len(keys))
		for _, k := range keys {
			c, err := fromNative(rv.MapIndex(k).Interface(), depth+1)
			if err != nil {
				return nil, err
			}
			out.Set(k.String(), c)
		}
		return out, nil
	case reflect.Struct:
		out := NewMap(rv.NumField())
		if err := structInto(out, rv, depth); err != nil {
			return nil, err
		}
		return out, nil
	}
	return nil, fmt.Errorf("%w: %s", ErrUnsupported, rv.Type())
}

func fromSequence(rv reflect.Value, depth int) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		c, err := fromNative(rv.Index(i).Interface(), depth+1)
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func structInto(out *Map, rv reflect.Value, depth int) error {
	rt := rv.Type()
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		key := ResolveStructKey(sf)
		if key == "-" {
			continue
		}
		fv := rv.Field(i)
		// embedded structs promote their exported fields, like encoding/json
		if sf.Anonymous && !hasNameTag(sf) && fv.Kind() == reflect.Struct {
			if err := structInto(out, fv, depth+1); err != nil {
				return err
			}
			continue
		}
		if !sf.IsExported() {
			continue
		}
		c, err := fromNative(fv.Interface(), depth+1)
		if err != nil {
			return fmt.Errorf("field %s: %w", sf.Name, err)
		}
		out.Set(key, c)
	}
	return nil
}

// ResolveStructKey resolves the mapping key of a struct field.
// Priority: goshape:"name=..." > json tag name > field name; "-" disables the field.
func ResolveStructKey(sf reflect.StructField) string {
	if gt := sf.Tag.Get("goshape"); gt != "" {
		for _, p := range strings.Split(gt, ",") {
			p = strings.TrimSpace(p)
			if strings.HasPrefix(p, "name=") {
				return strings.TrimPrefix(p, "name=")
			}
		}
	}
	if jt := sf.Tag.Get("json"); jt != "" {
		if jt == "-" {
			return "-"
		}
		if i := strings.IndexByte(jt, ','); i >= 0 {
			if i == 0 {
				return sf.Name
			}
			return jt[:i]
		}
		return jt
	}
	return sf.Name
}

func hasNameTag(sf reflect.StructField) bool {
	if jt := sf.Tag.Get("json"); jt != "" && !strings.HasPrefix(jt, ",") {
		return true
	}
	return strings.Contains(sf.Tag.Get("goshape"), "name=")
}
