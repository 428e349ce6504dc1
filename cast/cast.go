package cast

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/value"
)

var (
	errUnsupportedTarget = errors.New("unsupported target type")
	errNotNull           = errors.New("only null converts to a null type")
	errOutOfRange        = errors.New("value out of range")
)

// Cast converts v to conform to target. v may be canonical or native Go
// data (see value.FromNative). Null converts to Null for every valid target.
// Lists convert element-wise and structs field-by-field: fields missing from
// v become Null, fields absent from target are dropped. Failures are
// *goshape.CastError carrying the JSON Pointer of the failing element.
func Cast(v any, target dtype.Type) (any, error) {
	cv, err := value.FromNative(v)
	if err != nil {
		return nil, &goshape.CastError{Path: "/", Value: v, Target: target, Cause: err}
	}
	return castAt(cv, target, goshape.Root())
}

// MustCast is like Cast but panics on error.
func MustCast(v any, target dtype.Type) any {
	out, err := Cast(v, target)
	if err != nil {
		panic(err)
	}
	return out
}

func fail(p goshape.Pointer, v any, t dtype.Type, cause error) error {
	return &goshape.CastError{Path: p.String(), Value: v, Target: t, Cause: cause}
}

func castAt(v any, t dtype.Type, p goshape.Pointer) (any, error) {
	if !t.IsValid() {
		return nil, fail(p, v, t, errUnsupportedTarget)
	}
	if v == nil {
		return nil, nil
	}
	if t.IsNull() {
		return nil, fail(p, v, t, errNotNull)
	}

	var (
		out any
		err error
	)
	switch t.Kind() {
	case dtype.KindInteger:
		out, err = toInteger(v)
	case dtype.KindFloat:
		out, err = toFloat(v)
	case dtype.KindDecimal:
		out, err = toDecimal(v)
	case dtype.KindBoolean:
		out, err = toBoolean(v)
	case dtype.KindString:
		out = value.FormatText(v)
	case dtype.KindBinary:
		out, err = toBinary(v)
	case dtype.KindEnum:
		out, err = toEnum(v, t)
	case dtype.KindDate:
		out, err = toDate(v)
	case dtype.KindDatetime:
		out, err = toDatetime(v)
	case dtype.KindTime:
		out, err = toTime(v)
	case dtype.KindDuration:
		out, err = toDuration(v)
	case dtype.KindList:
		return castList(v, t, p)
	case dtype.KindStruct:
		return castStruct(v, t, p)
	case dtype.KindNumeric, dtype.KindTemporal, dtype.KindCategorical, dtype.KindNested:
		if categoryOf(v) != t.Category() {
			err = fmt.Errorf("value is not %s", t.Category())
		} else {
			out = v
		}
	default:
		err = errUnsupportedTarget
	}
	if err != nil {
		return nil, fail(p, v, t, err)
	}
	return out, nil
}

func castList(v any, t dtype.Type, p goshape.Pointer) (any, error) {
	seq, ok := v.([]any)
	if !ok {
		return nil, fail(p, v, t, errors.New("value is not a sequence"))
	}
	elem := t.Elem()
	out := make([]any, len(seq))
	for i, e := range seq {
		c, err := castAt(e, elem, p.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = c
	}
	return out, nil
}

func castStruct(v any, t dtype.Type, p goshape.Pointer) (any, error) {
	m, ok := v.(*value.Map)
	if !ok {
		return nil, fail(p, v, t, errors.New("value is not a mapping"))
	}
	fields := t.Fields()
	out := value.NewMap(len(fields))
	for _, f := range fields {
		fv, _ := m.Get(f.Name)
		c, err := castAt(fv, f.Type, p.Field(f.Name))
		if err != nil {
			return nil, err
		}
		out.Set(f.Name, c)
	}
	return out, nil
}

func toInteger(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return int64(1), nil
		}
		return int64(0), nil
	case int64:
		return x, nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) || x >= math.MaxInt64 || x < math.MinInt64 {
			return nil, errOutOfRange
		}
		return int64(x), nil
	case decimal.Decimal:
		bi := x.BigInt()
		if !bi.IsInt64() {
			return nil, errOutOfRange
		}
		return bi.Int64(), nil
	case string:
		return strconv.ParseInt(strings.TrimSpace(x), 10, 64)
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func toFloat(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return 1.0, nil
		}
		return 0.0, nil
	case int64:
		return float64(x), nil
	case float64:
		return x, nil
	case decimal.Decimal:
		return x.InexactFloat64(), nil
	case string:
		return strconv.ParseFloat(strings.TrimSpace(x), 64)
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func toDecimal(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		if x {
			return decimal.NewFromInt(1), nil
		}
		return decimal.Zero, nil
	case int64:
		return decimal.NewFromInt(x), nil
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return nil, errOutOfRange
		}
		return decimal.NewFromFloat(x), nil
	case decimal.Decimal:
		return x, nil
	case string:
		return decimal.NewFromString(strings.TrimSpace(x))
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func toBoolean(v any) (any, error) {
	switch x := v.(type) {
	case bool:
		return x, nil
	case string:
		switch strings.ToLower(strings.TrimSpace(x)) {
		case "true", "1":
			return true, nil
		case "false", "0":
			return false, nil
		}
		return x != "", nil
	case int64:
		return x != 0, nil
	case float64:
		return x != 0, nil
	case decimal.Decimal:
		return !x.IsZero(), nil
	case []byte:
		return len(x) > 0, nil
	case []any:
		return len(x) > 0, nil
	case *value.Map:
		return x.Len() > 0, nil
	case time.Duration:
		return x != 0, nil
	}
	return true, nil
}

func toBinary(v any) (any, error) {
	switch x := v.(type) {
	case []byte:
		return x, nil
	case string:
		return []byte(x), nil
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func toEnum(v any, t dtype.Type) (any, error) {
	s, ok := v.(string)
	if !ok {
		return nil, fmt.Errorf("unsupported source %T", v)
	}
	if !t.HasValue(s) {
		return nil, fmt.Errorf("%q is not one of %v", s, t.Values())
	}
	return s, nil
}

func toDate(v any) (any, error) {
	switch x := v.(type) {
	case value.Date:
		return x, nil
	case time.Time:
		return value.DateOf(x), nil
	case string:
		return value.ParseDate(strings.TrimSpace(x))
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func toDatetime(v any) (any, error) {
	switch x := v.(type) {
	case time.Time:
		return x, nil
	case value.Date:
		return x.In(time.UTC), nil
	case string:
		s := strings.TrimSpace(x)
		t, err := value.ParseDatetime(s)
		if err == nil {
			return t, nil
		}
		if t2, err2 := parseRFC3339(s); err2 == nil {
			return t2, nil
		}
		return nil, err
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func toTime(v any) (any, error) {
	switch x := v.(type) {
	case value.Time:
		return x, nil
	case time.Time:
		return value.TimeOf(x), nil
	case string:
		return value.ParseTime(strings.TrimSpace(x))
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func toDuration(v any) (any, error) {
	switch x := v.(type) {
	case time.Duration:
		return x, nil
	case string:
		s := strings.TrimSpace(x)
		d, err := value.ParseDuration(s)
		if err == nil {
			return d, nil
		}
		if d2, err2 := time.ParseDuration(s); err2 == nil {
			return d2, nil
		}
		return nil, err
	}
	return nil, fmt.Errorf("unsupported source %T", v)
}

func parseRFC3339(s string) (time.Time, error) {
	// Accept RFC3339Nano (trailing zeros optional)
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		if t2, err2 := time.Parse(time.RFC3339, s); err2 == nil {
			return t2, nil
		}
		return time.Time{}, err
	}
	return t, nil
}

func categoryOf(v any) dtype.Category {
	switch v.(type) {
	case int64, float64, decimal.Decimal:
		return dtype.CategoryNumeric
	case value.Date, value.Time, time.Time, time.Duration:
		return dtype.CategoryTemporal
	case bool, string, []byte:
		return dtype.CategoryCategorical
	case []any, *value.Map:
		return dtype.CategoryNested
	}
	return dtype.CategoryNone
}
