// Package infer computes dtype schemas from canonical values.
package infer

import (
	"math"
	"regexp"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/reoring/goshape/dtype"
	"github.com/reoring/goshape/value"
)

var datetimeText = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}( \d{2}:\d{2}:\d{2})?$`)

// InferType returns the type of a single value. Strings are sniffed in order:
// integer literal, decimal literal, YYYY-MM-DD[ HH:MM:SS] datetime, string.
// An integer literal must fit int64; longer digit runs are Decimal so that
// casting the text to its inferred type always succeeds.
// Sequences and mappings delegate to InferSchema.
func InferType(v any) dtype.Type {
	switch x := v.(type) {
	case nil:
		return dtype.Null
	case bool:
		return dtype.Boolean
	case int64:
		return dtype.Integer
	case float64:
		if math.IsNaN(x) {
			return dtype.NumericNull
		}
		return dtype.Float
	case decimal.Decimal:
		return dtype.Decimal
	case string:
		return sniff(x)
	case []byte:
		return dtype.Binary
	case value.Date:
		return dtype.Date
	case time.Time:
		return dtype.Datetime
	case value.Time:
		return dtype.Time
	case time.Duration:
		return dtype.Duration
	case []any, *value.Map:
		return InferSchema(x)
	}
	cv, err := value.FromNative(v)
	if err != nil {
		return dtype.String
	}
	return InferType(cv)
}

func sniff(s string) dtype.Type {
	if _, err := strconv.ParseInt(s, 10, 64); err == nil {
		return dtype.Integer
	}
	if _, err := decimal.NewFromString(s); err == nil {
		return dtype.Decimal
	}
	if datetimeText.MatchString(s) {
		if _, err := value.ParseDatetime(s); err == nil {
			return dtype.Datetime
		}
	}
	return dtype.String
}

// InferSchema returns the structural schema of v: List of the unified element
// types for sequences (List(Null) when empty), Struct of per-field schemas for
// mappings, and InferType for everything else.
func InferSchema(v any) dtype.Type {
	switch x := v.(type) {
	case []any:
		if len(x) == 0 {
			return dtype.ListOf(dtype.Null)
		}
		types := make([]dtype.Type, len(x))
		for i, e := range x {
			types[i] = InferSchema(e)
		}
		return dtype.ListOf(Unify(types...))
	case *value.Map:
		fields := make([]dtype.Field, 0, x.Len())
		x.Range(func(k string, fv any) bool {
			fields = append(fields, dtype.F(k, InferSchema(fv)))
			return true
		})
		return dtype.StructOf(fields...)
	}
	return InferType(v)
}

// Unify collapses several types into one:
//
//   - all identical: that type
//   - null kinds are discarded; nothing left gives the generic Null
//   - a single distinct type left: that type
//   - all numeric: Float
//   - all List: List of the unified non-null element types
//   - all Struct: union of field names in first-seen order, each field
//     unified across structs, a missing key contributing Null
//   - anything else: String
func Unify(types ...dtype.Type) dtype.Type {
	if len(types) == 0 {
		return dtype.Null
	}
	if allEqual(types) {
		return types[0]
	}

	rest := make([]dtype.Type, 0, len(types))
	for _, t := range types {
		if !t.IsNull() {
			rest = append(rest, t)
		}
	}
	switch {
	case len(rest) == 0:
		return dtype.Null
	case allEqual(rest):
		return rest[0]
	case all(rest, dtype.Type.IsNumeric):
		return dtype.Float
	case all(rest, isKind(dtype.KindList)):
		elems := make([]dtype.Type, 0, len(rest))
		for _, t := range rest {
			if e := t.Elem(); !e.IsNull() {
				elems = append(elems, e)
			}
		}
		return dtype.ListOf(Unify(elems...))
	case all(rest, isKind(dtype.KindStruct)):
		return unifyStructs(rest)
	}
	return dtype.String
}

func unifyStructs(structs []dtype.Type) dtype.Type {
	var names []string
	seen := map[string]bool{}
	for _, s := range structs {
		for _, f := range s.Fields() {
			if !seen[f.Name] {
				seen[f.Name] = true
				names = append(names, f.Name)
			}
		}
	}
	fields := make([]dtype.Field, 0, len(names))
	for _, name := range names {
		ft := make([]dtype.Type, len(structs))
		for i, s := range structs {
			t, ok := s.Field(name)
			if !ok {
				t = dtype.Null
			}
			ft[i] = t
		}
		fields = append(fields, dtype.F(name, Unify(ft...)))
	}
	return dtype.StructOf(fields...)
}

func allEqual(types []dtype.Type) bool {
	for _, t := range types[1:] {
		if !t.Equal(types[0]) {
			return false
		}
	}
	return true
}

func all(types []dtype.Type, pred func(dtype.Type) bool) bool {
	for _, t := range types {
		if !pred(t) {
			return false
		}
	}
	return true
}

func isKind(k dtype.Kind) func(dtype.Type) bool {
	return func(t dtype.Type) bool { return t.Kind() == k }
}
