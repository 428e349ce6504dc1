package cast

import (
	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
)

// Promote returns the common supertype of t1 and t2. Rules apply in order:
// null absorption, numeric (decimal > float > integer), temporal
// (duration > datetime > date > time), categorical (string wins, boolean,
// binary and enum stay themselves when paired with the same kind, anything
// else widens to the generic categorical), list element promotion and struct
// field union. Any other pairing fails with *goshape.IncompatibleTypesError.
func Promote(t1, t2 dtype.Type) (dtype.Type, error) {
	switch {
	case t2.Kind() == dtype.KindNull:
		return t1, nil
	case t1.IsNull():
		return t2, nil
	case t2.IsNull():
		return t1, nil
	}
	switch {
	case t1.IsNumeric() && t2.IsNumeric():
		return promoteNumeric(t1, t2), nil
	case t1.IsTemporal() && t2.IsTemporal():
		return promoteTemporal(t1, t2), nil
	case t1.IsCategorical() && t2.IsCategorical():
		return promoteCategorical(t1, t2), nil
	case t1.Kind() == dtype.KindList && t2.Kind() == dtype.KindList:
		elem, err := Promote(t1.Elem(), t2.Elem())
		if err != nil {
			return dtype.Type{}, err
		}
		return dtype.ListOf(elem), nil
	case t1.Kind() == dtype.KindStruct && t2.Kind() == dtype.KindStruct:
		return promoteStruct(t1, t2)
	}
	return dtype.Type{}, &goshape.IncompatibleTypesError{Left: t1, Right: t2}
}

// CanCast reports whether t1 and t2 have a promotion. It is a type-level
// check; Cast may still reject individual values.
func CanCast(t1, t2 dtype.Type) bool {
	_, err := Promote(t1, t2)
	return err == nil
}

func either(t1, t2 dtype.Type, k dtype.Kind) bool { return t1.Kind() == k || t2.Kind() == k }

func promoteNumeric(t1, t2 dtype.Type) dtype.Type {
	switch {
	case either(t1, t2, dtype.KindDecimal):
		return dtype.Decimal
	case either(t1, t2, dtype.KindFloat):
		return dtype.Float
	default:
		return dtype.Integer
	}
}

func promoteTemporal(t1, t2 dtype.Type) dtype.Type {
	switch {
	case either(t1, t2, dtype.KindDuration):
		return dtype.Duration
	case either(t1, t2, dtype.KindDatetime):
		return dtype.Datetime
	case either(t1, t2, dtype.KindDate):
		return dtype.Date
	default:
		return dtype.Time
	}
}

func promoteCategorical(t1, t2 dtype.Type) dtype.Type {
	switch {
	case either(t1, t2, dtype.KindString):
		return dtype.String
	case t1.Kind() == dtype.KindBoolean && t2.Kind() == dtype.KindBoolean:
		return dtype.Boolean
	case t1.Kind() == dtype.KindBinary && t2.Kind() == dtype.KindBinary:
		return dtype.Binary
	case t1.Kind() == dtype.KindEnum && t2.Kind() == dtype.KindEnum:
		if len(t1.Values()) == 0 || len(t2.Values()) == 0 {
			return dtype.EnumOf()
		}
		return dtype.EnumOf(append(t1.Values(), t2.Values()...)...)
	default:
		return dtype.Categorical
	}
}

func promoteStruct(t1, t2 dtype.Type) (dtype.Type, error) {
	f1, f2 := t1.Fields(), t2.Fields()
	out := make([]dtype.Field, 0, len(f1)+len(f2))
	for _, f := range f1 {
		other, ok := t2.Field(f.Name)
		if !ok {
			other = dtype.Null
		}
		pt, err := Promote(f.Type, other)
		if err != nil {
			return dtype.Type{}, err
		}
		out = append(out, dtype.F(f.Name, pt))
	}
	for _, f := range f2 {
		if _, ok := t1.Field(f.Name); ok {
			continue
		}
		pt, err := Promote(dtype.Null, f.Type)
		if err != nil {
			return dtype.Type{}, err
		}
		out = append(out, dtype.F(f.Name, pt))
	}
	return dtype.StructOf(out...), nil
}
