package dtype

import (
	"fmt"
	"strings"
)

// Category groups kinds into the four families the promotion lattice works on.
type Category uint8

const (
	CategoryNone Category = iota
	CategoryNumeric
	CategoryTemporal
	CategoryCategorical
	CategoryNested
)

func (c Category) String() string {
	switch c {
	case CategoryNumeric:
		return "numeric"
	case CategoryTemporal:
		return "temporal"
	case CategoryCategorical:
		return "categorical"
	case CategoryNested:
		return "nested"
	default:
		return "none"
	}
}

// Kind is the closed set of type variants.
type Kind uint8

const (
	KindInvalid Kind = iota

	KindNumeric // generic numeric
	KindInteger
	KindFloat
	KindDecimal
	KindNumericNull

	KindTemporal // generic temporal
	KindDate
	KindDatetime
	KindTime
	KindDuration
	KindTemporalNull

	KindCategorical // generic categorical
	KindBoolean
	KindString
	KindBinary
	KindEnum
	KindCategoricalNull

	KindNested // generic nested
	KindList
	KindStruct
	KindNull // nested null; compatible with anything

	kindCount = int(iota)
)

type kindInfo struct {
	name     string
	category Category
	null     bool
	generic  bool
}

var kinds = [kindCount]kindInfo{
	KindInvalid: {name: "invalid"},

	KindNumeric:     {name: "numeric", category: CategoryNumeric, generic: true},
	KindInteger:     {name: "integer", category: CategoryNumeric},
	KindFloat:       {name: "float", category: CategoryNumeric},
	KindDecimal:     {name: "decimal", category: CategoryNumeric},
	KindNumericNull: {name: "numeric_null", category: CategoryNumeric, null: true},

	KindTemporal:     {name: "temporal", category: CategoryTemporal, generic: true},
	KindDate:         {name: "date", category: CategoryTemporal},
	KindDatetime:     {name: "datetime", category: CategoryTemporal},
	KindTime:         {name: "time", category: CategoryTemporal},
	KindDuration:     {name: "duration", category: CategoryTemporal},
	KindTemporalNull: {name: "temporal_null", category: CategoryTemporal, null: true},

	KindCategorical:     {name: "categorical", category: CategoryCategorical, generic: true},
	KindBoolean:         {name: "boolean", category: CategoryCategorical},
	KindString:          {name: "string", category: CategoryCategorical},
	KindBinary:          {name: "binary", category: CategoryCategorical},
	KindEnum:            {name: "enum", category: CategoryCategorical},
	KindCategoricalNull: {name: "categorical_null", category: CategoryCategorical, null: true},

	KindNested: {name: "nested", category: CategoryNested, generic: true},
	KindList:   {name: "list", category: CategoryNested},
	KindStruct: {name: "struct", category: CategoryNested},
	KindNull:   {name: "null", category: CategoryNested, null: true},
}

func (k Kind) info() kindInfo {
	if int(k) >= kindCount {
		return kinds[KindInvalid]
	}
	return kinds[k]
}

// String returns the lower snake case name used in schema descriptions.
func (k Kind) String() string {
	if int(k) >= kindCount {
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
	return kinds[k].name
}

// Category reports the family the kind belongs to.
func (k Kind) Category() Category { return k.info().category }

// IsNull reports whether k is one of the per-category null kinds.
func (k Kind) IsNull() bool { return k.info().null }

// IsGeneric reports whether k is the abstract root kind of its category.
func (k Kind) IsGeneric() bool { return k.info().generic }

// ParseKind resolves a kind name as produced by Kind.String. Matching is case-insensitive.
func ParseKind(name string) (Kind, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for i := 1; i < kindCount; i++ {
		if kinds[i].name == n {
			return Kind(i), nil
		}
	}
	return KindInvalid, fmt.Errorf("dtype: unknown kind %q", name)
}

// NullKind returns the null kind of a category. CategoryNone maps to the generic null.
func NullKind(c Category) Kind {
	switch c {
	case CategoryNumeric:
		return KindNumericNull
	case CategoryTemporal:
		return KindTemporalNull
	case CategoryCategorical:
		return KindCategoricalNull
	default:
		return KindNull
	}
}
