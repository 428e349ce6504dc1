package normalize

import (
	"math"
	"strings"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/value"
)

// NullTokens is a set of strings treated as missing values.
type NullTokens map[string]struct{}

// NewNullTokens builds a token set.
func NewNullTokens(tokens ...string) NullTokens {
	n := make(NullTokens, len(tokens))
	for _, t := range tokens {
		n[t] = struct{}{}
	}
	return n
}

// DefaultNulls holds goshape.DefaultNullTokens.
var DefaultNulls = NewNullTokens(goshape.DefaultNullTokens...)

// IsNull reports whether v is missing: nil, NaN, or a string whose trimmed
// text is a token.
func (n NullTokens) IsNull(v any) bool {
	switch x := v.(type) {
	case nil:
		return true
	case float64:
		return math.IsNaN(x)
	case string:
		_, ok := n[strings.TrimSpace(x)]
		return ok
	}
	return false
}

// FillNulls returns a copy of v with every missing leaf replaced by fill.
func (n NullTokens) FillNulls(v any, fill any) any {
	return n.replace(v, fill)
}

// HandleNulls returns a copy of v with every missing leaf replaced by nil.
func (n NullTokens) HandleNulls(v any) any {
	return n.replace(v, nil)
}

func (n NullTokens) replace(v any, fill any) any {
	switch x := v.(type) {
	case *value.Map:
		out := value.NewMap(x.Len())
		x.Range(func(k string, e any) bool {
			out.Set(k, n.replace(e, fill))
			return true
		})
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = n.replace(e, fill)
		}
		return out
	}
	if n.IsNull(v) {
		return fill
	}
	return v
}

// IsNull applies DefaultNulls.
func IsNull(v any) bool { return DefaultNulls.IsNull(v) }

// FillNulls applies DefaultNulls.
func FillNulls(v any, fill any) any { return DefaultNulls.FillNulls(v, fill) }

// HandleNulls applies DefaultNulls.
func HandleNulls(v any) any { return DefaultNulls.HandleNulls(v) }
