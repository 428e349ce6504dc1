package normalize

import (
	"strconv"
	"strings"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/value"
)

// FlattenOptions controls Flatten.
type FlattenOptions struct {
	// Separator joins parent and child keys. Empty means ".".
	Separator string
	// MaxDepth limits how many nesting levels below the root are expanded.
	// Containers deeper than MaxDepth are kept as values. 0 means no limit.
	MaxDepth int
	// LowercaseKeys lower-cases every key segment.
	LowercaseKeys bool
}

// Flatten collapses nested mappings and sequences into a single-level mapping
// keyed parent.child.index. A sequence of mappings flattens to a sequence of
// flattened mappings and any other sequence flattens like a mapping keyed by
// position. Scalars are rejected.
func Flatten(v any, opt FlattenOptions) (any, error) {
	switch x := v.(type) {
	case *value.Map:
		return FlattenMap(x, opt), nil
	case []any:
		records := true
		for _, e := range x {
			if _, ok := e.(*value.Map); !ok {
				records = false
				break
			}
		}
		if !records {
			return flatten(x, opt), nil
		}
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = FlattenMap(e.(*value.Map), opt)
		}
		return out, nil
	}
	return nil, &goshape.NormalizationError{Path: "/", Message: "only mappings and sequences can be flattened", Value: v}
}

// FlattenMap is Flatten for a single mapping.
func FlattenMap(m *value.Map, opt FlattenOptions) *value.Map {
	return flatten(m, opt)
}

type flatItem struct {
	key   string
	v     any
	level int
}

func flatten(root any, opt FlattenOptions) *value.Map {
	sep := opt.Separator
	if sep == "" {
		sep = "."
	}
	out := value.NewMap(0)
	var stack []flatItem
	// children are pushed in reverse so they pop in document order
	push := func(prefix string, v any, level int) {
		join := func(k string) string {
			if opt.LowercaseKeys {
				k = strings.ToLower(k)
			}
			if prefix == "" && level == 1 {
				return k
			}
			return prefix + sep + k
		}
		switch x := v.(type) {
		case *value.Map:
			keys := x.Keys()
			for i := len(keys) - 1; i >= 0; i-- {
				cv, _ := x.Get(keys[i])
				stack = append(stack, flatItem{key: join(keys[i]), v: cv, level: level})
			}
		case []any:
			for i := len(x) - 1; i >= 0; i-- {
				stack = append(stack, flatItem{key: join(strconv.Itoa(i)), v: x[i], level: level})
			}
		}
	}
	push("", root, 1)
	for len(stack) > 0 {
		it := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if expandable(it.v) && (opt.MaxDepth == 0 || it.level <= opt.MaxDepth) {
			push(it.key, it.v, it.level+1)
			continue
		}
		out.Set(it.key, it.v)
	}
	return out
}

// expandable reports a non-empty container; empty ones stay as values.
func expandable(v any) bool {
	switch x := v.(type) {
	case *value.Map:
		return x.Len() > 0
	case []any:
		return len(x) > 0
	}
	return false
}
