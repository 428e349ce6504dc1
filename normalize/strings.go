package normalize

import (
	"fmt"
	"net/url"
	"strings"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/value"
)

// Case selects a key rewrite.
type Case string

const (
	CaseLower Case = "lower"
	CaseUpper Case = "upper"
)

// Whitespace collapses runs of whitespace into single spaces and trims both
// ends.
func Whitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// Keys rewrites the top-level keys of m to the requested case. When two keys
// collide the later value wins and the first position is kept.
func Keys(m *value.Map, c Case) (*value.Map, error) {
	var conv func(string) string
	switch c {
	case CaseLower:
		conv = strings.ToLower
	case CaseUpper:
		conv = strings.ToUpper
	default:
		return nil, &goshape.NormalizationError{Path: "/", Message: fmt.Sprintf("unknown key case %q", string(c))}
	}
	out := value.NewMap(m.Len())
	m.Range(func(k string, v any) bool {
		out.Set(conv(k), v)
		return true
	})
	return out, nil
}

// URL trims s and requires an absolute URL with scheme and host. The
// re-serialized form is returned.
func URL(s string) (string, error) {
	s = strings.TrimSpace(s)
	u, err := url.Parse(s)
	if err != nil {
		return "", &goshape.NormalizationError{Path: "/", Message: "invalid URL: " + err.Error(), Value: s}
	}
	if u.Scheme == "" || u.Host == "" {
		return "", &goshape.NormalizationError{Path: "/", Message: "URL needs scheme and host", Value: s}
	}
	return u.String(), nil
}

const (
	maxHostname = 255
	maxLabel    = 63
)

// Hostname trims and lower-cases s, then checks it label by label: 1 to 63
// characters of [a-z0-9-], no leading or trailing hyphen, at most 255
// characters in total and no trailing dot.
func Hostname(s string) (string, error) {
	h := strings.ToLower(strings.TrimSpace(s))
	bad := func(msg string) (string, error) {
		return "", &goshape.NormalizationError{Path: "/", Message: msg, Value: s}
	}
	if h == "" {
		return bad("hostname is empty")
	}
	if len(h) > maxHostname {
		return bad("hostname longer than 255 characters")
	}
	for _, label := range strings.Split(h, ".") {
		if label == "" || len(label) > maxLabel {
			return bad(fmt.Sprintf("invalid label length in %q", h))
		}
		if label[0] == '-' || label[len(label)-1] == '-' {
			return bad(fmt.Sprintf("label %q starts or ends with a hyphen", label))
		}
		for i := 0; i < len(label); i++ {
			c := label[i]
			if (c < 'a' || c > 'z') && (c < '0' || c > '9') && c != '-' {
				return bad(fmt.Sprintf("label %q has invalid character %q", label, c))
			}
		}
	}
	return h, nil
}
