package value

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
)

// FormatText renders a canonical value as element text: booleans as
// true/false, dates as YYYY-MM-DD, datetimes as YYYY-MM-DD HH:MM:SS,
// durations as HH:MM:SS, binary as base64 and nested values as JSON.
// Null renders as the empty string.
func FormatText(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case int:
		return strconv.Itoa(x)
	case float64:
		return FormatFloat(x)
	case decimal.Decimal:
		return x.String()
	case string:
		return x
	case []byte:
		return base64.StdEncoding.EncodeToString(x)
	case Date:
		return x.String()
	case Time:
		return x.String()
	case time.Time:
		return FormatDatetime(x)
	case time.Duration:
		return FormatDuration(x)
	case *Map, []any:
		b, err := MarshalJSON(x)
		if err != nil {
			return fmt.Sprint(x)
		}
		return string(b)
	default:
		return fmt.Sprint(x)
	}
}

// FormatFloat renders f so that it always reads back as a float literal
// (1 becomes "1.0"). NaN and infinities use strconv spelling.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return s
	}
	if !strings.ContainsAny(s, ".e") {
		s += ".0"
	}
	return s
}

// MarshalJSON encodes a canonical value deterministically: maps keep
// insertion order, temporal values become their canonical text, binary
// becomes base64 and non-finite floats become null.
func MarshalJSON(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// MarshalJSONIndent is MarshalJSON followed by indentation. An empty indent
// yields the compact form.
func MarshalJSONIndent(v any, indent string) ([]byte, error) {
	b, err := MarshalJSON(v)
	if err != nil || indent == "" {
		return b, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, b, "", indent); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

func appendJSON(buf *bytes.Buffer, v any) error {
	switch x := v.(type) {
	case nil:
		buf.WriteString("null")
	case bool:
		buf.WriteString(strconv.FormatBool(x))
	case int64:
		buf.WriteString(strconv.FormatInt(x, 10))
	case int:
		buf.WriteString(strconv.Itoa(x))
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			buf.WriteString("null")
			return nil
		}
		buf.WriteString(FormatFloat(x))
	case decimal.Decimal:
		buf.WriteString(x.String())
	case string:
		return appendJSONString(buf, x)
	case []byte:
		return appendJSONString(buf, base64.StdEncoding.EncodeToString(x))
	case Date, Time, time.Time, time.Duration:
		return appendJSONString(buf, FormatText(x))
	case []any:
		buf.WriteByte('[')
		for i, e := range x {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, e); err != nil {
				return err
			}
		}
		buf.WriteByte(']')
	case *Map:
		b, err := x.MarshalJSON()
		if err != nil {
			return err
		}
		buf.Write(b)
	default:
		cv, err := FromNative(v)
		if err != nil {
			return err
		}
		return appendJSON(buf, cv)
	}
	return nil
}

func appendJSONString(buf *bytes.Buffer, s string) error {
	b, err := json.MarshalWithOption(s, json.DisableHTMLEscape())
	if err != nil {
		return err
	}
	buf.Write(b)
	return nil
}
