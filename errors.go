package goshape

import (
	"errors"
	"fmt"

	"github.com/reoring/goshape/dtype"
)

// Error codes (exported consts for IDE completion and type safety by convention)
const (
	CodeNormalization    = "normalization"
	CodeIncompatibleType = "incompatible_types"
	CodeCast             = "cast"
	CodeConversion       = "conversion"
	CodeParseError       = "parse_error"
	CodeDuplicateKey     = "duplicate_key"
	CodeMaxDepth         = "max_depth"
)

// Coded is implemented by every error in the taxonomy.
type Coded interface {
	error
	Code() string
}

// NormalizationError reports input whose shape or text does not satisfy a
// normalization rule (container shape, key case, URL, hostname).
type NormalizationError struct {
	Path    string // JSON Pointer of the offending value; "/" for the root.
	Message string
	Value   any // Optional: the rejected input.
}

func (e *NormalizationError) Error() string {
	if e.Path == "" || e.Path == "/" {
		return "normalization: " + e.Message
	}
	return fmt.Sprintf("normalization at %s: %s", e.Path, e.Message)
}

func (e *NormalizationError) Code() string { return CodeNormalization }

// IncompatibleTypesError reports two types with no promotion rule.
type IncompatibleTypesError struct {
	Left, Right dtype.Type
}

func (e *IncompatibleTypesError) Error() string {
	return fmt.Sprintf("incompatible types: cannot promote %s and %s", e.Left, e.Right)
}

func (e *IncompatibleTypesError) Code() string { return CodeIncompatibleType }

// CastError reports a concrete value that cannot be converted to a target type.
type CastError struct {
	Path   string // JSON Pointer of the failing element; "/" for the root.
	Value  any
	Target dtype.Type
	Cause  error // Optional: underlying parse error.
}

func (e *CastError) Error() string {
	msg := fmt.Sprintf("cannot cast %s to %s", describeValue(e.Value), e.Target)
	if e.Path != "" && e.Path != "/" {
		msg += " at " + e.Path
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *CastError) Code() string  { return CodeCast }
func (e *CastError) Unwrap() error { return e.Cause }

// ConversionError is the adapter-boundary error. It records what was being
// converted and wraps the specific cause, which errors.As can recover.
type ConversionError struct {
	Op     string // e.g. "decode", "encode", "read", "write".
	Format string // e.g. "JSON", "XML".
	File   string // Optional: file path for file helpers.
	Cause  error
}

func (e *ConversionError) Error() string {
	msg := e.Op
	if e.Format != "" {
		msg = e.Format + " " + msg
	}
	if e.File != "" {
		msg += " " + e.File
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ConversionError) Code() string  { return CodeConversion }
func (e *ConversionError) Unwrap() error { return e.Cause }

// ParseError reports malformed input text at the adapter boundary.
type ParseError struct {
	Path    string // JSON Pointer when known.
	Rule    string // Optional: CodeDuplicateKey or CodeMaxDepth for enforcement failures.
	Message string
	Line    int   // 1-based line when known, 0 otherwise.
	Offset  int64 // Byte offset in the input (-1 when unknown).
	Cause   error
}

func (e *ParseError) Error() string {
	msg := "parse error"
	if e.Path != "" && e.Path != "/" {
		msg += " at " + e.Path
	}
	switch {
	case e.Line > 0:
		msg += fmt.Sprintf(" (line %d)", e.Line)
	case e.Offset >= 0:
		msg += fmt.Sprintf(" (offset %d)", e.Offset)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *ParseError) Code() string {
	if e.Rule != "" {
		return e.Rule
	}
	return CodeParseError
}

func (e *ParseError) Unwrap() error { return e.Cause }

// CodeOf returns the first code in err's chain that is more specific than
// CodeConversion. It returns CodeConversion when only the boundary error is
// coded and "" when nothing is.
func CodeOf(err error) string {
	code := ""
	for e := err; e != nil; e = errors.Unwrap(e) {
		c, ok := e.(Coded)
		if !ok {
			continue
		}
		code = c.Code()
		if code != CodeConversion {
			return code
		}
	}
	return code
}

// Convert wraps err into a ConversionError unless it already is one.
func Convert(op, format string, err error) error {
	if err == nil {
		return nil
	}
	var ce *ConversionError
	if errors.As(err, &ce) {
		return err
	}
	return &ConversionError{Op: op, Format: format, Cause: err}
}

func describeValue(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case string:
		if r := []rune(x); len(r) > 64 {
			x = string(r[:61]) + "..."
		}
		return fmt.Sprintf("%q", x)
	default:
		return fmt.Sprintf("%v (%T)", v, v)
	}
}
