package goshape

import (
	"strconv"
	"strings"
)

// Pointer builds JSON Pointer (RFC 6901) paths in a chain-safe way. The zero
// value is the root. Field and Index never share storage with the receiver.
type Pointer struct {
	parts []string
}

// Root returns the root pointer.
func Root() Pointer { return Pointer{} }

var pointerEscaper = strings.NewReplacer("~", "~0", "/", "~1")

// Field appends an object member name.
func (p Pointer) Field(name string) Pointer {
	return Pointer{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), pointerEscaper.Replace(name))}
}

// Index appends a sequence position.
func (p Pointer) Index(i int) Pointer {
	return Pointer{parts: append(append(make([]string, 0, len(p.parts)+1), p.parts...), strconv.Itoa(i))}
}

// Depth reports the number of reference tokens.
func (p Pointer) Depth() int { return len(p.parts) }

// String renders the pointer; the root renders as "/".
func (p Pointer) String() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}
