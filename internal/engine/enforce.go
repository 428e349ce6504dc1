package engine

import (
	"fmt"

	goshape "github.com/reoring/goshape"
)

// Enforcement wrapper for TokenSource to apply duplicate key handling and
// max depth checks in a streaming fashion.

// DuplicateStrictness controls duplicate key handling.
type DuplicateStrictness int

const (
	DupIgnore DuplicateStrictness = iota // later occurrences win downstream
	DupError
)

// EnforceOptions controls runtime enforcement behavior.
type EnforceOptions struct {
	OnDuplicate DuplicateStrictness
	// MaxDepth bounds object/array nesting; 0 disables the check.
	MaxDepth int
}

type containerKind int

const (
	kindObject containerKind = iota
	kindArray
)

type frame struct {
	kind       containerKind
	keys       map[string]struct{}
	path       goshape.Pointer
	nextIndex  int
	pendingKey string
}

// WrapWithEnforcement returns a TokenSource that fails with
// *goshape.ParseError on a duplicate key (when OnDuplicate is DupError) or
// when nesting exceeds MaxDepth.
func WrapWithEnforcement(inner TokenSource, opt EnforceOptions) TokenSource {
	return &enforcingTokenSource{inner: inner, opt: opt}
}

type enforcingTokenSource struct {
	inner TokenSource
	opt   EnforceOptions
	stack []frame
}

func (e *enforcingTokenSource) NextToken() (Token, error) {
	tok, err := e.inner.NextToken()
	if err != nil {
		return Token{}, err
	}

	switch tok.Kind {
	case KindBeginObject, KindBeginArray:
		path := e.valuePath()
		f := frame{kind: kindArray, path: path}
		if tok.Kind == KindBeginObject {
			f = frame{kind: kindObject, keys: make(map[string]struct{}), path: path}
		}
		e.stack = append(e.stack, f)
		if e.opt.MaxDepth > 0 && len(e.stack) > e.opt.MaxDepth {
			return Token{}, &goshape.ParseError{
				Path:    path.String(),
				Rule:    goshape.CodeMaxDepth,
				Message: fmt.Sprintf("nesting deeper than %d", e.opt.MaxDepth),
				Offset:  e.Location(),
			}
		}
	case KindEndObject, KindEndArray:
		if n := len(e.stack); n > 0 {
			e.stack = e.stack[:n-1]
		}
	case KindKey:
		if n := len(e.stack); n > 0 {
			top := &e.stack[n-1]
			if _, dup := top.keys[tok.String]; dup && e.opt.OnDuplicate == DupError {
				return Token{}, &goshape.ParseError{
					Path:    top.path.Field(tok.String).String(),
					Rule:    goshape.CodeDuplicateKey,
					Message: fmt.Sprintf("key %q duplicated", tok.String),
					Offset:  e.Location(),
				}
			}
			top.keys[tok.String] = struct{}{}
			top.pendingKey = tok.String
		}
	case KindString, KindNumber, KindBool, KindNull:
		e.valuePath()
	}
	return tok, nil
}

// valuePath returns the pointer of the value about to start and advances the
// enclosing array index.
func (e *enforcingTokenSource) valuePath() goshape.Pointer {
	n := len(e.stack)
	if n == 0 {
		return goshape.Root()
	}
	top := &e.stack[n-1]
	if top.kind == kindArray {
		p := top.path.Index(top.nextIndex)
		top.nextIndex++
		return p
	}
	return top.path.Field(top.pendingKey)
}

func (e *enforcingTokenSource) Location() int64 { return e.inner.Location() }
