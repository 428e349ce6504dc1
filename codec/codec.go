// Package codec converts canonical values to and from JSON, XML, YAML and CSV
// text and reports the inferred schema alongside every conversion.
//
// Adapters are stateless after construction. Every error they return is a
// *goshape.ConversionError wrapping the specific cause.
package codec

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
)

// Format is one text encoding.
type Format interface {
	// Name is the registry key, e.g. "JSON".
	Name() string
	// Extensions lists file extensions including the dot, lower-case.
	Extensions() []string
	// Encode serializes data (canonical or native Go) and returns its schema.
	Encode(ctx context.Context, data any) ([]byte, dtype.Type, error)
	// Decode parses text into canonical data and returns its schema.
	Decode(ctx context.Context, text []byte) (any, dtype.Type, error)
}

// ErrUnknownFormat is wrapped by lookups that match no adapter.
var ErrUnknownFormat = errors.New("unknown format")

// Registry is an immutable table of adapters sharing one set of options.
type Registry struct {
	formats []Format
	byName  map[string]Format
	byExt   map[string]Format
}

// NewRegistry builds the JSON, XML, YAML and CSV adapters for opt.
func NewRegistry(opt goshape.Options) (*Registry, error) {
	if err := opt.Validate(); err != nil {
		return nil, err
	}
	r := &Registry{byName: map[string]Format{}, byExt: map[string]Format{}}
	for _, f := range []Format{JSON(opt), XML(opt), YAML(opt), CSV(opt)} {
		r.formats = append(r.formats, f)
		r.byName[strings.ToUpper(f.Name())] = f
		for _, ext := range f.Extensions() {
			r.byExt[ext] = f
		}
	}
	return r, nil
}

// Default is the registry for goshape.DefaultOptions.
var Default = mustRegistry(goshape.DefaultOptions())

func mustRegistry(opt goshape.Options) *Registry {
	r, err := NewRegistry(opt)
	if err != nil {
		panic(err)
	}
	return r
}

// Lookup returns the adapter registered under name, ignoring case.
func (r *Registry) Lookup(name string) (Format, error) {
	if f, ok := r.byName[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return f, nil
	}
	return nil, &goshape.ConversionError{Op: "lookup", Format: name, Cause: ErrUnknownFormat}
}

// ForPath picks the adapter by the extension of path.
func (r *Registry) ForPath(path string) (Format, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if f, ok := r.byExt[ext]; ok {
		return f, nil
	}
	return nil, &goshape.ConversionError{Op: "lookup", File: path, Cause: ErrUnknownFormat}
}

// Names lists the registered format names in registration order.
func (r *Registry) Names() []string {
	out := make([]string, len(r.formats))
	for i, f := range r.formats {
		out[i] = f.Name()
	}
	return out
}

func (r *Registry) JSON() Format { return r.byName["JSON"] }
func (r *Registry) XML() Format  { return r.byName["XML"] }
func (r *Registry) YAML() Format { return r.byName["YAML"] }
func (r *Registry) CSV() Format  { return r.byName["CSV"] }

// Lookup searches Default.
func Lookup(name string) (Format, error) { return Default.Lookup(name) }

// ForPath searches Default.
func ForPath(path string) (Format, error) { return Default.ForPath(path) }

// Names lists the formats of Default.
func Names() []string { return Default.Names() }
