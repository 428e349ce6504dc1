package codec

import (
	"context"
	"errors"
	"os"

	goshape "github.com/reoring/goshape"
	"github.com/reoring/goshape/dtype"
)

// ToFile encodes data with f and writes the whole file at path.
func ToFile(ctx context.Context, f Format, data any, path string) (dtype.Type, error) {
	b, schema, err := f.Encode(ctx, data)
	if err != nil {
		return dtype.Type{}, withFile(err, path)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return dtype.Type{}, &goshape.ConversionError{Op: "write", Format: f.Name(), File: path, Cause: err}
	}
	return schema, nil
}

// FromFile reads the whole file at path and decodes it with f. A missing
// file yields a ConversionError wrapping fs.ErrNotExist.
func FromFile(ctx context.Context, f Format, path string) (any, dtype.Type, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, dtype.Type{}, &goshape.ConversionError{Op: "read", Format: f.Name(), File: path, Cause: err}
	}
	v, schema, err := f.Decode(ctx, b)
	if err != nil {
		return nil, dtype.Type{}, withFile(err, path)
	}
	return v, schema, nil
}

// Convert decodes text with from and encodes the result with to.
func Convert(ctx context.Context, from, to Format, text []byte) ([]byte, dtype.Type, error) {
	v, _, err := from.Decode(ctx, text)
	if err != nil {
		return nil, dtype.Type{}, err
	}
	return to.Encode(ctx, v)
}

// ConvertFile converts src into dst, choosing both formats by extension.
func (r *Registry) ConvertFile(ctx context.Context, src, dst string) (dtype.Type, error) {
	from, err := r.ForPath(src)
	if err != nil {
		return dtype.Type{}, err
	}
	to, err := r.ForPath(dst)
	if err != nil {
		return dtype.Type{}, err
	}
	v, _, err := FromFile(ctx, from, src)
	if err != nil {
		return dtype.Type{}, err
	}
	return ToFile(ctx, to, v, dst)
}

func withFile(err error, path string) error {
	var ce *goshape.ConversionError
	if errors.As(err, &ce) && ce.File == "" {
		cp := *ce
		cp.File = path
		return &cp
	}
	return err
}
