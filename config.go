package goshape

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// ParseOptions reads YAML settings on top of DefaultOptions. Unknown keys are
// rejected. Empty input yields the defaults.
//
//	number_mode: decimal
//	max_depth: 64
//	root_tag: records
//	null_tokens: ["", "N/A"]
func ParseOptions(data []byte) (Options, error) {
	opt := DefaultOptions()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&opt); err != nil && !errors.Is(err, io.EOF) {
		return Options{}, fmt.Errorf("goshape: options: %w", err)
	}
	if err := opt.Validate(); err != nil {
		return Options{}, err
	}
	return opt, nil
}

// LoadOptions reads a YAML options file.
func LoadOptions(path string) (Options, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Options{}, &ConversionError{Op: "read", Format: "YAML", File: path, Cause: err}
	}
	opt, err := ParseOptions(data)
	if err != nil {
		return Options{}, &ConversionError{Op: "decode", Format: "YAML", File: path, Cause: err}
	}
	return opt, nil
}
