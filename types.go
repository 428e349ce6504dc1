package goshape

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// NumberMode dictates how JSON and YAML number literals are decoded.
type NumberMode int

const (
	NumberAuto    NumberMode = iota // Integer literals as int64, others as float64.
	NumberFloat64                   // Every number as float64.
	NumberDecimal                   // Integer literals as int64, others as decimal.Decimal.
)

var numberModeNames = map[NumberMode]string{
	NumberAuto:    "auto",
	NumberFloat64: "float64",
	NumberDecimal: "decimal",
}

func (m NumberMode) String() string {
	if s, ok := numberModeNames[m]; ok {
		return s
	}
	return fmt.Sprintf("NumberMode(%d)", int(m))
}

func (m *NumberMode) UnmarshalYAML(n *yaml.Node) error {
	for k, v := range numberModeNames {
		if strings.EqualFold(n.Value, v) {
			*m = k
			return nil
		}
	}
	return fmt.Errorf("goshape: unknown number mode %q", n.Value)
}

// DuplicatePolicy controls repeated object keys in JSON input.
type DuplicatePolicy int

const (
	DuplicateLastWins DuplicatePolicy = iota // Later occurrences replace earlier ones.
	DuplicateError                           // Reject the document.
)

var duplicatePolicyNames = map[DuplicatePolicy]string{
	DuplicateLastWins: "last_wins",
	DuplicateError:    "error",
}

func (p DuplicatePolicy) String() string {
	if s, ok := duplicatePolicyNames[p]; ok {
		return s
	}
	return fmt.Sprintf("DuplicatePolicy(%d)", int(p))
}

func (p *DuplicatePolicy) UnmarshalYAML(n *yaml.Node) error {
	for k, v := range duplicatePolicyNames {
		if strings.EqualFold(n.Value, v) {
			*p = k
			return nil
		}
	}
	return fmt.Errorf("goshape: unknown duplicate key policy %q", n.Value)
}

// JSONDriver selects the tokenizer behind the JSON adapter.
type JSONDriver int

const (
	DriverGoJSON JSONDriver = iota // github.com/goccy/go-json.
	DriverStdlib                   // encoding/json; parse errors carry byte offsets.
)

var jsonDriverNames = map[JSONDriver]string{
	DriverGoJSON: "go-json",
	DriverStdlib: "encoding/json",
}

func (d JSONDriver) String() string {
	if s, ok := jsonDriverNames[d]; ok {
		return s
	}
	return fmt.Sprintf("JSONDriver(%d)", int(d))
}

func (d *JSONDriver) UnmarshalYAML(n *yaml.Node) error {
	for k, v := range jsonDriverNames {
		if strings.EqualFold(n.Value, v) {
			*d = k
			return nil
		}
	}
	return fmt.Errorf("goshape: unknown json driver %q", n.Value)
}

// DefaultNullTokens are the strings treated as missing values.
var DefaultNullTokens = []string{"", "NULL", "null", "N/A", "n/a", "-", "--"}

// Options bundles adapter and normalization settings.
type Options struct {
	// NumberMode selects the Go type of decoded number literals.
	NumberMode NumberMode `yaml:"number_mode"`
	// OnDuplicateKey selects the policy for repeated JSON object keys.
	OnDuplicateKey DuplicatePolicy `yaml:"on_duplicate_key"`
	// MaxDepth bounds input nesting; 0 disables the limit.
	MaxDepth int `yaml:"max_depth"`
	// JSONDriver selects the JSON tokenizer.
	JSONDriver JSONDriver `yaml:"json_driver"`
	// Indent is the per-level indentation of encoded text; empty means compact.
	Indent string `yaml:"indent"`

	// RootTag names the synthetic XML root element.
	RootTag string `yaml:"root_tag"`
	// ItemTag names the XML element wrapping each list entry.
	ItemTag string `yaml:"item_tag"`
	// XMLDeclaration prepends <?xml version="1.0" encoding="UTF-8"?>.
	XMLDeclaration bool `yaml:"xml_declaration"`
	// TypedText recovers booleans and number literals from XML leaf text.
	TypedText bool `yaml:"typed_text"`

	// NullTokens lists strings treated as missing values.
	NullTokens []string `yaml:"null_tokens"`
	// ReplaceNullTokens replaces null-token strings with null after decoding.
	ReplaceNullTokens bool `yaml:"replace_null_tokens"`
	// CollapseWhitespace collapses whitespace runs in decoded strings.
	CollapseWhitespace bool `yaml:"collapse_whitespace"`
	// KeyCase rewrites record keys: "" keeps them, "lower" or "upper".
	KeyCase string `yaml:"key_case"`
}

// DefaultOptions returns the settings used by the package-level adapters.
func DefaultOptions() Options {
	return Options{
		NumberMode:     NumberAuto,
		OnDuplicateKey: DuplicateLastWins,
		MaxDepth:       512,
		Indent:         "    ",
		RootTag:        "root",
		ItemTag:        "item",
		TypedText:      true,
		NullTokens:     append([]string(nil), DefaultNullTokens...),
	}
}

// Validate reports inconsistent settings.
func (o Options) Validate() error {
	var errs []error
	if o.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max_depth must be >= 0, got %d", o.MaxDepth))
	}
	if o.RootTag == "" {
		errs = append(errs, errors.New("root_tag must not be empty"))
	}
	if o.ItemTag == "" {
		errs = append(errs, errors.New("item_tag must not be empty"))
	}
	switch o.KeyCase {
	case "", "lower", "upper":
	default:
		errs = append(errs, fmt.Errorf("key_case must be lower or upper, got %q", o.KeyCase))
	}
	if strings.TrimSpace(o.Indent) != "" {
		errs = append(errs, fmt.Errorf("indent must be whitespace, got %q", o.Indent))
	}
	if len(errs) > 0 {
		return fmt.Errorf("goshape: invalid options: %w", errors.Join(errs...))
	}
	return nil
}
