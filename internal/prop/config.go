package prop

import (
	"math"

	"github.com/stagehand-dev/stagehand/internal/address"
	"github.com/stagehand-dev/stagehand/internal/faults"
)

// Config is a sealed interface describing one value position in a property
// tree. Only the variant types in this package implement it.
type Config interface {
	propConfig() // Sealed - only these types implement it
}

// Number describes a float-valued leaf.
type Number struct {
	Def float64
	// Range, when non-nil, is the [min, max] interval values are clamped
	// into during sanitization.
	Range *[2]float64
	// NudgeMultiplier scales editor nudge increments. Playback ignores it.
	NudgeMultiplier float64
}

func (*Number) propConfig() {}

// Str describes a string-valued leaf.
type Str struct {
	Def string
}

func (*Str) propConfig() {}

// Bool describes a boolean leaf.
type Bool struct {
	Def bool
}

func (*Bool) propConfig() {}

// LiteralOption is one allowed value of a StringLiteral with its display label.
type LiteralOption struct {
	Value string
	Label string
}

// StringLiteral describes a leaf restricted to an enumerated value set.
type StringLiteral struct {
	Def     string
	Options []LiteralOption
}

func (*StringLiteral) propConfig() {}

// RGBA describes a color leaf. Channels are sanitized into [0, 1].
type RGBA struct {
	Def Color
}

func (*RGBA) propConfig() {}

// Image describes an opaque image-asset reference leaf.
type Image struct {
	Def address.AssetID
}

func (*Image) propConfig() {}

// File describes an opaque file-asset reference leaf.
type File struct {
	Def address.AssetID
}

func (*File) propConfig() {}

// Field is one named sub-config of a Compound. Order is significant.
type Field struct {
	Key    string
	Config Config
}

// Compound describes an ordered mapping of named sub-configs.
type Compound struct {
	Fields []Field
}

func (*Compound) propConfig() {}

// Case is one named alternative of an Enum.
type Case struct {
	Name   string
	Config Config
}

// Enum describes named alternative sub-configs with one default case.
type Enum struct {
	Cases       []Case
	DefaultCase string
}

func (*Enum) propConfig() {}

// EnumValue is the value shape produced by an Enum config.
type EnumValue struct {
	Case  string
	Value any
}

// NumberOption configures a Number constructor.
type NumberOption func(*Number)

// WithRange clamps sanitized values into [min, max].
func WithRange(min, max float64) NumberOption {
	return func(n *Number) {
		n.Range = &[2]float64{min, max}
	}
}

// WithNudgeMultiplier scales editor nudge increments.
func WithNudgeMultiplier(m float64) NumberOption {
	return func(n *Number) {
		n.NudgeMultiplier = m
	}
}

// NewNumber builds a number config. The default must be finite and, when a
// range is given, fall inside it.
func NewNumber(def float64, opts ...NumberOption) (*Number, error) {
	if !isFinite(def) {
		return nil, faults.Newf(faults.CodeInvalidConfig, "number default must be finite, got %v", def)
	}
	n := &Number{Def: def, NudgeMultiplier: 1}
	for _, opt := range opts {
		opt(n)
	}
	if n.Range != nil {
		lo, hi := n.Range[0], n.Range[1]
		if !isFinite(lo) || !isFinite(hi) || lo > hi {
			return nil, faults.Newf(faults.CodeInvalidConfig, "number range [%v, %v] is malformed", lo, hi)
		}
		if def < lo || def > hi {
			return nil, faults.Newf(faults.CodeInvalidConfig, "number default %v outside range [%v, %v]", def, lo, hi)
		}
	}
	if !isFinite(n.NudgeMultiplier) || n.NudgeMultiplier <= 0 {
		return nil, faults.Newf(faults.CodeInvalidConfig, "nudge multiplier must be positive and finite, got %v", n.NudgeMultiplier)
	}
	return n, nil
}

// NewStr builds a string config.
func NewStr(def string) *Str {
	return &Str{Def: def}
}

// NewBool builds a boolean config.
func NewBool(def bool) *Bool {
	return &Bool{Def: def}
}

// NewStringLiteral builds a string-literal config. The default must be a
// member of the option set and option values must be unique.
func NewStringLiteral(def string, options []LiteralOption) (*StringLiteral, error) {
	if len(options) == 0 {
		return nil, faults.New(faults.CodeInvalidConfig, "stringLiteral requires at least one option")
	}
	seen := make(map[string]bool, len(options))
	found := false
	for _, opt := range options {
		if seen[opt.Value] {
			return nil, faults.Newf(faults.CodeInvalidConfig, "duplicate stringLiteral option %q", opt.Value)
		}
		seen[opt.Value] = true
		if opt.Value == def {
			found = true
		}
	}
	if !found {
		return nil, faults.Newf(faults.CodeInvalidConfig, "stringLiteral default %q not in option set", def)
	}
	cfg := &StringLiteral{Def: def, Options: make([]LiteralOption, len(options))}
	copy(cfg.Options, options)
	return cfg, nil
}

// NewRGBA builds a color config. Channels must be finite; they are clamped
// into [0, 1] like any sanitized color.
func NewRGBA(def Color) (*RGBA, error) {
	for _, ch := range [4]float64{def.R, def.G, def.B, def.A} {
		if !isFinite(ch) {
			return nil, faults.Newf(faults.CodeInvalidConfig, "rgba default has non-finite channel: %+v", def)
		}
	}
	return &RGBA{Def: def.clamped()}, nil
}

// NewImage builds an image-asset config.
func NewImage(def address.AssetID) *Image {
	return &Image{Def: def}
}

// NewFile builds a file-asset config.
func NewFile(def address.AssetID) *File {
	return &File{Def: def}
}

// NewCompound builds a compound config. Field keys must be unique, non-empty,
// and every sub-config non-nil. Field order is preserved as declared.
func NewCompound(fields []Field) (*Compound, error) {
	seen := make(map[string]bool, len(fields))
	for _, f := range fields {
		if f.Key == "" {
			return nil, faults.New(faults.CodeInvalidConfig, "compound field key must not be empty")
		}
		if seen[f.Key] {
			return nil, faults.Newf(faults.CodeInvalidConfig, "duplicate compound field %q", f.Key)
		}
		seen[f.Key] = true
		if f.Config == nil {
			return nil, faults.Newf(faults.CodeInvalidConfig, "compound field %q has nil config", f.Key)
		}
	}
	cfg := &Compound{Fields: make([]Field, len(fields))}
	copy(cfg.Fields, fields)
	return cfg, nil
}

// NewEnum builds an enum config. Case names must be unique, each case config
// non-nil, and the default case must exist.
func NewEnum(cases []Case, defaultCase string) (*Enum, error) {
	if len(cases) == 0 {
		return nil, faults.New(faults.CodeInvalidConfig, "enum requires at least one case")
	}
	seen := make(map[string]bool, len(cases))
	for _, c := range cases {
		if c.Name == "" {
			return nil, faults.New(faults.CodeInvalidConfig, "enum case name must not be empty")
		}
		if seen[c.Name] {
			return nil, faults.Newf(faults.CodeInvalidConfig, "duplicate enum case %q", c.Name)
		}
		seen[c.Name] = true
		if c.Config == nil {
			return nil, faults.Newf(faults.CodeInvalidConfig, "enum case %q has nil config", c.Name)
		}
	}
	if !seen[defaultCase] {
		return nil, faults.Newf(faults.CodeInvalidConfig, "enum default case %q does not exist", defaultCase)
	}
	cfg := &Enum{Cases: make([]Case, len(cases)), DefaultCase: defaultCase}
	copy(cfg.Cases, cases)
	return cfg, nil
}

// caseConfig returns the config of the named case, or nil.
func (e *Enum) caseConfig(name string) Config {
	for _, c := range e.Cases {
		if c.Name == name {
			return c.Config
		}
	}
	return nil
}

// field returns the field with the given key, or nil.
func (c *Compound) field(key string) *Field {
	for i := range c.Fields {
		if c.Fields[i].Key == key {
			return &c.Fields[i]
		}
	}
	return nil
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
