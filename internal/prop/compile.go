package prop

import (
	"fmt"
	"sort"

	"github.com/stagehand-dev/stagehand/internal/faults"
)

// Compile turns a shorthand description of a property tree into a canonical
// config whose shape exactly mirrors the input.
//
// Plain values stand in for leaf configs: a number becomes a Number config
// with that default, a string a Str, a bool a Bool. Nested maps become
// Compound configs. Explicit Config values pass through unchanged, so
// shorthand and explicit configs mix freely:
//
//	cfg, err := prop.Compile(map[string]any{
//	    "position": map[string]any{"x": 0.0, "y": 0.0},
//	    "label":    "untitled",
//	    "visible":  true,
//	})
//
// Map-based shorthand carries no declaration order, so compound fields are
// ordered by key for a deterministic canonical form. Declare fields
// explicitly with NewCompound when order matters.
//
// An unrecognized literal tag fails fast at compile time.
func Compile(shorthand any) (Config, error) {
	switch v := shorthand.(type) {
	case Config:
		return v, nil
	case float64:
		return NewNumber(v)
	case float32:
		return NewNumber(float64(v))
	case int:
		return NewNumber(float64(v))
	case int64:
		return NewNumber(float64(v))
	case string:
		return NewStr(v), nil
	case bool:
		return NewBool(v), nil
	case Color:
		return NewRGBA(v)
	case map[string]any:
		keys := make([]string, 0, len(v))
		for k := range v {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		fields := make([]Field, 0, len(v))
		for _, k := range keys {
			sub, err := Compile(v[k])
			if err != nil {
				return nil, fmt.Errorf("field %q: %w", k, err)
			}
			fields = append(fields, Field{Key: k, Config: sub})
		}
		return NewCompound(fields)
	default:
		return nil, faults.Newf(faults.CodeInvalidConfig, "unrecognized shorthand literal of type %T", shorthand)
	}
}

// CompileCompound compiles a shorthand tree that must describe a compound
// root, the shape object declarations require.
func CompileCompound(shorthand any) (*Compound, error) {
	cfg, err := Compile(shorthand)
	if err != nil {
		return nil, err
	}
	compound, isCompound := cfg.(*Compound)
	if !isCompound {
		return nil, faults.Newf(faults.CodeInvalidConfig, "object shorthand must describe a compound, got %T", cfg)
	}
	return compound, nil
}
