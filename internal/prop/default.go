package prop

import "fmt"

// DefaultOf recursively materializes the default value tree for a config.
// For Compound this is a mapping of each sub-config's default in declared
// order; for Enum it is the default case wrapping its config's default.
func DefaultOf(c Config) any {
	switch cfg := c.(type) {
	case *Number:
		return cfg.Def
	case *Str:
		return cfg.Def
	case *Bool:
		return cfg.Def
	case *StringLiteral:
		return cfg.Def
	case *RGBA:
		return cfg.Def
	case *Image:
		return cfg.Def
	case *File:
		return cfg.Def
	case *Compound:
		m := make(map[string]any, len(cfg.Fields))
		for _, f := range cfg.Fields {
			m[f.Key] = DefaultOf(f.Config)
		}
		return m
	case *Enum:
		return EnumValue{
			Case:  cfg.DefaultCase,
			Value: DefaultOf(cfg.caseConfig(cfg.DefaultCase)),
		}
	default:
		// Config is sealed; an unknown variant is a bug in this package.
		panic(fmt.Sprintf("prop: unknown config variant %T", c))
	}
}
