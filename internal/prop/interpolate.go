package prop

import "fmt"

// Interpolate computes the value at progression t between left and right.
//
// t is NOT clamped: values outside [0,1] extrapolate linearly for numeric
// types. Bezier easing curves legitimately produce such t values and the
// overshoot is contractual.
//
// Non-interpolable leaf types (strings, booleans, literals, asset refs) hold
// the left value for the whole segment; the jump to the right value happens
// when sampling crosses into the next segment.
func Interpolate(c Config, left, right any, t float64) any {
	switch cfg := c.(type) {
	case *Number:
		l, okL := toFloat(left)
		r, okR := toFloat(right)
		if !okL || !okR {
			return left
		}
		return l + (r-l)*t

	case *Str, *Bool, *StringLiteral, *Image, *File:
		return left

	case *RGBA:
		l, okL := toColor(left)
		r, okR := toColor(right)
		if !okL || !okR {
			return left
		}
		return Color{
			R: l.R + (r.R-l.R)*t,
			G: l.G + (r.G-l.G)*t,
			B: l.B + (r.B-l.B)*t,
			A: l.A + (r.A-l.A)*t,
		}

	case *Compound:
		lm, okL := left.(map[string]any)
		rm, okR := right.(map[string]any)
		if !okL || !okR {
			return left
		}
		out := make(map[string]any, len(cfg.Fields))
		for _, f := range cfg.Fields {
			lv, haveL := lm[f.Key]
			if !haveL {
				lv = DefaultOf(f.Config)
			}
			rv, haveR := rm[f.Key]
			if !haveR {
				rv = DefaultOf(f.Config)
			}
			out[f.Key] = Interpolate(f.Config, lv, rv, t)
		}
		return out

	case *Enum:
		lv, okL := left.(EnumValue)
		rv, okR := right.(EnumValue)
		if !okL || !okR || lv.Case != rv.Case {
			return left
		}
		caseCfg := cfg.caseConfig(lv.Case)
		if caseCfg == nil {
			return left
		}
		return EnumValue{Case: lv.Case, Value: Interpolate(caseCfg, lv.Value, rv.Value, t)}

	default:
		panic(fmt.Sprintf("prop: unknown config variant %T", c))
	}
}
