package prop

import (
	"fmt"

	"github.com/stagehand-dev/stagehand/internal/address"
)

// Sanitize validates and coerces a raw, untrusted value into the config's
// accepted value. ok=false signals "use the default"; it is never a partial
// failure silently swallowed elsewhere.
//
// Sanitize is pure and retains no references into its input: compound and
// enum results are built in fresh containers. Sanitizing a value already
// produced by the same config is idempotent.
//
// For Compound, sub-sanitizers apply field-by-field and fields that
// individually miss are omitted, returning a partial object. Partial
// sanitization is intentional: the caller backfills missing fields with
// defaults. Fields not declared by the config are dropped.
func Sanitize(c Config, raw any) (value any, ok bool) {
	switch cfg := c.(type) {
	case *Number:
		f, isNum := toFloat(raw)
		if !isNum || !isFinite(f) {
			return nil, false
		}
		if cfg.Range != nil {
			if f < cfg.Range[0] {
				f = cfg.Range[0]
			}
			if f > cfg.Range[1] {
				f = cfg.Range[1]
			}
		}
		return f, true

	case *Str:
		s, isStr := raw.(string)
		if !isStr {
			return nil, false
		}
		return s, true

	case *Bool:
		b, isBool := raw.(bool)
		if !isBool {
			return nil, false
		}
		return b, true

	case *StringLiteral:
		s, isStr := raw.(string)
		if !isStr {
			return nil, false
		}
		for _, opt := range cfg.Options {
			if opt.Value == s {
				return s, true
			}
		}
		return nil, false

	case *RGBA:
		col, isCol := toColor(raw)
		if !isCol {
			return nil, false
		}
		for _, ch := range [4]float64{col.R, col.G, col.B, col.A} {
			if !isFinite(ch) {
				return nil, false
			}
		}
		return col.clamped(), true

	case *Image:
		return toAssetID(raw)

	case *File:
		return toAssetID(raw)

	case *Compound:
		m, isMap := raw.(map[string]any)
		if !isMap {
			return nil, false
		}
		out := make(map[string]any, len(cfg.Fields))
		for _, f := range cfg.Fields {
			fieldRaw, present := m[f.Key]
			if !present {
				continue
			}
			if v, fieldOK := Sanitize(f.Config, fieldRaw); fieldOK {
				out[f.Key] = v
			}
		}
		return out, true

	case *Enum:
		caseName, payload, isEnum := toEnumValue(raw)
		if !isEnum {
			return nil, false
		}
		caseCfg := cfg.caseConfig(caseName)
		if caseCfg == nil {
			return nil, false
		}
		v, payloadOK := Sanitize(caseCfg, payload)
		if !payloadOK {
			// Case tag is valid; a bad payload falls back to the case default.
			v = DefaultOf(caseCfg)
		}
		return EnumValue{Case: caseName, Value: v}, true

	default:
		panic(fmt.Sprintf("prop: unknown config variant %T", c))
	}
}

// toFloat coerces the numeric kinds that decoders produce into a float64.
func toFloat(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}

// toColor accepts a Color or the map shape decoders produce.
func toColor(raw any) (Color, bool) {
	switch v := raw.(type) {
	case Color:
		return v, true
	case map[string]any:
		r, okR := toFloat(v["r"])
		g, okG := toFloat(v["g"])
		b, okB := toFloat(v["b"])
		a, okA := toFloat(v["a"])
		if !okR || !okG || !okB || !okA {
			return Color{}, false
		}
		return Color{R: r, G: g, B: b, A: a}, true
	default:
		return Color{}, false
	}
}

// toAssetID accepts an AssetID or a bare string.
func toAssetID(raw any) (any, bool) {
	switch v := raw.(type) {
	case address.AssetID:
		return v, true
	case string:
		return address.AssetID(v), true
	default:
		return nil, false
	}
}

// toEnumValue accepts an EnumValue or the map shape decoders produce.
func toEnumValue(raw any) (caseName string, payload any, ok bool) {
	switch v := raw.(type) {
	case EnumValue:
		return v.Case, v.Value, true
	case map[string]any:
		name, isStr := v["case"].(string)
		if !isStr {
			return "", nil, false
		}
		return name, v["value"], true
	default:
		return "", nil, false
	}
}
