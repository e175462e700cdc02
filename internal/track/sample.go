package track

import (
	"sort"

	"github.com/stagehand-dev/stagehand/internal/prop"
)

// Sample computes the track's value at a position.
//
// Positions before the first keyframe clamp to the first keyframe's value;
// positions after the last clamp to the last. A position landing exactly on
// a keyframe returns that keyframe's value exactly. Between keyframes the
// bounding pair (k0, k1) with k0.Position <= position < k1.Position governs:
//
//   - a hold-type k0 returns k0.Value unchanged for the whole segment
//   - a zero-duration segment returns k1.Value (no division)
//   - otherwise the normalized progression eases through the cubic bezier
//     defined by k0's right handle (exit) and k1's left handle (entry), then
//     feeds the config's interpolator; eased progressions may overshoot
//     [0,1] and interpolators must not clamp
//
// An empty track samples to the config's default.
func Sample(t *Track, position float64, cfg prop.Config) any {
	kfs := t.Keyframes
	if len(kfs) == 0 {
		return prop.DefaultOf(cfg)
	}
	if position <= kfs[0].Position {
		return kfs[0].Value
	}
	if position >= kfs[len(kfs)-1].Position {
		return kfs[len(kfs)-1].Value
	}

	// Index of the first keyframe strictly past position; the bounding pair
	// is (i-1, i).
	i := sort.Search(len(kfs), func(i int) bool {
		return kfs[i].Position > position
	})
	k0, k1 := &kfs[i-1], &kfs[i]

	if position == k0.Position {
		return k0.Value
	}
	if k0.Type == KeyframeTypeHold {
		return k0.Value
	}
	if k1.Position == k0.Position {
		return k1.Value
	}

	progression := (position - k0.Position) / (k1.Position - k0.Position)
	curve := newUnitBezier(k0.Handles[2], k0.Handles[3], k1.Handles[0], k1.Handles[1])
	eased := curve.Solve(progression)
	return prop.Interpolate(cfg, k0.Value, k1.Value, eased)
}
