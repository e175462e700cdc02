package track

import (
	"bytes"
	"fmt"
	"testing"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/require"

	"github.com/stagehand-dev/stagehand/internal/prop"
)

// easeCurve names a handle pairing and the positions to pin.
type easeCurve struct {
	name    string
	exit    [2]float64 // k0 right handle
	entry   [2]float64 // k1 left handle
	samples []float64
}

// TestEasing_GoldenValues pins the bezier easing convention: the segment
// curve is built from the left keyframe's right handle (exit) and the right
// keyframe's left handle (entry). The golden values are analytic:
//
//   - cubic-bezier(0.25, 0.25, 0.75, 0.75) is exactly y = x
//   - cubic-bezier(0.50, 0.00, 0.50, 1.00), the default ease, passes through
//     the points computed from x(t) = t^3 - 1.5t^2 + 1.5t, y(t) = 3t^2 - 2t^3
//
// Values are quantized to 4 decimals, well above the solver's 1e-6 epsilon.
func TestEasing_GoldenValues(t *testing.T) {
	cfg, err := prop.NewNumber(0)
	require.NoError(t, err)

	curves := []easeCurve{
		{
			name:    "identity",
			exit:    [2]float64{0.25, 0.25},
			entry:   [2]float64{0.75, 0.75},
			samples: []float64{0, 0.125, 0.25, 0.375, 0.5, 0.625, 0.75, 0.875, 1},
		},
		{
			name:  "default-ease",
			exit:  [2]float64{0.5, 0},
			entry: [2]float64{0.5, 1},
			// x positions chosen on exact curve points (t = 0.2, 0.4, ...).
			samples: []float64{0, 0.248, 0.424, 0.5, 0.576, 0.752, 1},
		},
	}

	var buf bytes.Buffer
	for _, c := range curves {
		tr := &Track{ID: "golden", Keyframes: []Keyframe{
			{
				Value:    0.0,
				Position: 0,
				Handles:  [4]float64{0, 0, c.exit[0], c.exit[1]},
				Type:     KeyframeTypeBezier,
			},
			{
				Value:    1.0,
				Position: 1,
				Handles:  [4]float64{c.entry[0], c.entry[1], 0, 0},
				Type:     KeyframeTypeBezier,
			},
		}}
		for _, x := range c.samples {
			y := Sample(tr, x, cfg).(float64)
			fmt.Fprintf(&buf, "curve=%s x=%.4f y=%.4f\n", c.name, x, y)
		}
	}

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "ease_curves", buf.Bytes())
}
