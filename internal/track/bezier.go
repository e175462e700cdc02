package track

// unitBezier evaluates a cubic bezier easing curve anchored at (0,0) and
// (1,1) with control points (p1x, p1y) and (p2x, p2y).
//
// Solving inverts the x polynomial with Newton-Raphson, falling back to
// bisection when the derivative degenerates. The y output is NOT clamped:
// control points with y outside [0,1] legitimately produce eased
// progressions outside [0,1] (overshoot), which the interpolators must honor.
type unitBezier struct {
	ax, bx, cx float64
	ay, by, cy float64
}

const bezierEpsilon = 1e-6

func newUnitBezier(p1x, p1y, p2x, p2y float64) unitBezier {
	var b unitBezier
	// Polynomial coefficients, implicit first and last control points.
	b.cx = 3 * p1x
	b.bx = 3*(p2x-p1x) - b.cx
	b.ax = 1 - b.cx - b.bx
	b.cy = 3 * p1y
	b.by = 3*(p2y-p1y) - b.cy
	b.ay = 1 - b.cy - b.by
	return b
}

func (b unitBezier) sampleCurveX(t float64) float64 {
	return ((b.ax*t+b.bx)*t + b.cx) * t
}

func (b unitBezier) sampleCurveY(t float64) float64 {
	return ((b.ay*t+b.by)*t + b.cy) * t
}

func (b unitBezier) sampleCurveDerivativeX(t float64) float64 {
	return (3*b.ax*t+2*b.bx)*t + b.cx
}

// solveCurveX finds the parameter t whose curve x equals the given x.
func (b unitBezier) solveCurveX(x float64) float64 {
	// Newton-Raphson: converges in a handful of iterations for the
	// monotonic-x curves valid handles produce.
	t := x
	for i := 0; i < 8; i++ {
		x2 := b.sampleCurveX(t) - x
		if abs(x2) < bezierEpsilon {
			return t
		}
		d2 := b.sampleCurveDerivativeX(t)
		if abs(d2) < 1e-6 {
			break
		}
		t -= x2 / d2
	}

	// Fall back to bisection.
	lo, hi := 0.0, 1.0
	t = x
	if t < lo {
		return lo
	}
	if t > hi {
		return hi
	}
	for lo < hi {
		x2 := b.sampleCurveX(t)
		if abs(x2-x) < bezierEpsilon {
			return t
		}
		if x > x2 {
			lo = t
		} else {
			hi = t
		}
		t = (hi-lo)/2 + lo
	}
	return t
}

// Solve maps progression x through the easing curve.
func (b unitBezier) Solve(x float64) float64 {
	return b.sampleCurveY(b.solveCurveX(x))
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}
