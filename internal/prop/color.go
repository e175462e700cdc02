package prop

import (
	"fmt"
	"math"
)

// Color is an RGBA color with channels in [0, 1].
type Color struct {
	R float64
	G float64
	B float64
	A float64
}

// clamped returns the color with every channel clamped into [0, 1].
func (c Color) clamped() Color {
	return Color{
		R: clamp01(c.R),
		G: clamp01(c.G),
		B: clamp01(c.B),
		A: clamp01(c.A),
	}
}

// String renders the color as #rrggbbaa hex.
func (c Color) String() string {
	cl := c.clamped()
	return fmt.Sprintf("#%02x%02x%02x%02x",
		channelByte(cl.R), channelByte(cl.G), channelByte(cl.B), channelByte(cl.A))
}

func channelByte(ch float64) uint8 {
	return uint8(math.Round(ch * 255))
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
