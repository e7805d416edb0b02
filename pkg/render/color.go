package render

import "math"

// Color is an opaque 8-bit RGB color.
type Color struct {
	R, G, B uint8
}

// RGB creates a color from components.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b}
}

// Common colors.
var (
	ColorBlack = RGB(0, 0, 0)
	ColorWhite = RGB(255, 255, 255)
	ColorRed   = RGB(255, 0, 0)
	ColorGreen = RGB(0, 255, 0)
	ColorBlue  = RGB(0, 0, 255)
)

// MultiplyColor scales a color by intensity, clamping to [0, 255].
func MultiplyColor(c Color, intensity float64) Color {
	return Color{
		clampByte(float64(c.R) * intensity),
		clampByte(float64(c.G) * intensity),
		clampByte(float64(c.B) * intensity),
	}
}

// LerpColor interpolates between a and b.
func LerpColor(a, b Color, t float64) Color {
	return Color{
		clampByte(float64(a.R) + (float64(b.R)-float64(a.R))*t),
		clampByte(float64(a.G) + (float64(b.G)-float64(a.G))*t),
		clampByte(float64(a.B) + (float64(b.B)-float64(a.B))*t),
	}
}

// Blend composites src over dst with the given source alpha.
func Blend(dst, src Color, alpha float64) Color {
	return LerpColor(dst, src, alpha)
}

func clampByte(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

func interpolateColor3(c0, c1, c2 Color, b0, b1, b2 float64) Color {
	return Color{
		clampByte(float64(c0.R)*b0 + float64(c1.R)*b1 + float64(c2.R)*b2),
		clampByte(float64(c0.G)*b0 + float64(c1.G)*b1 + float64(c2.G)*b2),
		clampByte(float64(c0.B)*b0 + float64(c1.B)*b1 + float64(c2.B)*b2),
	}
}
