package render

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
)

// Framebuffer is a row-major RGB pixel buffer.
type Framebuffer struct {
	Width, Height int
	Pixels        []Color
	BG            Color // Clear color
}

// NewFramebuffer creates a framebuffer cleared to black.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// Resize reallocates the pixel buffer. Contents are lost.
func (fb *Framebuffer) Resize(width, height int) {
	fb.Width, fb.Height = width, height
	fb.Pixels = make([]Color, width*height)
	fb.Clear()
}

// Clear fills the framebuffer with BG.
func (fb *Framebuffer) Clear() {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = fb.BG
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// InBounds reports whether (x, y) lies inside the framebuffer.
func (fb *Framebuffer) InBounds(x, y int) bool {
	return x >= 0 && x < fb.Width && y >= 0 && y < fb.Height
}

// SetPixel sets the pixel at (x, y). Out of bounds writes are ignored.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if !fb.InBounds(x, y) {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the pixel at (x, y), or BG when out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if !fb.InBounds(x, y) {
		return fb.BG
	}
	return fb.Pixels[y*fb.Width+x]
}

// BlendPixel composites c over the pixel at (x, y).
func (fb *Framebuffer) BlendPixel(x, y int, c Color, alpha float64) {
	if !fb.InBounds(x, y) {
		return
	}
	i := y*fb.Width + x
	fb.Pixels[i] = Blend(fb.Pixels[i], c, alpha)
}

// ToImage converts the framebuffer to an image.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, fb.Width, fb.Height))
	for y := range fb.Height {
		for x := range fb.Width {
			c := fb.Pixels[y*fb.Width+x]
			img.SetRGBA(x, y, color.RGBA{c.R, c.G, c.B, 255})
		}
	}
	return img
}

// SavePNG writes the framebuffer to a PNG file.
func (fb *Framebuffer) SavePNG(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create png: %w", err)
	}
	if err := png.Encode(f, fb.ToImage()); err != nil {
		f.Close()
		return fmt.Errorf("encode png: %w", err)
	}
	return f.Close()
}
