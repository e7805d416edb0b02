package render

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFramebufferSavePNG(t *testing.T) {
	// Create a small framebuffer with a gradient
	fb := NewFramebuffer(100, 100)
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			fb.SetPixel(x, y, RGB(uint8(x*2), uint8(y*2), 128))
		}
	}

	path := filepath.Join(t.TempDir(), "test.png")
	if err := fb.SavePNG(path); err != nil {
		t.Fatalf("SavePNG failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("File not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("File is empty")
	}
}

func TestFramebufferToImage(t *testing.T) {
	fb := NewFramebuffer(50, 50)
	fb.SetPixel(10, 20, ColorRed)
	fb.SetPixel(30, 40, ColorGreen)

	img := fb.ToImage()

	if img.Bounds().Dx() != 50 || img.Bounds().Dy() != 50 {
		t.Errorf("Image dimensions wrong: got %dx%d", img.Bounds().Dx(), img.Bounds().Dy())
	}

	r, g, b, a := img.At(10, 20).RGBA()
	if r>>8 != 255 || g>>8 != 0 || b>>8 != 0 {
		t.Errorf("Red pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}

	r, g, b, a = img.At(30, 40).RGBA()
	if r>>8 != 0 || g>>8 != 255 || b>>8 != 0 {
		t.Errorf("Green pixel wrong: got %d,%d,%d,%d", r>>8, g>>8, b>>8, a>>8)
	}
}

func TestFramebufferClearAndBlend(t *testing.T) {
	fb := NewFramebuffer(8, 8)
	fb.BG = RGB(10, 20, 30)
	fb.Clear()
	if c := fb.GetPixel(7, 7); c != fb.BG {
		t.Errorf("cleared pixel = %v, want %v", c, fb.BG)
	}
	fb.SetPixel(0, 0, ColorBlack)
	fb.BlendPixel(0, 0, ColorWhite, 0.5)
	if c := fb.GetPixel(0, 0); c.R < 127 || c.R > 128 {
		t.Errorf("blended pixel = %v, want mid gray", c)
	}
	// Out of bounds is ignored.
	fb.SetPixel(-1, 3, ColorRed)
	if c := fb.GetPixel(-1, 3); c != fb.BG {
		t.Errorf("out of bounds read = %v, want BG", c)
	}
}
