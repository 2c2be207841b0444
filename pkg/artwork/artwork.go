// Package artwork renders the "digital art" errand: a filled circle over a
// horizontal rule on a black canvas.
package artwork

import (
	"fmt"
	"image"
	"image/color"

	"github.com/fogleman/gg"
)

// Title is reported alongside the rendered image.
const Title = "Digital Art - Circle & Line"

var (
	Yellow = color.RGBA{R: 255, G: 255, A: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

// Spec describes the canvas and its two shapes.
type Spec struct {
	Width      int
	Height     int
	Radius     int
	LineOffset int // distance of the rule from the bottom edge
	LineWidth  float64
	Circle     color.Color
	Line       color.Color
}

// DefaultSpec is a 300x200 canvas with a radius 40 circle and a 3px rule 30px from the bottom.
func DefaultSpec() Spec {
	return Spec{
		Width:      300,
		Height:     200,
		Radius:     40,
		LineOffset: 30,
		LineWidth:  3,
		Circle:     Yellow,
		Line:       White,
	}
}

func (s Spec) validate() error {
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("invalid canvas %dx%d", s.Width, s.Height)
	}
	if s.Radius < 0 {
		return fmt.Errorf("invalid radius %d", s.Radius)
	}
	return nil
}

// Render draws the picture described by s.
func Render(s Spec) (image.Image, error) {
	if err := s.validate(); err != nil {
		return nil, err
	}

	dc := gg.NewContext(s.Width, s.Height)
	dc.SetColor(color.Black)
	dc.Clear()

	dc.SetColor(s.Circle)
	dc.DrawCircle(float64(s.Width/2), float64(s.Height/2), float64(s.Radius))
	dc.Fill()

	y := float64(s.Height - s.LineOffset)
	dc.SetColor(s.Line)
	dc.SetLineWidth(s.LineWidth)
	dc.DrawLine(0, y, float64(s.Width), y)
	dc.Stroke()

	return dc.Image(), nil
}

// Save renders s and writes it as a PNG file.
func Save(s Spec, path string) error {
	img, err := Render(s)
	if err != nil {
		return err
	}
	if err := gg.SavePNG(path, img); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}
