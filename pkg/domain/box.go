package domain

import (
	"fmt"
	"image"
	"strconv"
	"strings"
)

// Box is an axis-aligned bounding box in pixel coordinates.
type Box struct {
	X, Y, W, H int
}

// Rect converts the box to an image.Rectangle.
func (b Box) Rect() image.Rectangle {
	return image.Rect(b.X, b.Y, b.X+b.W, b.Y+b.H)
}

// Clamp returns the part of the box that lies within bounds.
func (b Box) Clamp(bounds image.Rectangle) Box {
	r := b.Rect().Intersect(bounds)
	return Box{X: r.Min.X, Y: r.Min.Y, W: r.Dx(), H: r.Dy()}
}

// Empty reports whether the box covers no pixels.
func (b Box) Empty() bool {
	return b.W <= 0 || b.H <= 0
}

func (b Box) String() string {
	return fmt.Sprintf("%d,%d,%d,%d", b.X, b.Y, b.W, b.H)
}

// ParseBox parses "x,y,w,h".
func ParseBox(s string) (Box, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 4 {
		return Box{}, fmt.Errorf("invalid box %q: want x,y,w,h", s)
	}
	var v [4]int
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil {
			return Box{}, fmt.Errorf("invalid box %q: %w", s, err)
		}
		v[i] = n
	}
	return Box{X: v[0], Y: v[1], W: v[2], H: v[3]}, nil
}
