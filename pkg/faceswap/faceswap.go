// Package faceswap swaps the first detected face between two photos by
// cropping each face box, resizing both crops to the smaller box and pasting
// them back crosswise. There is no alignment or blending.
package faceswap

import (
	"fmt"
	"image"
	"sync"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/aretw0/errand/pkg/ports"
	"github.com/disintegration/imaging"
)

// Both photos are normalized to this size before detection.
const (
	Width  = 640
	Height = 480
)

// Default output files.
const (
	DefaultOutput1 = "swapped_1.png"
	DefaultOutput2 = "swapped_2.png"
)

// Result holds the two swapped images and the boxes that were used.
type Result struct {
	First  *image.NRGBA
	Second *image.NRGBA
	Box1   domain.Box
	Box2   domain.Box
}

// Swap resizes both photos to Width x Height, detects a face in each and
// exchanges them. domain.ErrFaceNotDetected is returned if either photo has none.
func Swap(photo1, photo2 image.Image, detector ports.FaceDetector) (*Result, error) {
	a := imaging.Resize(photo1, Width, Height, imaging.Linear)
	b := imaging.Resize(photo2, Width, Height, imaging.Linear)

	box1, err := firstFace(a, detector)
	if err != nil {
		return nil, err
	}
	box2, err := firstFace(b, detector)
	if err != nil {
		return nil, err
	}

	w := min(box1.W, box2.W)
	h := min(box1.H, box2.H)

	crop1 := imaging.Resize(imaging.Crop(a, box1.Rect()), w, h, imaging.Linear)
	crop2 := imaging.Resize(imaging.Crop(b, box2.Rect()), w, h, imaging.Linear)

	// Paste clips at the image edge.
	return &Result{
		First:  imaging.Paste(a, crop2, image.Pt(box1.X, box1.Y)),
		Second: imaging.Paste(b, crop1, image.Pt(box2.X, box2.Y)),
		Box1:   box1,
		Box2:   box2,
	}, nil
}

func firstFace(img *image.NRGBA, detector ports.FaceDetector) (domain.Box, error) {
	boxes, err := detector.Detect(img)
	if err != nil {
		return domain.Box{}, fmt.Errorf("detect faces: %w", err)
	}
	if len(boxes) == 0 {
		return domain.Box{}, domain.ErrFaceNotDetected
	}
	box := boxes[0].Clamp(img.Bounds())
	if box.Empty() {
		return domain.Box{}, domain.ErrFaceNotDetected
	}
	return box, nil
}

// SwapFiles reads two photos, swaps their faces and writes the results.
// Output formats follow the file extensions.
func SwapFiles(in1, in2, out1, out2 string, detector ports.FaceDetector) (*Result, error) {
	photo1, err := imaging.Open(in1, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", in1, err)
	}
	photo2, err := imaging.Open(in2, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", in2, err)
	}

	res, err := Swap(photo1, photo2, detector)
	if err != nil {
		return nil, err
	}

	if err := imaging.Save(res.First, out1); err != nil {
		return nil, fmt.Errorf("save %s: %w", out1, err)
	}
	if err := imaging.Save(res.Second, out2); err != nil {
		return nil, fmt.Errorf("save %s: %w", out2, err)
	}
	return res, nil
}

// Fixed is a FaceDetector that hands out preset boxes, one per Detect call,
// in order. Once exhausted it reports no faces.
type Fixed struct {
	mu    sync.Mutex
	boxes []domain.Box
	next  int
}

// NewFixed creates a Fixed detector.
func NewFixed(boxes ...domain.Box) *Fixed {
	return &Fixed{boxes: boxes}
}

// Detect returns the next preset box.
func (f *Fixed) Detect(image.Image) ([]domain.Box, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.next >= len(f.boxes) {
		return nil, nil
	}
	box := f.boxes[f.next]
	f.next++
	return []domain.Box{box}, nil
}
