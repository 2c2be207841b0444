// Package pigo detects faces with the Pigo pixel-intensity-comparison cascade.
package pigo

import (
	"fmt"
	"image"
	"os"
	"sort"

	"github.com/aretw0/errand/pkg/domain"
	"github.com/disintegration/imaging"
	pigo "github.com/esimov/pigo/core"
)

// DefaultMinQuality discards weak detections.
const DefaultMinQuality = 5.0

// Detector implements ports.FaceDetector.
type Detector struct {
	classifier *pigo.Pigo
	minSize    int
	maxSize    int
	minQuality float32
}

// Load unpacks the "facefinder" cascade file at path.
func Load(path string) (*Detector, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cascade: %w", err)
	}

	classifier, err := pigo.NewPigo().Unpack(data)
	if err != nil {
		return nil, fmt.Errorf("unpack cascade %s: %w", path, err)
	}

	return &Detector{
		classifier: classifier,
		minSize:    20,
		maxSize:    1000,
		minQuality: DefaultMinQuality,
	}, nil
}

// Detect runs the cascade over a grayscale copy of img.
func (d *Detector) Detect(img image.Image) ([]domain.Box, error) {
	src := imaging.Clone(img)
	bounds := src.Bounds()

	params := pigo.CascadeParams{
		MinSize:     d.minSize,
		MaxSize:     d.maxSize,
		ShiftFactor: 0.1,
		ScaleFactor: 1.1,
		ImageParams: pigo.ImageParams{
			Pixels: pigo.RgbToGrayscale(src),
			Rows:   bounds.Dy(),
			Cols:   bounds.Dx(),
			Dim:    bounds.Dx(),
		},
	}

	dets := d.classifier.RunCascade(params, 0.0)
	dets = d.classifier.ClusterDetections(dets, 0.2)
	return toBoxes(dets, d.minQuality), nil
}

// toBoxes converts centre/scale detections to boxes, best quality first.
func toBoxes(dets []pigo.Detection, minQuality float32) []domain.Box {
	kept := make([]pigo.Detection, 0, len(dets))
	for _, det := range dets {
		if det.Q >= minQuality {
			kept = append(kept, det)
		}
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Q > kept[j].Q })

	boxes := make([]domain.Box, 0, len(kept))
	for _, det := range kept {
		boxes = append(boxes, domain.Box{
			X: det.Col - det.Scale/2,
			Y: det.Row - det.Scale/2,
			W: det.Scale,
			H: det.Scale,
		})
	}
	return boxes
}
