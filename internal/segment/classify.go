package segment

import (
	"image"

	"gonum.org/v1/gonum/stat"
)

// classifier assigns a kind to candidate boxes from tone statistics computed
// over the unblurred grayscale page. Classification runs on the unpadded
// box; padding is applied later, at emission, as a presentation concern.
type classifier struct {
	darkCutoff     uint8
	photoMeanMax   float64
	photoDarkMin   float64
	diagramDarkMin float64
	diagramStdMin  float64
}

// classify evaluates the photo predicate first, then the diagram predicate;
// a region satisfying both is a photo. Boxes failing both are residual text
// or noise and report ok=false.
//
// Halftone-printed photographs are moderately dark on average with a large
// share of genuinely dark dots; pen-line diagrams are lighter on average but
// high-variance (crisp strokes against paper).
func (c classifier) classify(gray *image.Gray, box image.Rectangle) (Region, bool) {
	box = box.Intersect(gray.Bounds())
	if box.Empty() {
		return Region{}, false
	}

	s := c.measure(gray, box)

	var kind Kind
	switch {
	case s.Mean < c.photoMeanMax && s.DarkFraction > c.photoDarkMin:
		kind = KindPhoto
	case s.DarkFraction > c.diagramDarkMin && s.Std > c.diagramStdMin:
		kind = KindDiagram
	default:
		return Region{}, false
	}

	return Region{Rect: box, Kind: kind, Stats: s}, true
}

// measure computes mean, population standard deviation and dark fraction
// over the box.
func (c classifier) measure(gray *image.Gray, box image.Rectangle) Stats {
	values := make([]float64, 0, box.Dx()*box.Dy())
	dark := 0

	for y := box.Min.Y; y < box.Max.Y; y++ {
		row := gray.Pix[y*gray.Stride+box.Min.X : y*gray.Stride+box.Max.X]
		for _, v := range row {
			values = append(values, float64(v))
			if v < c.darkCutoff {
				dark++
			}
		}
	}

	return Stats{
		Mean:         stat.Mean(values, nil),
		Std:          stat.PopStdDev(values, nil),
		DarkFraction: float64(dark) / float64(len(values)),
	}
}
