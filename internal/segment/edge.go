package segment

import (
	"image"
	"math"

	"github.com/dynkarken/pattern-language-extract/internal/system"
)

// EdgeDetector is an alternative strategy for scan sources where the tone
// mask over-merges (tight layouts, gray paper): Sobel gradients mark stroke
// boundaries, dilation connects them into components.
type EdgeDetector struct {
	EdgeThreshold float64
	DilateKernel  int
	Iterations    int
	MinAreaFrac   float64
	MaxAreaFrac   float64
}

// Detect runs Sobel → threshold → dilate → component extraction.
func (d *EdgeDetector) Detect(gray *image.Gray) []image.Rectangle {
	edges := sobelEdges(gray, d.EdgeThreshold)

	radius := d.DilateKernel / 2
	if radius < 1 {
		radius = 1
	}
	for i := 0; i < d.Iterations; i++ {
		grown := dilate(edges, radius)
		system.PutGray(edges)
		edges = grown
	}
	defer system.PutGray(edges)

	pageArea := gray.Bounds().Dx() * gray.Bounds().Dy()
	minArea := int(float64(pageArea) * d.MinAreaFrac)
	maxArea := int(float64(pageArea) * d.MaxAreaFrac)
	return extractComponents(edges, minArea, maxArea)
}

// sobelEdges produces a binary mask of pixels whose gradient magnitude
// exceeds the threshold. The one-pixel border stays background.
func sobelEdges(gray *image.Gray, threshold float64) *image.Gray {
	bounds := gray.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	edges := system.GetGray(bounds)
	for i := range edges.Pix {
		edges.Pix[i] = 0
	}

	at := func(x, y int) int {
		return int(gray.Pix[y*gray.Stride+x])
	}

	for y := 1; y < h-1; y++ {
		for x := 1; x < w-1; x++ {
			gx := -at(x-1, y-1) + at(x+1, y-1) +
				-2*at(x-1, y) + 2*at(x+1, y) +
				-at(x-1, y+1) + at(x+1, y+1)
			gy := -at(x-1, y-1) - 2*at(x, y-1) - at(x+1, y-1) +
				at(x-1, y+1) + 2*at(x, y+1) + at(x+1, y+1)

			if math.Sqrt(float64(gx*gx+gy*gy)) > threshold {
				edges.Pix[y*edges.Stride+x] = 255
			}
		}
	}
	return edges
}
