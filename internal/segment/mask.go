package segment

import (
	"image"

	"github.com/disintegration/imaging"

	"github.com/dynkarken/pattern-language-extract/internal/system"
)

// ToneDetector is the canonical strategy for printed book scans. A heavy
// Gaussian blur homogenizes body text toward the paper tone, so only
// spatially dense ink mass (photos, diagrams) survives the luminance cutoff.
type ToneDetector struct {
	BlurSigma     float64
	MaskThreshold uint8
	CloseKernel   int
	MinAreaFrac   float64
	MaxAreaFrac   float64
}

// Detect runs blur → threshold → morphological close → component extraction.
func (d *ToneDetector) Detect(gray *image.Gray) []image.Rectangle {
	mask := d.buildMask(gray)
	defer system.PutGray(mask)

	closed := closeMask(mask, d.CloseKernel)
	defer system.PutGray(closed)

	pageArea := gray.Bounds().Dx() * gray.Bounds().Dy()
	minArea := int(float64(pageArea) * d.MinAreaFrac)
	maxArea := int(float64(pageArea) * d.MaxAreaFrac)
	return extractComponents(closed, minArea, maxArea)
}

// buildMask produces the binary foreground mask: 255 marks ink mass that
// remains at or below the cutoff after blurring, 0 marks paper.
func (d *ToneDetector) buildMask(gray *image.Gray) *image.Gray {
	blurred := imaging.Blur(gray, d.BlurSigma)

	bounds := gray.Bounds()
	mask := system.GetGray(bounds)

	for y := 0; y < bounds.Dy(); y++ {
		srcRow := blurred.Pix[y*blurred.Stride:]
		dstRow := mask.Pix[y*mask.Stride:]
		for x := 0; x < bounds.Dx(); x++ {
			if srcRow[x*4] <= d.MaskThreshold {
				dstRow[x] = 255
			} else {
				dstRow[x] = 0
			}
		}
	}
	return mask
}
