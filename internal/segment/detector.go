package segment

import (
	"fmt"
	"image"

	"github.com/dynkarken/pattern-language-extract/internal/config"
)

// Detector locates candidate figure regions on a grayscale page. Returned
// rectangles are in page-pixel coordinates, already filtered by the area
// bounds, with no ordering guarantee.
type Detector interface {
	Detect(gray *image.Gray) []image.Rectangle
}

// NewDetector creates a detector for the given variant.
func NewDetector(variant string, cfg config.Config) (Detector, error) {
	switch variant {
	case "tone", "":
		return &ToneDetector{
			BlurSigma:     cfg.BlurSigma,
			MaskThreshold: cfg.MaskThreshold,
			CloseKernel:   cfg.CloseKernel,
			MinAreaFrac:   cfg.MinAreaFrac,
			MaxAreaFrac:   cfg.MaxAreaFrac,
		}, nil
	case "edge":
		return &EdgeDetector{
			EdgeThreshold: cfg.EdgeThreshold,
			DilateKernel:  cfg.EdgeDilate,
			Iterations:    cfg.EdgeIterations,
			MinAreaFrac:   cfg.MinAreaFrac,
			MaxAreaFrac:   cfg.MaxAreaFrac,
		}, nil
	default:
		return nil, fmt.Errorf("unknown detector variant: %s", variant)
	}
}
