package segment

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sort"

	"github.com/disintegration/imaging"
	"github.com/sirupsen/logrus"

	"github.com/dynkarken/pattern-language-extract/internal/logger"
)

// emit orders accepted regions top-to-bottom, pads and crops each from the
// original page, applies the kind-specific rotation, and writes JPEGs named
// {page_label}_{kind}_{index:02d}.jpg.
//
// A write failure for one region is joined into the returned error; the
// remaining regions still complete, since each crop is independently useful.
func (s *Segmenter) emit(img image.Image, regions []Region, pageLabel, outputDir string) ([]Artifact, error) {
	if len(regions) == 0 {
		return []Artifact{}, nil
	}

	// Reading order: top edge ascending. The sort must be stable so that
	// same-row regions keep their discovery order.
	ordered := make([]Region, len(regions))
	copy(ordered, regions)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Rect.Min.Y < ordered[j].Rect.Min.Y
	})

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	pageBounds := img.Bounds()
	artifacts := make([]Artifact, 0, len(ordered))
	var errs []error

	for i, r := range ordered {
		index := i + 1 // assigned after sorting, before any drop

		padded := r.Rect.Inset(-s.cfg.Padding).Intersect(pageBounds)
		if padded.Empty() {
			logger.WithFields(logrus.Fields{
				"page": pageLabel,
				"rect": r.Rect.String(),
			}).Debugf("dropping region with degenerate padded geometry")
			continue
		}

		crop := rotateForKind(imaging.Crop(img, padded), s.rotationFor(r.Kind))

		filename := fmt.Sprintf("%s_%s_%02d.jpg", pageLabel, r.Kind, index)
		path := filepath.Join(outputDir, filename)
		if err := imaging.Save(crop, path, imaging.JPEGQuality(s.cfg.JPEGQuality)); err != nil {
			errs = append(errs, fmt.Errorf("failed to write %s: %w", filename, err))
			continue
		}

		artifacts = append(artifacts, Artifact{
			Filename: filename,
			Kind:     r.Kind,
			Width:    crop.Bounds().Dx(),
			Height:   crop.Bounds().Dy(),
		})

		logger.WithFields(logrus.Fields{
			"file": filename,
			"kind": r.Kind,
			"size": fmt.Sprintf("%dx%d", r.Rect.Dx(), r.Rect.Dy()),
			"mean": fmt.Sprintf("%.0f", r.Stats.Mean),
			"std":  fmt.Sprintf("%.0f", r.Stats.Std),
			"dark": fmt.Sprintf("%.3f", r.Stats.DarkFraction),
		}).Debugf("region extracted")
	}

	return artifacts, errors.Join(errs...)
}

func (s *Segmenter) rotationFor(kind Kind) int {
	if kind == KindPhoto {
		return s.cfg.PhotoRotation
	}
	return s.cfg.DiagramRotation
}

// rotateForKind rotates counter-clockwise with an expanded canvas so corners
// never clip. Quarter-turn angles use the exact lossless paths.
func rotateForKind(img *image.NRGBA, degrees int) *image.NRGBA {
	switch ((degrees % 360) + 360) % 360 {
	case 0:
		return img
	case 90:
		return imaging.Rotate90(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate270(img)
	default:
		return imaging.Rotate(img, float64(degrees), color.White)
	}
}
