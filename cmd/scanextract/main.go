package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dynkarken/pattern-language-extract/internal/config"
	"github.com/dynkarken/pattern-language-extract/internal/logger"
	"github.com/dynkarken/pattern-language-extract/internal/pipeline"
	"github.com/dynkarken/pattern-language-extract/internal/source"
	"github.com/dynkarken/pattern-language-extract/internal/system"
)

func main() {
	system.InitResourceLimits()

	cfg := config.Default()

	inputPtr := flag.String("input", "", "Scan image (JPEG/PNG/TIFF/BMP), directory of scans, or PDF")
	outputPtr := flag.String("output", "output", "Directory for extracted crops and manifest.json")
	labelPtr := flag.String("label", "", "Base label used as the filename prefix (default: input name)")
	patternPtr := flag.Int("pattern", 0, "Pattern number, prefixed to the label as a zero-padded triple")
	profilePtr := flag.String("profile", "", "YAML calibration profile to load")
	writeProfilePtr := flag.String("write-profile", "", "Write the default calibration profile to this path and exit")

	detectorPtr := flag.String("detector", cfg.Detector, "Blob detector variant: tone, edge")
	paddingPtr := flag.Int("padding", cfg.Padding, "Crop padding in pixels")
	photoRotPtr := flag.Int("photo-rotation", cfg.PhotoRotation, "CCW rotation applied to photo crops (degrees)")
	diagramRotPtr := flag.Int("diagram-rotation", cfg.DiagramRotation, "CCW rotation applied to diagram crops (degrees)")
	qualityPtr := flag.Int("quality", cfg.JPEGQuality, "JPEG quality for emitted crops (1-100)")
	minAreaPtr := flag.Float64("min-area", cfg.MinAreaFrac, "Minimum region area as a fraction of page area")
	maxAreaPtr := flag.Float64("max-area", cfg.MaxAreaFrac, "Maximum region area as a fraction of page area")
	dpiPtr := flag.Int("dpi", cfg.DPI, "Render DPI for PDF sources")
	workersPtr := flag.Int("workers", cfg.Workers, "Concurrent page workers (0: size from the machine)")

	flag.Parse()

	if *writeProfilePtr != "" {
		if err := config.SaveProfile(config.Default(), *writeProfilePtr); err != nil {
			logger.WithError(err).Fatalf("could not write profile")
		}
		fmt.Printf("default calibration profile written to %s\n", *writeProfilePtr)
		return
	}

	if *inputPtr == "" {
		fmt.Fprintln(os.Stderr, "scanextract: -input is required")
		flag.Usage()
		os.Exit(2)
	}

	if *profilePtr != "" {
		loaded, err := config.LoadProfile(*profilePtr)
		if err != nil {
			logger.WithError(err).Fatalf("could not load profile")
		}
		cfg = loaded
	}

	// Explicit flags win over profile values.
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "detector":
			cfg.Detector = *detectorPtr
		case "padding":
			cfg.Padding = *paddingPtr
		case "photo-rotation":
			cfg.PhotoRotation = *photoRotPtr
		case "diagram-rotation":
			cfg.DiagramRotation = *diagramRotPtr
		case "quality":
			cfg.JPEGQuality = *qualityPtr
		case "min-area":
			cfg.MinAreaFrac = *minAreaPtr
		case "max-area":
			cfg.MaxAreaFrac = *maxAreaPtr
		case "dpi":
			cfg.DPI = *dpiPtr
		case "workers":
			cfg.Workers = *workersPtr
		}
	})

	if err := cfg.Validate(); err != nil {
		logger.WithError(err).Fatalf("invalid configuration")
	}

	label := buildLabel(*labelPtr, *patternPtr, *inputPtr)

	src, err := source.Open(*inputPtr)
	if err != nil {
		logger.WithError(err).Fatalf("could not open source %s", *inputPtr)
	}
	defer src.Close()

	runner, err := pipeline.New(cfg)
	if err != nil {
		logger.WithError(err).Fatalf("could not initialize pipeline")
	}

	manifest, err := runner.Run(context.Background(), src, label, *outputPtr)
	if err != nil {
		logger.WithError(err).Fatalf("extraction failed")
	}

	total := 0
	for _, p := range manifest.Pages {
		total += len(p.Artifacts)
	}
	fmt.Printf("%d page(s) processed, %d visual(s) extracted to %s\n",
		len(manifest.Pages), total, *outputPtr)
}

// buildLabel derives the filename prefix: an explicit label (or the input
// name) with whitespace collapsed to underscores, optionally preceded by the
// zero-padded pattern number, e.g. 076_House_for_a_Small_Family.
func buildLabel(label string, pattern int, input string) string {
	if label == "" {
		base := filepath.Base(strings.TrimSuffix(input, "/"))
		label = strings.TrimSuffix(base, filepath.Ext(base))
	}
	label = strings.Join(strings.Fields(label), "_")
	if pattern > 0 {
		label = fmt.Sprintf("%03d_%s", pattern, label)
	}
	return label
}
