package config

import "fmt"

// Config holds all tunable parameters for one extraction run. The
// classifier thresholds and rotation angles are calibrations for a specific
// printed corpus (1970s halftone photography vs. pen-line diagrams) and are
// deliberately configuration values rather than literals in the algorithm.
type Config struct {
	// Detector selects the blob detection strategy: "tone" (default) or "edge".
	Detector string `yaml:"detector"`

	// Tone detector: blur sigma for dissolving glyph strokes, and the
	// luminance cutoff at or below which blurred pixels count as ink mass.
	BlurSigma     float64 `yaml:"blur_sigma"`
	MaskThreshold uint8   `yaml:"mask_threshold"`
	CloseKernel   int     `yaml:"close_kernel"`

	// Edge detector: Sobel gradient magnitude threshold and dilation used
	// to connect nearby strokes into components.
	EdgeThreshold  float64 `yaml:"edge_threshold"`
	EdgeDilate     int     `yaml:"edge_dilate"`
	EdgeIterations int     `yaml:"edge_iterations"`

	// Classifier thresholds.
	DarkCutoff     uint8   `yaml:"dark_cutoff"`
	PhotoMeanMax   float64 `yaml:"photo_mean_max"`
	PhotoDarkMin   float64 `yaml:"photo_dark_min"`
	DiagramDarkMin float64 `yaml:"diagram_dark_min"`
	DiagramStdMin  float64 `yaml:"diagram_std_min"`

	// Candidate area bounds as fractions of total page area.
	MinAreaFrac float64 `yaml:"min_area_frac"`
	MaxAreaFrac float64 `yaml:"max_area_frac"`

	// Emission parameters.
	Padding         int `yaml:"padding"`
	PhotoRotation   int `yaml:"photo_rotation"`
	DiagramRotation int `yaml:"diagram_rotation"`
	JPEGQuality     int `yaml:"jpeg_quality"`

	// DPI used when rendering PDF page sources.
	DPI int `yaml:"dpi"`

	// Workers bounds page-level parallelism; 0 means size from the machine.
	Workers int `yaml:"workers"`
}

// Default returns the calibration used for the original scan corpus.
// Photos in that corpus are printed sideways, hence the 270° correction.
func Default() Config {
	return Config{
		Detector:        "tone",
		BlurSigma:       8.0, // equivalent of a 51px Gaussian kernel under OpenCV's sigma rule
		MaskThreshold:   220,
		CloseKernel:     60,
		EdgeThreshold:   30.0,
		EdgeDilate:      5,
		EdgeIterations:  2,
		DarkCutoff:      128,
		PhotoMeanMax:    195,
		PhotoDarkMin:    0.20,
		DiagramDarkMin:  0.15,
		DiagramStdMin:   75,
		MinAreaFrac:     0.005,
		MaxAreaFrac:     0.95,
		Padding:         60,
		PhotoRotation:   270,
		DiagramRotation: 0,
		JPEGQuality:     92,
		DPI:             300,
		Workers:         0,
	}
}

// Validate checks parameter ranges before a run starts.
func (c *Config) Validate() error {
	switch c.Detector {
	case "tone", "edge":
	default:
		return fmt.Errorf("unknown detector variant: %q", c.Detector)
	}
	if c.BlurSigma <= 0 {
		return fmt.Errorf("blur_sigma must be > 0 (got %g)", c.BlurSigma)
	}
	if c.CloseKernel <= 0 {
		return fmt.Errorf("close_kernel must be > 0 (got %d)", c.CloseKernel)
	}
	if c.EdgeDilate <= 0 || c.EdgeIterations <= 0 {
		return fmt.Errorf("edge dilation parameters must be > 0 (got kernel=%d, iterations=%d)",
			c.EdgeDilate, c.EdgeIterations)
	}
	if c.MinAreaFrac <= 0 || c.MaxAreaFrac > 1 || c.MinAreaFrac >= c.MaxAreaFrac {
		return fmt.Errorf("area bounds must satisfy 0 < min < max <= 1 (got min=%g, max=%g)",
			c.MinAreaFrac, c.MaxAreaFrac)
	}
	if c.Padding < 0 {
		return fmt.Errorf("padding must be >= 0 (got %d)", c.Padding)
	}
	if c.JPEGQuality < 1 || c.JPEGQuality > 100 {
		return fmt.Errorf("jpeg_quality must be in [1, 100] (got %d)", c.JPEGQuality)
	}
	if c.DPI <= 0 {
		return fmt.Errorf("dpi must be > 0 (got %d)", c.DPI)
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must be >= 0 (got %d)", c.Workers)
	}
	return nil
}
