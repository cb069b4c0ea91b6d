package segment

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"

	"github.com/dynkarken/pattern-language-extract/internal/config"
	"github.com/dynkarken/pattern-language-extract/internal/system"
)

// Kind is the category assigned to an accepted region.
type Kind string

const (
	KindPhoto   Kind = "photo"
	KindDiagram Kind = "diagram"
)

// Stats holds grayscale tone statistics computed over a region's unpadded
// bounding box on the unblurred page.
type Stats struct {
	Mean         float64
	Std          float64
	DarkFraction float64
}

// Region is a candidate bounding box that passed classification.
type Region struct {
	Rect  image.Rectangle
	Kind  Kind
	Stats Stats
}

// Artifact describes one emitted crop, in reading order.
type Artifact struct {
	Filename string `json:"filename"`
	Kind     Kind   `json:"kind"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

// Segmenter runs the four-stage pipeline over one page at a time. It holds
// only configuration, no per-page state, so a single Segmenter is safe to
// share across concurrent page workers.
type Segmenter struct {
	cfg      config.Config
	detector Detector
	class    classifier
}

func New(cfg config.Config) (*Segmenter, error) {
	det, err := NewDetector(cfg.Detector, cfg)
	if err != nil {
		return nil, err
	}
	return &Segmenter{
		cfg:      cfg,
		detector: det,
		class: classifier{
			darkCutoff:     cfg.DarkCutoff,
			photoMeanMax:   cfg.PhotoMeanMax,
			photoDarkMin:   cfg.PhotoDarkMin,
			diagramDarkMin: cfg.DiagramDarkMin,
			diagramStdMin:  cfg.DiagramStdMin,
		},
	}, nil
}

// Segment locates and classifies figure regions on one page without writing
// anything. Regions are returned in discovery order; a page with no
// qualifying ink mass yields an empty slice.
func (s *Segmenter) Segment(img image.Image) []Region {
	img = normalize(img)
	gray := toGray(img)
	defer system.PutGray(gray)

	boxes := s.detector.Detect(gray)

	regions := make([]Region, 0, len(boxes))
	for _, box := range boxes {
		if r, ok := s.class.classify(gray, box); ok {
			regions = append(regions, r)
		}
	}
	return regions
}

// ExtractPage runs the full pipeline over one decoded page: detect candidate
// boxes, classify them, and write padded, rotated crops to outputDir. The
// returned artifacts are in reading order (top edge ascending).
func (s *Segmenter) ExtractPage(img image.Image, pageLabel, outputDir string) ([]Artifact, error) {
	img = normalize(img)
	return s.emit(img, s.Segment(img), pageLabel, outputDir)
}

// normalize guarantees zero-based bounds so mask, crop and page coordinates
// all live in the same space.
func normalize(img image.Image) image.Image {
	if img.Bounds().Min == (image.Point{}) {
		return img
	}
	return imaging.Clone(img)
}

// toGray converts to 8-bit grayscale with the standard luma weights, the
// same derivation the classifier statistics are defined over.
func toGray(img image.Image) *image.Gray {
	bounds := img.Bounds()
	gray := system.GetGray(bounds)

	if src, ok := img.(*image.Gray); ok && src.Stride == gray.Stride {
		copy(gray.Pix, src.Pix)
		return gray
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(img.At(x, y)))
		}
	}
	return gray
}
