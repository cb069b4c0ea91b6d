package segment

import (
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/dynkarken/pattern-language-extract/internal/config"
)

func testPage(w, h int) *image.Gray {
	page := image.NewGray(image.Rect(0, 0, w, h))
	fillGray(page, page.Bounds(), 255)
	return page
}

func newTestSegmenter(t *testing.T, cfg config.Config) *Segmenter {
	t.Helper()
	s, err := New(cfg)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return s
}

func TestEmitReadingOrder(t *testing.T) {
	// A diagram at y=100 above a photo at y=500 must be emitted first, no
	// matter which one detection discovered first.
	cfg := testConfig()
	cfg.Padding = 10
	s := newTestSegmenter(t, cfg)

	page := testPage(800, 1000)
	regions := []Region{
		{Rect: image.Rect(100, 500, 400, 700), Kind: KindPhoto},
		{Rect: image.Rect(100, 100, 400, 300), Kind: KindDiagram},
	}

	outDir := t.TempDir()
	artifacts, err := s.emit(page, regions, "test", outDir)
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}

	if len(artifacts) != 2 {
		t.Fatalf("Expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[0].Filename != "test_diagram_01.jpg" {
		t.Errorf("Expected diagram first with index 01, got %s", artifacts[0].Filename)
	}
	if artifacts[1].Filename != "test_photo_02.jpg" {
		t.Errorf("Expected photo second with index 02, got %s", artifacts[1].Filename)
	}

	for _, a := range artifacts {
		if _, err := os.Stat(filepath.Join(outDir, a.Filename)); err != nil {
			t.Errorf("Artifact file missing: %v", err)
		}
	}
}

func TestEmitStableTieBreak(t *testing.T) {
	// Equal top edges keep discovery order.
	cfg := testConfig()
	cfg.Padding = 0
	cfg.PhotoRotation = 0
	s := newTestSegmenter(t, cfg)

	page := testPage(800, 400)
	regions := []Region{
		{Rect: image.Rect(450, 100, 700, 300), Kind: KindPhoto}, // discovered first, 250 wide
		{Rect: image.Rect(100, 100, 360, 300), Kind: KindPhoto}, // discovered second, 260 wide
	}

	artifacts, err := s.emit(page, regions, "tie", t.TempDir())
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("Expected 2 artifacts, got %d", len(artifacts))
	}
	if artifacts[0].Width != 250 || artifacts[1].Width != 260 {
		t.Errorf("Expected discovery order preserved for equal top edges, got %v", artifacts)
	}
	if artifacts[0].Filename != "tie_photo_01.jpg" || artifacts[1].Filename != "tie_photo_02.jpg" {
		t.Errorf("Unexpected tie-break naming: %v", artifacts)
	}
}

func TestEmitRotationDimensions(t *testing.T) {
	// A 270° photo rotation swaps the padded crop's dimensions; a 0° diagram
	// rotation keeps them.
	cfg := testConfig()
	cfg.Padding = 10
	s := newTestSegmenter(t, cfg)

	page := testPage(400, 400)
	regions := []Region{
		{Rect: image.Rect(50, 50, 150, 100), Kind: KindDiagram}, // 100x50, padded 120x70
		{Rect: image.Rect(50, 200, 150, 250), Kind: KindPhoto},  // 100x50, padded 120x70
	}

	artifacts, err := s.emit(page, regions, "rot", t.TempDir())
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(artifacts) != 2 {
		t.Fatalf("Expected 2 artifacts, got %d", len(artifacts))
	}

	diagram, photo := artifacts[0], artifacts[1]
	if diagram.Width != 120 || diagram.Height != 70 {
		t.Errorf("Expected diagram crop unrotated at 120x70, got %dx%d", diagram.Width, diagram.Height)
	}
	if photo.Width != 70 || photo.Height != 120 {
		t.Errorf("Expected photo crop dimensions swapped to 70x120, got %dx%d", photo.Width, photo.Height)
	}
}

func TestEmitPaddingClampedAtPageEdge(t *testing.T) {
	cfg := testConfig()
	cfg.Padding = 50
	cfg.PhotoRotation = 0
	s := newTestSegmenter(t, cfg)

	page := testPage(300, 300)
	regions := []Region{
		{Rect: image.Rect(0, 0, 100, 100), Kind: KindPhoto},
	}

	artifacts, err := s.emit(page, regions, "edge", t.TempDir())
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(artifacts) != 1 {
		t.Fatalf("Expected 1 artifact, got %d", len(artifacts))
	}
	// Padding extends right and down only; the page edge clamps left and top.
	if artifacts[0].Width != 150 || artifacts[0].Height != 150 {
		t.Errorf("Expected clamped 150x150 crop, got %dx%d", artifacts[0].Width, artifacts[0].Height)
	}
}

func TestEmitDeterministicNaming(t *testing.T) {
	cfg := testConfig()
	s := newTestSegmenter(t, cfg)

	page := testPage(400, 600)
	regions := []Region{
		{Rect: image.Rect(50, 50, 200, 200), Kind: KindPhoto},
		{Rect: image.Rect(50, 300, 200, 500), Kind: KindDiagram},
	}

	first, err := s.emit(page, regions, "same", t.TempDir())
	if err != nil {
		t.Fatalf("first emit failed: %v", err)
	}
	second, err := s.emit(page, regions, "same", t.TempDir())
	if err != nil {
		t.Fatalf("second emit failed: %v", err)
	}

	if len(first) != len(second) {
		t.Fatalf("Artifact count differs across runs: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("Run mismatch at %d: %+v vs %+v", i, first[i], second[i])
		}
	}
}

func TestEmitWriteFailureDoesNotStopOtherRegions(t *testing.T) {
	cfg := testConfig()
	cfg.PhotoRotation = 0
	s := newTestSegmenter(t, cfg)

	page := testPage(400, 600)
	regions := []Region{
		{Rect: image.Rect(50, 50, 200, 200), Kind: KindPhoto},
		{Rect: image.Rect(50, 300, 200, 500), Kind: KindDiagram},
	}

	outDir := t.TempDir()
	// Occupy the first artifact's path with a directory to force a write error.
	if err := os.MkdirAll(filepath.Join(outDir, "fail_photo_01.jpg"), 0755); err != nil {
		t.Fatal(err)
	}

	artifacts, err := s.emit(page, regions, "fail", outDir)
	if err == nil {
		t.Error("Expected an error for the blocked region")
	}
	if len(artifacts) != 1 {
		t.Fatalf("Expected the remaining region to complete, got %d artifacts", len(artifacts))
	}
	if artifacts[0].Filename != "fail_diagram_02.jpg" {
		t.Errorf("Unexpected surviving artifact: %s", artifacts[0].Filename)
	}
}

func TestEmitNoRegions(t *testing.T) {
	s := newTestSegmenter(t, testConfig())

	artifacts, err := s.emit(testPage(100, 100), nil, "empty", t.TempDir())
	if err != nil {
		t.Fatalf("emit failed: %v", err)
	}
	if len(artifacts) != 0 {
		t.Errorf("Expected no artifacts, got %d", len(artifacts))
	}
}
