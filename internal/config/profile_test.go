package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestProfileRoundTrip(t *testing.T) {
	cfg := Default()
	cfg.PhotoRotation = 90
	cfg.PhotoMeanMax = 180
	cfg.Detector = "edge"

	path := filepath.Join(t.TempDir(), "profile.yaml")
	if err := SaveProfile(cfg, path); err != nil {
		t.Fatalf("SaveProfile failed: %v", err)
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}

	if loaded != cfg {
		t.Errorf("Round trip mismatch:\nsaved:  %+v\nloaded: %+v", cfg, loaded)
	}
}

func TestPartialProfileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	partial := "padding: 30\nphoto_mean_max: 200\n"
	if err := os.WriteFile(path, []byte(partial), 0644); err != nil {
		t.Fatal(err)
	}

	loaded, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile failed: %v", err)
	}

	if loaded.Padding != 30 {
		t.Errorf("Expected padding 30 from profile, got %d", loaded.Padding)
	}
	if loaded.PhotoMeanMax != 200 {
		t.Errorf("Expected photo_mean_max 200 from profile, got %g", loaded.PhotoMeanMax)
	}
	if loaded.PhotoRotation != Default().PhotoRotation {
		t.Errorf("Expected default photo rotation, got %d", loaded.PhotoRotation)
	}
	if loaded.JPEGQuality != Default().JPEGQuality {
		t.Errorf("Expected default jpeg quality, got %d", loaded.JPEGQuality)
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	if _, err := LoadProfile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing profile")
	}
}

func TestLoadProfileMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte(":\n\t- nope"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := LoadProfile(path); err == nil {
		t.Error("Expected error for malformed profile")
	}
}
