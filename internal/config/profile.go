package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadProfile reads a calibration profile from a YAML file. Fields absent
// from the file keep their default values, so a profile only needs to list
// the thresholds it changes.
func LoadProfile(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read profile: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	return cfg, nil
}

// SaveProfile writes the full configuration to a YAML file, as a starting
// point for recalibrating against another scan source.
func SaveProfile(cfg Config, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}
