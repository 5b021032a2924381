package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Manifest is the checked-in description of what a consumer installs: the
// workbooks and the branch pair their versions are derived from. Values on
// the command line override values from the manifest.
type Manifest struct {
	Workbooks      []string `yaml:"workbooks"`
	PrimaryBranch  string   `yaml:"primaryBranch"`
	FallbackBranch string   `yaml:"fallbackBranch"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest %s: %w", path, err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to parse manifest %s: %w", path, err)
	}

	if len(m.Workbooks) == 0 {
		return nil, fmt.Errorf("manifest %s lists no workbooks", path)
	}

	return &m, nil
}
