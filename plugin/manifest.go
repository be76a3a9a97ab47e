package plugin

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/greymalkin-ai/greymalkin/core"
)

// Manifest describes a plugin and the tools it exposes. Manifests are JSON
// files dropped into the plugin directory.
type Manifest struct {
	Name  string                `json:"name"`
	Tools []core.ToolDescriptor `json:"tools"`
}

// LoadManifest reads and validates a manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks the manifest for required fields.
func (m *Manifest) Validate() error {
	if m.Name == "" {
		return fmt.Errorf("manifest missing plugin name")
	}
	for i, t := range m.Tools {
		if t.Name == "" {
			return fmt.Errorf("plugin %s: tool %d missing name", m.Name, i)
		}
		if t.Description == "" {
			return fmt.Errorf("plugin %s: tool %s missing description", m.Name, t.Name)
		}
	}
	return nil
}
