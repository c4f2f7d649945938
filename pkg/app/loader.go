package app

import (
	"fmt"
	"os"

	"github.com/ghodss/yaml"
)

// Load reads and validates the application inventory YAML file.
// Any shape error aborts the load; a partially valid inventory is never
// returned.
func Load(path string) (Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read inventory %s: %w", path, err)
	}

	return Parse(data)
}

// Parse unmarshals and validates inventory YAML.
func Parse(data []byte) (Inventory, error) {
	var inventory Inventory
	if err := yaml.Unmarshal(data, &inventory); err != nil {
		return nil, fmt.Errorf("parse inventory: %w", err)
	}

	seen := make(map[string]struct{}, len(inventory))
	for _, application := range inventory {
		if err := application.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[application.Name]; ok {
			return nil, fmt.Errorf("duplicate application %s", application.Name)
		}
		seen[application.Name] = struct{}{}
	}

	return inventory, nil
}
