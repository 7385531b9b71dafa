package analysis

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Labeler maps a variable name to a human-readable label.
type Labeler interface {
	Label(name string) (string, bool)
}

// MapLabels is a Labeler backed by a map.
type MapLabels map[string]string

func (m MapLabels) Label(name string) (string, bool) {
	l, ok := m[name]
	return l, ok && l != ""
}

// LoadLabels reads a YAML file of `variable: label` pairs.
func LoadLabels(path string) (MapLabels, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read labels: %w", err)
	}
	m := MapLabels{}
	if err := yaml.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parse labels: %w", err)
	}
	return m, nil
}

// labelFor returns the label of name when labels are enabled and known.
func labelFor(use bool, l Labeler, name string) string {
	if !use || l == nil {
		return name
	}
	if s, ok := l.Label(name); ok {
		return s
	}
	return name
}
