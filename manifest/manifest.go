// Package manifest loads declarative agent manifests: one YAML document per
// *.yaml file in a directory.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Extension selects manifest files.
const Extension = ".yaml"

// Manifest describes one agent. Well-known keys are surfaced as fields; every
// other top-level key is kept in Fields.
type Manifest struct {
	ID          string         `yaml:"id,omitempty" json:"id,omitempty"`
	Name        string         `yaml:"name,omitempty" json:"name,omitempty"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Role        string         `yaml:"role,omitempty" json:"role,omitempty"`
	Tools       []string       `yaml:"tools,omitempty" json:"tools,omitempty"`
	Fields      map[string]any `yaml:",inline" json:"fields,omitempty"`

	// Source is the file the manifest was read from.
	Source string `yaml:"-" json:"source"`
}

// AgentID returns the explicit id, or the source file's base name without
// extension when the document omits one.
func (m Manifest) AgentID() string {
	if strings.TrimSpace(m.ID) != "" {
		return m.ID
	}
	return strings.TrimSuffix(filepath.Base(m.Source), filepath.Ext(m.Source))
}

// Parse decodes a single manifest document. An empty document yields an
// empty manifest.
func Parse(data []byte, source string) (Manifest, error) {
	m := Manifest{Source: source}
	if err := yaml.Unmarshal(data, &m); err != nil {
		return Manifest{}, fmt.Errorf("parse manifest %s: %w", source, err)
	}
	m.Source = source
	return m, nil
}

// LoadFile reads and parses one manifest file.
func LoadFile(path string) (Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Manifest{}, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return Parse(data, path)
}

// LoadDir parses every *.yaml file directly inside dir and indexes the
// manifests by agent id. Files are processed in lexical order, so a later
// file wins when two manifests share an id. A missing directory yields an
// empty map.
func LoadDir(dir string) (map[string]Manifest, error) {
	specs := make(map[string]Manifest)

	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return specs, nil
		}
		return nil, fmt.Errorf("list manifests in %s: %w", dir, err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}
		m, err := LoadFile(filepath.Join(dir, entry.Name()))
		if err != nil {
			return nil, err
		}
		specs[m.AgentID()] = m
	}

	return specs, nil
}

// IDs returns the agent ids of specs in lexical order.
func IDs(specs map[string]Manifest) []string {
	ids := make([]string, 0, len(specs))
	for id := range specs {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
