package registry

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"
)

// ErrUnknownModel is returned when a model is not in the allow-list.
var ErrUnknownModel = errors.New("unknown model")

// ModelConfig binds an allow-listed model name to its target table.
type ModelConfig struct {
	Name  string `yaml:"name"`
	Table string `yaml:"table"`
}

// Registry is the receiver's model allow-list. Only models registered here
// can be synchronized; everything else is rejected before the target store is
// touched.
type Registry struct {
	tables map[string]string
}

// Default returns the built-in allow-list.
func Default() *Registry {
	return New([]ModelConfig{
		{Name: "users", Table: "hive_users"},
		{Name: "posts", Table: "hive_posts"},
	})
}

func New(models []ModelConfig) *Registry {
	tables := make(map[string]string, len(models))
	for _, m := range models {
		tables[m.Name] = m.Table
	}
	return &Registry{tables: tables}
}

type registryFile struct {
	Models []ModelConfig `yaml:"models"`
}

// FromFile loads the allow-list from a YAML file of the form:
//
//	models:
//	  - name: users
//	    table: hive_users
func FromFile(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read models file: %w", err)
	}

	var file registryFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse models file: %w", err)
	}
	if len(file.Models) == 0 {
		return nil, errors.New("models file defines no models")
	}
	for _, m := range file.Models {
		if m.Name == "" || m.Table == "" {
			return nil, fmt.Errorf("model entry must have name and table, got name=%q table=%q", m.Name, m.Table)
		}
	}

	return New(file.Models), nil
}

// Contains reports whether model is allow-listed.
func (r *Registry) Contains(model string) bool {
	_, ok := r.tables[model]
	return ok
}

// Table returns the target table for an allow-listed model.
func (r *Registry) Table(model string) (string, error) {
	table, ok := r.tables[model]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownModel, model)
	}
	return table, nil
}

// Models returns the allow-listed model names in sorted order.
func (r *Registry) Models() []string {
	names := make([]string, 0, len(r.tables))
	for name := range r.tables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
