// Package catalog holds the interview role and experience-level catalog.
// Built-in defaults cover the standard roles; deployments can override the
// whole catalog with a YAML file.
package catalog

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Role describes one interview track.
type Role struct {
	Key    string   `yaml:"key" json:"key"`
	Name   string   `yaml:"name" json:"name"`
	Focus  string   `yaml:"focus" json:"focus"`
	Topics []string `yaml:"topics" json:"topics"`
}

// Experience describes one difficulty tier.
type Experience struct {
	Key         string `yaml:"key" json:"key"`
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Difficulty  string `yaml:"difficulty" json:"difficulty"`
}

// Catalog is the full set of selectable roles and experience levels.
type Catalog struct {
	Roles       []Role       `yaml:"roles" json:"roles"`
	Experiences []Experience `yaml:"experience_levels" json:"experience_levels"`
}

// Default returns the built-in catalog.
func Default() *Catalog {
	return &Catalog{Roles: defaultRoles(), Experiences: defaultExperiences()}
}

// Load reads a catalog from a YAML file and validates it.
func Load(filename string) (*Catalog, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", filename, err)
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog yaml: %w", err)
	}
	if err := validate(&c); err != nil {
		return nil, fmt.Errorf("validate catalog: %w", err)
	}
	return &c, nil
}

func validate(c *Catalog) error {
	if len(c.Roles) == 0 {
		return fmt.Errorf("at least one role is required")
	}
	if len(c.Experiences) == 0 {
		return fmt.Errorf("at least one experience level is required")
	}
	seen := make(map[string]bool)
	for i, r := range c.Roles {
		if r.Key == "" || r.Name == "" {
			return fmt.Errorf("role %d: key and name are required", i)
		}
		if len(r.Topics) == 0 {
			return fmt.Errorf("role %q: at least one topic is required", r.Key)
		}
		if seen[r.Key] {
			return fmt.Errorf("duplicate role key %q", r.Key)
		}
		seen[r.Key] = true
	}
	for i, e := range c.Experiences {
		if e.Key == "" || e.Name == "" {
			return fmt.Errorf("experience level %d: key and name are required", i)
		}
	}
	return nil
}

// Role returns the role for key, falling back to the first role when the
// key is unknown.
func (c *Catalog) Role(key string) Role {
	for _, r := range c.Roles {
		if r.Key == key {
			return r
		}
	}
	return c.Roles[0]
}

// Experience returns the experience level for key, falling back to the
// first level when the key is unknown.
func (c *Catalog) Experience(key string) Experience {
	for _, e := range c.Experiences {
		if e.Key == key {
			return e
		}
	}
	return c.Experiences[0]
}
