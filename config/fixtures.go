package config

import (
	"fmt"
	"strings"
)

// DefaultGroup is the group used when a command names no group.
const DefaultGroup = "default"

// FixturesConfig describes where fixture definitions live.
//
//	fixtures:
//	  paths: [fixtures/]
//	  groups:
//	    default: [fixtures/base/]
//	    demo: [fixtures/base/, fixtures/demo/]
//	  strict_paths: false
type FixturesConfig struct {
	Paths       []string            `yaml:"paths" mapstructure:"paths"`
	Groups      map[string][]string `yaml:"groups" mapstructure:"groups"`
	StrictPaths bool                `yaml:"strict_paths" mapstructure:"strict_paths"`
}

// ApplyDefaults normalizes group names. Viper lowercases map keys, so
// group lookups are case-insensitive everywhere.
func (c *FixturesConfig) ApplyDefaults() {
	if len(c.Groups) == 0 {
		return
	}
	normalized := make(map[string][]string, len(c.Groups))
	for name, paths := range c.Groups {
		key := strings.ToLower(strings.TrimSpace(name))
		normalized[key] = append(normalized[key], paths...)
	}
	c.Groups = normalized
}

// Validate rejects empty path entries.
func (c *FixturesConfig) Validate() error {
	for i, p := range c.Paths {
		if strings.TrimSpace(p) == "" {
			return fmt.Errorf("fixtures.paths[%d] is empty", i)
		}
	}
	for name, paths := range c.Groups {
		if name == "" {
			return fmt.Errorf("fixtures.groups has an unnamed group")
		}
		for i, p := range paths {
			if strings.TrimSpace(p) == "" {
				return fmt.Errorf("fixtures.groups.%s[%d] is empty", name, i)
			}
		}
	}
	return nil
}

// Group returns the paths configured for a group.
func (c *FixturesConfig) Group(name string) ([]string, bool) {
	paths, ok := c.Groups[strings.ToLower(name)]
	return paths, ok && len(paths) > 0
}
