package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"opsconsole/internal/domain/models/docstore"
)

// AccessPolicy is the administrative access configuration.
//
// Example policy.yaml:
//
//	elevated_roles: [admin, office_manager]
//	hidden_roots: [archive]
//	categories: [general, clients, projects, media, templates, archive]
type AccessPolicy struct {
	// ElevatedRoles grant edit everywhere and visibility of hidden roots.
	ElevatedRoles []string `yaml:"elevated_roles"`

	// HiddenRoots are root folder ids or root paths kept out of staff views.
	HiddenRoots []string `yaml:"hidden_roots"`

	// Categories is the folder taxonomy accepted for new roots.
	Categories []docstore.Category `yaml:"categories"`
}

// DefaultAccessPolicy returns the policy used when no file is configured.
func DefaultAccessPolicy() *AccessPolicy {
	return &AccessPolicy{
		ElevatedRoles: []string{"admin"},
		Categories:    append([]docstore.Category(nil), docstore.Categories...),
	}
}

// LoadAccessPolicy reads a YAML policy file. An empty path yields the default policy.
func LoadAccessPolicy(path string) (*AccessPolicy, error) {
	if path == "" {
		return DefaultAccessPolicy(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read policy file: %w", err)
	}
	return ParseAccessPolicy(data)
}

// ParseAccessPolicy decodes a YAML policy. Omitted sections take their defaults.
func ParseAccessPolicy(data []byte) (*AccessPolicy, error) {
	policy := &AccessPolicy{}
	if err := yaml.Unmarshal(data, policy); err != nil {
		return nil, fmt.Errorf("parse policy: %w", err)
	}

	defaults := DefaultAccessPolicy()
	if policy.ElevatedRoles == nil {
		policy.ElevatedRoles = defaults.ElevatedRoles
	}
	if len(policy.Categories) == 0 {
		policy.Categories = defaults.Categories
	}
	return policy, nil
}

// IsElevated reports whether any of roles is an elevated role.
func (p *AccessPolicy) IsElevated(roles []string) bool {
	for _, r := range roles {
		for _, e := range p.ElevatedRoles {
			if r == e {
				return true
			}
		}
	}
	return false
}

// IsHiddenRoot reports whether a root folder is administratively hidden.
func (p *AccessPolicy) IsHiddenRoot(root docstore.Folder) bool {
	for _, h := range p.HiddenRoots {
		if h == root.ID || h == root.Path {
			return true
		}
	}
	return false
}

// HasCategory reports whether c is part of the taxonomy.
func (p *AccessPolicy) HasCategory(c docstore.Category) bool {
	for _, known := range p.Categories {
		if known == c {
			return true
		}
	}
	return false
}
