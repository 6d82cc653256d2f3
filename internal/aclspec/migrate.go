package aclspec

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// LegacyRule is one entry of the flat list format used before rule documents
// gained patterns and per-level mappings.
type LegacyRule struct {
	Path        string   `yaml:"path"`
	User        string   `yaml:"user"`
	Permissions []string `yaml:"permissions"`
}

// MigrateLegacy converts a legacy document (a bare YAML sequence of
// path/user/permissions entries) into a RuleSet. Entries for the same path
// merge into a single rule, in order of first appearance.
func MigrateLegacy(data []byte) (*RuleSet, error) {
	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		return nil, err
	}
	if len(node.Content) == 0 || node.Content[0].Kind != yaml.SequenceNode {
		return nil, fmt.Errorf("not a legacy rule list")
	}

	var legacy []LegacyRule
	if err := node.Content[0].Decode(&legacy); err != nil {
		return nil, err
	}

	ruleset := &RuleSet{}
	byPattern := make(map[string]*Rule)

	for _, entry := range legacy {
		if entry.Path == "" || entry.User == "" {
			return nil, fmt.Errorf("legacy rule missing path or user")
		}

		rule, ok := byPattern[entry.Path]
		if !ok {
			rule = NewRule(entry.Path, UnspecifiedAccess(), nil)
			byPattern[entry.Path] = rule
			ruleset.Rules = append(ruleset.Rules, rule)
		}

		for _, perm := range entry.Permissions {
			switch perm {
			case KeyRead, KeyCreate, KeyWrite, KeyAdmin:
				rule.Access.Add(perm, entry.User)
			default:
				return nil, fmt.Errorf("legacy rule has unknown permission %q", perm)
			}
		}
	}

	return ruleset, nil
}
