package aclspec

import (
	"bytes"
	"fmt"

	"gopkg.in/yaml.v3"
)

// RuleSet is one parsed rule document. Path is the directory the document
// resides in, relative to the datasite root. Rule order is preserved; it is
// the tie-break when two rules in the same document specify the same level.
//
// Terminal on the document marks every rule terminal. This is the layout
// older hand-edited documents use; new documents set the flag per rule.
type RuleSet struct {
	Rules    []*Rule `yaml:"rules"`
	Terminal bool    `yaml:"terminal,omitempty"`
	Path     string  `yaml:"-"`
}

// ParseError reports a malformed rule document. RuleIndex identifies the
// offending rule, or -1 when the document itself failed to decode.
type ParseError struct {
	Path      string
	RuleIndex int
	Err       error
}

func (e *ParseError) Error() string {
	if e.RuleIndex < 0 {
		return fmt.Sprintf("parse %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("parse %s: rule %d: %v", e.Path, e.RuleIndex, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewRuleSet creates a new RuleSet for the given path with the initial rules.
func NewRuleSet(path string, terminal bool, rules ...*Rule) *RuleSet {
	return &RuleSet{
		Path:     WithoutACLPath(path),
		Terminal: terminal,
		Rules:    rules,
	}
}

// AllRules returns the document's rules in file order.
func (r *RuleSet) AllRules() []*Rule {
	return r.Rules
}

// IsTerminal reports whether the given rule halts the hierarchy walk,
// honoring both the per-rule and the document-level flag.
func (r *RuleSet) IsTerminal(rule *Rule) bool {
	return r.Terminal || rule.Terminal
}

// Parse decodes a rule document. The path parameter names the document for
// error reporting and sets the RuleSet's directory.
//
// Documents in the legacy list format are migrated transparently.
func Parse(path string, data []byte) (*RuleSet, error) {
	var ruleset RuleSet
	if err := yaml.Unmarshal(data, &ruleset); err != nil {
		// Older datasites carry the flat list format.
		if legacy, lerr := MigrateLegacy(data); lerr == nil {
			legacy.Path = WithoutACLPath(path)
			return legacy, nil
		}
		return nil, &ParseError{Path: path, RuleIndex: -1, Err: err}
	}

	ruleset.Path = WithoutACLPath(path)

	for i, rule := range ruleset.Rules {
		if rule == nil {
			return nil, &ParseError{Path: path, RuleIndex: i, Err: fmt.Errorf("rule is empty")}
		}
		if rule.Pattern == "" {
			return nil, &ParseError{Path: path, RuleIndex: i, Err: fmt.Errorf("rule pattern cannot be empty")}
		}
		if rule.Access == nil {
			return nil, &ParseError{Path: path, RuleIndex: i, Err: fmt.Errorf("rule access cannot be nil")}
		}
		if len(rule.Access.unknownLevels) > 0 {
			return nil, &ParseError{Path: path, RuleIndex: i, Err: fmt.Errorf("unknown access level %q", rule.Access.unknownLevels[0])}
		}
	}

	return &ruleset, nil
}

// Bytes serializes the RuleSet back to the document wire format.
func (r *RuleSet) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	encoder := yaml.NewEncoder(&buf)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		return nil, fmt.Errorf("marshal ruleset: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
