package aclspec

// Rule is one entry of a rule document. The pattern is a glob relative to the
// document's directory, the access mapping lists principals per level, and a
// terminal rule halts inheritance from ancestor documents once it matches.
type Rule struct {
	Pattern  string  `yaml:"pattern"`
	Terminal bool    `yaml:"terminal,omitempty"`
	Access   *Access `yaml:"access"`
	Limits   *Limits `yaml:"limits,omitempty"`
}

// NewRule creates a new Rule with the specified pattern, access and limits.
func NewRule(pattern string, access *Access, limits *Limits) *Rule {
	return &Rule{
		Pattern: pattern,
		Access:  access,
		Limits:  limits,
	}
}

// NewTerminalRule creates a rule that stops the hierarchy walk once matched.
func NewTerminalRule(pattern string, access *Access, limits *Limits) *Rule {
	return &Rule{
		Pattern:  pattern,
		Terminal: true,
		Access:   access,
		Limits:   limits,
	}
}

// NewDefaultRule creates a rule with `**` as pattern.
func NewDefaultRule(access *Access, limits *Limits) *Rule {
	return &Rule{
		Pattern: AllFiles,
		Access:  access,
		Limits:  limits,
	}
}
