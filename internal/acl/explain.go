package acl

import (
	"fmt"

	"github.com/openmined/syftperm/internal/aclspec"
)

// Explain re-runs resolution for (path, user) keeping every candidate rule
// that was considered, not just the winning ones. The returned lines are
// ordered by walk order, then file order, then level (high to low), so the
// output is deterministic for identical input.
func (s *Service) Explain(path string, user string) ([]string, error) {
	path = NormPath(path)

	if Datasite(path) == "" {
		return []string{Source{Kind: SourceOutsideDatasite}.String()}, nil
	}

	if IsOwner(path, user) {
		return []string{Source{Kind: SourceOwner}.String()}, nil
	}

	// Walk fresh rather than through the cache so the trace reflects the
	// documents as they are right now.
	docs, warnings, err := s.walk(path)
	if err != nil {
		return nil, err
	}
	table := buildPermTable(docs, warnings)
	grant := grantFromTable(table, user)

	var lines []string
	for _, w := range warnings {
		lines = append(lines, fmt.Sprintf("warning: %s", w))
	}

	for _, doc := range docs {
		dir := aclspec.Dir(doc.docPath)
		for _, rule := range doc.set.AllRules() {
			matched, err := Match(rule.Pattern, doc.relPath)
			if err != nil {
				lines = append(lines, fmt.Sprintf("%s: pattern '%s': invalid, treated as non-matching", dir, rule.Pattern))
				continue
			}
			if !matched {
				lines = append(lines, fmt.Sprintf("%s: pattern '%s': denied, no matching pattern", dir, rule.Pattern))
				continue
			}

			lines = append(lines, s.explainRule(table, doc, rule, user)...)

			if doc.set.IsTerminal(rule) {
				lines = append(lines, fmt.Sprintf("%s: pattern '%s': terminal, inheritance stops here", dir, rule.Pattern))
			}
		}
	}

	lines = append(lines, summarize(grant, user)...)
	return lines, nil
}

// explainRule emits one line per level the matching rule specifies.
func (s *Service) explainRule(table *permTable, doc *walkedDoc, rule *aclspec.Rule, user string) []string {
	dir := aclspec.Dir(doc.docPath)
	var lines []string

	for _, level := range Levels {
		key := level.Key()
		if !rule.Access.Specified(key) {
			continue
		}

		users := rule.Access.Level(key)
		entry := table.entries[level]
		winner := entry != nil && entry.rule == rule && entry.docPath == doc.docPath

		prefix := fmt.Sprintf("%s: pattern '%s' [%s]", dir, rule.Pattern, key)

		switch {
		case !winner:
			superseder := "a nearer rule"
			if entry != nil {
				superseder = fmt.Sprintf("rule '%s' in %s", entry.pattern, aclspec.Dir(entry.docPath))
			}
			lines = append(lines, fmt.Sprintf("%s: superseded by %s", prefix, superseder))
		case users.Contains(user):
			lines = append(lines, fmt.Sprintf("%s: applied, %s explicitly granted", prefix, user))
		case users.Contains(aclspec.Everyone):
			lines = append(lines, fmt.Sprintf("%s: applied, public access (*)", prefix))
		case users.Cardinality() == 0:
			lines = append(lines, fmt.Sprintf("%s: applied, explicitly empty (no one), overrides ancestors", prefix))
		default:
			lines = append(lines, fmt.Sprintf("%s: denied, %s not listed", prefix, user))
		}
	}

	return lines
}

// summarize renders the final grant with its source trail.
func summarize(grant *Grant, user string) []string {
	lines := []string{fmt.Sprintf("effective access for %s: %s", user, grant.Level)}
	for _, src := range grant.Sources {
		if src.Level == AccessNone {
			lines = append(lines, "  "+src.String())
			continue
		}
		lines = append(lines, fmt.Sprintf("  %s: %s", src.Level.Key(), src.String()))
	}
	return lines
}
