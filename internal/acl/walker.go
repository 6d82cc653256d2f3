package acl

import (
	"fmt"
	"log/slog"

	"github.com/openmined/syftperm/internal/aclspec"
)

// walkedDoc is one rule document visited by the hierarchy walk, together
// with the target path rewritten relative to the document's directory.
type walkedDoc struct {
	docPath  string
	set      *aclspec.RuleSet
	relPath  string
	terminal *aclspec.Rule // the matching terminal rule, nil otherwise
}

// walk enumerates the rule documents that govern the target path, nearest
// first, stopping after a document whose terminal rule matches the target.
//
// Unreadable or unparsable documents contribute zero rules and the walk
// continues (fail-soft); each such document is reported as a warning.
func (s *Service) walk(target string) ([]*walkedDoc, []string, error) {
	docPaths, err := s.store.ListAlongPath(target)
	if err != nil {
		return nil, nil, fmt.Errorf("list documents for %q: %w", target, err)
	}

	var docs []*walkedDoc
	var warnings []string

	for _, docPath := range docPaths {
		doc, err := s.store.Read(docPath)
		if err != nil {
			slog.Warn("rule document read failed", "path", docPath, "error", err)
			warnings = append(warnings, fmt.Sprintf("unreadable document %s: %v", docPath, err))
			continue
		}

		set, err := aclspec.Parse(docPath, doc.Data)
		if err != nil {
			slog.Warn("rule document parse failed", "path", docPath, "error", err)
			warnings = append(warnings, err.Error())
			continue
		}

		rel, ok := relativeTo(target, aclspec.Dir(docPath))
		if !ok {
			// The store handed back a document outside the target's
			// hierarchy; skip it rather than mis-match patterns.
			warnings = append(warnings, fmt.Sprintf("document %s does not govern %s", docPath, target))
			continue
		}

		walked := &walkedDoc{
			docPath: docPath,
			set:     set,
			relPath: rel,
		}

		for _, rule := range set.AllRules() {
			if !set.IsTerminal(rule) {
				continue
			}
			if ok, _ := Match(rule.Pattern, rel); ok {
				walked.terminal = rule
				break
			}
		}

		docs = append(docs, walked)

		if walked.terminal != nil {
			break
		}
	}

	return docs, warnings, nil
}
