package acl

import (
	mapset "github.com/deckarep/golang-set/v2"
	"github.com/openmined/syftperm/internal/aclspec"
)

// levelEntry records the winning rule for one access level: the nearest
// document's matching rule that specifies the level, with later rules in the
// same document taking precedence over earlier ones.
type levelEntry struct {
	users   mapset.Set[string]
	docPath string
	pattern string
	rule    *aclspec.Rule
}

// permTable is the merged per-level view of the walked hierarchy for one
// target path. It is principal-independent and therefore cacheable.
type permTable struct {
	entries     [AccessAdmin + 1]*levelEntry
	terminalDoc string // document that stopped the walk, "" if none
	warnings    []string
}

// buildPermTable merges walked documents into a per-level table. Nearest
// document wins per level; farther documents only fill in levels the nearer
// ones left unspecified. An explicit empty principal list occupies its level
// like any other assignment, which is what makes it override ancestors.
func buildPermTable(docs []*walkedDoc, warnings []string) *permTable {
	table := &permTable{warnings: warnings}

	for _, doc := range docs {
		for _, level := range Levels {
			if table.entries[level] != nil {
				continue
			}

			// Later rule in file order wins within one document.
			var winner *aclspec.Rule
			for _, rule := range doc.set.AllRules() {
				if !rule.Access.Specified(level.Key()) {
					continue
				}
				if ok, _ := Match(rule.Pattern, doc.relPath); ok {
					winner = rule
				}
			}

			if winner != nil {
				table.entries[level] = &levelEntry{
					users:   winner.Access.Level(level.Key()),
					docPath: doc.docPath,
					pattern: winner.Pattern,
					rule:    winner,
				}
			}
		}

		if doc.terminal != nil {
			table.terminalDoc = doc.docPath
		}
	}

	return table
}

// permTableFor returns the merged table for a path, consulting the cache.
func (s *Service) permTableFor(path string) (*permTable, error) {
	if table := s.cache.Get(path); table != nil {
		return table, nil
	}

	docs, warnings, err := s.walk(path)
	if err != nil {
		return nil, err
	}

	table := buildPermTable(docs, warnings)
	s.cache.Set(path, table)
	return table, nil
}

// Resolve computes the effective access level the user holds on the path,
// with the full source trail explaining the grant.
func (s *Service) Resolve(path string, user string) (*Grant, error) {
	path = NormPath(path)

	if Datasite(path) == "" {
		return &Grant{
			Level:   AccessNone,
			Sources: []Source{{Kind: SourceOutsideDatasite}},
		}, nil
	}

	// Ownership shortcut: no rule document can reduce owner access.
	if IsOwner(path, user) {
		return &Grant{
			Level:   AccessAdmin,
			Sources: []Source{{Kind: SourceOwner, Level: AccessAdmin}},
		}, nil
	}

	table, err := s.permTableFor(path)
	if err != nil {
		return nil, err
	}

	return grantFromTable(table, user), nil
}

// grantFromTable derives one principal's grant from the merged table.
func grantFromTable(table *permTable, user string) *Grant {
	grant := &Grant{Level: AccessNone, Warnings: table.warnings}

	// Highest level with a direct listing wins; everything below is implied.
	top := AccessNone
	for _, level := range Levels {
		entry := table.entries[level]
		if entry == nil {
			continue
		}
		if entry.users.Contains(user) || entry.users.Contains(aclspec.Everyone) {
			top = level
			break
		}
	}

	if top == AccessNone {
		return denied(table, grant, user)
	}

	grant.Level = top
	for _, level := range Levels {
		if level > top {
			continue
		}

		entry := table.entries[level]
		if entry != nil && (entry.users.Contains(user) || entry.users.Contains(aclspec.Everyone)) {
			grant.Sources = append(grant.Sources, Source{
				Kind:     SourceDirectGrant,
				Document: entry.docPath,
				Pattern:  entry.pattern,
				Level:    level,
				Public:   entry.users.Contains(aclspec.Everyone) && !entry.users.Contains(user),
			})
		} else {
			grant.Sources = append(grant.Sources, Source{
				Kind:  SourceInheritedInclusion,
				Level: level,
				Via:   top,
			})
		}
	}

	return grant
}

// denied fills in the reasons a principal ended up with no access.
func denied(table *permTable, grant *Grant, user string) *Grant {
	for _, level := range Levels {
		entry := table.entries[level]
		if entry == nil {
			continue
		}
		if entry.users.Cardinality() == 0 {
			grant.Sources = append(grant.Sources, Source{
				Kind:     SourceNearestOverride,
				Document: entry.docPath,
				Pattern:  entry.pattern,
				Level:    level,
			})
		}
	}

	if table.terminalDoc != "" {
		grant.Sources = append(grant.Sources, Source{
			Kind:     SourceTerminalBlock,
			Document: table.terminalDoc,
		})
	}

	if len(grant.Sources) == 0 {
		grant.Sources = append(grant.Sources, Source{Kind: SourceDenied})
	}

	return grant
}
