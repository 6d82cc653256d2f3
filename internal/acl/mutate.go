package acl

import (
	"errors"
	"fmt"
	"log/slog"
	"path"

	"github.com/openmined/syftperm/internal/aclspec"
	"github.com/openmined/syftperm/internal/store"
)

// GrantAccess adds the principal to the given level's list in the rule
// document of the target's own directory, creating document and rule on
// demand. Only the named level is touched; inclusion of lower levels stays a
// resolution-time derivation. Granting an already-granted level is a no-op.
//
// A concurrent writer that changed the document since it was read surfaces
// as store.ErrConflict; callers retry against the new revision.
func (s *Service) GrantAccess(target string, user string, level AccessLevel) error {
	return s.mutate(target, user, level, func(rule *aclspec.Rule) bool {
		return rule.Access.Add(level.Key(), user)
	})
}

// RevokeAccess removes the principal from the given level's list in the rule
// document of the target's own directory. It does not cascade to other
// levels. Revoking an absent grant is a no-op.
//
// When the level's list becomes empty the level reverts to unspecified
// rather than staying an explicit empty override, so ancestor documents
// apply again, and a rule left with no specified levels is dropped.
func (s *Service) RevokeAccess(target string, user string, level AccessLevel) error {
	return s.mutate(target, user, level, func(rule *aclspec.Rule) bool {
		return rule.Access.Remove(level.Key(), user)
	})
}

func (s *Service) mutate(target string, user string, level AccessLevel, edit func(*aclspec.Rule) bool) error {
	if user == "" || level == AccessNone || level > AccessAdmin {
		return ErrInvalidAccessLevel
	}

	target = NormPath(target)
	if Datasite(target) == "" {
		return fmt.Errorf("path %q is outside any known datasite", target)
	}

	dir := path.Dir(target)
	if dir == "." {
		// A datasite root has no parent directory to hold a rule document;
		// no walk would ever read one placed above it.
		return fmt.Errorf("path %q is a datasite root, grants apply to paths within it", target)
	}
	docPath := aclspec.AsACLPath(dir)
	pattern := path.Base(target)

	set, revision, err := s.readForEdit(docPath)
	if err != nil {
		return err
	}

	rule := findExactRule(set, pattern)
	created := false
	if rule == nil {
		rule = aclspec.NewRule(pattern, aclspec.UnspecifiedAccess(), nil)
		created = true
	}

	if !edit(rule) {
		// Already in the requested state.
		return nil
	}

	switch {
	case created:
		set.Rules = append(set.Rules, rule)
	case rule.Access.IsUnspecified() && !set.IsTerminal(rule):
		set.Rules = removeRule(set.Rules, rule)
	}

	data, err := set.Bytes()
	if err != nil {
		return err
	}

	if _, err := s.store.Write(docPath, data, revision); err != nil {
		return fmt.Errorf("write %s: %w", docPath, err)
	}

	dropped := s.cache.InvalidatePrefix(dir)
	slog.Debug("rule document updated",
		"path", docPath, "pattern", pattern, "level", level, "user", user, "cache.dropped", dropped)

	return nil
}

// readForEdit loads and parses the document, or starts a fresh one when the
// directory has none yet. Unlike resolution, editing an unparsable document
// is a hard error: rewriting it would destroy whatever the author meant.
func (s *Service) readForEdit(docPath string) (*aclspec.RuleSet, store.Revision, error) {
	doc, err := s.store.Read(docPath)
	if errors.Is(err, store.ErrNotExist) {
		return aclspec.NewRuleSet(docPath, aclspec.UnsetTerminal), store.NoRevision, nil
	} else if err != nil {
		return nil, store.NoRevision, fmt.Errorf("read %s: %w", docPath, err)
	}

	set, err := aclspec.Parse(docPath, doc.Data)
	if err != nil {
		return nil, store.NoRevision, err
	}

	return set, doc.Revision, nil
}

// findExactRule returns the last rule whose pattern is exactly the target's
// base name, matching the tie-break used at resolution time.
func findExactRule(set *aclspec.RuleSet, pattern string) *aclspec.Rule {
	var found *aclspec.Rule
	for _, rule := range set.AllRules() {
		if rule.Pattern == pattern {
			found = rule
		}
	}
	return found
}

func removeRule(rules []*aclspec.Rule, target *aclspec.Rule) []*aclspec.Rule {
	out := rules[:0]
	for _, rule := range rules {
		if rule != target {
			out = append(out, rule)
		}
	}
	return out
}
