package acl

import (
	"fmt"

	"github.com/openmined/syftperm/internal/aclspec"
)

// User identifies the requesting principal.
type User struct {
	ID string
}

// File carries the metadata a write-side limits check needs.
type File struct {
	IsDir     bool
	IsSymlink bool
	Size      int64
}

// Request is one access check: does User hold Level on Path?
type Request struct {
	Path  string
	Level AccessLevel
	User  *User
	File  *File
}

func NewRequest(path string, user *User, level AccessLevel) *Request {
	return &Request{
		Path:  NormPath(path),
		Level: level,
		User:  user,
	}
}

func NewRequestWithFile(path string, user *User, level AccessLevel, file *File) *Request {
	req := NewRequest(path, user, level)
	req.File = file
	return req
}

// SourceKind tags why a source entry contributed to (or blocked) a grant.
type SourceKind uint8

const (
	// SourceOwner marks the ownership shortcut.
	SourceOwner SourceKind = iota
	// SourceDirectGrant marks a rule that lists the principal at the level.
	SourceDirectGrant
	// SourceInheritedInclusion marks a level implied by a higher grant.
	SourceInheritedInclusion
	// SourceNearestOverride marks an explicit empty list at the nearest
	// matching rule, overriding what ancestors would have granted.
	SourceNearestOverride
	// SourceTerminalBlock marks a terminal rule that stopped inheritance.
	SourceTerminalBlock
	// SourceOutsideDatasite marks a path outside any known datasite.
	SourceOutsideDatasite
	// SourceDenied marks the absence of any applicable grant.
	SourceDenied
)

// Source is one entry of a grant's reason trail.
type Source struct {
	Kind     SourceKind
	Document string      // rule document path, empty for synthetic entries
	Pattern  string      // rule pattern, empty for synthetic entries
	Level    AccessLevel // the level this entry is about
	Via      AccessLevel // for inherited inclusion, the granting level
	Public   bool        // granted via the `*` wildcard
}

// String renders the source as a human-readable reason.
func (s Source) String() string {
	dir := aclspec.Dir(s.Document)
	switch s.Kind {
	case SourceOwner:
		return "Owner of path"
	case SourceDirectGrant:
		reason := fmt.Sprintf("Explicitly granted %s in %s (pattern '%s')", s.Level.Key(), dir, s.Pattern)
		if s.Public {
			reason += "; Public access (*)"
		}
		return reason
	case SourceInheritedInclusion:
		return fmt.Sprintf("Included via %s permission", s.Via.Key())
	case SourceNearestOverride:
		return fmt.Sprintf("Explicitly set to no one for %s in %s (pattern '%s')", s.Level.Key(), dir, s.Pattern)
	case SourceTerminalBlock:
		return fmt.Sprintf("Blocked by terminal at %s", dir)
	case SourceOutsideDatasite:
		return "Outside known datasite"
	case SourceDenied:
		return "No permission found"
	default:
		return "Unknown"
	}
}

// Grant is the outcome of one resolution. Sources is ordered from the
// highest granted level down; it is empty only when Level is AccessNone and
// no blocking reason applies.
type Grant struct {
	Level    AccessLevel
	Sources  []Source
	Warnings []string // parse problems encountered during the walk
}

// HasLevel reports whether the grant satisfies the requested level.
func (g *Grant) HasLevel(level AccessLevel) bool {
	return g.Level.Includes(level) && g.Level != AccessNone
}
