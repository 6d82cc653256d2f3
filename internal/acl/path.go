package acl

import (
	"path/filepath"
	"strings"
)

// The engine follows the Unix file system hierarchy.
const PathSep = "/"

// NormPath normalizes a file system path for permission checks by converting
// separators to forward slashes, resolving . and .. components, and removing
// leading separators. All engine entry points normalize their path argument
// once, up front.
func NormPath(path string) string {
	norm := strings.TrimLeft(filepath.ToSlash(filepath.Clean(path)), PathSep)
	if norm == "." {
		return ""
	}
	// A path that still starts with .. after cleaning escapes the datasites
	// root; treat it as belonging to no datasite at all.
	if norm == ".." || strings.HasPrefix(norm, "../") {
		return ""
	}
	return norm
}

// PathSegments splits a normalized path into its component segments.
func PathSegments(path string) []string {
	return strings.Split(NormPath(path), PathSep)
}

// Datasite returns the datasite a path belongs to, i.e. its first segment,
// or "" when the path has none.
func Datasite(path string) string {
	norm := NormPath(path)
	if norm == "" {
		return ""
	}
	segment, _, _ := strings.Cut(norm, PathSep)
	return segment
}

// IsOwner reports whether the user owns the datasite the path lies in.
// Unlike a bare prefix check this never lets "alice" claim "alice2/...".
func IsOwner(path string, user string) bool {
	return user != "" && Datasite(path) == user
}

// relativeTo returns the target path relative to the given directory.
// Both must be normalized; dir "" means the datasites root.
func relativeTo(target string, dir string) (string, bool) {
	if dir == "" {
		return target, true
	}
	rel, found := strings.CutPrefix(target, dir+PathSep)
	return rel, found
}
