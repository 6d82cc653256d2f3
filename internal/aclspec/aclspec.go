package aclspec

import (
	"path"
	"strings"
)

const (
	// FileName is the well-known name of a rule document.
	FileName = "syft.pub.yaml"

	// Everyone is the public wildcard principal.
	Everyone = "*"

	// AllFiles matches every path beneath the document's directory.
	AllFiles = "**"

	SetTerminal   = true
	UnsetTerminal = false
)

// IsACLFile checks if the path points to a rule document.
func IsACLFile(p string) bool {
	return path.Base(p) == FileName
}

// AsACLPath converts a directory path to its rule document path.
func AsACLPath(p string) string {
	if IsACLFile(p) {
		return p
	}
	return path.Join(p, FileName)
}

// WithoutACLPath truncates the rule document name from the path,
// leaving the directory that owns it.
func WithoutACLPath(p string) string {
	if !IsACLFile(p) {
		return p
	}
	dir := path.Dir(p)
	if dir == "." {
		return ""
	}
	return dir
}

// Dir returns the directory owning the document at the given path.
func Dir(p string) string {
	return strings.TrimSuffix(WithoutACLPath(p), "/")
}
