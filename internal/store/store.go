// Package store persists rule documents for the permission engine. The
// engine itself never touches storage; it lists and reads documents through
// the Store interface and rewrites them with a compare-and-swap revision
// check so concurrent writers cannot silently lose updates.
package store

import (
	"errors"
	"path"
	"strings"
)

var (
	// ErrNotExist is returned when no document exists at the given path.
	ErrNotExist = errors.New("store: document does not exist")

	// ErrConflict is returned when a write's expected revision no longer
	// matches the stored document. The caller must re-read and retry.
	ErrConflict = errors.New("store: document revision conflict")
)

// Revision identifies one version of a stored document.
type Revision string

// NoRevision is the expected revision when creating a new document.
const NoRevision Revision = ""

// Document is a read-only snapshot of one rule document.
type Document struct {
	Path     string
	Data     []byte
	Revision Revision
}

// Store exposes rule-document persistence to the engine.
type Store interface {
	// ListAlongPath returns the paths of the documents that exist in the
	// target's directory and each ancestor directory, nearest first.
	ListAlongPath(path string) ([]string, error)

	// Read returns a snapshot of the document at the given path.
	Read(path string) (*Document, error)

	// Write stores data at path if the current revision matches expect
	// (NoRevision for a new document) and returns the new revision.
	Write(path string, data []byte, expect Revision) (Revision, error)

	// Delete removes the document at the given path.
	Delete(path string) error
}

// ancestorDirs returns the directories from the target's own directory up to
// the root, nearest first. The path must be normalized and relative.
func ancestorDirs(target string) []string {
	var dirs []string
	dir := path.Dir(strings.Trim(target, "/"))
	for dir != "." && dir != "/" {
		dirs = append(dirs, dir)
		dir = path.Dir(dir)
	}
	return dirs
}
