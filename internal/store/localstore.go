package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
	"github.com/openmined/syftperm/internal/aclspec"
)

// LocalStore persists rule documents beneath a datasites root on disk.
// Writes take a per-document flock so concurrent writers across processes
// serialize on the same read-modify-write cycle.
type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Root returns the datasites root directory.
func (l *LocalStore) Root() string {
	return l.root
}

func (l *LocalStore) ListAlongPath(path string) ([]string, error) {
	var found []string
	for _, dir := range ancestorDirs(path) {
		docPath := aclspec.AsACLPath(dir)
		if l.exists(docPath) {
			found = append(found, docPath)
		}
	}
	return found, nil
}

func (l *LocalStore) Read(path string) (*Document, error) {
	fsPath := l.fsPath(path)

	stat, err := os.Lstat(fsPath)
	if os.IsNotExist(err) {
		return nil, ErrNotExist
	} else if err != nil {
		return nil, err
	}

	// Symlinked rule documents are not honored.
	if stat.Mode()&os.ModeSymlink != 0 {
		return nil, ErrNotExist
	}

	data, err := os.ReadFile(fsPath)
	if err != nil {
		return nil, err
	}

	return &Document{
		Path:     path,
		Data:     data,
		Revision: fileRevision(stat),
	}, nil
}

func (l *LocalStore) Write(path string, data []byte, expect Revision) (Revision, error) {
	fsPath := l.fsPath(path)

	if err := os.MkdirAll(filepath.Dir(fsPath), 0o755); err != nil {
		return NoRevision, fmt.Errorf("create document dir: %w", err)
	}

	lock := flock.New(fsPath + ".lock")
	if err := lock.Lock(); err != nil {
		return NoRevision, fmt.Errorf("lock document: %w", err)
	}
	defer lock.Unlock()

	// Re-check the revision under the lock. A writer that raced us and won
	// has bumped the mtime, failing the comparison.
	stat, err := os.Lstat(fsPath)
	switch {
	case os.IsNotExist(err):
		if expect != NoRevision {
			return NoRevision, ErrConflict
		}
	case err != nil:
		return NoRevision, err
	default:
		if expect != fileRevision(stat) {
			return NoRevision, ErrConflict
		}
	}

	if err := os.WriteFile(fsPath, data, 0o644); err != nil {
		return NoRevision, err
	}

	stat, err = os.Lstat(fsPath)
	if err != nil {
		return NoRevision, err
	}
	return fileRevision(stat), nil
}

func (l *LocalStore) Delete(path string) error {
	err := os.Remove(l.fsPath(path))
	if os.IsNotExist(err) {
		return ErrNotExist
	}
	return err
}

func (l *LocalStore) fsPath(path string) string {
	return filepath.Join(l.root, filepath.FromSlash(path))
}

// exists mirrors the read checks: present, not a symlink, non-empty.
func (l *LocalStore) exists(path string) bool {
	stat, err := os.Lstat(l.fsPath(path))
	if err != nil {
		return false
	}
	if stat.Mode()&os.ModeSymlink != 0 {
		return false
	}
	return stat.Size() > 0
}

func fileRevision(stat os.FileInfo) Revision {
	return Revision(fmt.Sprintf("%d-%d", stat.ModTime().UnixNano(), stat.Size()))
}

var _ Store = (*LocalStore)(nil)
