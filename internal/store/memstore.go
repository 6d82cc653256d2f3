package store

import (
	"strconv"
	"sync"

	"github.com/openmined/syftperm/internal/aclspec"
)

type memDoc struct {
	data []byte
	rev  int64
}

// MemStore is an in-memory document arena keyed by normalized path. It backs
// unit tests and embedded use where no filesystem is involved.
type MemStore struct {
	mu   sync.RWMutex
	docs map[string]*memDoc
}

func NewMemStore() *MemStore {
	return &MemStore{
		docs: make(map[string]*memDoc),
	}
}

func (m *MemStore) ListAlongPath(path string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var found []string
	for _, dir := range ancestorDirs(path) {
		docPath := aclspec.AsACLPath(dir)
		if _, ok := m.docs[docPath]; ok {
			found = append(found, docPath)
		}
	}
	return found, nil
}

func (m *MemStore) Read(path string) (*Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	doc, ok := m.docs[path]
	if !ok {
		return nil, ErrNotExist
	}

	data := make([]byte, len(doc.data))
	copy(data, doc.data)

	return &Document{
		Path:     path,
		Data:     data,
		Revision: Revision(strconv.FormatInt(doc.rev, 10)),
	}, nil
}

func (m *MemStore) Write(path string, data []byte, expect Revision) (Revision, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, exists := m.docs[path]

	switch {
	case !exists && expect != NoRevision:
		return NoRevision, ErrConflict
	case exists && expect != Revision(strconv.FormatInt(doc.rev, 10)):
		return NoRevision, ErrConflict
	}

	var rev int64 = 1
	if exists {
		rev = doc.rev + 1
	}

	stored := make([]byte, len(data))
	copy(stored, data)
	m.docs[path] = &memDoc{data: stored, rev: rev}

	return Revision(strconv.FormatInt(rev, 10)), nil
}

func (m *MemStore) Delete(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.docs[path]; !ok {
		return ErrNotExist
	}
	delete(m.docs, path)
	return nil
}

var _ Store = (*MemStore)(nil)
