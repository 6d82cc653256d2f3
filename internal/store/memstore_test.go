package store

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemStoreListAlongPath(t *testing.T) {
	ms := NewMemStore()

	_, err := ms.Write("a@x.com/syft.pub.yaml", []byte("rules: []"), NoRevision)
	require.NoError(t, err)
	_, err = ms.Write("a@x.com/proj/sub/syft.pub.yaml", []byte("rules: []"), NoRevision)
	require.NoError(t, err)

	docs, err := ms.ListAlongPath("a@x.com/proj/sub/data.csv")
	require.NoError(t, err)

	// Nearest first; the ruleless middle directory is skipped.
	assert.Equal(t, []string{"a@x.com/proj/sub/syft.pub.yaml", "a@x.com/syft.pub.yaml"}, docs)
}

func TestMemStoreReadMissing(t *testing.T) {
	ms := NewMemStore()
	_, err := ms.Read("nope/syft.pub.yaml")
	assert.ErrorIs(t, err, ErrNotExist)
}

func TestMemStoreWriteRevisions(t *testing.T) {
	ms := NewMemStore()
	path := "a@x.com/syft.pub.yaml"

	rev1, err := ms.Write(path, []byte("one"), NoRevision)
	require.NoError(t, err)

	// Creating again fails; the document exists now.
	_, err = ms.Write(path, []byte("two"), NoRevision)
	assert.ErrorIs(t, err, ErrConflict)

	// A stale revision fails; the current one succeeds.
	rev2, err := ms.Write(path, []byte("two"), rev1)
	require.NoError(t, err)
	assert.NotEqual(t, rev1, rev2)

	_, err = ms.Write(path, []byte("three"), rev1)
	assert.ErrorIs(t, err, ErrConflict)

	doc, err := ms.Read(path)
	require.NoError(t, err)
	assert.Equal(t, "two", string(doc.Data))
	assert.Equal(t, rev2, doc.Revision)
}

func TestMemStoreReadIsSnapshot(t *testing.T) {
	ms := NewMemStore()
	rev, err := ms.Write("a@x.com/syft.pub.yaml", []byte("abc"), NoRevision)
	require.NoError(t, err)

	doc, err := ms.Read("a@x.com/syft.pub.yaml")
	require.NoError(t, err)
	doc.Data[0] = 'x'

	_, err = ms.Write("a@x.com/syft.pub.yaml", []byte("abc2"), rev)
	require.NoError(t, err)

	again, err := ms.Read("a@x.com/syft.pub.yaml")
	require.NoError(t, err)
	assert.Equal(t, "abc2", string(again.Data))
}

func TestMemStoreDelete(t *testing.T) {
	ms := NewMemStore()
	_, err := ms.Write("a@x.com/syft.pub.yaml", []byte("rules: []"), NoRevision)
	require.NoError(t, err)

	require.NoError(t, ms.Delete("a@x.com/syft.pub.yaml"))
	assert.ErrorIs(t, ms.Delete("a@x.com/syft.pub.yaml"), ErrNotExist)

	docs, err := ms.ListAlongPath("a@x.com/file")
	require.NoError(t, err)
	assert.Empty(t, docs)
}
