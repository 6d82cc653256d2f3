package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/openmined/syftperm/internal/store"
)

func TestGrantAccess(t *testing.T) {
	svc := newTestService(t, nil)
	target := "alice@example.com/proj/data.csv"

	require.NoError(t, svc.GrantAccess(target, "bob@example.com", AccessWrite))

	grant, err := svc.Resolve(target, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessWrite, grant.Level)

	require.NotEmpty(t, grant.Sources)
	src := grant.Sources[0]
	assert.Equal(t, SourceDirectGrant, src.Kind)
	assert.Equal(t, "alice@example.com/proj/syft.pub.yaml", src.Document)
	assert.Equal(t, "data.csv", src.Pattern)

	// Only the named level was written; lower levels are derived.
	doc, err := svc.store.Read("alice@example.com/proj/syft.pub.yaml")
	require.NoError(t, err)
	assert.Contains(t, string(doc.Data), "write:")
	assert.NotContains(t, string(doc.Data), "read:")
	assert.NotContains(t, string(doc.Data), "create:")

	// Siblings of the target are untouched.
	other, err := svc.Resolve("alice@example.com/proj/other.csv", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessNone, other.Level)
}

func TestGrantAccessIdempotent(t *testing.T) {
	svc := newTestService(t, nil)
	target := "alice@example.com/data.csv"

	require.NoError(t, svc.GrantAccess(target, "bob@example.com", AccessRead))
	before, err := svc.store.Read("alice@example.com/syft.pub.yaml")
	require.NoError(t, err)

	// The second grant changes nothing, not even the revision.
	require.NoError(t, svc.GrantAccess(target, "bob@example.com", AccessRead))
	after, err := svc.store.Read("alice@example.com/syft.pub.yaml")
	require.NoError(t, err)

	assert.Equal(t, before.Revision, after.Revision)
	assert.Equal(t, before.Data, after.Data)
}

func TestRevokeAccessRestoresInheritance(t *testing.T) {
	// Bob reads via the datasite root. A nested grant then revoke leaves
	// him exactly where he started.
	svc := newTestService(t, map[string]string{
		"alice@example.com/syft.pub.yaml": `
rules:
  - pattern: "**"
    access:
      read: [bob@example.com]
`,
	})
	target := "alice@example.com/proj/data.csv"

	require.NoError(t, svc.GrantAccess(target, "bob@example.com", AccessWrite))
	grant, err := svc.Resolve(target, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessWrite, grant.Level)

	require.NoError(t, svc.RevokeAccess(target, "bob@example.com", AccessWrite))
	grant, err = svc.Resolve(target, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessRead, grant.Level)
}

func TestRevokeAccessDropsEmptiedRule(t *testing.T) {
	svc := newTestService(t, nil)
	target := "alice@example.com/data.csv"

	require.NoError(t, svc.GrantAccess(target, "bob@example.com", AccessRead))
	require.NoError(t, svc.RevokeAccess(target, "bob@example.com", AccessRead))

	// The emptied level reverts to unspecified rather than an explicit
	// empty override, and the now-empty rule is removed with it.
	doc, err := svc.store.Read("alice@example.com/syft.pub.yaml")
	require.NoError(t, err)
	assert.NotContains(t, string(doc.Data), "read: []")
	assert.NotContains(t, string(doc.Data), "data.csv")
}

func TestRevokeAccessAbsentIsNoop(t *testing.T) {
	svc := newTestService(t, nil)

	require.NoError(t, svc.RevokeAccess("alice@example.com/data.csv", "bob@example.com", AccessRead))

	// Nothing was written.
	_, err := svc.store.Read("alice@example.com/syft.pub.yaml")
	assert.ErrorIs(t, err, store.ErrNotExist)
}

func TestRevokeAccessDoesNotCascade(t *testing.T) {
	svc := newTestService(t, map[string]string{
		"alice@example.com/syft.pub.yaml": `
rules:
  - pattern: "data.csv"
    access:
      read: [bob@example.com]
      write: [bob@example.com]
`,
	})
	target := "alice@example.com/data.csv"

	require.NoError(t, svc.RevokeAccess(target, "bob@example.com", AccessWrite))

	grant, err := svc.Resolve(target, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessRead, grant.Level)
}

func TestMutateDatasiteRootRejected(t *testing.T) {
	// There is no directory above a datasite root that a rule document
	// could live in, so granting on the root itself must fail loudly
	// instead of writing a document no walk will ever read.
	svc := newTestService(t, nil)

	err := svc.GrantAccess("alice@example.com", "bob@example.com", AccessWrite)
	require.Error(t, err)

	// No stray document landed at the store root.
	_, err = svc.store.Read("syft.pub.yaml")
	assert.ErrorIs(t, err, store.ErrNotExist)

	grant, err := svc.Resolve("alice@example.com", "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessNone, grant.Level)
}

func TestMutateInvalidArgs(t *testing.T) {
	svc := newTestService(t, nil)

	assert.ErrorIs(t, svc.GrantAccess("alice@example.com/f", "", AccessRead), ErrInvalidAccessLevel)
	assert.ErrorIs(t, svc.GrantAccess("alice@example.com/f", "bob@example.com", AccessNone), ErrInvalidAccessLevel)
	assert.Error(t, svc.GrantAccess("/", "bob@example.com", AccessRead))
}

func TestMutateUnparsableDocumentFails(t *testing.T) {
	// Resolution degrades gracefully over a broken document, but editing
	// one must not silently rewrite it.
	svc := newTestService(t, map[string]string{
		"alice@example.com/syft.pub.yaml": "rules: {broken yaml [",
	})

	err := svc.GrantAccess("alice@example.com/data.csv", "bob@example.com", AccessRead)
	require.Error(t, err)

	doc, err := svc.store.Read("alice@example.com/syft.pub.yaml")
	require.NoError(t, err)
	assert.Equal(t, "rules: {broken yaml [", string(doc.Data))
}

func TestMutateEditsLastMatchingRule(t *testing.T) {
	// Two rules share the exact pattern. The later one wins at resolution
	// time, so that is the one edits must land on.
	svc := newTestService(t, map[string]string{
		"alice@example.com/syft.pub.yaml": `
rules:
  - pattern: "data.csv"
    access:
      read: [carol@example.com]
  - pattern: "data.csv"
    access:
      read: []
`,
	})
	target := "alice@example.com/data.csv"

	require.NoError(t, svc.GrantAccess(target, "bob@example.com", AccessRead))

	grant, err := svc.Resolve(target, "bob@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessRead, grant.Level)

	// Carol is still blocked by the later rule.
	carol, err := svc.Resolve(target, "carol@example.com")
	require.NoError(t, err)
	assert.Equal(t, AccessNone, carol.Level)
}

// conflictStore fails every write with ErrConflict.
type conflictStore struct {
	store.Store
}

func (c *conflictStore) Write(path string, data []byte, expect store.Revision) (store.Revision, error) {
	return store.NoRevision, store.ErrConflict
}

func TestMutateConflictPropagates(t *testing.T) {
	svc := NewService(&conflictStore{Store: store.NewMemStore()})

	err := svc.GrantAccess("alice@example.com/data.csv", "bob@example.com", AccessRead)
	assert.ErrorIs(t, err, store.ErrConflict)
}
