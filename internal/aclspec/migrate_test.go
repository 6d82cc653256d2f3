package aclspec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrateLegacy(t *testing.T) {
	doc := `
- path: "data/*.csv"
  user: "bob@example.com"
  permissions: [read, write]
- path: "data/*.csv"
  user: "carol@example.com"
  permissions: [read]
- path: "**"
  user: "*"
  permissions: [read]
`
	set, err := MigrateLegacy([]byte(doc))
	require.NoError(t, err)
	require.Len(t, set.Rules, 2, "entries for the same path merge into one rule")

	csv := set.Rules[0]
	assert.Equal(t, "data/*.csv", csv.Pattern)
	assert.True(t, csv.Access.Read.Contains("bob@example.com"))
	assert.True(t, csv.Access.Write.Contains("bob@example.com"))
	assert.True(t, csv.Access.Read.Contains("carol@example.com"))
	assert.False(t, csv.Access.Write.Contains("carol@example.com"))

	all := set.Rules[1]
	assert.Equal(t, AllFiles, all.Pattern)
	assert.True(t, all.Access.Read.Contains(Everyone))
}

func TestMigrateLegacyViaParse(t *testing.T) {
	// Parse falls back to the legacy format transparently.
	doc := `
- path: "report.md"
  user: "dave@example.com"
  permissions: [admin]
`
	set, err := Parse("a@x.com/syft.pub.yaml", []byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "a@x.com", set.Path)
	require.Len(t, set.Rules, 1)
	assert.True(t, set.Rules[0].Access.Admin.Contains("dave@example.com"))
}

func TestMigrateLegacyRejectsUnknownPermission(t *testing.T) {
	doc := `
- path: "x"
  user: "u@x.com"
  permissions: [execute]
`
	_, err := MigrateLegacy([]byte(doc))
	assert.Error(t, err)
}

func TestMigrateLegacyRejectsMapping(t *testing.T) {
	_, err := MigrateLegacy([]byte("rules: []\n"))
	assert.Error(t, err)
}
