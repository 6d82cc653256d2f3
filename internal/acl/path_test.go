package acl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormPath(t *testing.T) {
	assert.Equal(t, "a@x.com/proj/file", NormPath("/a@x.com/proj/file"))
	assert.Equal(t, "a@x.com/file", NormPath("a@x.com//proj/../file"))
	assert.Equal(t, "", NormPath("/"))
	assert.Equal(t, "", NormPath("."))

	// Paths escaping the datasites root normalize to no datasite at all,
	// so they can never reach the store.
	assert.Equal(t, "", NormPath(".."))
	assert.Equal(t, "", NormPath("../etc/passwd"))
	assert.Equal(t, "", NormPath("a@x.com/../../etc/passwd"))
}

func TestDatasite(t *testing.T) {
	assert.Equal(t, "a@x.com", Datasite("a@x.com/proj/file"))
	assert.Equal(t, "a@x.com", Datasite("a@x.com"))
	assert.Equal(t, "", Datasite("/"))
}

func TestIsOwner(t *testing.T) {
	assert.True(t, IsOwner("alice@x.com/file", "alice@x.com"))
	assert.False(t, IsOwner("alice@x.com/file", "bob@x.com"))
	assert.False(t, IsOwner("alice2@x.com/file", "alice"))
	assert.False(t, IsOwner("alice@x.com/file", ""))
}
