package acl

import (
	"errors"
	"fmt"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrBadPattern reports an invalid glob pattern. The resolver treats such a
// pattern as matching nothing; only the explainer surfaces it.
var ErrBadPattern = errors.New("invalid pattern")

// Match evaluates a glob pattern against a path relative to the pattern's
// rule document. Doublestar semantics apply: `*` matches exactly one path
// segment and never crosses a separator, `**` matches zero or more whole
// segments, and the pattern must consume the entire path.
func Match(pattern string, relPath string) (bool, error) {
	if pattern == "" {
		return relPath == "", nil
	}

	ok, err := doublestar.Match(pattern, relPath)
	if err != nil {
		return false, fmt.Errorf("%w: %q", ErrBadPattern, pattern)
	}
	return ok, nil
}
