package acl

import (
	"fmt"
	"strings"

	"github.com/openmined/syftperm/internal/aclspec"
)

// AccessLevel is the totally ordered set of access levels. A grant at one
// level implies access at every lower level.
type AccessLevel uint8

const (
	AccessNone AccessLevel = iota
	AccessRead
	AccessCreate
	AccessWrite
	AccessAdmin
)

// Levels enumerates the grantable levels from highest to lowest.
var Levels = []AccessLevel{AccessAdmin, AccessWrite, AccessCreate, AccessRead}

func (a AccessLevel) String() string {
	switch a {
	case AccessNone:
		return "None"
	case AccessRead:
		return "Read"
	case AccessCreate:
		return "Create"
	case AccessWrite:
		return "Write"
	case AccessAdmin:
		return "Admin"
	default:
		return "Unknown"
	}
}

// Key returns the level's key in the rule document wire format.
func (a AccessLevel) Key() string {
	switch a {
	case AccessRead:
		return aclspec.KeyRead
	case AccessCreate:
		return aclspec.KeyCreate
	case AccessWrite:
		return aclspec.KeyWrite
	case AccessAdmin:
		return aclspec.KeyAdmin
	default:
		return ""
	}
}

// Includes reports whether a grant at this level implies the other level.
func (a AccessLevel) Includes(other AccessLevel) bool {
	return a >= other
}

// ParseLevel maps a level name to its AccessLevel.
func ParseLevel(s string) (AccessLevel, error) {
	switch strings.ToLower(s) {
	case "none":
		return AccessNone, nil
	case aclspec.KeyRead:
		return AccessRead, nil
	case aclspec.KeyCreate:
		return AccessCreate, nil
	case aclspec.KeyWrite:
		return AccessWrite, nil
	case aclspec.KeyAdmin:
		return AccessAdmin, nil
	default:
		return AccessNone, fmt.Errorf("unknown access level %q", s)
	}
}
