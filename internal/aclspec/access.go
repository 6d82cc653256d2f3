package aclspec

import (
	"sort"

	mapset "github.com/deckarep/golang-set/v2"
	"gopkg.in/yaml.v3"
)

// Level keys as they appear in a rule document.
const (
	KeyRead   = "read"
	KeyCreate = "create"
	KeyWrite  = "write"
	KeyAdmin  = "admin"
)

// levelKeys in canonical document order.
var levelKeys = []string{KeyRead, KeyCreate, KeyWrite, KeyAdmin}

var empty = []string{}

// Access is the per-level principal mapping of a rule.
//
// A nil set means the level is not specified by the rule and inheritance from
// farther documents applies. A non-nil empty set is an explicit "no one"
// assignment that overrides whatever an ancestor document would grant.
type Access struct {
	Admin  mapset.Set[string] `yaml:"admin"`
	Write  mapset.Set[string] `yaml:"write"`
	Create mapset.Set[string] `yaml:"create"`
	Read   mapset.Set[string] `yaml:"read"`

	// unknownLevels holds level names the document used that this engine
	// does not know. Decoding keeps them aside so Parse can report the
	// offending rule by index instead of failing the whole document.
	unknownLevels []string
}

// NewAccess creates an Access with all four levels specified.
func NewAccess(admin, write, create, read []string) *Access {
	return &Access{
		Admin:  mapset.NewSet(admin...),
		Write:  mapset.NewSet(write...),
		Create: mapset.NewSet(create...),
		Read:   mapset.NewSet(read...),
	}
}

// UnspecifiedAccess returns an Access with no levels specified.
// Such an access contributes nothing on its own.
func UnspecifiedAccess() *Access {
	return &Access{}
}

// PrivateAccess returns an Access that explicitly assigns every level to
// no one, severing inheritance for all four levels.
func PrivateAccess() *Access {
	return NewAccess(empty, empty, empty, empty)
}

// PublicReadAccess returns an Access granting read to everyone, leaving the
// other levels unspecified.
func PublicReadAccess() *Access {
	return &Access{Read: mapset.NewSet(Everyone)}
}

// PublicReadWriteAccess returns an Access granting write to everyone,
// leaving the other levels unspecified.
func PublicReadWriteAccess() *Access {
	return &Access{Write: mapset.NewSet(Everyone)}
}

// SharedReadAccess returns an Access granting read to the given users.
func SharedReadAccess(users ...string) *Access {
	return &Access{Read: mapset.NewSet(users...)}
}

// SharedWriteAccess returns an Access granting write to the given users.
func SharedWriteAccess(users ...string) *Access {
	return &Access{Write: mapset.NewSet(users...)}
}

// AdminAccess returns an Access granting admin to the given users.
func AdminAccess(users ...string) *Access {
	return &Access{Admin: mapset.NewSet(users...)}
}

// Level returns the principal set for the given level key, or nil if the
// level is not specified.
func (a *Access) Level(key string) mapset.Set[string] {
	switch key {
	case KeyAdmin:
		return a.Admin
	case KeyWrite:
		return a.Write
	case KeyCreate:
		return a.Create
	case KeyRead:
		return a.Read
	default:
		return nil
	}
}

func (a *Access) setLevel(key string, set mapset.Set[string]) {
	switch key {
	case KeyAdmin:
		a.Admin = set
	case KeyWrite:
		a.Write = set
	case KeyCreate:
		a.Create = set
	case KeyRead:
		a.Read = set
	}
}

// Specified reports whether the rule assigns the given level at all.
func (a *Access) Specified(key string) bool {
	return a.Level(key) != nil
}

// Add lists the user under the given level, specifying the level if needed.
// Returns false if the user was already listed.
func (a *Access) Add(key string, user string) bool {
	set := a.Level(key)
	if set == nil {
		set = mapset.NewSet[string]()
		a.setLevel(key, set)
	}
	return set.Add(user)
}

// Remove delists the user from the given level. When the level's list becomes
// empty it reverts to unspecified, so ancestor documents apply again.
// Returns false if the user was not listed.
func (a *Access) Remove(key string, user string) bool {
	set := a.Level(key)
	if set == nil || !set.Contains(user) {
		return false
	}
	set.Remove(user)
	if set.Cardinality() == 0 {
		a.setLevel(key, nil)
	}
	return true
}

// IsUnspecified reports whether no level is specified at all.
func (a *Access) IsUnspecified() bool {
	for _, key := range levelKeys {
		if a.Specified(key) {
			return false
		}
	}
	return true
}

func (a *Access) UnmarshalYAML(value *yaml.Node) error {
	var m map[string][]string
	if err := value.Decode(&m); err != nil {
		return err
	}

	for key, users := range m {
		switch key {
		case KeyAdmin, KeyWrite, KeyCreate, KeyRead:
			set := a.Level(key)
			if set == nil {
				set = mapset.NewSet[string]()
				a.setLevel(key, set)
			}
			set.Append(users...)
		default:
			a.unknownLevels = append(a.unknownLevels, key)
		}
	}
	sort.Strings(a.unknownLevels)

	return nil
}

func (a Access) MarshalYAML() (interface{}, error) {
	// Emit only the specified levels, in canonical order with sorted
	// principals, so rewritten documents stay diff-friendly.
	node := &yaml.Node{Kind: yaml.MappingNode}
	for _, key := range levelKeys {
		set := a.Level(key)
		if set == nil {
			continue
		}
		users := set.ToSlice()
		sort.Strings(users)

		keyNode := &yaml.Node{Kind: yaml.ScalarNode, Value: key}
		valNode := &yaml.Node{}
		if err := valNode.Encode(users); err != nil {
			return nil, err
		}
		if len(users) == 0 {
			valNode.Style = yaml.FlowStyle
		}
		node.Content = append(node.Content, keyNode, valNode)
	}
	return node, nil
}
