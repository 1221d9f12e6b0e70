package identity

import (
	"os/user"
	"strconv"
)

// Names caches uid and gid to name lookups.
type Names struct {
	users  map[uint32]string
	groups map[uint32]string

	lookupUser  func(uid string) (*user.User, error)
	lookupGroup func(gid string) (*user.Group, error)
}

// NewNames returns an empty cache backed by the system user database.
func NewNames() *Names {
	return &Names{
		users:       make(map[uint32]string),
		groups:      make(map[uint32]string),
		lookupUser:  user.LookupId,
		lookupGroup: user.LookupGroupId,
	}
}

// User returns the login name for uid, or its decimal form if the system
// has no entry for it.
func (n *Names) User(uid uint32) string {
	if name, ok := n.users[uid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(uid), 10)
	name := id
	if u, err := n.lookupUser(id); err == nil && u.Username != "" {
		name = u.Username
	}
	n.users[uid] = name
	return name
}

// Group returns the group name for gid, or its decimal form if the system
// has no entry for it.
func (n *Names) Group(gid uint32) string {
	if name, ok := n.groups[gid]; ok {
		return name
	}
	id := strconv.FormatUint(uint64(gid), 10)
	name := id
	if g, err := n.lookupGroup(id); err == nil && g.Name != "" {
		name = g.Name
	}
	n.groups[gid] = name
	return name
}
