package authz

import (
	"fmt"
	"sort"
	"strings"
)

// Capabilities is the resolved, immutable set granted to one principal.
type Capabilities map[Capability]struct{}

func (c Capabilities) Has(capability Capability) bool {
	_, ok := c[capability]
	return ok
}

func (c Capabilities) List() []string {
	list := make([]string, 0, len(c))
	for capability := range c {
		list = append(list, string(capability))
	}
	sort.Strings(list)
	return list
}

// grants lists what each role gives at each level before implication.
// WRITE implies READ and ADMIN implies USER at the same level.
var grants = map[Role]map[Level][]Capability{
	RoleUser: {
		LevelRead:  {UserRead},
		LevelWrite: {UserRead, UserWrite},
	},
	RoleAdmin: {
		LevelRead:  {UserRead, AdminRead},
		LevelWrite: {UserRead, UserWrite, AdminRead, AdminWrite},
	},
}

func ParseRole(s string) (Role, error) {
	role := Role(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := grants[role]; !ok {
		return "", fmt.Errorf("unknown role %q", s)
	}
	return role, nil
}

func ParseLevel(s string) (Level, error) {
	level := Level(strings.ToUpper(strings.TrimSpace(s)))
	if level != LevelRead && level != LevelWrite {
		return "", fmt.Errorf("unknown level %q", s)
	}
	return level, nil
}

// Resolve turns a role and level into a capability set. It is the only
// place role strings are interpreted.
func Resolve(role, level string) (Capabilities, error) {
	r, err := ParseRole(role)
	if err != nil {
		return nil, err
	}
	l, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	caps := make(Capabilities)
	for _, capability := range grants[r][l] {
		caps[capability] = struct{}{}
	}
	return caps, nil
}
