package game

import (
	"fmt"
	"strings"
)

// Role identifies one of the two competing entities on the track.
// Using a dedicated type instead of plain string keeps role checks explicit.
type Role string

const (
	RoleStreamer Role = "streamer"
	RoleDanger   Role = "danger"
)

// Roles lists both roles in the order they are processed during a turn.
var Roles = []Role{RoleStreamer, RoleDanger}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleStreamer || r == RoleDanger
}

// Opponent returns the other role. Unknown roles have no opponent.
func (r Role) Opponent() Role {
	switch r {
	case RoleStreamer:
		return RoleDanger
	case RoleDanger:
		return RoleStreamer
	}
	return ""
}

// ParseRole normalizes s and returns the matching role.
func ParseRole(s string) (Role, error) {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if !r.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownRole, s)
	}
	return r, nil
}

// Target selects which role an effect bundle lands on, relative to the
// card owner or item user.
type Target string

const (
	TargetSelf     Target = "self"
	TargetOpponent Target = "opponent"
)

// Resolve returns the role affected by an effect owned by owner.
func (t Target) Resolve(owner Role) Role {
	if t == TargetOpponent {
		return owner.Opponent()
	}
	return owner
}

// Valid accepts the empty target as "self".
func (t Target) Valid() bool {
	return t == "" || t == TargetSelf || t == TargetOpponent
}
