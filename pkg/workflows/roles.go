package workflows

// Role identifies an actor's authorization level
type Role string

const (
	RoleManager  Role = "manager"
	RoleDirector Role = "director"
	RoleVP       Role = "vp"
	RoleAdmin    Role = "admin"
)

// RoleHierarchy ranks roles from least to most privileged
type RoleHierarchy struct {
	ranks map[Role]int
}

// NewRoleHierarchy builds a hierarchy from roles ordered least privileged first
func NewRoleHierarchy(ordered ...Role) RoleHierarchy {
	ranks := make(map[Role]int, len(ordered))
	for i, role := range ordered {
		ranks[role] = i
	}
	return RoleHierarchy{ranks: ranks}
}

// DefaultRoleHierarchy returns the standard manager < director < vp < admin ordering
func DefaultRoleHierarchy() RoleHierarchy {
	return NewRoleHierarchy(RoleManager, RoleDirector, RoleVP, RoleAdmin)
}

// Rank returns the rank of a role, or false if the role is unknown
func (h RoleHierarchy) Rank(role Role) (int, bool) {
	rank, ok := h.ranks[role]
	return rank, ok
}

// IsKnown reports whether the role is part of the hierarchy
func (h RoleHierarchy) IsKnown(role Role) bool {
	_, ok := h.ranks[role]
	return ok
}

// AtLeast reports whether actor ranks at or above required.
// An unknown actor role never satisfies a requirement; an empty
// requirement is satisfied by any actor.
func (h RoleHierarchy) AtLeast(actor, required Role) bool {
	if required == "" {
		return true
	}
	actorRank, ok := h.ranks[actor]
	if !ok {
		return false
	}
	requiredRank, ok := h.ranks[required]
	if !ok {
		return false
	}
	return actorRank >= requiredRank
}
