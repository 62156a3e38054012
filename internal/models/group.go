package models

import "slices"

// Group is a set of members who share expenses.
// The owner is always a member.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Roommates", "Ski Trip").
	Name string

	// OwnerCode is the user code of the member who created the group.
	// Only the owner may rename or delete it.
	OwnerCode string

	// Members holds the user codes of all members, sorted ascending.
	Members []string

	// CreatedAt is the Unix timestamp when the group was created.
	CreatedAt int64
}

// HasMember reports whether userCode belongs to the group.
func (g *Group) HasMember(userCode string) bool {
	return slices.Contains(g.Members, userCode)
}

// MemberSet returns the members as a set for membership checks.
func (g *Group) MemberSet() map[string]bool {
	set := make(map[string]bool, len(g.Members))
	for _, m := range g.Members {
		set[m] = true
	}
	return set
}
