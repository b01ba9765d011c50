package models

// Role is a member's permission level inside a group.
type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// Group represents a shared budget whose members split expenses.
type Group struct {
	// ID is the unique identifier for the group (UUID format).
	ID string

	// Name is the display name of the group (e.g., "Coloc", "Vacances").
	Name string

	// Description is optional free text.
	Description string

	// CreatedBy is the user ID of the creator, who is also the first admin.
	CreatedBy string

	CreatedAt int64
	UpdatedAt int64
}

// GroupMember is one roster entry of a group.
type GroupMember struct {
	ID       string
	GroupID  string
	UserID   string
	Role     Role
	JoinedAt int64

	// Profile is populated when the roster is loaded with profiles.
	Profile Profile
}

// IsAdmin reports whether the member administers the group.
func (m GroupMember) IsAdmin() bool {
	return m.Role == RoleAdmin
}
