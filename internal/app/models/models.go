package models

// Role defines what an account may administer
type Role string

const (
	RoleAdmin Role = "admin"
	RoleUser  Role = "user"
)

// UserStatus is the approval state of an account
type UserStatus string

const (
	UserStatusPending  UserStatus = "pending"
	UserStatusApproved UserStatus = "approved"
	UserStatusRejected UserStatus = "rejected"
)

// ToggleResult reports what a toggle did to its ledger row
type ToggleResult string

const (
	ToggleAdded   ToggleResult = "added"
	ToggleRemoved ToggleResult = "removed"
)

// Actor is the authenticated caller of a service operation
type Actor struct {
	UserID string
	Role   Role
	Status UserStatus
}

// IsAdmin reports whether the actor holds the admin role
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}

// CanActFor reports whether the actor may act on behalf of userID
func (a Actor) CanActFor(userID string) bool {
	return a.IsAdmin() || a.UserID == userID
}
