package models

// Role names known to the service. Roles are seeded at bootstrap; the
// provisioning workflow only reads and assigns them.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// Role is a named permission group.
type Role struct {
	ID   string
	Name string
}
