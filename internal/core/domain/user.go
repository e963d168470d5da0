package domain

// Role is the access level of a user.
type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleMember Role = "MEMBER"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

// User models a club account. PasswordHash holds the Digest of the secret,
// never the secret itself.
type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
}

// IsAdmin reports whether the user administers the club.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
