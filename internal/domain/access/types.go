package access

import "strings"

type Role string

const (
	RoleUser  Role = "USER"
	RoleAdmin Role = "ADMIN"
)

// ParseRole maps a claim value onto the closed role set. Anything that is not
// recognisably admin is treated as a plain user.
func ParseRole(s string) Role {
	if strings.EqualFold(strings.TrimSpace(s), string(RoleAdmin)) {
		return RoleAdmin
	}
	return RoleUser
}

// Identity is the verified caller attached to a request.
type Identity struct {
	ID    string
	Role  Role
	Email string
}

func (i Identity) Authenticated() bool { return i.ID != "" }

func (i Identity) IsAdmin() bool { return i.Role == RoleAdmin }

type Decision string

const (
	Allow Decision = "allow"
	Deny  Decision = "deny"
)
