package domain

import "strings"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleAdmin    Role = "admin"
)

func (r Role) Valid() bool {
	return r == RoleCustomer || r == RoleAdmin
}

// Principal is the authenticated actor. A nil *Principal means guest.
type Principal struct {
	ID    string
	Email string
	Name  string
	Role  Role
}

// NewPrincipal fills the defaults used when the profile row is missing or
// incomplete: the name falls back to the local part of the email and the role
// to customer.
func NewPrincipal(id, email, name string, role Role) Principal {
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	if !role.Valid() {
		role = RoleCustomer
	}
	return Principal{ID: id, Email: email, Name: name, Role: role}
}

func (p *Principal) IsAdmin() bool {
	return p != nil && p.Role == RoleAdmin
}
