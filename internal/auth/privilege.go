package auth

import (
	"slices"

	"github.com/GoPowerDNS-Admin/GoOIDC-Bridge/internal/config"
)

// Role is the privilege level derived from the configured identifier lists.
type Role int

const (
	// RoleNone grants nothing.
	RoleNone Role = iota
	// RoleAdmin grants the admin flag and the administrative team.
	RoleAdmin
	// RoleSuperuser grants everything RoleAdmin does plus the superuser flag.
	RoleSuperuser
)

// IsAdmin reports whether the role carries admin capabilities.
func (r Role) IsAdmin() bool {
	return r >= RoleAdmin
}

// IsSuperuser reports whether the role is superuser.
func (r Role) IsSuperuser() bool {
	return r == RoleSuperuser
}

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleSuperuser:
		return "superuser"
	default:
		return "none"
	}
}

// Resolver derives the Role of a claim set.
type Resolver struct {
	admins     []string
	superusers []string
}

// NewResolver copies the parsed identifier lists of cfg.
func NewResolver(cfg *config.OIDC) *Resolver {
	return &Resolver{
		admins:     slices.Clone(cfg.AdminList),
		superusers: slices.Clone(cfg.SuperuserList),
	}
}

// Resolve returns RoleSuperuser when claims match the superuser list,
// RoleAdmin when they match the admin list and RoleNone otherwise.
func (r *Resolver) Resolve(claims Claims) Role {
	switch {
	case Matches(r.superusers, claims):
		return RoleSuperuser
	case Matches(r.admins, claims):
		return RoleAdmin
	default:
		return RoleNone
	}
}
