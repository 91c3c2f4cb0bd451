package models

import (
	"github.com/golang-jwt/jwt/v5"
)

// Role values carried in access tokens. Anything else is treated as a
// regular user.
const (
	RoleSuperAdmin   = "super_admin"
	RoleCompanyAdmin = "company_admin"
	RoleSupervisor   = "supervisor"
	RoleUser         = "user"
)

// AccessClaims represents the JWT claims of an access token.
type AccessClaims struct {
	jwt.RegisteredClaims
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
}

// AuthContext is the per-request identity attached by the auth middleware
// and consumed by service-level permission checks.
type AuthContext struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	CompanyID string `json:"company_id"`
}

// IsSuperAdmin reports whether the caller bypasses company scoping.
func (a AuthContext) IsSuperAdmin() bool {
	return a.Role == RoleSuperAdmin
}

// CanAccessCompany reports whether the caller may read records belonging to
// the given company. Super admins see everything; everyone else is scoped to
// their own company.
func (a AuthContext) CanAccessCompany(companyID string) bool {
	return a.IsSuperAdmin() || a.CompanyID == companyID
}
