package models

import "github.com/golang-jwt/jwt/v5"

// ActorRole represents the coarse role carried in access tokens.
type ActorRole string

const (
	RoleSuperAdmin ActorRole = "SUPERADMIN"
	RoleAdmin      ActorRole = "ADMIN"
	RoleOperator   ActorRole = "OPERATOR"
)

// ActorClaims is the JWT payload identifying who performs a back-office
// action. The identity is only used to stamp recorded_by/generated_by
// fields; it never drives domain decisions.
type ActorClaims struct {
	UserID string    `json:"user_id"`
	Name   string    `json:"name"`
	Role   ActorRole `json:"role"`
	jwt.RegisteredClaims
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
