package models

import (
	"time"

	"github.com/gocql/gocql"
)

// Roles válidos de la tienda. Son campos planos sin verificación:
// la autenticación está deshabilitada y cualquier cliente puede
// declarar cualquier identidad.
const (
	RoleAdmin    = "admin"
	RoleVendor   = "vendor"
	RoleCustomer = "customer"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleVendor, RoleCustomer:
		return true
	}
	return false
}

type User struct {
	ID             gocql.UUID `json:"id" db:"user_id"`
	Username       string     `json:"username" db:"username"`
	HashedPassword string     `json:"-" db:"hashed_password"`
	Role           string     `json:"role" db:"role"`
	IsSuperuser    bool       `json:"is_superuser" db:"is_superuser"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
}
