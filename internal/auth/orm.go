package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "CUSTOMER"
	RoleHandyman Role = "HANDYMAN"
)

// ParseRole normalizes a raw role string into a Role. Role is resolved
// exactly once at the boundary; services only ever see a typed Role.
func ParseRole(raw string) (Role, bool) {
	switch Role(raw) {
	case RoleCustomer:
		return RoleCustomer, true
	case RoleHandyman:
		return RoleHandyman, true
	default:
		return "", false
	}
}

type User struct {
	ID           uuid.UUID `json:"id" gorm:"type:uuid;primary_key"`
	Name         string    `json:"name" gorm:"not null"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Role         Role      `json:"role" gorm:"type:text;not null;check:role IN ('CUSTOMER', 'HANDYMAN')"`
	CreatedAt    time.Time `json:"created_at" gorm:"not null"`
}

type Claims struct {
	UserID uuid.UUID `json:"user_id"`
	Role   Role      `json:"role"`
	jwt.RegisteredClaims
}
