package models

import (
	"time"

	"github.com/google/uuid"
)

type RoleType string

const (
	RoleBusinessAdmin RoleType = "BUSINESS_ADMIN"
	RoleFloorManager  RoleType = "FLOOR_MANAGER"
	RoleSalesperson   RoleType = "SALESPERSON"
)

// ParseRole converts a claim string back into the enum.
func ParseRole(s string) (RoleType, bool) {
	switch RoleType(s) {
	case RoleBusinessAdmin, RoleFloorManager, RoleSalesperson:
		return RoleType(s), true
	default:
		return "", false
	}
}

type User struct {
	Versioned
	ID           uuid.UUID  `json:"id"`
	StoreID      uuid.UUID  `json:"store_id"`
	FloorID      *uuid.UUID `json:"floor_id,omitempty"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"`
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Role         RoleType   `json:"role"`
	IsActive     bool       `json:"is_active"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

func (u *User) GetID() string { return u.ID.String() }
