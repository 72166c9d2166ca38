package models

import (
	"time"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RolePartner  UserRole = "partner"
)

// ValidRole reports whether r is a known role.
func ValidRole(r UserRole) bool {
	return r == RoleCustomer || r == RolePartner
}

type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null"` // stored lowercase
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"name" gorm:"not null"`
	Role         UserRole  `json:"role" gorm:"not null;default:'customer'"`
	DisplayName  string    `json:"display_name"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
