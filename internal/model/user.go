package model

import (
	"time"

	"github.com/google/uuid"
)

// Role is a platform role.
type Role string

const (
	RoleSuperadmin      Role = "superadmin"
	RoleRestaurantOwner Role = "restaurant_owner"
)

// User is a platform account.
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	FullName  string    `json:"fullName" db:"full_name"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// CreateUserRequest is forwarded to the create-user function.
type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
	FullName string `json:"fullName" validate:"required,max=120"`
	Role     Role   `json:"role" validate:"required,oneof=superadmin restaurant_owner"`
}

// UserStats is the unfiltered aggregate shown above the user list.
type UserStats struct {
	Total       int `json:"total"`
	Superadmins int `json:"superadmins"`
	Owners      int `json:"owners"`
}
