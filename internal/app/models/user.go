package models

import (
	"time"
)

// User defines the user model based on the 'users' table
type User struct {
	ID           string     `json:"id" db:"id" example:"7b0c6a8e-6c1e-4d5e-9a51-2f7f7d3c0a11"`
	Email        string     `json:"email" db:"email" example:"drummer@example.com"`
	Password     string     `json:"-" db:"password"`
	Name         string     `json:"name" db:"name" example:"Alex Rivera"`
	Phone        *string    `json:"phone,omitempty" db:"phone" example:"+15550001111"`
	Status       UserStatus `json:"status" db:"status" example:"approved"`
	Role         Role       `json:"role" db:"role" example:"user"`
	LastSignInAt *time.Time `json:"lastSignInAt,omitempty" db:"last_sign_in_at"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}

// Actor returns the user as a service caller
func (u *User) Actor() Actor {
	return Actor{UserID: u.ID, Role: u.Role, Status: u.Status}
}

// Capability is a skill or instrument with a display icon
type Capability struct {
	ID        string    `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" example:"Bass Guitar"`
	Icon      string    `json:"icon" db:"icon" example:"/capability-icons/bass-guitar.svg"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
