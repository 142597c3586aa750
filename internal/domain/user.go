package domain

import "time"

type UserRole string

const (
	UserRoleUser  UserRole = "user"
	UserRoleOwner UserRole = "owner"
)

type User struct {
	ID           string    `json:"_id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Phone        string    `json:"phone,omitempty"`
	PasswordHash string    `json:"-"`
	Role         UserRole  `json:"role"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (u *User) IsOwner() bool {
	return u != nil && u.Role == UserRoleOwner
}
