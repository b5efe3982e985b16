package models

import (
	"gorm.io/gorm"
)

// User represents a registered account. The collaboration core only ever
// references it by id; identity fields are owned by the auth subsystem.
type User struct {
	gorm.Model
	Username     string `gorm:"unique;not null" json:"username"`
	Email        string `gorm:"unique;not null" json:"email"`
	PasswordHash string `gorm:"not null" json:"-"`
	Password     string `gorm:"-" json:"password"`
}

func (user *User) ToUserResponse() *UserResponse {
	return &UserResponse{
		ID:       user.ID,
		Username: user.Username,
	}
}

func (user *User) ToProfileResponse() *ProfileResponse {
	return &ProfileResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	}
}
