package model

import (
	"gorm.io/gorm"
)

// User is the basic entity of the system. Role is set at registration and is
// immutable afterwards; there is no endpoint that changes it.
type User struct {
	gorm.Model
	Email      string  `gorm:"uniqueIndex;type:varchar(128);not null;comment:login email"`
	Username   string  `gorm:"uniqueIndex;type:varchar(32);not null;comment:login name"`
	FullName   string  `gorm:"type:varchar(64);not null"`
	Role       Role    `gorm:"type:varchar(32);not null;comment:platform role"`
	Department *string `gorm:"type:varchar(64)"`
	Password   string  `gorm:"type:varchar(128);not null;comment:bcrypt hash"`
	Active     bool    `gorm:"not null;default:true"`
}

// UserInfo is the public projection of a user embedded in responses.
type UserInfo struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullName"`
	Role     Role   `json:"role"`
}

func (u *User) Info() UserInfo {
	return UserInfo{
		ID:       u.ID,
		Username: u.Username,
		FullName: u.FullName,
		Role:     u.Role,
	}
}
