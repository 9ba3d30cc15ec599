package model

import "time"

type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`
	Email        string     `gorm:"size:100;not null;uniqueIndex" json:"email"`
	Name         string     `gorm:"size:100;not null" json:"name"`
	PasswordHash string     `gorm:"size:255;not null" json:"-"`
	IsActive     bool       `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time  `gorm:"not null" json:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
}
