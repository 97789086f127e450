package model

import "time"

type User struct {
	UserID       string    `json:"user_id" gorm:"primaryKey;size:64"`
	Name         string    `json:"name" gorm:"unique;not null;size:64"`
	Role         string    `json:"role" gorm:"not null;default:user;size:16"`
	PasswordHash string    `json:"password_hash" gorm:"not null"`
	Status       string    `json:"status" gorm:"not null;default:active;size:16"`
	CreatedAt    time.Time `json:"created_at"`
}
