package model

import "time"

type Reply struct {
	ReplyID   string    `json:"reply_id" gorm:"primaryKey;size:64"`
	PostID    string    `json:"post_id" gorm:"not null;size:64;index"`
	UserID    string    `json:"user_id" gorm:"not null;size:64"`
	UserName  string    `json:"user_name" gorm:"not null;size:64"`
	Message   string    `json:"message" gorm:"not null;size:500"`
	Image     string    `json:"image,omitempty" gorm:"size:255"`
	Status    string    `json:"status" gorm:"not null;default:proposed;size:16"`
	CreatedAt time.Time `json:"created_at"`
}
