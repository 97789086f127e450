package model

import "time"

type Post struct {
	PostID      string   `json:"post_id" gorm:"primaryKey;size:64"`
	UserID      string   `json:"user_id" gorm:"not null;size:64;index"`
	UserName    string   `json:"user_name" gorm:"not null;size:64"`
	Title       string   `json:"title" gorm:"not null;size:100"`
	Description string   `json:"description" gorm:"size:1000"`
	Category    string   `json:"category" gorm:"not null;size:32;index"`
	Images      []string `json:"images" gorm:"serializer:json;type:text"`
	Status      string   `json:"status" gorm:"not null;default:open;size:16;index"`
	// 只在接受某条回复后填充
	DecidedUserID string     `json:"decided_user_id,omitempty" gorm:"size:64"`
	DecidedAt     *time.Time `json:"decided_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at" gorm:"index"`
}
