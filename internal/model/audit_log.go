package model

import "time"

// AuditLog 只追加，不修改、不删除。
type AuditLog struct {
	LogID     string            `json:"log_id" gorm:"primaryKey;size:64"`
	Action    string            `json:"action" gorm:"not null;size:64;index"`
	UserID    string            `json:"user_id,omitempty" gorm:"size:64;index"`
	PostID    string            `json:"post_id,omitempty" gorm:"size:64;index"`
	ReplyID   string            `json:"reply_id,omitempty" gorm:"size:64"`
	Details   map[string]string `json:"details" gorm:"serializer:json;type:text"`
	Timestamp time.Time         `json:"timestamp" gorm:"index"`
}
