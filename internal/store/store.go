package store

import (
	"errors"

	"github.com/kaz2018/agemas/internal/model"
)

var (
	// ErrNotFound 目标记录不存在
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateName 用户名已被占用
	ErrDuplicateName = errors.New("name already exists")
	// ErrConflict 记录状态不允许该操作（如对非 open 投稿执行接受）
	ErrConflict = errors.New("status conflict")
)

// LogFilter 审计日志查询条件，目前仅支持按操作者精确匹配
type LogFilter struct {
	UserID string
}

// Store 是持久化层的统一契约，json 文件后端与关系型数据库后端
// 必须保持完全一致的语义：
//   - 创建类操作由后端分配 ID 与 created_at，状态缺省时填默认值
//   - 写入无法确认成功时必须返回错误，绝不虚报成功
type Store interface {
	GetUserByName(name string) (*model.User, error)
	GetUserByID(userID string) (*model.User, error)
	// CreateUser 在用户名已存在时返回 ErrDuplicateName
	CreateUser(user *model.User) error
	UpdateUserStatus(userID, status string) error

	GetAllPosts() ([]model.Post, error)
	GetPostByID(postID string) (*model.Post, error)
	CreatePost(post *model.Post) (string, error)
	// UpdatePostStatus 当 decidedUserID 非空时同时写入 decided_user_id 与 decided_at
	UpdatePostStatus(postID, status, decidedUserID string) error

	GetRepliesByPostID(postID string) ([]model.Reply, error)
	GetReplyByID(replyID string) (*model.Reply, error)
	CreateReply(reply *model.Reply) (string, error)
	UpdateReplyStatus(replyID, status string) error

	// AcceptReply 原子地执行三个写入：回复置为 accepted、投稿置为 decided
	// （记录 decided_user_id / decided_at）、追加一条 status_changed 审计日志。
	// 要么全部生效，要么全部不生效。投稿非 open 或回复非 proposed 时返回
	// ErrConflict，由此保证每个投稿最多只有一条 accepted 回复。
	AcceptReply(postID, replyID, actorUserID string) error

	LogAction(entry *model.AuditLog) (string, error)
	GetLogs(filter LogFilter) ([]model.AuditLog, error)
}
