package consts

const (
	ApplicationName    = "Agemas Server"
	ApplicationVersion = "v1.0.0"
)

// 用户角色
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// 用户状态
const (
	UserStatusActive    = "active"
	UserStatusSuspended = "suspended"
)

// 投稿状态机：open -> decided -> completed，或 open -> cancelled
const (
	PostStatusOpen      = "open"
	PostStatusDecided   = "decided"
	PostStatusCompleted = "completed"
	PostStatusCancelled = "cancelled"
)

// 回复状态机：proposed -> accepted / declined
const (
	ReplyStatusProposed = "proposed"
	ReplyStatusAccepted = "accepted"
	ReplyStatusDeclined = "declined"
)

// 审计日志动作标签
const (
	ActionPostCreated     = "post_created"
	ActionReplyCreated    = "reply_created"
	ActionStatusChanged   = "status_changed"
	ActionPostCancelled   = "post_cancelled"
	ActionUserCreated     = "user_created"
	ActionUserSuspended   = "user_suspended"
	ActionUserUnsuspended = "user_unsuspended"
)

// 投稿分类（固定枚举，与站点前端保持一致）
var Categories = []string{"衣類", "子ども用品", "家具", "家電", "その他"}

func IsValidCategory(category string) bool {
	for _, c := range Categories {
		if c == category {
			return true
		}
	}
	return false
}

// 字段长度限制（按字符数而非字节数）
const (
	MaxTitleChars       = 100
	MaxDescriptionChars = 1000
	MaxMessageChars     = 500
	MaxNameChars        = 64
	MaxPostImages       = 3
	MinPasswordChars    = 8
)
