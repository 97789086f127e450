package gormstore

import (
	"errors"
	"time"

	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStore 用关系型数据库实现与 json 文件后端相同的持久化契约
type GormStore struct {
	db *gorm.DB
}

var _ store.Store = (*GormStore)(nil)

func New(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func translateNotFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return store.ErrNotFound
	}
	return err
}

// --- 用户 ---

func (s *GormStore) GetUserByName(name string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("name = ?", name).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (s *GormStore) GetUserByID(userID string) (*model.User, error) {
	var user model.User
	if err := s.db.Where("user_id = ?", userID).First(&user).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &user, nil
}

func (s *GormStore) CreateUser(user *model.User) error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("name = ?", user.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return store.ErrDuplicateName
	}
	if user.UserID == "" {
		user.UserID = uuid.NewString()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	if user.Status == "" {
		user.Status = consts.UserStatusActive
	}
	return s.db.Create(user).Error
}

func (s *GormStore) UpdateUserStatus(userID, status string) error {
	result := s.db.Model(&model.User{}).Where("user_id = ?", userID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- 投稿 ---

func (s *GormStore) GetAllPosts() ([]model.Post, error) {
	var posts []model.Post
	if err := s.db.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *GormStore) GetPostByID(postID string) (*model.Post, error) {
	var post model.Post
	if err := s.db.Where("post_id = ?", postID).First(&post).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &post, nil
}

func (s *GormStore) CreatePost(post *model.Post) (string, error) {
	post.PostID = uuid.NewString()
	post.CreatedAt = time.Now()
	if post.Status == "" {
		post.Status = consts.PostStatusOpen
	}
	if err := s.db.Create(post).Error; err != nil {
		return "", err
	}
	return post.PostID, nil
}

func (s *GormStore) UpdatePostStatus(postID, status, decidedUserID string) error {
	updates := map[string]interface{}{"status": status}
	if decidedUserID != "" {
		updates["decided_user_id"] = decidedUserID
		updates["decided_at"] = time.Now()
	}
	result := s.db.Model(&model.Post{}).Where("post_id = ?", postID).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- 回复 ---

func (s *GormStore) GetRepliesByPostID(postID string) ([]model.Reply, error) {
	var replies []model.Reply
	if err := s.db.Where("post_id = ?", postID).Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

func (s *GormStore) GetReplyByID(replyID string) (*model.Reply, error) {
	var reply model.Reply
	if err := s.db.Where("reply_id = ?", replyID).First(&reply).Error; err != nil {
		return nil, translateNotFound(err)
	}
	return &reply, nil
}

func (s *GormStore) CreateReply(reply *model.Reply) (string, error) {
	reply.ReplyID = uuid.NewString()
	reply.CreatedAt = time.Now()
	if reply.Status == "" {
		reply.Status = consts.ReplyStatusProposed
	}
	if err := s.db.Create(reply).Error; err != nil {
		return "", err
	}
	return reply.ReplyID, nil
}

func (s *GormStore) UpdateReplyStatus(replyID, status string) error {
	result := s.db.Model(&model.Reply{}).Where("reply_id = ?", replyID).Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

// --- 接受回复（复合事务） ---

func (s *GormStore) AcceptReply(postID, replyID, actorUserID string) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Where("post_id = ?", postID).First(&post).Error; err != nil {
			return translateNotFound(err)
		}
		if post.Status != consts.PostStatusOpen {
			return store.ErrConflict
		}

		var reply model.Reply
		if err := tx.Where("reply_id = ?", replyID).First(&reply).Error; err != nil {
			return translateNotFound(err)
		}
		if reply.PostID != postID {
			return store.ErrNotFound
		}
		if reply.Status != consts.ReplyStatusProposed {
			return store.ErrConflict
		}

		now := time.Now()
		if err := tx.Model(&model.Reply{}).Where("reply_id = ?", replyID).
			Update("status", consts.ReplyStatusAccepted).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Post{}).Where("post_id = ?", postID).Updates(map[string]interface{}{
			"status":          consts.PostStatusDecided,
			"decided_user_id": reply.UserID,
			"decided_at":      now,
		}).Error; err != nil {
			return err
		}
		return tx.Create(&model.AuditLog{
			LogID:     uuid.NewString(),
			Action:    consts.ActionStatusChanged,
			UserID:    actorUserID,
			PostID:    postID,
			ReplyID:   replyID,
			Details:   map[string]string{"new_status": consts.PostStatusDecided},
			Timestamp: now,
		}).Error
	})
}

// --- 审计日志 ---

func (s *GormStore) LogAction(entry *model.AuditLog) (string, error) {
	if entry.LogID == "" {
		entry.LogID = uuid.NewString()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	if err := s.db.Create(entry).Error; err != nil {
		return "", err
	}
	return entry.LogID, nil
}

func (s *GormStore) GetLogs(filter store.LogFilter) ([]model.AuditLog, error) {
	query := s.db.Model(&model.AuditLog{}).Order("timestamp")
	if filter.UserID != "" {
		query = query.Where("user_id = ?", filter.UserID)
	}
	var logs []model.AuditLog
	if err := query.Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
