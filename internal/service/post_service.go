package service

import (
	"errors"
	"log"
	"sort"
	"strings"

	"github.com/kaz2018/agemas/internal/common"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/utils"
)

// PostFilter 投稿列表的查询条件
type PostFilter struct {
	Status   string
	Category string
	Query    string // 对标题和说明做子串匹配（大小写不敏感）
}

// 操作者身份，由 JWT 中间件从登录态解出后显式传入
type Actor struct {
	UserID string
	Name   string
}

func (s *PostService) CreatePost(actor Actor, title, description, category string, images []string) (string, error) {
	if valid, msg := utils.ValidatePostFields(title, description, category, len(images)); !valid {
		return "", common.NewValidationError(msg)
	}

	post := &model.Post{
		UserID:      actor.UserID,
		UserName:    actor.Name,
		Title:       title,
		Description: description,
		Category:    category,
		Images:      images,
		Status:      consts.PostStatusOpen,
	}
	postID, err := s.store.CreatePost(post)
	if err != nil {
		log.Printf("创建投稿失败: %v", err)
		return "", common.NewInternalError("投稿失败，请稍后重试")
	}

	s.logAction(consts.ActionPostCreated, actor.UserID, postID, "", map[string]string{"title": title})
	return postID, nil
}

func (s *PostService) ListPosts(filter PostFilter) ([]model.Post, error) {
	posts, err := s.store.GetAllPosts()
	if err != nil {
		log.Printf("读取投稿列表失败: %v", err)
		return nil, common.NewInternalError("获取投稿列表失败")
	}

	query := strings.ToLower(strings.TrimSpace(filter.Query))
	filtered := make([]model.Post, 0, len(posts))
	for _, p := range posts {
		if filter.Status != "" && p.Status != filter.Status {
			continue
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if query != "" &&
			!strings.Contains(strings.ToLower(p.Title), query) &&
			!strings.Contains(strings.ToLower(p.Description), query) {
			continue
		}
		filtered = append(filtered, p)
	}

	// 新投稿在前
	sort.SliceStable(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.After(filtered[j].CreatedAt)
	})
	return filtered, nil
}

// GetPostDetail 返回投稿和按时间正序排列的回复串
func (s *PostService) GetPostDetail(postID string) (*model.Post, []model.Reply, error) {
	post, err := s.store.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, nil, common.NewNotFoundError("投稿不存在")
		}
		log.Printf("读取投稿失败: %v", err)
		return nil, nil, common.NewInternalError("获取投稿详情失败")
	}

	replies, err := s.store.GetRepliesByPostID(postID)
	if err != nil {
		log.Printf("读取回复失败: %v", err)
		return nil, nil, common.NewInternalError("获取投稿详情失败")
	}
	sort.SliceStable(replies, func(i, j int) bool {
		return replies[i].CreatedAt.Before(replies[j].CreatedAt)
	})
	return post, replies, nil
}

func (s *PostService) CreateReply(postID string, actor Actor, message, imageRef string) (string, error) {
	if valid, msg := utils.ValidateReplyMessage(message); !valid {
		return "", common.NewValidationError(msg)
	}

	post, err := s.store.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", common.NewNotFoundError("投稿不存在")
		}
		log.Printf("读取投稿失败: %v", err)
		return "", common.NewInternalError("回复失败，请稍后重试")
	}
	if post.Status != consts.PostStatusOpen {
		return "", common.NewConflictError("该投稿已停止募集")
	}

	reply := &model.Reply{
		PostID:   postID,
		UserID:   actor.UserID,
		UserName: actor.Name,
		Message:  message,
		Image:    imageRef,
		Status:   consts.ReplyStatusProposed,
	}
	replyID, err := s.store.CreateReply(reply)
	if err != nil {
		log.Printf("创建回复失败: %v", err)
		return "", common.NewInternalError("回复失败，请稍后重试")
	}

	s.logAction(consts.ActionReplyCreated, actor.UserID, postID, replyID, map[string]string{"message": message})
	return replyID, nil
}

// AcceptReply 投稿者接受一条回复：回复 accepted、投稿 decided、写一条审计日志。
// 三个写入由持久化层一次性提交（见 store.Store.AcceptReply）。
func (s *PostService) AcceptReply(postID, replyID string, actor Actor) error {
	post, err := s.loadOwnedPost(postID, actor)
	if err != nil {
		return err
	}
	if post.Status != consts.PostStatusOpen {
		return common.NewConflictError("该投稿已不在募集中")
	}

	reply, err := s.store.GetReplyByID(replyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return common.NewNotFoundError("回复不存在")
		}
		log.Printf("读取回复失败: %v", err)
		return common.NewInternalError("操作失败，请稍后重试")
	}
	if reply.PostID != postID {
		return common.NewNotFoundError("回复不存在")
	}
	if reply.Status != consts.ReplyStatusProposed {
		return common.NewConflictError("该回复已被处理")
	}

	if err := s.store.AcceptReply(postID, replyID, actor.UserID); err != nil {
		switch {
		case errors.Is(err, store.ErrConflict):
			return common.NewConflictError("该投稿已不在募集中")
		case errors.Is(err, store.ErrNotFound):
			return common.NewNotFoundError("回复不存在")
		default:
			log.Printf("接受回复失败: %v", err)
			return common.NewInternalError("操作失败，请稍后重试")
		}
	}
	return nil
}

// DeclineReply 只改回复状态，不影响投稿本身
func (s *PostService) DeclineReply(replyID string, actor Actor) error {
	reply, err := s.store.GetReplyByID(replyID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return common.NewNotFoundError("回复不存在")
		}
		log.Printf("读取回复失败: %v", err)
		return common.NewInternalError("操作失败，请稍后重试")
	}

	if _, err := s.loadOwnedPost(reply.PostID, actor); err != nil {
		return err
	}
	if reply.Status != consts.ReplyStatusProposed {
		return common.NewConflictError("该回复已被处理")
	}

	if err := s.store.UpdateReplyStatus(replyID, consts.ReplyStatusDeclined); err != nil {
		log.Printf("更新回复状态失败: %v", err)
		return common.NewInternalError("操作失败，请稍后重试")
	}
	return nil
}

func (s *PostService) CompletePost(postID string, actor Actor) error {
	post, err := s.loadOwnedPost(postID, actor)
	if err != nil {
		return err
	}
	if post.Status != consts.PostStatusDecided {
		return common.NewConflictError("只有已决定的投稿才能标记完成")
	}

	if err := s.store.UpdatePostStatus(postID, consts.PostStatusCompleted, ""); err != nil {
		log.Printf("更新投稿状态失败: %v", err)
		return common.NewInternalError("操作失败，请稍后重试")
	}
	s.logAction(consts.ActionStatusChanged, actor.UserID, postID, "", map[string]string{"new_status": consts.PostStatusCompleted})
	return nil
}

func (s *PostService) CancelPost(postID string, actor Actor) error {
	post, err := s.loadOwnedPost(postID, actor)
	if err != nil {
		return err
	}
	if post.Status != consts.PostStatusOpen {
		return common.NewConflictError("只有募集中的投稿才能取消")
	}

	if err := s.store.UpdatePostStatus(postID, consts.PostStatusCancelled, ""); err != nil {
		log.Printf("更新投稿状态失败: %v", err)
		return common.NewInternalError("操作失败，请稍后重试")
	}
	s.logAction(consts.ActionPostCancelled, actor.UserID, postID, "", map[string]string{})
	return nil
}

// loadOwnedPost 读取投稿并校验操作者就是投稿者本人，
// 授权校验必须发生在任何写入之前
func (s *PostService) loadOwnedPost(postID string, actor Actor) (*model.Post, error) {
	post, err := s.store.GetPostByID(postID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, common.NewNotFoundError("投稿不存在")
		}
		log.Printf("读取投稿失败: %v", err)
		return nil, common.NewInternalError("操作失败，请稍后重试")
	}
	if post.UserID != actor.UserID {
		return nil, common.NewForbiddenError("只有投稿者本人才能执行该操作")
	}
	return post, nil
}

// 审计日志写入失败不阻断主流程，只记录错误
func (s *PostService) logAction(action, userID, postID, replyID string, details map[string]string) {
	if _, err := s.store.LogAction(&model.AuditLog{
		Action:  action,
		UserID:  userID,
		PostID:  postID,
		ReplyID: replyID,
		Details: details,
	}); err != nil {
		log.Printf("写入审计日志失败 (action=%s): %v", action, err)
	}
}
