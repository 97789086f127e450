package service

import (
	"errors"
	"log"
	"sort"

	"github.com/kaz2018/agemas/internal/common"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/utils"
)

// CreateUser 管理员创建账号，用户名全局唯一
func (s *AdminService) CreateUser(actorID, name, password, role string) (string, error) {
	if valid, msg := utils.ValidateUserName(name); !valid {
		return "", common.NewValidationError(msg)
	}
	if valid, msg := utils.ValidatePassword(password); !valid {
		return "", common.NewValidationError(msg)
	}
	if role != consts.RoleUser && role != consts.RoleAdmin {
		return "", common.NewValidationError("无效的用户角色")
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		log.Printf("密码哈希失败: %v", err)
		return "", common.NewInternalError("创建用户失败，请稍后重试")
	}

	user := &model.User{
		Name:         name,
		Role:         role,
		PasswordHash: hash,
		Status:       consts.UserStatusActive,
	}
	if err := s.store.CreateUser(user); err != nil {
		if errors.Is(err, store.ErrDuplicateName) {
			return "", common.NewConflictError("用户名已存在")
		}
		log.Printf("创建用户失败: %v", err)
		return "", common.NewInternalError("创建用户失败，请稍后重试")
	}

	s.logAction(consts.ActionUserCreated, actorID, map[string]string{"name": name, "role": role})
	return user.UserID, nil
}

func (s *AdminService) SuspendUser(actorID, targetID string) error {
	if actorID == targetID {
		return common.NewValidationError("不能停用自己的账号")
	}
	if err := s.setUserStatus(targetID, consts.UserStatusSuspended); err != nil {
		return err
	}
	s.logAction(consts.ActionUserSuspended, actorID, map[string]string{"target_user": targetID})
	return nil
}

func (s *AdminService) UnsuspendUser(actorID, targetID string) error {
	if err := s.setUserStatus(targetID, consts.UserStatusActive); err != nil {
		return err
	}
	s.logAction(consts.ActionUserUnsuspended, actorID, map[string]string{"target_user": targetID})
	return nil
}

func (s *AdminService) setUserStatus(targetID, status string) error {
	if err := s.store.UpdateUserStatus(targetID, status); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return common.NewNotFoundError("用户不存在")
		}
		log.Printf("更新用户状态失败: %v", err)
		return common.NewInternalError("操作失败，请稍后重试")
	}
	return nil
}

func (s *AdminService) FindUserByName(name string) (*model.User, error) {
	user, err := s.store.GetUserByName(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, common.NewNotFoundError("用户不存在")
		}
		log.Printf("查询用户失败: %v", err)
		return nil, common.NewInternalError("查询用户失败")
	}
	return user, nil
}

// SearchLogs 按条件检索审计日志，最新的排在前面
func (s *AdminService) SearchLogs(filter store.LogFilter) ([]model.AuditLog, error) {
	logs, err := s.store.GetLogs(filter)
	if err != nil {
		log.Printf("读取审计日志失败: %v", err)
		return nil, common.NewInternalError("获取审计日志失败")
	}
	sort.SliceStable(logs, func(i, j int) bool {
		return logs[i].Timestamp.After(logs[j].Timestamp)
	})
	return logs, nil
}

func (s *AdminService) logAction(action, actorID string, details map[string]string) {
	if _, err := s.store.LogAction(&model.AuditLog{
		Action:  action,
		UserID:  actorID,
		Details: details,
	}); err != nil {
		log.Printf("写入审计日志失败 (action=%s): %v", action, err)
	}
}
