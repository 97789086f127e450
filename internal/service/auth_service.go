package service

import (
	"errors"
	"log"

	"github.com/kaz2018/agemas/internal/common"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/utils"
)

// Authenticate 按登录名验证口令。
// 用户不存在和密码错误返回同一条消息，避免用户名枚举；
// 停用账号即使密码正确也拒绝登录。
func (s *AuthService) Authenticate(name, password string) (*model.User, error) {
	user, err := s.store.GetUserByName(name)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, common.NewUnauthorizedError("用户名或密码错误")
		}
		log.Printf("查询用户失败: %v", err)
		return nil, common.NewInternalError("登录失败，请稍后重试")
	}

	if user.Status == consts.UserStatusSuspended {
		return nil, common.NewForbiddenError("该账号已被停用，请联系管理员")
	}

	if !utils.CheckPassword(password, user.PasswordHash) {
		return nil, common.NewUnauthorizedError("用户名或密码错误")
	}

	return user, nil
}
