// Package seed 负责初始化演示数据，用于第一次启动或本地开发
package seed

import (
	"errors"
	"fmt"
	"log"

	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/utils"
)

type seedUser struct {
	name     string
	password string
	role     string
}

var seedUsers = []seedUser{
	{name: "admin", password: "admin123", role: consts.RoleAdmin},
	{name: "田中花子", password: "password123", role: consts.RoleUser},
	{name: "佐藤太郎", password: "password123", role: consts.RoleUser},
}

// Run 写入演示账号和示例投稿。幂等：已存在的用户跳过，已有投稿时不再造示例。
func Run(st store.Store) error {
	users := make(map[string]*model.User, len(seedUsers))

	for _, su := range seedUsers {
		existing, err := st.GetUserByName(su.name)
		if err == nil {
			users[su.name] = existing
			continue
		}
		if !errors.Is(err, store.ErrNotFound) {
			return fmt.Errorf("查询用户 %s 失败: %w", su.name, err)
		}

		hash, err := utils.HashPassword(su.password)
		if err != nil {
			return fmt.Errorf("密码哈希失败: %w", err)
		}

		user := &model.User{
			Name:         su.name,
			Role:         su.role,
			PasswordHash: hash,
			Status:       consts.UserStatusActive,
		}
		if err := st.CreateUser(user); err != nil {
			return fmt.Errorf("创建用户 %s 失败: %w", su.name, err)
		}
		users[su.name] = user
		log.Printf("✅ 已创建演示用户: %s (%s)", su.name, su.role)
	}

	posts, err := st.GetAllPosts()
	if err != nil {
		return fmt.Errorf("读取投稿失败: %w", err)
	}
	if len(posts) > 0 {
		return nil
	}

	hanako := users["田中花子"]
	taro := users["佐藤太郎"]

	post := &model.Post{
		UserID:      hanako.UserID,
		UserName:    hanako.Name,
		Title:       "冬服セット（90-100cm）お譲りします",
		Description: "子どもが大きくなって着られなくなった冬服のセットです。トレーナー3枚、ズボン2本、アウター1枚。目立った汚れはありません。",
		Category:    "子ども用品",
		Images:      []string{},
		Status:      consts.PostStatusOpen,
	}
	postID, err := st.CreatePost(post)
	if err != nil {
		return fmt.Errorf("创建示例投稿失败: %w", err)
	}

	reply := &model.Reply{
		PostID:   postID,
		UserID:   taro.UserID,
		UserName: taro.Name,
		Message:  "欲しいです！ちょうど同じサイズの子どもがいます。",
		Status:   consts.ReplyStatusProposed,
	}
	if _, err := st.CreateReply(reply); err != nil {
		return fmt.Errorf("创建示例回复失败: %w", err)
	}

	log.Printf("✅ 已写入示例投稿: %s", post.Title)
	return nil
}
