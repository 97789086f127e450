package middleware

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/service"
	"github.com/kaz2018/agemas/internal/store"
	"github.com/kaz2018/agemas/internal/utils"

	"github.com/gin-gonic/gin"
)

var (
	// statusCache 缓存用户状态，减少存储层查询
	// Key: userID (string), Value: cachedStatus
	statusCache sync.Map
)

const statusCacheTTL = 1 * time.Minute

type cachedStatus struct {
	Status    string
	ExpiresAt time.Time
}

// ClearUserStatusCache 清除指定用户的状态缓存
func ClearUserStatusCache(userID string) {
	statusCache.Delete(userID)

	if redisClient := service.GetRedisClient(); redisClient != nil {
		ctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		key := service.RedisKey("auth", "user_status", userID)
		_ = redisClient.Del(ctx, key).Err()
	}
}

func JWTAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		// 获取请求头 Authorization
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "需要认证才能访问"})
			c.Abort()
			return
		}

		// 检查格式是否为 "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 格式错误"})
			c.Abort()
			return
		}

		// 解析 Token
		claims, err := utils.ParseLoginToken(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token 无效或已过期"})
			c.Abort()
			return
		}

		c.Set("id", claims.UserID)
		c.Set("name", claims.Name)
		c.Set("admin", claims.Admin)
		c.Next()
	}
}

// UserStatusCheck 检查用户是否已被停用。
// Token 在停用后仍在有效期内，所以每个请求都要确认一次当前状态。
func UserStatusCheck(st store.Store) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, exists := c.Get("id")
		if !exists {
			// 上下文中没有 id 说明 JWT 中间件未执行或顺序不对
			c.JSON(http.StatusUnauthorized, gin.H{"error": "未获取到用户信息"})
			c.Abort()
			return
		}

		uid, ok := userID.(string)
		if !ok || uid == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "无效的用户ID类型"})
			c.Abort()
			return
		}

		var (
			currentStatus string
			statusFound   bool
		)

		// 优先从 Redis 读取
		if redisClient := service.GetRedisClient(); redisClient != nil {
			ctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()

			key := service.RedisKey("auth", "user_status", uid)
			cachedStatusStr, err := redisClient.Get(ctx, key).Result()
			if err == nil && cachedStatusStr != "" {
				currentStatus = cachedStatusStr
				statusFound = true
				statusCache.Store(uid, cachedStatus{
					Status:    currentStatus,
					ExpiresAt: time.Now().Add(statusCacheTTL),
				})
			}
		}

		// Redis 未命中或不可用时，回退本地内存缓存
		if !statusFound {
			if val, ok := statusCache.Load(uid); ok {
				cached, typeOk := val.(cachedStatus)
				if typeOk {
					if time.Now().Before(cached.ExpiresAt) {
						currentStatus = cached.Status
						statusFound = true
					} else {
						statusCache.Delete(uid)
					}
				}
			}
		}

		// 缓存未命中或过期时查询存储层
		if !statusFound {
			user, err := st.GetUserByID(uid)
			if err != nil {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "用户不存在"})
				c.Abort()
				return
			}
			currentStatus = user.Status

			// 写入缓存
			statusCache.Store(uid, cachedStatus{
				Status:    currentStatus,
				ExpiresAt: time.Now().Add(statusCacheTTL),
			})

			if redisClient := service.GetRedisClient(); redisClient != nil {
				ctx, cancel := context.WithTimeout(context.Background(), time.Second)
				defer cancel()

				key := service.RedisKey("auth", "user_status", uid)
				_ = redisClient.Set(ctx, key, currentStatus, statusCacheTTL).Err()
			}
		}

		if currentStatus == consts.UserStatusSuspended {
			c.JSON(http.StatusForbidden, gin.H{"error": "账号已被停用"})
			c.Abort()
			return
		}

		c.Next()
	}
}

func AdminCheck() gin.HandlerFunc {
	return func(c *gin.Context) {
		value, exist := c.Get("admin")
		isAdmin, ok := value.(bool)
		if !exist || !ok || !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "需要管理员权限才能访问"})
			c.Abort()
			return
		}
		c.Next()
	}
}
