package handler

import (
	"net/http"

	"github.com/kaz2018/agemas/internal/common/httpx"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/middleware"
	"github.com/kaz2018/agemas/internal/store"

	"github.com/gin-gonic/gin"
)

// AdminCreateUser 管理员创建用户，系统不提供自助注册
func (h *Handler) AdminCreateUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	var req struct {
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required"`
		Role     string `json:"role"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	role := req.Role
	if role == "" {
		role = consts.RoleUser
	}

	userID, err := h.admin.CreateUser(actor.UserID, req.Name, req.Password, role)
	if err != nil {
		httpx.WriteServiceError(c, err, "创建用户失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"message": "用户创建成功",
	})
}

// AdminSuspendUser 停用用户。生效要穿透状态缓存，所以顺手清一次。
func (h *Handler) AdminSuspendUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	targetID := c.Param("id")
	if err := h.admin.SuspendUser(actor.UserID, targetID); err != nil {
		httpx.WriteServiceError(c, err, "操作失败，请稍后重试")
		return
	}
	middleware.ClearUserStatusCache(targetID)

	c.JSON(http.StatusOK, gin.H{"message": "用户已停用"})
}

// AdminUnsuspendUser 恢复被停用的用户
func (h *Handler) AdminUnsuspendUser(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	targetID := c.Param("id")
	if err := h.admin.UnsuspendUser(actor.UserID, targetID); err != nil {
		httpx.WriteServiceError(c, err, "操作失败，请稍后重试")
		return
	}
	middleware.ClearUserStatusCache(targetID)

	c.JSON(http.StatusOK, gin.H{"message": "用户已恢复"})
}

// AdminFindUser 管理员按用户名精确查找用户
func (h *Handler) AdminFindUser(c *gin.Context) {
	name := c.Query("name")
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	user, err := h.admin.FindUserByName(name)
	if err != nil {
		httpx.WriteServiceError(c, err, "查询用户失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": sanitizeUser(user)})
}

// AdminGetLogs 审计日志检索，可按操作者过滤
func (h *Handler) AdminGetLogs(c *gin.Context) {
	logs, err := h.admin.SearchLogs(store.LogFilter{
		UserID: c.Query("user_id"),
	})
	if err != nil {
		httpx.WriteServiceError(c, err, "获取审计日志失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"logs": logs})
}
