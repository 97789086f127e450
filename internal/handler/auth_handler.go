package handler

import (
	"net/http"
	"time"

	"github.com/kaz2018/agemas/internal/common/httpx"
	"github.com/kaz2018/agemas/internal/config"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/utils"

	"github.com/gin-gonic/gin"
)

func (h *Handler) Login(c *gin.Context) {
	var req struct {
		Name     string `json:"name" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	user, err := h.auth.Authenticate(req.Name, req.Password)
	if err != nil {
		httpx.WriteServiceError(c, err, "登录失败，请稍后重试")
		return
	}

	expiration := time.Duration(config.Get().JWT.ExpirationHours) * time.Hour
	token, err := utils.GenerateLoginToken(user.UserID, user.Name, user.Role == consts.RoleAdmin, expiration)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "登录失败，请稍后重试"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":   token,
		"user":    sanitizeUser(user),
		"message": "登录成功",
	})
}
