package router

import (
	"github.com/kaz2018/agemas/internal/handler"

	"github.com/gin-gonic/gin"
)

func registerAuthRoutes(api *gin.RouterGroup, authLimiter gin.HandlerFunc, h *handler.Handler) {
	api.POST("/login", authLimiter, h.Login)
}
