package router

import (
	"github.com/kaz2018/agemas/internal/handler"
	"github.com/kaz2018/agemas/internal/middleware"
	"github.com/kaz2018/agemas/internal/store"

	"github.com/gin-gonic/gin"
)

func registerAdminRoutes(api *gin.RouterGroup, h *handler.Handler, st store.Store) {
	adminGroup := api.Group("/admin")
	adminGroup.Use(middleware.JWTAuth())
	adminGroup.Use(middleware.UserStatusCheck(st))
	adminGroup.Use(middleware.AdminCheck())

	adminGroup.POST("/users", h.AdminCreateUser)
	adminGroup.GET("/users/find", h.AdminFindUser)
	adminGroup.POST("/users/:id/suspend", h.AdminSuspendUser)
	adminGroup.POST("/users/:id/unsuspend", h.AdminUnsuspendUser)

	adminGroup.GET("/logs", h.AdminGetLogs)
}
