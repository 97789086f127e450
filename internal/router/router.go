package router

import (
	"github.com/kaz2018/agemas/internal/handler"
	"github.com/kaz2018/agemas/internal/middleware"
	"github.com/kaz2018/agemas/internal/store"

	"github.com/gin-gonic/gin"
)

type Router struct {
	handler *handler.Handler
	store   store.Store
}

func NewRouter(h *handler.Handler, st store.Store) *Router {
	return &Router{
		handler: h,
		store:   st,
	}
}

func (rt *Router) Init(r *gin.Engine) {
	// 注册全局安全标头中间件
	r.Use(middleware.SecurityHeaders())

	api := r.Group("/api")

	// 认证限流：登录接口共用一个限流器实例
	authLimiter := middleware.AuthRateLimitMiddleware()

	registerAuthRoutes(api, authLimiter, rt.handler)
	registerPostRoutes(api, rt.handler, rt.store)
	registerAdminRoutes(api, rt.handler, rt.store)
}
