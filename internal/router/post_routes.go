package router

import (
	"github.com/kaz2018/agemas/internal/handler"
	"github.com/kaz2018/agemas/internal/middleware"
	"github.com/kaz2018/agemas/internal/store"

	"github.com/gin-gonic/gin"
)

func registerPostRoutes(api *gin.RouterGroup, h *handler.Handler, st store.Store) {
	posts := api.Group("/posts")
	posts.Use(middleware.JWTAuth())
	posts.Use(middleware.UserStatusCheck(st))

	posts.GET("", h.ListPosts)
	posts.GET("/:id", h.GetPostDetail)
	posts.POST("", middleware.UploadBodyLimitMiddleware(), h.CreatePost)

	posts.POST("/:id/replies", middleware.UploadBodyLimitMiddleware(), h.CreateReply)
	posts.POST("/:id/replies/:rid/accept", h.AcceptReply)

	posts.POST("/:id/complete", h.CompletePost)
	posts.POST("/:id/cancel", h.CancelPost)

	replies := api.Group("/replies")
	replies.Use(middleware.JWTAuth())
	replies.Use(middleware.UserStatusCheck(st))

	replies.POST("/:id/decline", h.DeclineReply)
}
