package handler

import (
	"net/http"

	"github.com/kaz2018/agemas/internal/common/httpx"

	"github.com/gin-gonic/gin"
)

// CreateReply 对募集中的投稿发表回复，可附带一张图片
func (h *Handler) CreateReply(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	message := c.PostForm("message")

	imageRef := ""
	if file, err := c.FormFile("image"); err == nil && file != nil {
		ref, err := h.saveUploadedImage(c, file)
		if err != nil {
			httpx.WriteServiceError(c, err, "保存图片失败")
			return
		}
		imageRef = ref
	}

	replyID, err := h.posts.CreateReply(c.Param("id"), actor, message, imageRef)
	if err != nil {
		httpx.WriteServiceError(c, err, "回复失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reply_id": replyID,
		"message":  "回复成功",
	})
}

// AcceptReply 投稿者接受一条回复，投稿随之进入已决定状态
func (h *Handler) AcceptReply(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	if err := h.posts.AcceptReply(c.Param("id"), c.Param("rid"), actor); err != nil {
		httpx.WriteServiceError(c, err, "操作失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已接受该回复"})
}

// DeclineReply 投稿者婉拒一条回复，投稿保持募集中
func (h *Handler) DeclineReply(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	if err := h.posts.DeclineReply(c.Param("id"), actor); err != nil {
		httpx.WriteServiceError(c, err, "操作失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "已婉拒该回复"})
}
