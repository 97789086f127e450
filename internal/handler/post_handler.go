package handler

import (
	"net/http"

	"github.com/kaz2018/agemas/internal/common/httpx"
	"github.com/kaz2018/agemas/internal/consts"
	"github.com/kaz2018/agemas/internal/service"

	"github.com/gin-gonic/gin"
)

// ListPosts 投稿一览，支持状态/分类/关键字过滤
func (h *Handler) ListPosts(c *gin.Context) {
	filter := service.PostFilter{
		Status:   c.Query("status"),
		Category: c.Query("category"),
		Query:    c.Query("q"),
	}

	posts, err := h.posts.ListPosts(filter)
	if err != nil {
		httpx.WriteServiceError(c, err, "获取投稿列表失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{"posts": posts})
}

// GetPostDetail 投稿详情和全部回复
func (h *Handler) GetPostDetail(c *gin.Context) {
	post, replies, err := h.posts.GetPostDetail(c.Param("id"))
	if err != nil {
		httpx.WriteServiceError(c, err, "获取投稿详情失败")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post":    post,
		"replies": replies,
	})
}

// CreatePost 新建投稿，multipart 表单，最多 3 张图片
func (h *Handler) CreatePost(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	title := c.PostForm("title")
	description := c.PostForm("description")
	category := c.PostForm("category")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "参数错误"})
		return
	}

	files := form.File["images"]
	if len(files) > consts.MaxPostImages {
		c.JSON(http.StatusBadRequest, gin.H{"error": "图片最多只能上传3张"})
		return
	}

	images := make([]string, 0, len(files))
	for _, file := range files {
		ref, err := h.saveUploadedImage(c, file)
		if err != nil {
			httpx.WriteServiceError(c, err, "保存图片失败")
			return
		}
		images = append(images, ref)
	}

	postID, err := h.posts.CreatePost(actor, title, description, category, images)
	if err != nil {
		httpx.WriteServiceError(c, err, "投稿失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"post_id": postID,
		"message": "投稿成功",
	})
}

// CompletePost 投稿者将已决定的投稿标记为完成
func (h *Handler) CompletePost(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	if err := h.posts.CompletePost(c.Param("id"), actor); err != nil {
		httpx.WriteServiceError(c, err, "操作失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "投稿已标记为完成"})
}

// CancelPost 投稿者取消募集中的投稿
func (h *Handler) CancelPost(c *gin.Context) {
	actor, ok := actorFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "获取用户信息失败"})
		return
	}

	if err := h.posts.CancelPost(c.Param("id"), actor); err != nil {
		httpx.WriteServiceError(c, err, "操作失败，请稍后重试")
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "投稿已取消"})
}
