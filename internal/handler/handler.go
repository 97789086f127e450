package handler

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/kaz2018/agemas/internal/common"
	"github.com/kaz2018/agemas/internal/model"
	"github.com/kaz2018/agemas/internal/service"
	"github.com/kaz2018/agemas/internal/storage"
	"github.com/kaz2018/agemas/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type Handler struct {
	auth   *service.AuthService
	posts  *service.PostService
	admin  *service.AdminService
	images storage.ImageStore
}

func NewHandler(auth *service.AuthService, posts *service.PostService, admin *service.AdminService, images storage.ImageStore) *Handler {
	return &Handler{
		auth:   auth,
		posts:  posts,
		admin:  admin,
		images: images,
	}
}

// actorFromContext 从 JWT 中间件写入的上下文取出操作者身份
func actorFromContext(c *gin.Context) (service.Actor, bool) {
	idVal, exists := c.Get("id")
	if !exists {
		return service.Actor{}, false
	}
	id, ok := idVal.(string)
	if !ok || id == "" {
		return service.Actor{}, false
	}

	name := ""
	if nameVal, exists := c.Get("name"); exists {
		name, _ = nameVal.(string)
	}
	return service.Actor{UserID: id, Name: name}, true
}

// saveUploadedImage 校验并保存一个 multipart 图片文件，返回可访问的图片引用
func (h *Handler) saveUploadedImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if ext != ".jpg" && ext != ".jpeg" && ext != ".png" {
		return "", common.NewValidationError("仅支持 jpg/jpeg/png 格式的图片")
	}

	src, err := file.Open()
	if err != nil {
		return "", common.NewInternalError("读取上传文件失败")
	}
	defer src.Close()

	if valid, msg := utils.ValidateImageContent(src, ext); !valid {
		return "", common.NewValidationError(msg)
	}

	filename := fmt.Sprintf("%s%s", uuid.NewString(), ext)
	contentType := file.Header.Get("Content-Type")
	ref, err := h.images.Save(c.Request.Context(), src, file.Size, contentType, filename)
	if err != nil {
		return "", common.NewInternalError("保存图片失败")
	}
	return ref, nil
}

// sanitizeUser 去掉密码哈希后返回可对外的用户对象
func sanitizeUser(u *model.User) gin.H {
	return gin.H{
		"user_id":    u.UserID,
		"name":       u.Name,
		"role":       u.Role,
		"status":     u.Status,
		"created_at": u.CreatedAt,
	}
}
