package middleware

import (
	"github.com/gin-gonic/gin"
)

// StaticCacheMiddleware 为图片等静态资源添加 Cache-Control 头。
// 图片文件名是随机 UUID，内容不会变化，可以放心长缓存。
func StaticCacheMiddleware(cacheControl string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if cacheControl != "" {
			c.Header("Cache-Control", cacheControl)
		}
		c.Next()
	}
}
