package storage

import (
	"context"
	"io"
)

// ImageStore 保存上传的图片并返回可供展示的引用（本地 URL 路径或对象存储 URL）。
// 不提供删除和列表操作；文件名由调用方生成（uuid + 原始扩展名），
// 同名写入视为错误，绝不静默覆盖。
type ImageStore interface {
	Save(ctx context.Context, r io.Reader, size int64, contentType, filename string) (string, error)
}
