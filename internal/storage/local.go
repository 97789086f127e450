package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore 把图片平铺保存到本地目录，返回 urlPrefix + 文件名
type LocalStore struct {
	dir       string
	urlPrefix string
}

var _ ImageStore = (*LocalStore)(nil)

func NewLocalStore(dir, urlPrefix string) (*LocalStore, error) {
	if strings.TrimSpace(dir) == "" {
		return nil, fmt.Errorf("图片存储目录不能为空")
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("创建图片存储目录失败: %w", err)
	}
	if !strings.HasSuffix(urlPrefix, "/") {
		urlPrefix += "/"
	}
	return &LocalStore{dir: dir, urlPrefix: urlPrefix}, nil
}

func (s *LocalStore) Save(_ context.Context, r io.Reader, _ int64, _ string, filename string) (string, error) {
	// 只取文件名部分，防止路径穿越
	filename = filepath.Base(filename)
	dst := filepath.Join(s.dir, filename)

	// O_EXCL：同名文件已存在时报错而不是覆盖
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0644)
	if err != nil {
		if os.IsExist(err) {
			return "", fmt.Errorf("文件 %s 已存在", filename)
		}
		return "", fmt.Errorf("创建文件失败: %w", err)
	}
	defer func() { _ = out.Close() }()

	if _, err := io.Copy(out, r); err != nil {
		_ = os.Remove(dst)
		return "", fmt.Errorf("文件保存失败: %w", err)
	}
	return s.urlPrefix + filename, nil
}

// Dir 返回本地存储根目录（用于静态文件服务）
func (s *LocalStore) Dir() string {
	return s.dir
}
