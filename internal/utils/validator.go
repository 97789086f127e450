package utils

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/kaz2018/agemas/internal/consts"
)

// ValidatePostFields checks title/description/category/image count limits.
// Returns true if valid, otherwise false and an error message.
func ValidatePostFields(title, description, category string, imageCount int) (bool, string) {
	if strings.TrimSpace(title) == "" {
		return false, "标题不能为空"
	}
	if utf8.RuneCountInString(title) > consts.MaxTitleChars {
		return false, fmt.Sprintf("标题不能超过%d个字符", consts.MaxTitleChars)
	}
	if utf8.RuneCountInString(description) > consts.MaxDescriptionChars {
		return false, fmt.Sprintf("说明不能超过%d个字符", consts.MaxDescriptionChars)
	}
	if !consts.IsValidCategory(category) {
		return false, "无效的分类"
	}
	if imageCount > consts.MaxPostImages {
		return false, fmt.Sprintf("图片最多上传%d张", consts.MaxPostImages)
	}
	return true, ""
}

// ValidateReplyMessage checks the reply message length.
func ValidateReplyMessage(message string) (bool, string) {
	if strings.TrimSpace(message) == "" {
		return false, "留言不能为空"
	}
	if utf8.RuneCountInString(message) > consts.MaxMessageChars {
		return false, fmt.Sprintf("留言不能超过%d个字符", consts.MaxMessageChars)
	}
	return true, ""
}

// ValidateUserName checks if the user name meets the requirements.
// 登录名即实名，允许任意文字，只限制长度和首尾空白
func ValidateUserName(name string) (bool, string) {
	if name == "" || name != strings.TrimSpace(name) {
		return false, "用户名不能为空或首尾含空白"
	}
	if utf8.RuneCountInString(name) > consts.MaxNameChars {
		return false, fmt.Sprintf("用户名不能超过%d个字符", consts.MaxNameChars)
	}
	return true, ""
}

// ValidatePassword checks if the password meets the requirements.
func ValidatePassword(password string) (bool, string) {
	if utf8.RuneCountInString(password) < consts.MinPasswordChars {
		return false, fmt.Sprintf("密码最少%d位", consts.MinPasswordChars)
	}
	return true, ""
}

// ValidateImageContent checks if the file content matches the extension.
func ValidateImageContent(reader io.ReadSeeker, ext string) (bool, string) {
	buffer := make([]byte, 512)
	_, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return false, "读取文件内容失败"
	}

	// 重置读取位置
	if _, err := reader.Seek(0, 0); err != nil {
		return false, "重置文件读取位置失败"
	}

	contentType := http.DetectContentType(buffer)

	allowedTypes := map[string]map[string]bool{
		"image/jpeg": {".jpg": true, ".jpeg": true},
		"image/png":  {".png": true},
	}

	if exts, ok := allowedTypes[contentType]; ok {
		if exts[ext] {
			return true, ""
		}
	}

	return false, "文件真实类型(" + contentType + ")与扩展名(" + ext + ")不匹配或不支持"
}
