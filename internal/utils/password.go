package utils

import "golang.org/x/crypto/bcrypt"

// bcrypt 工作因子，与线上历史数据保持一致，调整前需要考虑存量 hash
const passwordHashCost = 12

// HashPassword 生成加盐的 bcrypt hash，相同密码每次结果不同
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), passwordHashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CheckPassword 校验密码与 hash 是否匹配。
// hash 格式非法时一律返回 false（fail closed），比较本身是常数时间的。
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
