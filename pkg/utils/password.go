package utils

import (
	"crypto/rand"
	"math/big"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword 按给定 cost 做 bcrypt（cost<=0 时取默认 12）
func HashPassword(pw string, cost int) (string, error) {
	if cost <= 0 {
		cost = 12
	}
	b, err := bcrypt.GenerateFromPassword([]byte(pw), cost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func CheckPassword(pw, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(pw)) == nil
}

// ValidPassword 复杂度要求：>=8 位且含大写、小写、数字
func ValidPassword(pw string) bool {
	if len(pw) < 8 {
		return false
	}
	var upper, lower, digit bool
	for _, r := range pw {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return upper && lower && digit
}

const tempPasswordChars = "ABCDEFGHJKLMNPQRSTUVWXYZabcdefghjkmnpqrstuvwxyz23456789"

// TempPassword 生成一次性临时密码（满足复杂度要求）
func TempPassword(n int) string {
	if n < 8 {
		n = 12
	}
	buf := make([]byte, n)
	for i := range buf {
		idx, _ := rand.Int(rand.Reader, big.NewInt(int64(len(tempPasswordChars))))
		buf[i] = tempPasswordChars[idx.Int64()]
	}
	// 强制保底：首三位固定覆盖大写/小写/数字
	buf[0] = 'A' + byte(randN(26))
	buf[1] = 'a' + byte(randN(26))
	buf[2] = '2' + byte(randN(8))
	return string(buf)
}

func randN(n int64) int64 {
	v, _ := rand.Int(rand.Reader, big.NewInt(n))
	return v.Int64()
}
