package roomcode

import (
	gonanoid "github.com/matoous/go-nanoid/v2"
)

const (
	alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

	// Length 房间码长度
	Length = 5
)

// New 生成一个房间码. gonanoid 底层使用 crypto/rand.
// 字母表与长度都是常量, MustGenerate 不会失败.
func New() string {
	return gonanoid.MustGenerate(alphabet, Length)
}

// NewUnique 生成不与现有房间冲突的房间码, 冲突时重采样.
func NewUnique(taken func(code string) bool) string {
	for {
		code := New()
		if taken == nil || !taken(code) {
			return code
		}
	}
}

// Valid 校验房间码格式.
func Valid(code string) bool {
	if len(code) != Length {
		return false
	}
	for _, c := range code {
		ok := (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
		if !ok {
			return false
		}
	}
	return true
}
