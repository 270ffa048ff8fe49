package util

import (
	"math"
	"strconv"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// Round2 保留两位小数
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
