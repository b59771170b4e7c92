package util

import (
	"strconv"
	"strings"
	"unicode"
)

// MustParseUint 将字符串转换为无符号整数，解析失败时返回 0
func MustParseUint(s string) uint {
	id, _ := strconv.ParseUint(s, 10, 32)
	return uint(id)
}

// ParseLimit 解析分页条数，非法时返回 def，超过 maxLimit 截断
func ParseLimit(s string, def, maxLimit int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n <= 0 {
		return def
	}
	return min(n, maxLimit)
}

// TitleCase 每个单词首字母大写，连字符视为分隔
func TitleCase(s string) string {
	upper := true
	var b strings.Builder
	for _, r := range s {
		if upper {
			b.WriteRune(unicode.ToUpper(r))
		} else {
			b.WriteRune(unicode.ToLower(r))
		}
		upper = !unicode.IsLetter(r) && !unicode.IsDigit(r)
	}
	return b.String()
}
