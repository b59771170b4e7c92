package service

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var errNoJSON = errors.New("no json found in ai response")

// ExtractJSON 模型偶尔会在 JSON 外包一层说明或代码块，取出第一个完整的对象或数组
func ExtractJSON(content string) ([]byte, error) {
	s := strings.TrimSpace(content)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	s = strings.TrimSpace(s)

	if json.Valid([]byte(s)) {
		return []byte(s), nil
	}

	start := strings.IndexAny(s, "{[")
	if start < 0 {
		return nil, errNoJSON
	}
	closer := byte('}')
	if s[start] == '[' {
		closer = ']'
	}
	end := strings.LastIndexByte(s, closer)
	if end <= start {
		return nil, errNoJSON
	}

	candidate := []byte(s[start : end+1])
	if !json.Valid(candidate) {
		return nil, errNoJSON
	}
	return candidate, nil
}

func DecodeAIJSON(content string, out interface{}) error {
	raw, err := ExtractJSON(content)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

// FlexString 接受字符串、数字或字符串数组
type FlexString string

func (f *FlexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = ""
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*f = FlexString(s)
		return nil
	}

	var list FlexStrings
	if err := json.Unmarshal(b, &list); err == nil {
		*f = FlexString(strings.Join(list, ", "))
		return nil
	}

	*f = FlexString(b)
	return nil
}

// FlexStrings 接受字符串数组、单个字符串或对象数组
type FlexStrings []string

func (f *FlexStrings) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = nil
		return nil
	}

	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		if single == "" {
			*f = nil
		} else {
			*f = FlexStrings{single}
		}
		return nil
	}

	var items []json.RawMessage
	if err := json.Unmarshal(b, &items); err != nil {
		return fmt.Errorf("expected string list: %w", err)
	}

	out := make(FlexStrings, 0, len(items))
	for _, item := range items {
		if s := flattenItem(item); s != "" {
			out = append(out, s)
		}
	}
	*f = out
	return nil
}

func flattenItem(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}

	var obj map[string]interface{}
	if err := json.Unmarshal(raw, &obj); err == nil {
		for _, key := range []string{"name", "title", "task", "description", "url"} {
			if v, ok := obj[key].(string); ok && v != "" {
				return v
			}
		}
	}
	return string(bytes.TrimSpace(raw))
}

// FlexInt 接受数字或以数字开头的字符串（如 "10 hours"）
type FlexInt int

func (f *FlexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}

	var n float64
	if err := json.Unmarshal(b, &n); err == nil {
		*f = FlexInt(n)
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("expected number: %w", err)
	}
	digits := 0
	for digits < len(s) && s[digits] >= '0' && s[digits] <= '9' {
		digits++
	}
	if digits == 0 {
		*f = 0
		return nil
	}
	v, err := strconv.Atoi(s[:digits])
	if err != nil {
		return err
	}
	*f = FlexInt(v)
	return nil
}
