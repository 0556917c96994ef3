package validation

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
)

// NormalizeCategory 去除首尾空白并转大写，幂等。
func NormalizeCategory(category string) string {
	return strings.ToUpper(strings.TrimSpace(category))
}

// FlexBool 同时接受 JSON 布尔值和 "true"/"false" 字符串（批量编辑路径会传字符串）。
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := ParseBool(s)
		if err != nil {
			return err
		}
		*b = FlexBool(v)
		return nil
	}
	var v bool
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("invalid boolean %s", data)
	}
	*b = FlexBool(v)
	return nil
}

// ParseBool 把表单/查询串里的文本布尔值转换为 bool。
func ParseBool(s string) (bool, error) {
	v, err := strconv.ParseBool(strings.TrimSpace(s))
	if err != nil {
		return false, fmt.Errorf("invalid boolean %q", s)
	}
	return v, nil
}

// ParseKeywords 逗号分隔 -> 去空白、去空项、去重（保留首次出现顺序）。
func ParseKeywords(input string) []string {
	out := make([]string, 0)
	seen := make(map[string]struct{})
	for _, part := range strings.Split(input, ",") {
		kw := strings.TrimSpace(part)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}

// ParseBannerImages 换行分隔 -> 去空白、去空项，保持顺序。
func ParseBannerImages(input string) []string {
	out := make([]string, 0)
	for _, line := range strings.Split(input, "\n") {
		u := strings.TrimSpace(line)
		if u != "" {
			out = append(out, u)
		}
	}
	return out
}

// BulkIDs 对批量操作的 id 去重，并剔除非 UUID 的值。
// requested 为去重后的数量，非法 id 计入失败而不会发往数据库。
func BulkIDs(ids []string) (valid []string, requested int) {
	seen := make(map[string]struct{}, len(ids))
	valid = make([]string, 0, len(ids))
	for _, raw := range ids {
		id := strings.TrimSpace(raw)
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		requested++
		if _, err := uuid.Parse(id); err != nil {
			continue
		}
		valid = append(valid, id)
	}
	return valid, requested
}
