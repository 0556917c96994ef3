package service

import (
	"errors"

	"nuvyra_admin/internal/repository"
)

var (
	// ErrNotFound 与仓储层共用同一个哨兵错误。
	ErrNotFound = repository.ErrNotFound
	// ErrFeatureDisabled 功能开关未打开。
	ErrFeatureDisabled = errors.New("feature is disabled")
	// ErrInvalidCredentials 邮箱或密码错误，不区分具体原因。
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated 会话缺失、过期、被吊销或管理员已不存在。
	ErrUnauthenticated = errors.New("unauthenticated")
)

// BulkResult 批量操作的结果：requested 为去重后的 id 数，succeeded 为实际影响行数。
type BulkResult struct {
	Requested int   `json:"requested"`
	Succeeded int64 `json:"succeeded"`
}

// Failed returns how many of the requested ids were not applied.
func (r BulkResult) Failed() int64 {
	return int64(r.Requested) - r.Succeeded
}
