package backend

import (
	"errors"
	"fmt"
)

// 客户端可见的三类失败，界面上统一显示为同一条提示
var (
	// ErrTransport 网络不可达、DNS 失败、连接被拒绝等
	ErrTransport = errors.New("backend unreachable")
	// ErrRejected 后端返回非 2xx 状态码
	ErrRejected = errors.New("backend rejected request")
	// ErrMalformed 2xx 响应但内容不是合法的结果数组
	ErrMalformed = errors.New("malformed backend response")
)

// StatusError 携带非 2xx 状态码，errors.Is(err, ErrRejected) 为 true
type StatusError struct {
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%v: status %d", ErrRejected, e.StatusCode)
}

func (e *StatusError) Unwrap() error {
	return ErrRejected
}

// Kind 返回错误所属类别名称，用于日志
func Kind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrRejected):
		return "rejected"
	case errors.Is(err, ErrMalformed):
		return "malformed"
	case errors.Is(err, ErrTransport):
		return "transport"
	default:
		return "unknown"
	}
}
