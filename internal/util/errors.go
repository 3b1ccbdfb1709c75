package util

import "errors"

// 错误分类，服务层用 fmt.Errorf("%w: ...") 包装，控制器用 errors.Is 映射状态码
var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("User already exists")
	ErrInvalidCredentials = errors.New("Invalid credentials")
	ErrUpstream           = errors.New("upstream failure")
	ErrStore              = errors.New("store failure")
)

// 机器可读的错误类型，随响应返回
const (
	KindInvalidInput    = "InvalidInput"
	KindUnauthorized    = "Unauthorized"
	KindForbidden       = "Forbidden"
	KindNotFound        = "NotFound"
	KindUpstreamFailure = "UpstreamFailure"
	KindStoreFailure    = "StoreFailure"
	KindRateLimited     = "RateLimited"
	KindInternal        = "Internal"
)
