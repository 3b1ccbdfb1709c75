package util

import (
	"coursehub_backend/pkg/logger"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
	Kind    string      `json:"kind,omitempty"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: "success",
		Data:    data,
	})
}

func SuccessWithMessage(c *gin.Context, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    http.StatusOK,
		Message: message,
		Data:    data,
	})
}

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, kind, message string) {
	c.JSON(code, Response{
		Code:    code,
		Kind:    kind,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, KindUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, KindForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, KindInvalidInput, message)
}

func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, KindNotFound, message)
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, KindInternal, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error",
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	InternalServerError(c)
}

// HandleError 把服务层错误映射为 HTTP 响应。
// 4xx 返回错误本身的描述；5xx 只在服务端记录细节，客户端得到通用提示。
func HandleError(c *gin.Context, err error, upstreamMessage ...string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		BadRequest(c, clientMessage(err, ErrInvalidInput))
	case errors.Is(err, ErrConflict):
		BadRequest(c, ErrConflict.Error())
	case errors.Is(err, ErrInvalidCredentials):
		BadRequest(c, ErrInvalidCredentials.Error())
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(c)
	case errors.Is(err, ErrForbidden):
		Forbidden(c)
	case errors.Is(err, ErrNotFound):
		NotFound(c, clientMessage(err, ErrNotFound))
	case errors.Is(err, ErrUpstream):
		logger.Log.Error("Upstream failure", zap.String("path", c.FullPath()), zap.Error(err))
		msg := "Upstream service error"
		if len(upstreamMessage) > 0 {
			msg = upstreamMessage[0]
		}
		Error(c, http.StatusInternalServerError, KindUpstreamFailure, msg)
	case errors.Is(err, ErrStore):
		logger.Log.Error("Store failure", zap.String("path", c.FullPath()), zap.Error(err))
		Error(c, http.StatusInternalServerError, KindStoreFailure, "Internal server error")
	default:
		LogInternalError(c, err)
	}
}

// clientMessage 取 "%w: detail" 中的 detail，没有则用分类本身的描述
func clientMessage(err, kind error) string {
	msg := err.Error()
	prefix := kind.Error() + ": "
	if strings.HasPrefix(msg, prefix) {
		return strings.TrimPrefix(msg, prefix)
	}
	return kind.Error()
}
