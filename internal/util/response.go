package util

import (
	"classhub_backend/pkg/logger"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Response 统一响应结构
type Response struct {
	Code    int         `json:"code"`
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

func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    http.StatusCreated,
		Message: "created",
		Data:    data,
	})
}

func Error(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Code:    code,
		Message: message,
	})
}

func Unauthorized(c *gin.Context) {
	Error(c, http.StatusUnauthorized, "Unauthorized")
}

func Forbidden(c *gin.Context) {
	Error(c, http.StatusForbidden, "Forbidden")
}

func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, message)
}

func NotFound(c *gin.Context) {
	Error(c, http.StatusNotFound, "Resource not found")
}

func InternalServerError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal server error")
}

func LogInternalError(c *gin.Context, err error) {
	logger.Log.Error("Internal server error", zap.Error(err))
	InternalServerError(c)
}

// RespondDomainError 将领域错误映射为 HTTP 响应。
// 越权统一返回笼统的 Forbidden，不泄露目标是否存在
func RespondDomainError(c *gin.Context, err error) {
	var ve *ValidationError
	switch {
	case errors.As(err, &ve):
		BadRequest(c, ve.Message)
	case errors.Is(err, ErrNotFound):
		NotFound(c)
	case errors.Is(err, ErrForbidden):
		Forbidden(c)
	case errors.Is(err, ErrAttemptLimitExceeded):
		Error(c, http.StatusUnprocessableEntity, ErrAttemptLimitExceeded.Error())
	case errors.Is(err, ErrConflict):
		Error(c, http.StatusConflict, ErrConflict.Error())
	default:
		LogInternalError(c, err)
	}
}
