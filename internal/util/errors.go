package util

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound             = errors.New("resource not found")
	ErrForbidden            = errors.New("permission denied")
	ErrAttemptLimitExceeded = errors.New("attempt limit exceeded")
	// ErrConflict 并发提交时唯一索引竞争失败，最后一个名额被别的请求占走
	ErrConflict           = errors.New("attempt slot already taken")
	ErrEmailRegistered    = errors.New("该邮箱已被注册")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError 输入不完整或不合法，消息直接面向调用方
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
