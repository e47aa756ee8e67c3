// Package errors 提供统一的错误定义
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeUnknown       ErrorCode = "1000"
	CodeInvalidParam  ErrorCode = "1001"
	CodeInternalError ErrorCode = "1007"

	// 认证错误 (2xxx)
	CodeMissingAPIKey ErrorCode = "2001"
	CodeInvalidAPIKey ErrorCode = "2002"

	// 请求内容错误 (3xxx)
	CodeUnsupportedModel       ErrorCode = "3001"
	CodeUnsupportedContentType ErrorCode = "3002"

	// 生成错误 (4xxx)
	CodeGenerationFailed ErrorCode = "4001"
	CodeModelNotServed   ErrorCode = "4002"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// PublicMessage 返回对调用方可见的错误描述，优先使用 Detail
func (e *AppError) PublicMessage() string {
	if e.Detail != "" {
		return e.Detail
	}
	return e.Message
}

// WithDetail 返回带详细信息的副本
func (e *AppError) WithDetail(detail string) *AppError {
	cp := *e
	cp.Detail = detail
	return &cp
}

// WithError 返回带底层错误的副本
func (e *AppError) WithError(err error) *AppError {
	cp := *e
	cp.Err = err
	return &cp
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeInvalidParam, CodeMissingAPIKey, CodeUnsupportedModel, CodeUnsupportedContentType:
		return http.StatusBadRequest
	case CodeInvalidAPIKey:
		return http.StatusUnauthorized
	case CodeModelNotServed:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam           = New(CodeInvalidParam, "invalid parameter")
	ErrInternalError          = New(CodeInternalError, "internal server error")
	ErrMissingAPIKey          = New(CodeMissingAPIKey, "this model requires an API key")
	ErrInvalidAPIKey          = New(CodeInvalidAPIKey, "invalid API key for free model")
	ErrUnsupportedModel       = New(CodeUnsupportedModel, "unsupported model")
	ErrUnsupportedContentType = New(CodeUnsupportedContentType, "unsupported content type")
	ErrGenerationFailed       = New(CodeGenerationFailed, "generation failed")
	ErrModelNotServed         = New(CodeModelNotServed, "model is not served by this instance")
)

// IsAppError 检查错误链中是否包含 AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr)
}

// HasCode 检查错误链中的 AppError 是否为指定错误码
func HasCode(err error, code ErrorCode) bool {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr.Code == code
	}
	return false
}

// AsAppError 将错误转换为 AppError
// 非 AppError 按内部错误处理，原始错误文本作为 Detail 透出
func AsAppError(err error) *AppError {
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Wrap(err, CodeInternalError, "internal server error").WithDetail(err.Error())
}
