package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// Response 统一响应结构
// 设计说明：
// 1. Code是业务错误码，HTTP状态码由Code推导（见StatusOf）
// 2. Message是用户友好的提示信息
// 3. Data是业务数据，成功时返回，失败时为null（字段错误时携带field）
type Response struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Success 成功响应（Code=0表示成功）
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Code:    0,
		Message: "success",
		Data:    data,
	})
}

// Created 创建成功响应（HTTP 201）
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Code:    0,
		Message: "created",
		Data:    data,
	})
}

// NoContent 删除成功响应（HTTP 204，无响应体）
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error 错误响应（自动处理AppError）
// 用法：
//
//	err := ticketUseCase.Execute(...)
//	if err != nil {
//	    response.Error(c, err)
//	    return
//	}
func Error(c *gin.Context, err error) {
	appErr := apperrors.GetAppError(err)

	// 内部错误只记录日志，不返回给客户端
	if appErr.Err != nil {
		zap.L().Error("request failed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("code", appErr.Code),
			zap.Error(appErr.Err),
		)
	}

	var data interface{}
	if appErr.Field != "" {
		data = gin.H{"field": appErr.Field}
	}

	c.JSON(StatusOf(appErr.Code), Response{
		Code:    appErr.Code,
		Message: appErr.Message,
		Data:    data,
	})
}

// ErrorWithCode 自定义错误码和消息
func ErrorWithCode(c *gin.Context, code int, message string) {
	c.JSON(StatusOf(code), Response{
		Code:    code,
		Message: message,
		Data:    nil,
	})
}

// AbortWithError 中间件中使用：写入错误并终止后续处理
func AbortWithError(c *gin.Context, err error) {
	Error(c, err)
	c.Abort()
}

// StatusOf 业务错误码 → HTTP状态码
// 规则：
//   - 0 → 200
//   - 401xx → 401（40104无权限 → 403）
//   - 404xx → 404
//   - 重复记录/仍被引用 → 409
//   - 其余4xxxx → 400
//   - 5xxxx → 500
func StatusOf(code int) int {
	switch {
	case code == 0:
		return http.StatusOK
	case code >= 50000:
		return http.StatusInternalServerError
	case code == apperrors.ErrCodeForbidden:
		return http.StatusForbidden
	case code/100 == 401:
		return http.StatusUnauthorized
	case code/100 == 404:
		return http.StatusNotFound
	case code == apperrors.ErrCodeDuplicateEntry, code == apperrors.ErrCodeReferenced:
		return http.StatusConflict
	default:
		return http.StatusBadRequest
	}
}
