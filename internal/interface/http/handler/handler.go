// Package handler HTTP处理器
//
// Handler只负责HTTP相关的事情:解析路径/查询/请求体、调用应用层用例、写响应。
// 不包含业务逻辑;所有错误统一交给response.Error转换为{code,message,data}。
package handler

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
	"github.com/xiebiao/helpdesk/pkg/response"
)

// parseID 解析路径参数:id,非法时直接写404(与不存在的记录一致)
func parseID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		response.Error(c, apperrors.ErrNotFound)
		return 0, false
	}
	return uint(id), true
}

// isPatch PATCH请求以当前记录为底,只覆盖请求体中出现的字段
func isPatch(c *gin.Context) bool {
	return c.Request.Method == http.MethodPatch
}

// bindError 请求体绑定/校验失败
//   - validator校验失败 → 40902,data.field为第一个出错字段(json名)
//   - 请求体自身给出的字段错误 → 原样返回
//   - 其余(JSON语法、类型不匹配) → 40901
func bindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		response.Error(c, apperrors.NewField(fe.Field(), describe(fe)))
		return
	}

	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		response.Error(c, appErr)
		return
	}

	response.Error(c, apperrors.ErrBindError.Withf("参数格式错误: %v", err))
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "该字段为必填项"
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("长度不能超过%s个字符", fe.Param())
		}
		return fmt.Sprintf("不能大于%s", fe.Param())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("长度不能少于%s个字符", fe.Param())
		}
		return fmt.Sprintf("不能小于%s", fe.Param())
	default:
		return "格式不正确"
	}
}

// JSONTagName 让validator报告json字段名而不是Go字段名
//
//	v.RegisterTagNameFunc(handler.JSONTagName)
func JSONTagName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}
