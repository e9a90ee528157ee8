package user

import (
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// 用户领域错误定义
var (
	ErrUserNotFound      = apperrors.ErrUserNotFound
	ErrUsernameDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "用户名已存在")
	ErrInvalidUsername   = apperrors.New(apperrors.ErrCodeInvalidParams, "用户名需为1-150个字母、数字或@.+-_字符")
	ErrInvalidPassword   = apperrors.ErrInvalidPassword
	ErrWeakPassword      = apperrors.ErrWeakPassword
	ErrReferenced        = apperrors.ErrReferenced
)
