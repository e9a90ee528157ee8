package device

import (
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// 设备领域错误定义
var (
	ErrDeviceNotFound  = apperrors.ErrDeviceNotFound
	ErrInvNumDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "库存编号已存在")
	ErrInvalidInvNum   = apperrors.New(apperrors.ErrCodeInvalidParams, "库存编号不能为空且不超过30个字符")
	ErrInvalidTitle    = apperrors.New(apperrors.ErrCodeInvalidParams, "设备名称不能为空且不超过50个字符")
	ErrReferenced      = apperrors.ErrReferenced
)
