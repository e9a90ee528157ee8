package directory

import (
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// 字典领域错误定义
var (
	// ErrEntryNotFound 字典项不存在
	ErrEntryNotFound = apperrors.ErrEntryNotFound

	// ErrTitleRequired 标题为空
	ErrTitleRequired = apperrors.New(apperrors.ErrCodeInvalidParams, "标题不能为空")

	// ErrTitleTooLong 标题过长
	ErrTitleTooLong = apperrors.New(apperrors.ErrCodeInvalidParams, "标题过长")

	// ErrTitleDuplicate 标题已存在
	ErrTitleDuplicate = apperrors.New(apperrors.ErrCodeDuplicateEntry, "标题已存在")

	// ErrReferenced 仍被设备或工单引用
	ErrReferenced = apperrors.ErrReferenced

	// ErrUnknownKind 未知的字典类型
	ErrUnknownKind = apperrors.New(apperrors.ErrCodeNotFound, "未知的字典类型")
)
