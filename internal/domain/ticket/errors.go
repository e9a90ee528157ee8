package ticket

import (
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// 工单领域错误定义
var (
	ErrTicketNotFound      = apperrors.ErrTicketNotFound
	ErrDescriptionRequired = apperrors.NewField("description", "描述不能为空")
	ErrDateRangeRequired   = apperrors.New(apperrors.ErrCodeInvalidParams, "date_gte和date_lte必须提供且格式为YYYY-MM-DDTHH:MM:SS")
)
