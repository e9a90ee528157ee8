package stock

import (
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// 库存领域错误定义
var (
	ErrPositionNotFound    = apperrors.ErrPositionNotFound
	ErrExpenditureNotFound = apperrors.ErrExpenditureNotFound
	ErrTitleDuplicate      = apperrors.New(apperrors.ErrCodeDuplicateEntry, "库存位置名称已存在")
	ErrInvalidTitle        = apperrors.New(apperrors.ErrCodeInvalidParams, "库存位置名称不能为空且不超过100个字符")
	ErrInvalidQuantity     = apperrors.New(apperrors.ErrCodeInvalidParams, "数量不能为负数")
	ErrInsufficientStock   = apperrors.ErrInsufficientStock
	ErrReferenced          = apperrors.ErrReferenced
)

// InsufficientStock 构造携带可用数量和位置名称的库存不足错误
func InsufficientStock(available int, title string) error {
	return ErrInsufficientStock.
		Withf("库存不足: 仅剩 %d 件 %s", available, title).
		WithField("quantity")
}
