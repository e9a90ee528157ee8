package device

import (
	"context"
)

// Repository 设备仓储接口
type Repository interface {
	// Create 创建设备,编号重复返回ErrInvNumDuplicate
	Create(ctx context.Context, device *Device) error

	// FindByID 不存在返回ErrDeviceNotFound
	FindByID(ctx context.Context, id uint) (*Device, error)

	// FindByInvNum 按库存编号查找,不存在返回ErrDeviceNotFound
	FindByInvNum(ctx context.Context, invNum string) (*Device, error)

	// List 按Filter查询(过滤 → 排序 → 切片)
	List(ctx context.Context, filter Filter) ([]*Device, error)

	Update(ctx context.Context, device *Device) error

	// Delete 删除设备,仍被工单引用时返回ErrReferenced
	Delete(ctx context.Context, id uint) error
}
