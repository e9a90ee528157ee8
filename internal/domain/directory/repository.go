package directory

import (
	"context"
)

// Repository 字典仓储接口
// 设计说明:
// 1. 由domain层定义接口,infrastructure层实现
// 2. 所有方法都带kind参数,实现层按kind选择数据表
type Repository interface {
	// Create 创建字典项
	// 标题重复时返回ErrTitleDuplicate
	Create(ctx context.Context, entry *Entry) error

	// FindByID 根据ID查找,不存在返回ErrEntryNotFound
	FindByID(ctx context.Context, kind Kind, id uint) (*Entry, error)

	// FindByTitle 根据标题查找,不存在返回ErrEntryNotFound
	FindByTitle(ctx context.Context, kind Kind, title string) (*Entry, error)

	// FindByTitles 批量按标题查找(只返回存在的项)
	FindByTitles(ctx context.Context, kind Kind, titles []string) ([]*Entry, error)

	// List 列出全部(按ID升序)
	List(ctx context.Context, kind Kind) ([]*Entry, error)

	// Update 更新标题/序号
	Update(ctx context.Context, entry *Entry) error

	// Delete 删除字典项
	// 删除前检查引用:仍被设备或工单引用时返回ErrReferenced
	Delete(ctx context.Context, kind Kind, id uint) error
}
