package ticket

import (
	"context"
	"time"
)

// Repository 工单仓储接口
type Repository interface {
	// Create 写入工单基本字段(不含工作类型和消耗记录),回填ID
	Create(ctx context.Context, t *Ticket) error

	// Update 更新工单基本字段和外键
	Update(ctx context.Context, t *Ticket) error

	// ReplaceWorkDone 整体替换工单的工作类型集合(先删后插)
	ReplaceWorkDone(ctx context.Context, ticketID uint, workTypeIDs []uint) error

	// FindByID 加载完整读模型(设备、执行人、优先级、分类、工作类型、消耗记录)
	// 不存在返回ErrTicketNotFound
	FindByID(ctx context.Context, id uint) (*Ticket, error)

	// List 按Filter查询并加载完整读模型
	List(ctx context.Context, filter Filter) ([]*Ticket, error)

	// Delete 删除工单及其工作类型关联(消耗记录由调用方先通过台账撤销)
	Delete(ctx context.Context, id uint) error

	// CountByCreated 按创建日期分组计数,只返回有工单的日期
	CountByCreated(ctx context.Context, r DateRange) ([]DateCount, error)
}

// DateCount 某一天的工单数
type DateCount struct {
	Date  time.Time
	Count int64
}
