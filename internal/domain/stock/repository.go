package stock

import (
	"context"
)

// PositionRepository 库存位置仓储接口
type PositionRepository interface {
	// Create 名称重复返回ErrTitleDuplicate
	Create(ctx context.Context, position *Position) error

	FindByID(ctx context.Context, id uint) (*Position, error)

	// FindByTitle 按名称查找,不存在返回ErrPositionNotFound
	FindByTitle(ctx context.Context, title string) (*Position, error)

	List(ctx context.Context, filter PositionFilter) ([]*Position, error)

	Update(ctx context.Context, position *Position) error

	// Delete 仍有消耗记录引用时返回ErrReferenced
	Delete(ctx context.Context, id uint) error

	// Debit 原子扣减:UPDATE ... SET quantity = quantity - n WHERE id = ? AND quantity >= n
	// 条件不满足返回ErrInsufficientStock
	Debit(ctx context.Context, id uint, quantity int) error

	// Credit 原子归还
	Credit(ctx context.Context, id uint, quantity int) error
}

// ExpenditureRepository 消耗记录仓储接口
type ExpenditureRepository interface {
	Create(ctx context.Context, exp *Expenditure) error

	// FindByID 不存在返回ErrExpenditureNotFound
	FindByID(ctx context.Context, id uint) (*Expenditure, error)

	// ListByTicket 某工单的全部消耗记录(按ID升序)
	ListByTicket(ctx context.Context, ticketID uint) ([]*Expenditure, error)

	List(ctx context.Context) ([]*Expenditure, error)

	Delete(ctx context.Context, id uint) error
}

// Transactor 事务执行器(由infrastructure层的TxManager实现)
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}
