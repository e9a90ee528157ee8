package user

import (
	"context"
)

// Repository 用户仓储接口
// 设计说明：
// 1. 接口定义在domain层（依赖倒置原则）
// 2. 具体实现在infrastructure/persistence/database
type Repository interface {
	// Create 创建用户
	// 用户名已存在时返回ErrUsernameDuplicate
	Create(ctx context.Context, user *User) error

	// FindByID 根据ID查找用户（填充TicketIDs）
	// 不存在返回ErrUserNotFound
	FindByID(ctx context.Context, id uint) (*User, error)

	// FindByUsername 根据用户名查找用户
	// 不存在返回ErrUserNotFound
	FindByUsername(ctx context.Context, username string) (*User, error)

	// List 列出全部用户（填充TicketIDs）
	List(ctx context.Context) ([]*User, error)

	// Update 更新用户名/密码
	Update(ctx context.Context, user *User) error

	// Delete 删除用户
	// 仍是某些工单的执行人时返回ErrReferenced
	Delete(ctx context.Context, id uint) error
}
