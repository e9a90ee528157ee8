package user

import (
	"time"
)

// User 用户实体（聚合根）
// 设计说明：
// 1. 用户即工单的执行人（owner），接口上以用户名引用
// 2. 密码以bcrypt哈希存储，实体不提供明文访问
// 3. 领域实体不依赖GORM tag（infrastructure层负责映射）
type User struct {
	ID        uint
	Username  string
	Password  string // bcrypt哈希值
	TicketIDs []uint // 作为执行人的工单（只读投影，列表/详情时填充）
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewUser 创建新用户（工厂方法）
// hashedPassword必须是bcrypt加密后的密码
func NewUser(username, hashedPassword string) *User {
	now := time.Now()
	return &User{
		Username:  username,
		Password:  hashedPassword,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Rename 修改用户名（领域行为）
func (u *User) Rename(username string) {
	u.Username = username
	u.UpdatedAt = time.Now()
}

// ChangePassword 替换密码哈希
func (u *User) ChangePassword(hashedPassword string) {
	u.Password = hashedPassword
	u.UpdatedAt = time.Now()
}
