package user

import (
	"context"

	"github.com/xiebiao/helpdesk/internal/domain/user"
)

// RegisterUseCase 创建用户用例
// 设计说明：
// 1. 接口POST /users和CLI子命令 user create 共用
// 2. 用户即工单执行人,没有角色区分
type RegisterUseCase struct {
	userService user.Service
}

// NewRegisterUseCase 创建注册用例
func NewRegisterUseCase(userService user.Service) *RegisterUseCase {
	return &RegisterUseCase{userService: userService}
}

// Execute 执行注册
func (uc *RegisterUseCase) Execute(ctx context.Context, req RegisterRequest) (*UserResponse, error) {
	u, err := uc.userService.Register(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Username string
	Password string
}

// UserResponse 用户
// 说明：不返回密码字段;tickets为该用户作为执行人的工单ID
type UserResponse struct {
	ID       uint   `json:"id"`
	Username string `json:"username"`
	Tickets  []uint `json:"tickets"`
}

// ToUserResponse 领域实体 → DTO
func ToUserResponse(u *user.User) *UserResponse {
	tickets := u.TicketIDs
	if tickets == nil {
		tickets = []uint{}
	}
	return &UserResponse{ID: u.ID, Username: u.Username, Tickets: tickets}
}
