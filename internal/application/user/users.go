package user

import (
	"context"

	"github.com/xiebiao/helpdesk/internal/domain/user"
)

// UserUseCase 用户查询和维护用例
type UserUseCase struct {
	userService user.Service
}

// NewUserUseCase 创建用户用例
func NewUserUseCase(userService user.Service) *UserUseCase {
	return &UserUseCase{userService: userService}
}

// UpdateRequest 修改请求(空字符串表示不修改)
type UpdateRequest struct {
	Username string
	Password string
}

// List 列出全部用户
func (uc *UserUseCase) List(ctx context.Context) ([]*UserResponse, error) {
	users, err := uc.userService.List(ctx)
	if err != nil {
		return nil, err
	}

	resp := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		resp = append(resp, ToUserResponse(u))
	}
	return resp, nil
}

// Get 查询用户
func (uc *UserUseCase) Get(ctx context.Context, id uint) (*UserResponse, error) {
	u, err := uc.userService.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Update 修改用户名和/或密码
func (uc *UserUseCase) Update(ctx context.Context, id uint, req UpdateRequest) (*UserResponse, error) {
	u, err := uc.userService.Update(ctx, id, req.Username, req.Password)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(u), nil
}

// Delete 删除用户(仍是工单执行人时拒绝)
func (uc *UserUseCase) Delete(ctx context.Context, id uint) error {
	return uc.userService.Delete(ctx, id)
}
