package user

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// bcryptCost 密码哈希成本（测试中可调低）
var bcryptCost = 12

var usernamePattern = regexp.MustCompile(`^[\p{L}\p{N}@.+\-_]{1,150}$`)

// Service 用户领域服务接口
type Service interface {
	// Register 创建用户
	// 业务规则：
	// - 用户名1-150个字母/数字/@.+-_
	// - 密码8-64位
	// - 用户名唯一
	Register(ctx context.Context, username, password string) (*User, error)

	// Login 用户名+密码登录
	Login(ctx context.Context, username, password string) (*User, error)

	// ValidatePassword 校验密码
	ValidatePassword(hashedPassword, plainPassword string) error

	Get(ctx context.Context, id uint) (*User, error)
	List(ctx context.Context) ([]*User, error)

	// Update 修改用户名和/或密码（空字符串表示不修改）
	Update(ctx context.Context, id uint, username, password string) (*User, error)

	// Delete 删除用户（仍是工单执行人时拒绝）
	Delete(ctx context.Context, id uint) error

	// Resolve 按用户名解析工单的owner引用，不存在时返回字段级校验错误
	Resolve(ctx context.Context, field, username string) (*User, error)
}

type service struct {
	repo Repository
}

// NewService 创建用户领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Register(ctx context.Context, username, password string) (*User, error) {
	if !usernamePattern.MatchString(username) {
		return nil, ErrInvalidUsername
	}

	hashed, err := hashPassword(password)
	if err != nil {
		return nil, err
	}

	user := NewUser(username, hashed)
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err // Repository已转换为业务错误
	}
	return user, nil
}

func (s *service) Login(ctx context.Context, username, password string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		// 不暴露用户是否存在
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrInvalidPassword
		}
		return nil, err
	}

	if err := s.ValidatePassword(user.Password, password); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) ValidatePassword(hashedPassword, plainPassword string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(plainPassword))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrInvalidPassword
		}
		return apperrors.Wrap(err, "密码验证失败")
	}
	return nil
}

func (s *service) Get(ctx context.Context, id uint) (*User, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context) ([]*User, error) {
	return s.repo.List(ctx)
}

func (s *service) Update(ctx context.Context, id uint, username, password string) (*User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if username != "" {
		if !usernamePattern.MatchString(username) {
			return nil, ErrInvalidUsername
		}
		user.Rename(username)
	}

	if password != "" {
		hashed, err := hashPassword(password)
		if err != nil {
			return nil, err
		}
		user.ChangePassword(hashed)
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Resolve(ctx context.Context, field, username string) (*User, error) {
	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, apperrors.NewField(field, fmt.Sprintf("用户「%s」不存在", username))
		}
		return nil, err
	}
	return user, nil
}

func hashPassword(password string) (string, error) {
	if len(password) < 8 || len(password) > 64 {
		return "", ErrWeakPassword
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", apperrors.Wrap(err, "密码加密失败")
	}
	return string(hashed), nil
}
