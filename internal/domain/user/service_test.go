package user

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

func init() {
	bcryptCost = bcrypt.MinCost
}

type memRepo struct {
	users []*User
}

func (m *memRepo) Create(_ context.Context, u *User) error {
	for _, it := range m.users {
		if it.Username == u.Username {
			return ErrUsernameDuplicate
		}
	}
	u.ID = uint(len(m.users) + 1)
	m.users = append(m.users, u)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, id uint) (*User, error) {
	for _, it := range m.users {
		if it.ID == id {
			return it, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) FindByUsername(_ context.Context, username string) (*User, error) {
	for _, it := range m.users {
		if it.Username == username {
			return it, nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *memRepo) List(context.Context) ([]*User, error) { return m.users, nil }
func (m *memRepo) Update(context.Context, *User) error   { return nil }
func (m *memRepo) Delete(context.Context, uint) error    { return nil }

func TestService_Register(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memRepo{})

	t.Run("正常注册", func(t *testing.T) {
		u, err := s.Register(ctx, "ivan.petrov@it", "secret123")
		require.NoError(t, err)
		assert.NotZero(t, u.ID)
		assert.NotEqual(t, "secret123", u.Password, "密码应以哈希存储")
	})

	t.Run("用户名非法", func(t *testing.T) {
		for _, name := range []string{"", "ivan petrov", "ivan#1", strings.Repeat("a", 151)} {
			_, err := s.Register(ctx, name, "secret123")
			assert.ErrorIs(t, err, ErrInvalidUsername, name)
		}
	})

	t.Run("密码长度", func(t *testing.T) {
		_, err := s.Register(ctx, "short", "1234567")
		assert.ErrorIs(t, err, ErrWeakPassword)

		_, err = s.Register(ctx, "long", strings.Repeat("x", 65))
		assert.ErrorIs(t, err, ErrWeakPassword)
	})

	t.Run("用户名重复", func(t *testing.T) {
		_, err := s.Register(ctx, "ivan.petrov@it", "another123")
		assert.ErrorIs(t, err, ErrUsernameDuplicate)
	})
}

func TestService_Login(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memRepo{})
	_, err := s.Register(ctx, "ivan", "secret123")
	require.NoError(t, err)

	u, err := s.Login(ctx, "ivan", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "ivan", u.Username)

	_, err = s.Login(ctx, "ivan", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidPassword)

	// 用户不存在与密码错误返回同一个错误
	_, err = s.Login(ctx, "petr", "secret123")
	assert.ErrorIs(t, err, ErrInvalidPassword)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memRepo{})
	created, err := s.Register(ctx, "ivan", "secret123")
	require.NoError(t, err)
	oldHash := created.Password

	u, err := s.Update(ctx, created.ID, "", "newsecret1")
	require.NoError(t, err)
	assert.Equal(t, "ivan", u.Username, "空用户名表示不修改")
	assert.NotEqual(t, oldHash, u.Password)

	_, err = s.Update(ctx, created.ID, "bad name", "")
	assert.ErrorIs(t, err, ErrInvalidUsername)

	_, err = s.Update(ctx, 99, "petr", "")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memRepo{})
	_, err := s.Register(ctx, "ivan", "secret123")
	require.NoError(t, err)

	u, err := s.Resolve(ctx, "owner", "ivan")
	require.NoError(t, err)
	assert.Equal(t, "ivan", u.Username)

	_, err = s.Resolve(ctx, "owner", "petr")
	require.Error(t, err)
	appErr := apperrors.GetAppError(err)
	assert.Equal(t, "owner", appErr.Field)
	assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
}
