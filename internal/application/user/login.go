package user

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/internal/domain/user"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
	"github.com/xiebiao/helpdesk/pkg/jwt"
)

// TokenBlacklist Token黑名单(由Redis实现)
type TokenBlacklist interface {
	Revoke(ctx context.Context, tokenID string, ttl time.Duration) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// LoginUseCase 用户登录用例
// 1. 验证用户名密码
// 2. 生成JWT Token对
type LoginUseCase struct {
	userService user.Service
	jwtManager  *jwt.Manager
	logger      *zap.Logger
}

// NewLoginUseCase 创建登录用例
func NewLoginUseCase(userService user.Service, jwtManager *jwt.Manager, logger *zap.Logger) *LoginUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LoginUseCase{userService: userService, jwtManager: jwtManager, logger: logger}
}

// Execute 执行登录
func (uc *LoginUseCase) Execute(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	u, err := uc.userService.Login(ctx, req.Username, req.Password)
	if err != nil {
		return nil, err
	}

	pair, err := uc.jwtManager.GenerateToken(u.ID, u.Username)
	if err != nil {
		return nil, err
	}

	uc.logger.Info("用户登录", zap.Uint("user_id", u.ID), zap.String("username", u.Username))

	return &LoginResponse{
		User:         ToUserResponse(u),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	}, nil
}

// RefreshUseCase 刷新Access Token用例
type RefreshUseCase struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewRefreshUseCase 创建刷新用例
func NewRefreshUseCase(jwtManager *jwt.Manager, blacklist TokenBlacklist) *RefreshUseCase {
	return &RefreshUseCase{jwtManager: jwtManager, blacklist: blacklist}
}

// Execute 用Refresh Token换取新的Access Token(已登出的Refresh Token被拒绝)
func (uc *RefreshUseCase) Execute(ctx context.Context, refreshToken string) (*RefreshResponse, error) {
	claims, err := uc.jwtManager.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err
	}

	revoked, err := uc.blacklist.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, apperrors.ErrInvalidToken
	}

	access, err := uc.jwtManager.RefreshAccessToken(refreshToken)
	if err != nil {
		return nil, err
	}
	return &RefreshResponse{AccessToken: access}, nil
}

// LogoutUseCase 用户登出用例
type LogoutUseCase struct {
	jwtManager *jwt.Manager
	blacklist  TokenBlacklist
}

// NewLogoutUseCase 创建登出用例
func NewLogoutUseCase(jwtManager *jwt.Manager, blacklist TokenBlacklist) *LogoutUseCase {
	return &LogoutUseCase{jwtManager: jwtManager, blacklist: blacklist}
}

// Execute 执行登出
// 1. 当前Access Token加入黑名单,过期时间等于其剩余有效期
// 2. 同时提交了Refresh Token时一并注销
func (uc *LogoutUseCase) Execute(ctx context.Context, req LogoutRequest) error {
	if err := uc.blacklist.Revoke(ctx, req.Access.ID, req.Access.TTL()); err != nil {
		return err
	}

	if req.RefreshToken == "" {
		return nil
	}
	refresh, err := uc.jwtManager.ParseRefreshToken(req.RefreshToken)
	if err != nil {
		return err
	}
	if refresh.UserID != req.Access.UserID {
		return apperrors.ErrInvalidToken
	}
	return uc.blacklist.Revoke(ctx, refresh.ID, refresh.TTL())
}

// LoginRequest 登录请求
type LoginRequest struct {
	Username string
	Password string
}

// LoginResponse 登录响应
type LoginResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int64         `json:"expires_in"` // Access Token有效期（秒）
}

// RefreshResponse 刷新响应
type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

// LogoutRequest 登出请求
type LogoutRequest struct {
	Access       *jwt.Claims // 鉴权中间件解析出的当前Access Token
	RefreshToken string
}
