package middleware

import (
	"context"
	"strings"

	"github.com/gin-gonic/gin"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
	"github.com/xiebiao/helpdesk/pkg/jwt"
	"github.com/xiebiao/helpdesk/pkg/response"
)

const claimsKey = "claims"

// TokenChecker 查询Token是否已注销(由Redis黑名单实现)
type TokenChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// AuthMiddleware JWT认证中间件
// 1. 从Header提取Bearer Token
// 2. 校验签名、有效期和类型(必须是access token)
// 3. 检查黑名单(已登出的Token)
// 4. 把Claims注入Context
type AuthMiddleware struct {
	jwtManager *jwt.Manager
	blacklist  TokenChecker
}

// NewAuthMiddleware 创建认证中间件
func NewAuthMiddleware(jwtManager *jwt.Manager, blacklist TokenChecker) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager, blacklist: blacklist}
}

// RequireAuth 要求登录
// 认证失败时返回401并终止,请求不会进入Handler
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.AbortWithError(c, apperrors.ErrUnauthorized)
			return
		}

		// 格式：Authorization: Bearer <token>
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
			response.AbortWithError(c, apperrors.ErrInvalidToken.Withf("Token格式错误"))
			return
		}

		claims, err := m.jwtManager.ParseAccessToken(parts[1])
		if err != nil {
			response.AbortWithError(c, err)
			return
		}

		revoked, err := m.blacklist.IsRevoked(c.Request.Context(), claims.ID)
		if err != nil {
			response.AbortWithError(c, err)
			return
		}
		if revoked {
			response.AbortWithError(c, apperrors.ErrInvalidToken.Withf("Token已失效，请重新登录"))
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequireAuthForWrites 只对写请求(POST/PUT/PATCH/DELETE)要求登录,读请求公开
//
//	tickets := v1.Group("/tickets", auth.RequireAuthForWrites())
func (m *AuthMiddleware) RequireAuthForWrites() gin.HandlerFunc {
	requireAuth := m.RequireAuth()
	return func(c *gin.Context) {
		switch c.Request.Method {
		case "GET", "HEAD", "OPTIONS":
			c.Next()
		default:
			requireAuth(c)
		}
	}
}

// GetClaims 从Context获取当前登录用户的Claims(未登录返回nil)
func GetClaims(c *gin.Context) *jwt.Claims {
	if v, exists := c.Get(claimsKey); exists {
		if claims, ok := v.(*jwt.Claims); ok {
			return claims
		}
	}
	return nil
}

// GetUserID 从Context获取当前登录用户ID
func GetUserID(c *gin.Context) uint {
	if claims := GetClaims(c); claims != nil {
		return claims.UserID
	}
	return 0
}
