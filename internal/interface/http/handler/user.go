package handler

import (
	"github.com/gin-gonic/gin"

	appuser "github.com/xiebiao/helpdesk/internal/application/user"
	"github.com/xiebiao/helpdesk/internal/interface/http/dto"
	"github.com/xiebiao/helpdesk/internal/interface/http/middleware"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
	"github.com/xiebiao/helpdesk/pkg/response"
)

// UserHandler 用户HTTP处理器
// Handler只负责解析请求、调用应用层、返回响应
type UserHandler struct {
	registerUseCase *appuser.RegisterUseCase
	userUseCase     *appuser.UserUseCase
}

// NewUserHandler 创建用户处理器
func NewUserHandler(registerUseCase *appuser.RegisterUseCase, userUseCase *appuser.UserUseCase) *UserHandler {
	return &UserHandler{
		registerUseCase: registerUseCase,
		userUseCase:     userUseCase,
	}
}

// List 用户列表
// @Summary      用户列表
// @Tags         用户
// @Produce      json
// @Success      200 {object} response.Response{data=[]appuser.UserResponse}
// @Router       /api/v1/users [get]
func (h *UserHandler) List(c *gin.Context) {
	result, err := h.userUseCase.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 用户详情
// @Summary      用户详情
// @Tags         用户
// @Produce      json
// @Param        id path int true "用户ID"
// @Success      200 {object} response.Response{data=appuser.UserResponse}
// @Failure      404 {object} response.Response
// @Router       /api/v1/users/{id} [get]
func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.userUseCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 创建用户
// @Summary      创建用户
// @Description  密码以bcrypt哈希保存,响应中不返回
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.CreateUserRequest true "用户"
// @Success      201 {object} response.Response{data=appuser.UserResponse}
// @Failure      409 {object} response.Response "用户名已存在"
// @Router       /api/v1/users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.registerUseCase.Execute(c.Request.Context(), appuser.RegisterRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update 修改用户名和/或密码
// PUT和PATCH语义相同:未提交的字段保持不变
// @Summary      修改用户
// @Tags         用户
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                   true "用户ID"
// @Param        request body dto.UpdateUserRequest true "用户"
// @Success      200 {object} response.Response{data=appuser.UserResponse}
// @Router       /api/v1/users/{id} [put]
// @Router       /api/v1/users/{id} [patch]
func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.UpdateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.userUseCase.Update(c.Request.Context(), id, appuser.UpdateRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除用户
// @Summary      删除用户
// @Tags         用户
// @Security     BearerAuth
// @Param        id path int true "用户ID"
// @Success      204
// @Failure      409 {object} response.Response "仍是工单执行人"
// @Router       /api/v1/users/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.userUseCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AuthHandler 认证HTTP处理器
type AuthHandler struct {
	loginUseCase   *appuser.LoginUseCase
	refreshUseCase *appuser.RefreshUseCase
	logoutUseCase  *appuser.LogoutUseCase
}

// NewAuthHandler 创建认证处理器
func NewAuthHandler(
	loginUseCase *appuser.LoginUseCase,
	refreshUseCase *appuser.RefreshUseCase,
	logoutUseCase *appuser.LogoutUseCase,
) *AuthHandler {
	return &AuthHandler{
		loginUseCase:   loginUseCase,
		refreshUseCase: refreshUseCase,
		logoutUseCase:  logoutUseCase,
	}
}

// Login 用户登录
// @Summary      用户登录
// @Description  验证用户名密码,返回JWT Token对
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.LoginRequest true "登录信息"
// @Success      200 {object} response.Response{data=appuser.LoginResponse}
// @Failure      401 {object} response.Response "用户名或密码错误"
// @Router       /api/v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.loginUseCase.Execute(c.Request.Context(), appuser.LoginRequest{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Refresh 刷新Access Token
// @Summary      刷新Token
// @Tags         认证
// @Accept       json
// @Produce      json
// @Param        request body dto.RefreshRequest true "Refresh Token"
// @Success      200 {object} response.Response{data=appuser.RefreshResponse}
// @Failure      401 {object} response.Response "Token无效或已注销"
// @Router       /api/v1/auth/refresh [post]
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.refreshUseCase.Execute(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Logout 登出:注销当前Access Token,可选注销Refresh Token
// @Summary      登出
// @Tags         认证
// @Accept       json
// @Security     BearerAuth
// @Param        request body dto.LogoutRequest false "Refresh Token"
// @Success      204
// @Router       /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Error(c, apperrors.ErrUnauthorized)
		return
	}

	// 请求体可选
	var req dto.LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
	}

	if err := h.logoutUseCase.Execute(c.Request.Context(), appuser.LogoutRequest{
		Access:       claims,
		RefreshToken: req.RefreshToken,
	}); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
