package dto

// CreateUserRequest HTTP创建用户请求
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=150" example:"ivan"`
	Password string `json:"password" binding:"required,min=8,max=64" example:"secret123"`
}

// UpdateUserRequest HTTP修改用户请求(留空表示不修改)
type UpdateUserRequest struct {
	Username string `json:"username" binding:"omitempty,max=150" example:"ivan"`
	Password string `json:"password" binding:"omitempty,min=8,max=64" example:"newsecret1"`
}

// LoginRequest HTTP登录请求
type LoginRequest struct {
	Username string `json:"username" binding:"required" example:"ivan"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// RefreshRequest HTTP刷新Token请求
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// LogoutRequest HTTP登出请求(可同时注销Refresh Token)
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token"`
}
