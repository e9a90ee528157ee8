package main

import (
	"github.com/gin-gonic/gin"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
	"github.com/xiebiao/helpdesk/internal/infrastructure/events"
	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/database"
	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/helpdesk/pkg/jwt"
)

// App 组装完成的HTTP应用
type App struct {
	Engine *gin.Engine
}

// provideDB 打开数据库连接,cleanup关闭连接池
func provideDB(cfg *config.Config, logger *zap.Logger) (*gorm.DB, func(), error) {
	db, err := database.NewDB(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	cleanup := func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	}
	return db, cleanup, nil
}

// provideRedis 连接Redis(Token黑名单)
func provideRedis(cfg *config.Config, logger *zap.Logger) (*goredis.Client, func(), error) {
	client, err := redis.NewClient(cfg, logger)
	if err != nil {
		return nil, nil, err
	}
	return client, func() { _ = client.Close() }, nil
}

// providePublisher 领域事件发布者(未启用时为空实现)
func providePublisher(cfg *config.Config, logger *zap.Logger) (events.Publisher, func(), error) {
	p, err := events.New(cfg.Events, logger)
	if err != nil {
		return nil, nil, err
	}
	return p, func() { _ = p.Close() }, nil
}

// provideJWTManager 从配置创建JWT管理器
func provideJWTManager(cfg *config.Config) *jwt.Manager {
	return jwt.NewManager(
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpire,
		cfg.JWT.RefreshTokenExpire,
	)
}
