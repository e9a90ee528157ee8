//go:build wireinject
// +build wireinject

// Wire依赖注入配置
// 修改Provider后运行 `wire gen ./cmd/api` 重新生成wire_gen.go
//
// 依赖链:Repository ← 领域Service ← UseCase ← Handler ← gin.Engine

package main

import (
	"github.com/google/wire"
	"go.uber.org/zap"

	appdevice "github.com/xiebiao/helpdesk/internal/application/device"
	appdirectory "github.com/xiebiao/helpdesk/internal/application/directory"
	appstock "github.com/xiebiao/helpdesk/internal/application/stock"
	appticket "github.com/xiebiao/helpdesk/internal/application/ticket"
	appuser "github.com/xiebiao/helpdesk/internal/application/user"
	"github.com/xiebiao/helpdesk/internal/domain/device"
	"github.com/xiebiao/helpdesk/internal/domain/directory"
	"github.com/xiebiao/helpdesk/internal/domain/stock"
	"github.com/xiebiao/helpdesk/internal/domain/user"
	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/database"
	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/redis"
	"github.com/xiebiao/helpdesk/internal/interface/http/handler"
	"github.com/xiebiao/helpdesk/internal/interface/http/middleware"
	"github.com/xiebiao/helpdesk/internal/interface/http/router"
)

// infrastructureSet 基础设施:数据库、Redis、事件发布者
var infrastructureSet = wire.NewSet(
	provideDB,
	provideRedis,
	providePublisher,
	database.NewTxManager,
	wire.Bind(new(stock.Transactor), new(*database.TxManager)),
)

// repositorySet 仓储
var repositorySet = wire.NewSet(
	database.NewUserRepository,
	database.NewDirectoryRepository,
	database.NewDeviceRepository,
	database.NewPositionRepository,
	database.NewExpenditureRepository,
	database.NewTicketRepository,
	redis.NewTokenBlacklist,
)

// domainSet 领域服务
var domainSet = wire.NewSet(
	user.NewService,
	directory.NewService,
	device.NewService,
	stock.NewLedger,
)

// applicationSet 用例
var applicationSet = wire.NewSet(
	appuser.NewRegisterUseCase,
	appuser.NewUserUseCase,
	appuser.NewLoginUseCase,
	appuser.NewRefreshUseCase,
	appuser.NewLogoutUseCase,
	wire.Bind(new(appuser.TokenBlacklist), new(*redis.TokenBlacklist)),
	appdirectory.NewEntryUseCase,
	appdevice.NewDeviceUseCase,
	appstock.NewPositionUseCase,
	appstock.NewExpenditureUseCase,
	appticket.NewResolver,
	appticket.NewListTicketsUseCase,
	appticket.NewGetTicketUseCase,
	appticket.NewCreateTicketUseCase,
	appticket.NewUpdateTicketUseCase,
	appticket.NewDeleteTicketUseCase,
	appticket.NewDashboardUseCase,
)

// interfaceSet 中间件、处理器、路由
var interfaceSet = wire.NewSet(
	provideJWTManager,
	middleware.NewAuthMiddleware,
	wire.Bind(new(middleware.TokenChecker), new(*redis.TokenBlacklist)),
	handler.NewTicketHandler,
	handler.NewDeviceHandler,
	handler.NewStockHandler,
	handler.NewEntryHandler,
	handler.NewUserHandler,
	handler.NewAuthHandler,
	wire.Struct(new(router.Handlers), "*"),
	router.New,
)

// InitializeApp 组装HTTP服务
// 返回的cleanup按创建的逆序释放事件发布者、Redis和数据库连接
func InitializeApp(cfg *config.Config, logger *zap.Logger) (*App, func(), error) {
	wire.Build(
		infrastructureSet,
		repositorySet,
		domainSet,
		applicationSet,
		interfaceSet,
		wire.Struct(new(App), "*"),
	)
	return nil, nil, nil
}
