// Package router 组装Gin引擎:全局中间件 + 路由表
package router

import (
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/internal/domain/directory"
	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
	"github.com/xiebiao/helpdesk/internal/interface/http/handler"
	"github.com/xiebiao/helpdesk/internal/interface/http/middleware"
	"github.com/xiebiao/helpdesk/pkg/response"
)

// Handlers 所有HTTP处理器
type Handlers struct {
	Ticket    *handler.TicketHandler
	Device    *handler.DeviceHandler
	Stock     *handler.StockHandler
	Directory *handler.EntryHandler
	User      *handler.UserHandler
	Auth      *handler.AuthHandler
}

// dictionaries 字典路由 → 字典类型
var dictionaries = []struct {
	path string
	kind directory.Kind
}{
	{"/departments", directory.KindDepartment},
	{"/devtypes", directory.KindDevType},
	{"/worktypes", directory.KindWorkType},
	{"/categories", directory.KindCategory},
	{"/priorities", directory.KindPriority},
}

// New 创建并配置Gin引擎
//
// 鉴权策略:所有读接口公开,资源上的写操作(POST/PUT/PATCH/DELETE)必须携带Bearer Token
func New(cfg *config.Config, logger *zap.Logger, h Handlers, auth *middleware.AuthMiddleware) *gin.Engine {
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.Server.Mode == "test" {
		gin.SetMode(gin.TestMode)
	}

	// 校验错误里报告json字段名
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		v.RegisterTagNameFunc(handler.JSONTagName)
	}

	r := gin.New()
	r.Use(middleware.Recovery(logger), middleware.Logger(logger))
	if cfg.CORS.Enabled {
		r.Use(middleware.CORS(cfg.CORS))
	}
	if cfg.Metrics.Enabled {
		r.Use(middleware.Metrics())
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	r.GET("/ping", func(c *gin.Context) {
		response.Success(c, gin.H{
			"message": "pong",
			"status":  "healthy",
		})
	})

	// 访问 /swagger/index.html 查看API文档
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := r.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/login", h.Auth.Login)
			authGroup.POST("/refresh", h.Auth.Refresh)
			authGroup.POST("/logout", auth.RequireAuth(), h.Auth.Logout)
		}

		v1.GET("/dashboard", h.Ticket.Dashboard)

		resources := v1.Group("")
		resources.Use(auth.RequireAuthForWrites())
		{
			tickets := resources.Group("/tickets")
			{
				tickets.GET("", h.Ticket.List)
				tickets.POST("", h.Ticket.Create)
				tickets.GET("/:id", h.Ticket.Get)
				tickets.PUT("/:id", h.Ticket.Update)
				tickets.PATCH("/:id", h.Ticket.Update)
				tickets.DELETE("/:id", h.Ticket.Delete)
			}

			devices := resources.Group("/devices")
			{
				devices.GET("", h.Device.List)
				devices.POST("", h.Device.Create)
				devices.GET("/:id", h.Device.Get)
				devices.PUT("/:id", h.Device.Update)
				devices.PATCH("/:id", h.Device.Update)
				devices.DELETE("/:id", h.Device.Delete)
			}

			positions := resources.Group("/positions")
			{
				positions.GET("", h.Stock.ListPositions)
				positions.POST("", h.Stock.CreatePosition)
				positions.GET("/:id", h.Stock.GetPosition)
				positions.PUT("/:id", h.Stock.UpdatePosition)
				positions.PATCH("/:id", h.Stock.UpdatePosition)
				positions.DELETE("/:id", h.Stock.DeletePosition)
			}

			expenditures := resources.Group("/expenditures")
			{
				expenditures.GET("", h.Stock.ListExpenditures)
				expenditures.POST("", h.Stock.CreateExpenditure)
				expenditures.GET("/:id", h.Stock.GetExpenditure)
				expenditures.PUT("/:id", h.Stock.UpdateExpenditure)
				expenditures.PATCH("/:id", h.Stock.UpdateExpenditure)
				expenditures.DELETE("/:id", h.Stock.DeleteExpenditure)
			}

			users := resources.Group("/users")
			{
				users.GET("", h.User.List)
				users.POST("", h.User.Create)
				users.GET("/:id", h.User.Get)
				users.PUT("/:id", h.User.Update)
				users.PATCH("/:id", h.User.Update)
				users.DELETE("/:id", h.User.Delete)
			}

			for _, d := range dictionaries {
				g := resources.Group(d.path)
				g.GET("", h.Directory.List(d.kind))
				g.POST("", h.Directory.Create(d.kind))
				g.GET("/:id", h.Directory.Get(d.kind))
				g.PUT("/:id", h.Directory.Update(d.kind))
				g.PATCH("/:id", h.Directory.Update(d.kind))
				g.DELETE("/:id", h.Directory.Delete(d.kind))
			}
		}
	}

	return r
}
