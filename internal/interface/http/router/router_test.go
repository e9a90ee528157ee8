package router

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
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
	"github.com/xiebiao/helpdesk/internal/infrastructure/events"
	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/database"
	"github.com/xiebiao/helpdesk/internal/interface/http/handler"
	"github.com/xiebiao/helpdesk/internal/interface/http/middleware"
	"github.com/xiebiao/helpdesk/pkg/jwt"
)

// memBlacklist 内存Token黑名单
type memBlacklist struct {
	mu      sync.Mutex
	revoked map[string]bool
}

func (b *memBlacklist) Revoke(_ context.Context, tokenID string, _ time.Duration) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.revoked[tokenID] = true
	return nil
}

func (b *memBlacklist) IsRevoked(_ context.Context, tokenID string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.revoked[tokenID], nil
}

// envelope 统一响应
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

type server struct {
	t      *testing.T
	engine *gin.Engine
	jwt    *jwt.Manager
	token  string
}

func newServer(t *testing.T) *server {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        ":memory:",
			AutoMigrate: true,
		},
	}
	db, err := database.NewDB(cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	logger := zap.NewNop()
	jwtManager := jwt.NewManager("router-test-secret-0123456789", time.Hour, 24*time.Hour)
	blacklist := &memBlacklist{revoked: map[string]bool{}}
	publisher := events.NewNoopPublisher()

	txm := database.NewTxManager(db)
	dirService := directory.NewService(database.NewDirectoryRepository(db))
	devService := device.NewService(database.NewDeviceRepository(db), dirService)
	userService := user.NewService(database.NewUserRepository(db))
	positions := database.NewPositionRepository(db)
	expenditures := database.NewExpenditureRepository(db)
	ledger := stock.NewLedger(positions, expenditures, txm, logger)
	tickets := database.NewTicketRepository(db)
	resolver := appticket.NewResolver(devService, userService, dirService)

	h := Handlers{
		Ticket: handler.NewTicketHandler(
			appticket.NewListTicketsUseCase(tickets, logger),
			appticket.NewGetTicketUseCase(tickets),
			appticket.NewCreateTicketUseCase(tickets, resolver, ledger, txm, publisher, logger),
			appticket.NewUpdateTicketUseCase(tickets, resolver, ledger, txm, publisher, logger),
			appticket.NewDeleteTicketUseCase(tickets, ledger, txm, publisher, logger),
			appticket.NewDashboardUseCase(tickets),
		),
		Device: handler.NewDeviceHandler(appdevice.NewDeviceUseCase(devService, logger)),
		Stock: handler.NewStockHandler(
			appstock.NewPositionUseCase(positions, logger),
			appstock.NewExpenditureUseCase(expenditures, ledger, publisher),
		),
		Directory: handler.NewEntryHandler(appdirectory.NewEntryUseCase(dirService)),
		User:      handler.NewUserHandler(appuser.NewRegisterUseCase(userService), appuser.NewUserUseCase(userService)),
		Auth: handler.NewAuthHandler(
			appuser.NewLoginUseCase(userService, jwtManager, logger),
			appuser.NewRefreshUseCase(jwtManager, blacklist),
			appuser.NewLogoutUseCase(jwtManager, blacklist),
		),
	}

	engine := New(cfg, logger, h, middleware.NewAuthMiddleware(jwtManager, blacklist))

	pair, err := jwtManager.GenerateToken(1, "admin")
	require.NoError(t, err)

	return &server{t: t, engine: engine, jwt: jwtManager, token: pair.AccessToken}
}

// do 发送请求;token为空时不带Authorization
func (s *server) do(method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	s.t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(s.t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.engine.ServeHTTP(w, req)

	var env envelope
	if w.Body.Len() > 0 {
		require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	}
	return w, env
}

// write 带Token的写请求,断言状态码
func (s *server) write(method, path string, body interface{}, status int) envelope {
	s.t.Helper()
	w, env := s.do(method, path, s.token, body)
	require.Equal(s.t, status, w.Code, w.Body.String())
	return env
}

// seed 通过接口准备工单依赖的数据
func (s *server) seed() {
	s.t.Helper()
	s.write(http.MethodPost, "/api/v1/departments", gin.H{"title": "IT"}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/devtypes", gin.H{"title": "PC"}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/categories", gin.H{"title": "Hardware"}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/priorities", gin.H{"title": "High", "number": 1}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/worktypes", gin.H{"title": "Repair"}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/users", gin.H{"username": "ivan", "password": "secret123"}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/devices", gin.H{
		"inv_num": "INV-001", "title": "Desktop", "department": "IT", "type": "PC",
	}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/positions", gin.H{"title": "Cable", "quantity": 10}, http.StatusCreated)
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), string(raw))
	return v
}

func TestPing(t *testing.T) {
	s := newServer(t)

	w, env := s.do(http.MethodGet, "/ping", "", nil)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, env.Code)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestWriteRequiresAuth(t *testing.T) {
	s := newServer(t)

	t.Run("未携带Token的写请求返回401且不落库", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/api/v1/departments", "", gin.H{"title": "IT"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 40100, env.Code)
		assert.Equal(t, "未提供认证凭据", env.Message)

		_, list := s.do(http.MethodGet, "/api/v1/departments", "", nil)
		assert.JSONEq(t, `[]`, string(list.Data))
	})

	t.Run("Token无效返回401", func(t *testing.T) {
		w, env := s.do(http.MethodDelete, "/api/v1/tickets/1", "not-a-jwt", nil)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 40101, env.Code)
	})

	t.Run("Refresh Token不能用于写接口", func(t *testing.T) {
		pair, err := s.jwt.GenerateToken(1, "admin")
		require.NoError(t, err)

		w, _ := s.do(http.MethodPost, "/api/v1/departments", pair.RefreshToken, gin.H{"title": "IT"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("读接口无需登录", func(t *testing.T) {
		for _, path := range []string{"/api/v1/tickets", "/api/v1/devices", "/api/v1/positions", "/api/v1/users", "/api/v1/priorities"} {
			w, _ := s.do(http.MethodGet, path, "", nil)
			assert.Equal(t, http.StatusOK, w.Code, path)
		}
	})
}

func TestTicketRoundTrip(t *testing.T) {
	s := newServer(t)
	s.seed()

	env := s.write(http.MethodPost, "/api/v1/tickets", gin.H{
		"created":      "2022-02-20",
		"description":  "Не включается",
		"device":       gin.H{"inv_num": "INV-001", "title": "ignored"},
		"owner":        "ivan",
		"priority":     "High",
		"category":     "Hardware",
		"work_done":    []string{"Repair"},
		"expenditures": []gin.H{{"position": "Cable", "quantity": 3}},
	}, http.StatusCreated)

	created := decode[appticket.TicketResponse](t, env.Data)
	require.NotNil(t, created.Device)
	assert.Equal(t, "INV-001", created.Device.InvNum)
	assert.Equal(t, "IT", created.Device.Department)
	require.NotNil(t, created.Priority)
	assert.Equal(t, "High", *created.Priority)
	assert.Equal(t, "Hardware", created.Category)
	assert.Equal(t, []string{"Repair"}, created.WorkDone)
	assert.True(t, created.Status)
	require.NotNil(t, created.Created)
	assert.Equal(t, "2022-02-20", *created.Created)
	assert.Nil(t, created.Closed)
	require.Len(t, created.Expenditures, 1)
	assert.Equal(t, "Cable", created.Expenditures[0].Position)
	assert.Equal(t, 3, created.Expenditures[0].Quantity)

	_, posEnv := s.do(http.MethodGet, "/api/v1/positions/1", "", nil)
	assert.Equal(t, 7, decode[appstock.PositionResponse](t, posEnv.Data).Quantity)

	t.Run("PATCH只修改出现的字段", func(t *testing.T) {
		env := s.write(http.MethodPatch, "/api/v1/tickets/1", gin.H{"status": false, "closed": "2022-02-21"}, http.StatusOK)

		updated := decode[appticket.TicketResponse](t, env.Data)
		assert.False(t, updated.Status)
		require.NotNil(t, updated.Closed)
		assert.Equal(t, "2022-02-21", *updated.Closed)
		assert.Equal(t, "Не включается", updated.Description)
		assert.Len(t, updated.Expenditures, 1)
	})

	t.Run("未知设备编号返回device字段错误", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/api/v1/tickets", s.token, gin.H{
			"description": "x", "device": "INV-404", "owner": "ivan", "category": "Hardware",
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 40902, env.Code)
		assert.JSONEq(t, `{"field":"device"}`, string(env.Data))
	})

	t.Run("库存不足时工单整体回滚", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/api/v1/tickets", s.token, gin.H{
			"description": "x", "device": "INV-001", "owner": "ivan", "category": "Hardware",
			"expenditures": []gin.H{{"position": "Cable", "quantity": 100}},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 40001, env.Code)
		assert.Contains(t, env.Message, "仅剩 7 件 Cable")

		_, list := s.do(http.MethodGet, "/api/v1/tickets", "", nil)
		assert.Len(t, decode[[]appticket.TicketResponse](t, list.Data), 1)
	})

	t.Run("仪表盘按日期计数", func(t *testing.T) {
		w, env := s.do(http.MethodGet, "/api/v1/dashboard?date_gte=2022-02-19T00:00:00&date_lte=2022-02-23T00:00:00", "", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"2022-02-20":1}`, string(env.Data))
	})

	t.Run("仪表盘缺少日期返回400", func(t *testing.T) {
		w, env := s.do(http.MethodGet, "/api/v1/dashboard", "", nil)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 40900, env.Code)
	})

	t.Run("删除工单归还库存", func(t *testing.T) {
		w, _ := s.do(http.MethodDelete, "/api/v1/tickets/1", s.token, nil)
		assert.Equal(t, http.StatusNoContent, w.Code)

		_, posEnv := s.do(http.MethodGet, "/api/v1/positions/1", "", nil)
		assert.Equal(t, 10, decode[appstock.PositionResponse](t, posEnv.Data).Quantity)

		w, _ = s.do(http.MethodGet, "/api/v1/tickets/1", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestSimpleCollections(t *testing.T) {
	s := newServer(t)
	s.seed()

	t.Run("必填字段缺失返回json字段名", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/api/v1/devices", s.token, gin.H{"inv_num": "INV-002", "department": "IT", "type": "PC"})

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, 40902, env.Code)
		assert.JSONEq(t, `{"field":"title"}`, string(env.Data))
	})

	t.Run("重复标题返回409", func(t *testing.T) {
		w, _ := s.do(http.MethodPost, "/api/v1/departments", s.token, gin.H{"title": "IT"})
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("PATCH设备保留未提交的字段", func(t *testing.T) {
		env := s.write(http.MethodPatch, "/api/v1/devices/1", gin.H{"title": "Workstation"}, http.StatusOK)

		d := decode[appdevice.DeviceResponse](t, env.Data)
		assert.Equal(t, "Workstation", d.Title)
		assert.Equal(t, "INV-001", d.InvNum)
		assert.Equal(t, "IT", d.Department)
	})

	t.Run("PUT设备缺字段校验失败", func(t *testing.T) {
		w, _ := s.do(http.MethodPut, "/api/v1/devices/1", s.token, gin.H{"title": "Workstation"})
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("仍被设备引用的部门不能删除", func(t *testing.T) {
		w, env := s.do(http.MethodDelete, "/api/v1/departments/1", s.token, nil)

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, 40010, env.Code)
	})

	t.Run("直接消耗扣减库存,删除后归还", func(t *testing.T) {
		env := s.write(http.MethodPost, "/api/v1/expenditures", gin.H{"position": "Cable", "quantity": 4}, http.StatusCreated)
		exp := decode[appstock.ExpenditureResponse](t, env.Data)

		_, posEnv := s.do(http.MethodGet, "/api/v1/positions/1", "", nil)
		assert.Equal(t, 6, decode[appstock.PositionResponse](t, posEnv.Data).Quantity)

		s.write(http.MethodDelete, "/api/v1/expenditures/"+strconv.FormatUint(uint64(exp.ID), 10), nil, http.StatusNoContent)

		_, posEnv = s.do(http.MethodGet, "/api/v1/positions/1", "", nil)
		assert.Equal(t, 10, decode[appstock.PositionResponse](t, posEnv.Data).Quantity)
	})

	t.Run("非法ID返回404", func(t *testing.T) {
		w, _ := s.do(http.MethodGet, "/api/v1/devices/abc", "", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("用户响应不含密码", func(t *testing.T) {
		_, env := s.do(http.MethodGet, "/api/v1/users", "", nil)
		assert.NotContains(t, string(env.Data), "password")
		assert.Contains(t, string(env.Data), `"username":"ivan"`)
	})
}

func TestListQueryFallback(t *testing.T) {
	s := newServer(t)
	s.seed()
	s.write(http.MethodPost, "/api/v1/devices", gin.H{
		"inv_num": "INV-002", "title": "Принтер Kyocera", "department": "IT", "type": "PC",
	}, http.StatusCreated)
	s.write(http.MethodPost, "/api/v1/positions", gin.H{"title": "Кабель HDMI", "quantity": 3}, http.StatusCreated)

	list := func(t *testing.T, path string, params url.Values) []string {
		t.Helper()
		w, env := s.do(http.MethodGet, path+"?"+params.Encode(), "", nil)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var items []struct {
			InvNum string `json:"inv_num"`
			Title  string `json:"title"`
		}
		require.NoError(t, json.Unmarshal(env.Data, &items))
		out := make([]string, 0, len(items))
		for _, it := range items {
			if it.InvNum != "" {
				out = append(out, it.InvNum)
			} else {
				out = append(out, it.Title)
			}
		}
		return out
	}

	t.Run("设备名称按西里尔字母过滤", func(t *testing.T) {
		got := list(t, "/api/v1/devices", url.Values{"title_like": {"принтер"}})
		assert.Equal(t, []string{"INV-002"}, got)
	})

	t.Run("未知排序字段返回未过滤的完整列表", func(t *testing.T) {
		got := list(t, "/api/v1/devices", url.Values{"title_like": {"принтер"}, "sort": {"bogus"}, "order": {"asc"}})
		assert.ElementsMatch(t, []string{"INV-001", "INV-002"}, got)
	})

	t.Run("非整数切片参数返回完整列表", func(t *testing.T) {
		got := list(t, "/api/v1/devices", url.Values{"inventory_like": {"INV-002"}, "start": {"a"}, "end": {"1"}})
		assert.ElementsMatch(t, []string{"INV-001", "INV-002"}, got)
	})

	t.Run("哨兵值不过滤", func(t *testing.T) {
		got := list(t, "/api/v1/devices", url.Values{"department": {"Любая"}, "type": {"Любой"}})
		assert.ElementsMatch(t, []string{"INV-001", "INV-002"}, got)
	})

	t.Run("库存位置按西里尔字母过滤", func(t *testing.T) {
		got := list(t, "/api/v1/positions", url.Values{"contains": {"КАБЕЛЬ"}})
		assert.Equal(t, []string{"Кабель HDMI"}, got)
	})

	t.Run("库存位置非法排序方向返回完整列表", func(t *testing.T) {
		got := list(t, "/api/v1/positions", url.Values{"contains": {"кабель"}, "sort": {"title"}, "order": {"sideways"}})
		assert.ElementsMatch(t, []string{"Cable", "Кабель HDMI"}, got)
	})
}

func TestAuthFlow(t *testing.T) {
	s := newServer(t)
	s.write(http.MethodPost, "/api/v1/users", gin.H{"username": "ivan", "password": "secret123"}, http.StatusCreated)

	t.Run("密码错误", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "ivan", "password": "wrongpass"})

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 40103, env.Code)
	})

	w, env := s.do(http.MethodPost, "/api/v1/auth/login", "", gin.H{"username": "ivan", "password": "secret123"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	login := decode[appuser.LoginResponse](t, env.Data)
	require.NotEmpty(t, login.AccessToken)
	assert.Equal(t, "ivan", login.User.Username)

	t.Run("刷新Access Token", func(t *testing.T) {
		w, env := s.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": login.RefreshToken})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.NotEmpty(t, decode[appuser.RefreshResponse](t, env.Data).AccessToken)
	})

	t.Run("登出后Token失效", func(t *testing.T) {
		w, _ := s.do(http.MethodPost, "/api/v1/auth/logout", login.AccessToken, gin.H{"refresh_token": login.RefreshToken})
		require.Equal(t, http.StatusNoContent, w.Code)

		w, env := s.do(http.MethodPost, "/api/v1/departments", login.AccessToken, gin.H{"title": "IT"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.Equal(t, 40101, env.Code)

		w, _ = s.do(http.MethodPost, "/api/v1/auth/refresh", "", gin.H{"refresh_token": login.RefreshToken})
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
