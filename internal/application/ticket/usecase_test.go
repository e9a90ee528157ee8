package ticket

import (
	"context"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	stockapp "github.com/xiebiao/helpdesk/internal/application/stock"
	"github.com/xiebiao/helpdesk/internal/domain/device"
	"github.com/xiebiao/helpdesk/internal/domain/directory"
	"github.com/xiebiao/helpdesk/internal/domain/stock"
	"github.com/xiebiao/helpdesk/internal/domain/ticket"
	"github.com/xiebiao/helpdesk/internal/domain/user"
	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
	"github.com/xiebiao/helpdesk/internal/infrastructure/events"
	"github.com/xiebiao/helpdesk/internal/infrastructure/persistence/database"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

var ctx = context.Background()

// recorder 记录发布的事件routing key
type recorder struct {
	mu   sync.Mutex
	keys []string
}

func (r *recorder) Publish(_ context.Context, key string, _ interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, key)
	return nil
}

func (r *recorder) Close() error { return nil }

func (r *recorder) count(key string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, k := range r.keys {
		if k == key {
			n++
		}
	}
	return n
}

var _ events.Publisher = (*recorder)(nil)

// env 真实仓储 + sqlite内存库装配出的全部工单用例
type env struct {
	positions stock.PositionRepository
	events    *recorder

	list      *ListTicketsUseCase
	get       *GetTicketUseCase
	create    *CreateTicketUseCase
	update    *UpdateTicketUseCase
	delete    *DeleteTicketUseCase
	dashboard *DashboardUseCase
}

func newEnv(t *testing.T) *env {
	t.Helper()

	db, err := database.NewDB(&config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        ":memory:",
			AutoMigrate: true,
		},
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	txm := database.NewTxManager(db)
	dirService := directory.NewService(database.NewDirectoryRepository(db))
	devService := device.NewService(database.NewDeviceRepository(db), dirService)
	userRepo := database.NewUserRepository(db)
	userService := user.NewService(userRepo)
	positions := database.NewPositionRepository(db)
	ledger := stock.NewLedger(positions, database.NewExpenditureRepository(db), txm, nil)
	tickets := database.NewTicketRepository(db)
	rec := &recorder{}

	// 基础数据
	for _, e := range []struct {
		kind   directory.Kind
		title  string
		number uint
	}{
		{directory.KindDepartment, "IT", 0},
		{directory.KindDepartment, "HR", 0},
		{directory.KindDevType, "PC", 0},
		{directory.KindCategory, "Hardware", 0},
		{directory.KindPriority, "High", 1},
		{directory.KindWorkType, "Repair", 0},
		{directory.KindWorkType, "Cleaning", 0},
	} {
		_, err := dirService.Create(ctx, e.kind, e.title, e.number)
		require.NoError(t, err)
	}
	require.NoError(t, userRepo.Create(ctx, user.NewUser("ivan", "hash")))
	_, err = devService.Create(ctx, "INV-001", "Desktop", "IT", "PC")
	require.NoError(t, err)
	_, err = devService.Create(ctx, "INV-002", "Laptop", "HR", "PC")
	require.NoError(t, err)
	for _, p := range []struct {
		title string
		qty   int
	}{{"Cable", 10}, {"Mouse", 2}} {
		pos, err := stock.NewPosition(p.title, p.qty)
		require.NoError(t, err)
		require.NoError(t, positions.Create(ctx, pos))
	}

	resolver := NewResolver(devService, userService, dirService)
	return &env{
		positions: positions,
		events:    rec,
		list:      NewListTicketsUseCase(tickets, nil),
		get:       NewGetTicketUseCase(tickets),
		create:    NewCreateTicketUseCase(tickets, resolver, ledger, txm, rec, nil),
		update:    NewUpdateTicketUseCase(tickets, resolver, ledger, txm, rec, nil),
		delete:    NewDeleteTicketUseCase(tickets, ledger, txm, rec, nil),
		dashboard: NewDashboardUseCase(tickets),
	}
}

func (e *env) quantity(t *testing.T, title string) int {
	t.Helper()
	p, err := e.positions.FindByTitle(ctx, title)
	require.NoError(t, err)
	return p.Quantity
}

func day(s string) *time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &d
}

func strPtr(s string) *string { return &s }

// baseInput 一张合法工单的最小输入
func baseInput() TicketInput {
	return TicketInput{
		Created:     Some(day("2022-02-20")),
		Description: Some("Не включается"),
		Device:      Some("INV-001"),
		Owner:       Some("ivan"),
		Category:    Some("Hardware"),
	}
}

func fieldOf(err error) string {
	return apperrors.GetAppError(err).Field
}

func TestCreateTicket(t *testing.T) {
	t.Run("嵌套引用解析并扣减库存", func(t *testing.T) {
		e := newEnv(t)

		in := baseInput()
		in.Priority = Some(strPtr("High"))
		in.WorkDone = Some([]string{"Repair", "Cleaning"})
		in.Expenditures = Some([]stockapp.ExpenditureRequest{
			{Position: "Cable", Quantity: 3},
			{Position: "Mouse", Quantity: 1},
		})

		resp, err := e.create.Execute(ctx, in)
		require.NoError(t, err)

		assert.NotZero(t, resp.ID)
		assert.Equal(t, "2022-02-20", *resp.Created)
		assert.Nil(t, resp.Closed)
		assert.Equal(t, "ivan", resp.Owner)
		assert.True(t, resp.Status, "状态默认处理中")
		require.NotNil(t, resp.Device)
		assert.Equal(t, "INV-001", resp.Device.InvNum)
		assert.Equal(t, "IT", resp.Device.Department)
		assert.Equal(t, []string{"Repair", "Cleaning"}, resp.WorkDone)
		assert.Equal(t, "High", *resp.Priority)
		assert.Equal(t, "Hardware", resp.Category)
		require.Len(t, resp.Expenditures, 2)
		assert.Equal(t, "Cable", resp.Expenditures[0].Position)
		assert.Equal(t, 3, resp.Expenditures[0].Quantity)

		assert.Equal(t, 7, e.quantity(t, "Cable"))
		assert.Equal(t, 1, e.quantity(t, "Mouse"))

		assert.Equal(t, 1, e.events.count(events.TicketCreated))
		assert.Equal(t, 2, e.events.count(events.StockConsumed))

		got, err := e.get.Execute(ctx, resp.ID)
		require.NoError(t, err)
		assert.Equal(t, resp, got, "读回结果应与创建返回一致")
	})

	t.Run("缺少必填字段", func(t *testing.T) {
		e := newEnv(t)

		for _, field := range []string{"description", "device", "owner", "category"} {
			in := baseInput()
			switch field {
			case "description":
				in.Description = Field[string]{}
			case "device":
				in.Device = Field[string]{}
			case "owner":
				in.Owner = Field[string]{}
			case "category":
				in.Category = Field[string]{}
			}
			_, err := e.create.Execute(ctx, in)
			require.Error(t, err, field)
			assert.Equal(t, field, fieldOf(err))
		}
	})

	t.Run("引用不存在返回字段错误且不写入", func(t *testing.T) {
		e := newEnv(t)

		cases := []struct {
			name  string
			edit  func(*TicketInput)
			field string
		}{
			{"设备", func(in *TicketInput) { in.Device = Some("NOPE") }, "device"},
			{"执行人", func(in *TicketInput) { in.Owner = Some("petr") }, "owner"},
			{"分类", func(in *TicketInput) { in.Category = Some("Software") }, "category"},
			{"优先级", func(in *TicketInput) { in.Priority = Some(strPtr("Low")) }, "priority"},
			{"工作类型", func(in *TicketInput) { in.WorkDone = Some([]string{"Repair", "Paint"}) }, "work_done"},
			{"库存位置", func(in *TicketInput) {
				in.Expenditures = Some([]stockapp.ExpenditureRequest{{Position: "Keyboard", Quantity: 1}})
			}, "position"},
		}
		for _, tc := range cases {
			in := baseInput()
			tc.edit(&in)
			_, err := e.create.Execute(ctx, in)
			require.Error(t, err, tc.name)
			assert.Equal(t, tc.field, fieldOf(err), tc.name)
		}

		list, err := e.list.Execute(ctx, url.Values{})
		require.NoError(t, err)
		assert.Empty(t, list)
		assert.Zero(t, e.events.count(events.TicketCreated))
	})

	t.Run("库存不足整体回滚", func(t *testing.T) {
		e := newEnv(t)

		in := baseInput()
		in.Expenditures = Some([]stockapp.ExpenditureRequest{
			{Position: "Cable", Quantity: 3},
			{Position: "Mouse", Quantity: 5},
		})
		_, err := e.create.Execute(ctx, in)
		require.Error(t, err)
		assert.ErrorIs(t, err, stock.ErrInsufficientStock)
		assert.Contains(t, err.Error(), "2")
		assert.Contains(t, err.Error(), "Mouse")

		assert.Equal(t, 10, e.quantity(t, "Cable"), "前一条消耗应随事务回滚")
		assert.Equal(t, 2, e.quantity(t, "Mouse"))

		list, err := e.list.Execute(ctx, url.Values{})
		require.NoError(t, err)
		assert.Empty(t, list)
	})

	t.Run("恰好用完库存", func(t *testing.T) {
		e := newEnv(t)

		in := baseInput()
		in.Expenditures = Some([]stockapp.ExpenditureRequest{{Position: "Mouse", Quantity: 2}})
		_, err := e.create.Execute(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, 0, e.quantity(t, "Mouse"))
	})
}

func TestUpdateTicket(t *testing.T) {
	t.Run("只修改出现的字段", func(t *testing.T) {
		e := newEnv(t)

		in := baseInput()
		in.Priority = Some(strPtr("High"))
		in.WorkDone = Some([]string{"Repair"})
		created, err := e.create.Execute(ctx, in)
		require.NoError(t, err)

		resp, err := e.update.Execute(ctx, created.ID, TicketInput{
			Closed:   Some(day("2022-02-25")),
			Status:   Some(false),
			Priority: Some[*string](nil),
			Device:   Some("INV-002"),
		})
		require.NoError(t, err)

		assert.Equal(t, "2022-02-25", *resp.Closed)
		assert.False(t, resp.Status)
		assert.Nil(t, resp.Priority, "显式null清空优先级")
		assert.Equal(t, "INV-002", resp.Device.InvNum)
		assert.Equal(t, "HR", resp.Device.Department)

		assert.Equal(t, created.Description, resp.Description)
		assert.Equal(t, created.Created, resp.Created)
		assert.Equal(t, []string{"Repair"}, resp.WorkDone, "未提交work_done时保持原值")
		assert.Equal(t, "ivan", resp.Owner)
		assert.Equal(t, 1, e.events.count(events.TicketUpdated))
	})

	t.Run("消耗列表先归还再重新扣减", func(t *testing.T) {
		e := newEnv(t)

		in := baseInput()
		in.Expenditures = Some([]stockapp.ExpenditureRequest{{Position: "Cable", Quantity: 3}})
		created, err := e.create.Execute(ctx, in)
		require.NoError(t, err)
		assert.Equal(t, 7, e.quantity(t, "Cable"))

		resp, err := e.update.Execute(ctx, created.ID, TicketInput{
			Expenditures: Some([]stockapp.ExpenditureRequest{
				{Position: "Cable", Quantity: 2},
				{Position: "Mouse", Quantity: 1},
			}),
		})
		require.NoError(t, err)
		require.Len(t, resp.Expenditures, 2)
		assert.Equal(t, 8, e.quantity(t, "Cable"))
		assert.Equal(t, 1, e.quantity(t, "Mouse"))

		// 不提交expenditures时库存不变
		_, err = e.update.Execute(ctx, created.ID, TicketInput{Description: Some("Заменён кабель")})
		require.NoError(t, err)
		assert.Equal(t, 8, e.quantity(t, "Cable"))

		// 空列表:全部归还
		resp, err = e.update.Execute(ctx, created.ID, TicketInput{
			Expenditures: Some([]stockapp.ExpenditureRequest{}),
		})
		require.NoError(t, err)
		assert.Empty(t, resp.Expenditures)
		assert.Equal(t, 10, e.quantity(t, "Cable"))
		assert.Equal(t, 2, e.quantity(t, "Mouse"))
	})

	t.Run("重新扣减失败时保持原状", func(t *testing.T) {
		e := newEnv(t)

		in := baseInput()
		in.Expenditures = Some([]stockapp.ExpenditureRequest{{Position: "Mouse", Quantity: 1}})
		created, err := e.create.Execute(ctx, in)
		require.NoError(t, err)

		_, err = e.update.Execute(ctx, created.ID, TicketInput{
			Description:  Some("другое"),
			Expenditures: Some([]stockapp.ExpenditureRequest{{Position: "Mouse", Quantity: 3}}),
		})
		assert.ErrorIs(t, err, stock.ErrInsufficientStock)

		got, err := e.get.Execute(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, created.Description, got.Description)
		require.Len(t, got.Expenditures, 1)
		assert.Equal(t, 1, e.quantity(t, "Mouse"))
	})

	t.Run("空描述被拒绝", func(t *testing.T) {
		e := newEnv(t)

		created, err := e.create.Execute(ctx, baseInput())
		require.NoError(t, err)

		_, err = e.update.Execute(ctx, created.ID, TicketInput{Description: Some("  ")})
		assert.Equal(t, "description", fieldOf(err))
	})

	t.Run("工单不存在", func(t *testing.T) {
		e := newEnv(t)

		_, err := e.update.Execute(ctx, 999, TicketInput{Status: Some(false)})
		assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
	})
}

func TestDeleteTicket(t *testing.T) {
	e := newEnv(t)

	in := baseInput()
	in.WorkDone = Some([]string{"Repair"})
	in.Expenditures = Some([]stockapp.ExpenditureRequest{
		{Position: "Cable", Quantity: 4},
		{Position: "Mouse", Quantity: 2},
	})
	created, err := e.create.Execute(ctx, in)
	require.NoError(t, err)

	require.NoError(t, e.delete.Execute(ctx, created.ID))
	assert.Equal(t, 10, e.quantity(t, "Cable"))
	assert.Equal(t, 2, e.quantity(t, "Mouse"))
	assert.Equal(t, 2, e.events.count(events.StockRestored))
	assert.Equal(t, 1, e.events.count(events.TicketDeleted))

	_, err = e.get.Execute(ctx, created.ID)
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)

	err = e.delete.Execute(ctx, created.ID)
	assert.ErrorIs(t, err, ticket.ErrTicketNotFound)
}

func TestListTickets(t *testing.T) {
	e := newEnv(t)

	for _, c := range []struct {
		created string
		device  string
	}{
		{"2022-02-20", "INV-001"},
		{"2022-02-21", "INV-002"},
		{"2022-02-22", "INV-001"},
	} {
		in := baseInput()
		in.Created = Some(day(c.created))
		in.Device = Some(c.device)
		_, err := e.create.Execute(ctx, in)
		require.NoError(t, err)
	}

	t.Run("过滤和切片", func(t *testing.T) {
		list, err := e.list.Execute(ctx, url.Values{
			"department": {"IT"},
			"sort":       {"created"},
			"order":      {"desc"},
			"start":      {"0"},
			"end":        {"1"},
		})
		require.NoError(t, err)
		require.Len(t, list, 1)
		assert.Equal(t, "2022-02-22", *list[0].Created)
	})

	t.Run("非法参数降级为完整列表", func(t *testing.T) {
		for _, params := range []url.Values{
			{"sort": {"password"}},
			{"date_gte": {"yesterday"}},
			{"start": {"x"}, "end": {"1"}},
		} {
			list, err := e.list.Execute(ctx, params)
			require.NoError(t, err)
			assert.Len(t, list, 3, params.Encode())
		}
	})
}

func TestDashboard(t *testing.T) {
	e := newEnv(t)

	for _, created := range []string{"2022-02-20", "2022-02-20", "2022-02-22", "2022-03-01"} {
		in := baseInput()
		in.Created = Some(day(created))
		_, err := e.create.Execute(ctx, in)
		require.NoError(t, err)
	}

	t.Run("按日期计数", func(t *testing.T) {
		got, err := e.dashboard.Execute(ctx, url.Values{
			"date_gte": {"2022-02-20T00:00:00.000Z"},
			"date_lte": {"2022-02-28T00:00:00"},
		})
		require.NoError(t, err)
		assert.Equal(t, map[string]int64{"2022-02-20": 2, "2022-02-22": 1}, got)
	})

	t.Run("按状态过滤", func(t *testing.T) {
		got, err := e.dashboard.Execute(ctx, url.Values{
			"date_gte": {"2022-02-20T00:00:00"},
			"date_lte": {"2022-02-28T00:00:00"},
			"status":   {"0"},
		})
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("缺少日期参数", func(t *testing.T) {
		_, err := e.dashboard.Execute(ctx, url.Values{"date_gte": {"2022-02-20T00:00:00"}})
		assert.ErrorIs(t, err, ticket.ErrDateRangeRequired)
	})
}
