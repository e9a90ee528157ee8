package database

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
)

// newTestDB 创建sqlite内存库并迁移表结构
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: "test"},
		Database: config.DatabaseConfig{
			Driver:      config.DriverSQLite,
			Path:        ":memory:",
			AutoMigrate: true,
		},
	}
	db, err := NewDB(cfg, nil)
	require.NoError(t, err, "创建测试数据库失败")

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// fixture 基础测试数据
type fixture struct {
	db         *gorm.DB
	userID     uint
	deptIT     uint
	deptHR     uint
	typePC     uint
	category   uint
	priority   uint
	workRepair uint
	workClean  uint
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{db: db}
	owner := UserModel{Username: "ivan", Password: "hash"}
	require.NoError(t, db.Create(&owner).Error)
	f.userID = owner.ID

	it := DepartmentModel{Title: "IT"}
	hr := DepartmentModel{Title: "HR"}
	require.NoError(t, db.Create(&it).Error)
	require.NoError(t, db.Create(&hr).Error)
	f.deptIT, f.deptHR = it.ID, hr.ID

	pc := DevTypeModel{Title: "PC"}
	require.NoError(t, db.Create(&pc).Error)
	f.typePC = pc.ID

	cat := CategoryModel{Title: "Hardware"}
	require.NoError(t, db.Create(&cat).Error)
	f.category = cat.ID

	pr := PriorityModel{Number: 1, Title: "High"}
	require.NoError(t, db.Create(&pr).Error)
	f.priority = pr.ID

	repair := WorkTypeModel{Title: "Repair"}
	clean := WorkTypeModel{Title: "Cleaning"}
	require.NoError(t, db.Create(&repair).Error)
	require.NoError(t, db.Create(&clean).Error)
	f.workRepair, f.workClean = repair.ID, clean.ID

	return f
}

// device 创建一台设备
func (f *fixture) device(t *testing.T, invNum string, departmentID uint) uint {
	t.Helper()
	d := DeviceModel{InvNum: invNum, Title: "Desktop " + invNum, DepartmentID: departmentID, TypeID: f.typePC}
	require.NoError(t, f.db.Omit("Department", "Type").Create(&d).Error)
	return d.ID
}

func date(s string) *time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return &t
}

var ctx = context.Background()
