package database

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/xiebiao/helpdesk/internal/infrastructure/config"
)

// NewDB 创建数据库连接
// 设计说明：
// 1. 使用GORM v2作为ORM框架，按database.driver选择mysql/postgres/sqlite方言
// 2. 配置连接池参数（sqlite固定单连接：内存库每个连接是独立的库，且sqlite只有一个写者）
// 3. SQL日志走zap:debug模式打印每条SQL,其余模式只记录出错和慢查询
// 4. database.auto_migrate为true时自动迁移表结构
func NewDB(cfg *config.Config, log *zap.Logger) (*gorm.DB, error) {
	if log == nil {
		log = zap.NewNop()
	}

	dialector, err := dialectorFor(cfg.Database)
	if err != nil {
		return nil, err
	}

	logLevel := gormlogger.Warn
	if cfg.Server.Mode == "debug" {
		logLevel = gormlogger.Info
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: NewGormLogger(log, slowQueryThreshold).LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("连接数据库失败: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取SQL DB失败: %w", err)
	}

	if cfg.Database.Driver == config.DriverSQLite {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		sqlDB.SetConnMaxLifetime(0)
	} else {
		sqlDB.SetMaxOpenConns(cfg.Database.MaxOpenConns)
		sqlDB.SetMaxIdleConns(cfg.Database.MaxIdleConns)
		sqlDB.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	}

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("数据库连接测试失败: %w", err)
	}

	log.Info("数据库连接成功", zap.String("driver", cfg.Database.Driver))

	if cfg.Database.AutoMigrate {
		if err := Migrate(db); err != nil {
			return nil, fmt.Errorf("数据库迁移失败: %w", err)
		}
	}

	return db, nil
}

func dialectorFor(cfg config.DatabaseConfig) (gorm.Dialector, error) {
	switch cfg.Driver {
	case config.DriverMySQL, "":
		return mysql.Open(cfg.DSN()), nil
	case config.DriverPostgres:
		return postgres.Open(cfg.DSN()), nil
	case config.DriverSQLite:
		return sqliteDialector(cfg.DSN()), nil
	default:
		return nil, fmt.Errorf("不支持的数据库驱动: %s", cfg.Driver)
	}
}

// sqliteDriverName 注册了Unicode版lower()的sqlite驱动
const sqliteDriverName = "sqlite3_helpdesk"

var registerSQLite sync.Once

// sqliteDialector sqlite内置的LOWER()和LIKE只折叠ASCII字母,
// 用strings.ToLower覆盖lower(),让「Кабель」也能被「кабель」匹配
func sqliteDialector(dsn string) gorm.Dialector {
	registerSQLite.Do(func() {
		sql.Register(sqliteDriverName, &sqlite3.SQLiteDriver{
			ConnectHook: func(conn *sqlite3.SQLiteConn) error {
				return conn.RegisterFunc("lower", unicodeLower, true)
			},
		})
	})
	return &sqlite.Dialector{DriverName: sqliteDriverName, DSN: dsn}
}

// unicodeLower NULL和非文本值原样返回
func unicodeLower(v interface{}) interface{} {
	if s, ok := v.(string); ok {
		return strings.ToLower(s)
	}
	return v
}

// Migrate 迁移表结构
// 注意：AutoMigrate只会创建表、添加字段和索引，不会删除或修改现有字段
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}

// Models 所有GORM模型（迁移顺序由GORM按外键依赖自动排序）
func Models() []interface{} {
	return []interface{}{
		&UserModel{},
		&DepartmentModel{},
		&DevTypeModel{},
		&WorkTypeModel{},
		&CategoryModel{},
		&PriorityModel{},
		&DeviceModel{},
		&PositionModel{},
		&TicketModel{},
		&TicketWorkDoneModel{},
		&ExpenditureModel{},
	}
}
