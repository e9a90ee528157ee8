package database

import (
	"time"
)

// 设计说明：
// 1. 这里是infrastructure层的数据模型，包含GORM tag
// 2. domain层的实体不依赖GORM，Repository负责两者之间的转换
// 3. 外键关联字段（Owner、Device等）只用于Preload读取；写入时一律Omit(clause.Associations)
// 4. "受保护"的外键在删除前由Repository显式检查引用（见ensureUnreferenced）

// UserModel 用户
type UserModel struct {
	ID        uint      `gorm:"primaryKey"`
	Username  string    `gorm:"uniqueIndex;size:150;not null;comment:用户名"`
	Password  string    `gorm:"size:255;not null;comment:密码（bcrypt加密）"`
	CreatedAt time.Time `gorm:"comment:创建时间"`
	UpdatedAt time.Time `gorm:"comment:更新时间"`
}

func (UserModel) TableName() string { return "users" }

// DepartmentModel 部门
type DepartmentModel struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"uniqueIndex;size:200;not null;comment:部门"`
}

func (DepartmentModel) TableName() string { return "departments" }

// DevTypeModel 设备类型
type DevTypeModel struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"uniqueIndex;size:50;not null;comment:设备类型"`
}

func (DevTypeModel) TableName() string { return "dev_types" }

// WorkTypeModel 工作类型
type WorkTypeModel struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"uniqueIndex;size:200;not null;comment:工作类型"`
}

func (WorkTypeModel) TableName() string { return "work_types" }

// CategoryModel 工单分类
type CategoryModel struct {
	ID    uint   `gorm:"primaryKey"`
	Title string `gorm:"uniqueIndex;size:100;not null;comment:分类"`
}

func (CategoryModel) TableName() string { return "categories" }

// PriorityModel 优先级
type PriorityModel struct {
	ID     uint   `gorm:"primaryKey"`
	Number uint   `gorm:"not null;default:0;comment:序号"`
	Title  string `gorm:"uniqueIndex;size:100;not null;comment:优先级"`
}

func (PriorityModel) TableName() string { return "priorities" }

// DeviceModel 设备
type DeviceModel struct {
	ID           uint            `gorm:"primaryKey"`
	InvNum       string          `gorm:"uniqueIndex;size:30;not null;comment:库存/序列号"`
	Title        string          `gorm:"index;size:50;not null;comment:设备名称"`
	DepartmentID uint            `gorm:"index;not null;comment:部门ID"`
	Department   DepartmentModel `gorm:"constraint:OnDelete:RESTRICT"`
	TypeID       uint            `gorm:"index;not null;comment:设备类型ID"`
	Type         DevTypeModel    `gorm:"foreignKey:TypeID;constraint:OnDelete:RESTRICT"`
}

func (DeviceModel) TableName() string { return "devices" }

// PositionModel 库存位置
type PositionModel struct {
	ID       uint   `gorm:"primaryKey"`
	Title    string `gorm:"uniqueIndex;size:100;not null;comment:库存位置名称"`
	Quantity int    `gorm:"not null;comment:现存数量"`
}

func (PositionModel) TableName() string { return "positions" }

// TicketModel 工单
// Status不加default tag：GORM创建时会跳过零值字段，false会被默认值覆盖
type TicketModel struct {
	ID           uint               `gorm:"primaryKey"`
	Created      *time.Time         `gorm:"type:date;index;comment:创建日期"`
	Closed       *time.Time         `gorm:"type:date;index;comment:关闭日期"`
	OwnerID      uint               `gorm:"index;not null;comment:执行人ID"`
	Owner        UserModel          `gorm:"constraint:OnDelete:RESTRICT"`
	Description  string             `gorm:"type:text;not null;comment:描述"`
	DeviceID     uint               `gorm:"index;not null;comment:设备ID"`
	Device       DeviceModel        `gorm:"constraint:OnDelete:RESTRICT"`
	PriorityID   *uint              `gorm:"index;comment:优先级ID"`
	Priority     *PriorityModel     `gorm:"constraint:OnDelete:RESTRICT"`
	CategoryID   uint               `gorm:"index;not null;comment:分类ID"`
	Category     CategoryModel      `gorm:"constraint:OnDelete:RESTRICT"`
	Status       bool               `gorm:"not null;comment:状态（true处理中）"`
	Expenditures []ExpenditureModel `gorm:"foreignKey:TicketID"`
}

func (TicketModel) TableName() string { return "tickets" }

// TicketWorkDoneModel 工单-工作类型关联表（多对多）
// 写入语义为整体替换：先删除工单的全部关联，再插入新集合
type TicketWorkDoneModel struct {
	TicketID   uint `gorm:"primaryKey;autoIncrement:false"`
	WorkTypeID uint `gorm:"primaryKey;autoIncrement:false;index"`
}

func (TicketWorkDoneModel) TableName() string { return "ticket_work_done" }

// ExpenditureModel 消耗记录
type ExpenditureModel struct {
	ID         uint          `gorm:"primaryKey"`
	PositionID uint          `gorm:"index;not null;comment:库存位置ID"`
	Position   PositionModel `gorm:"constraint:OnDelete:RESTRICT"`
	Quantity   int           `gorm:"not null;comment:消耗数量"`
	TicketID   *uint         `gorm:"index;comment:所属工单ID"`
}

func (ExpenditureModel) TableName() string { return "expenditures" }
