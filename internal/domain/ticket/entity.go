package ticket

import (
	"strings"
	"time"

	"github.com/xiebiao/helpdesk/internal/domain/device"
	"github.com/xiebiao/helpdesk/internal/domain/query"
	"github.com/xiebiao/helpdesk/internal/domain/stock"
)

// Ticket 工单实体(聚合根)
// 设计说明:
// 1. 一张工单对应一台设备、一个执行人、若干已完成的工作类型,以及从仓库消耗的备件
// 2. Created/Closed是日期(UTC零点),可为空
// 3. Status为true表示处理中(默认),false表示已关闭
// 4. 关联对象以标题/用户名的形式随实体一起加载(读模型),写入时只使用ID
type Ticket struct {
	ID          uint
	Created     *time.Time
	Closed      *time.Time
	Description string
	Status      bool

	OwnerID uint
	Owner   string // 执行人用户名

	DeviceID uint
	Device   *device.Device

	PriorityID *uint
	Priority   *string // 优先级标题(可为空)

	CategoryID uint
	Category   string

	WorkTypeIDs []uint
	WorkDone    []string // 工作类型标题

	Expenditures []*stock.Expenditure
}

// NewTicket 创建工单(工厂方法),状态默认为处理中
func NewTicket(description string) (*Ticket, error) {
	t := &Ticket{Status: true}
	if err := t.Describe(description); err != nil {
		return nil, err
	}
	return t, nil
}

// Describe 修改描述
func (t *Ticket) Describe(description string) error {
	if strings.TrimSpace(description) == "" {
		return ErrDescriptionRequired
	}
	t.Description = description
	return nil
}

// SetCreated 设置创建日期(统一截断为UTC零点)
func (t *Ticket) SetCreated(d *time.Time) {
	t.Created = truncate(d)
}

// SetClosed 设置关闭日期
func (t *Ticket) SetClosed(d *time.Time) {
	t.Closed = truncate(d)
}

func truncate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := query.DateOf(*d)
	return &v
}
