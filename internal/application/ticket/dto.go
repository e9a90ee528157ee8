package ticket

import (
	"time"

	deviceapp "github.com/xiebiao/helpdesk/internal/application/device"
	stockapp "github.com/xiebiao/helpdesk/internal/application/stock"
	"github.com/xiebiao/helpdesk/internal/domain/query"
	"github.com/xiebiao/helpdesk/internal/domain/ticket"
)

// Field 可选字段
// Set为false表示请求中没有这个字段(修改时保持原值);
// Set为true且Value为零值/nil表示显式提交了空值(如"closed": null)
type Field[T any] struct {
	Set   bool
	Value T
}

// Some 构造已提交的字段
func Some[T any](v T) Field[T] {
	return Field[T]{Set: true, Value: v}
}

// TicketInput 工单写入参数
// 关联对象全部按业务键引用:设备按库存编号,执行人按用户名,字典按标题
type TicketInput struct {
	Created      Field[*time.Time]
	Closed       Field[*time.Time]
	Description  Field[string]
	Status       Field[bool]
	Device       Field[string] // 设备库存编号
	Owner        Field[string]
	Priority     Field[*string]
	Category     Field[string]
	WorkDone     Field[[]string]
	Expenditures Field[[]stockapp.ExpenditureRequest]
}

// TicketResponse 工单完整读模型
type TicketResponse struct {
	ID           uint                            `json:"id"`
	Created      *string                         `json:"created"`
	Closed       *string                         `json:"closed"`
	Owner        string                          `json:"owner"`
	Description  string                          `json:"description"`
	Device       *deviceapp.DeviceResponse       `json:"device"`
	WorkDone     []string                        `json:"work_done"`
	Priority     *string                         `json:"priority"`
	Expenditures []*stockapp.ExpenditureResponse `json:"expenditures"`
	Category     string                          `json:"category"`
	Status       bool                            `json:"status"`
}

// ToTicketResponse 领域实体 → DTO
func ToTicketResponse(t *ticket.Ticket) *TicketResponse {
	resp := &TicketResponse{
		ID:           t.ID,
		Created:      query.FormatDate(t.Created),
		Closed:       query.FormatDate(t.Closed),
		Owner:        t.Owner,
		Description:  t.Description,
		WorkDone:     t.WorkDone,
		Priority:     t.Priority,
		Expenditures: stockapp.ToExpenditureResponses(t.Expenditures),
		Category:     t.Category,
		Status:       t.Status,
	}
	if resp.WorkDone == nil {
		resp.WorkDone = []string{}
	}
	if t.Device != nil {
		resp.Device = deviceapp.ToDeviceResponse(t.Device)
	}
	return resp
}

func toTicketResponses(tickets []*ticket.Ticket) []*TicketResponse {
	resp := make([]*TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		resp = append(resp, ToTicketResponse(t))
	}
	return resp
}
