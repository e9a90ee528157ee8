package dto

import (
	"encoding/json"
	"time"

	stockapp "github.com/xiebiao/helpdesk/internal/application/stock"
	appticket "github.com/xiebiao/helpdesk/internal/application/ticket"
	"github.com/xiebiao/helpdesk/internal/domain/query"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// TicketRequest HTTP工单写入请求(POST/PUT/PATCH共用)
// 字段是否出现在JSON中是有意义的:修改时缺失的字段保持原值,显式null清空可空字段。
// 关联对象按业务键引用:device只使用inv_num,owner是用户名,其余是标题
type TicketRequest struct {
	Created      *string              `json:"created" example:"2022-02-20"`
	Closed       *string              `json:"closed" example:"2022-02-21"`
	Description  string               `json:"description" example:"Не включается монитор"`
	Status       *bool                `json:"status" example:"true"`
	Device       *DeviceRef           `json:"device"`
	Owner        string               `json:"owner" example:"ivan"`
	Priority     *string              `json:"priority" example:"Высокий"`
	Category     string               `json:"category" example:"Оборудование"`
	WorkDone     []string             `json:"work_done" example:"Ремонт"`
	Expenditures []ExpenditureRequest `json:"expenditures"`

	present map[string]bool
}

// DeviceRef 工单中嵌入的设备引用
// 接受完整设备对象(只读取inv_num)或直接给出库存编号字符串
type DeviceRef struct {
	InvNum string `json:"inv_num" example:"INV-0001"`
}

// UnmarshalJSON 同时接受 "INV-0001" 和 {"inv_num":"INV-0001",...}
func (d *DeviceRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &d.InvNum)
	}
	type plain DeviceRef
	return json.Unmarshal(data, (*plain)(d))
}

// UnmarshalJSON 解码字段值的同时记录出现过的键
func (r *TicketRequest) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	type plain TicketRequest
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}

	*r = TicketRequest(p)
	r.present = make(map[string]bool, len(raw))
	for k := range raw {
		r.present[k] = true
	}
	return nil
}

func (r *TicketRequest) has(key string) bool {
	return r.present[key]
}

// ToInput 转换为应用层输入
// 日期格式或必须非空的值不合法时返回字段校验错误
func (r *TicketRequest) ToInput() (appticket.TicketInput, error) {
	var in appticket.TicketInput

	if r.has("created") {
		d, err := parseDate("created", r.Created)
		if err != nil {
			return in, err
		}
		in.Created = appticket.Some(d)
	}
	if r.has("closed") {
		d, err := parseDate("closed", r.Closed)
		if err != nil {
			return in, err
		}
		in.Closed = appticket.Some(d)
	}
	if r.has("description") {
		in.Description = appticket.Some(r.Description)
	}
	if r.has("status") {
		if r.Status == nil {
			return in, apperrors.NewField("status", "不能为null")
		}
		in.Status = appticket.Some(*r.Status)
	}
	if r.has("device") {
		if r.Device == nil || r.Device.InvNum == "" {
			return in, apperrors.NewField("device", "必须提供设备库存编号inv_num")
		}
		in.Device = appticket.Some(r.Device.InvNum)
	}
	if r.has("owner") {
		in.Owner = appticket.Some(r.Owner)
	}
	if r.has("priority") {
		in.Priority = appticket.Some(r.Priority)
	}
	if r.has("category") {
		in.Category = appticket.Some(r.Category)
	}
	if r.has("work_done") {
		in.WorkDone = appticket.Some(r.WorkDone)
	}
	if r.has("expenditures") {
		exps := make([]stockapp.ExpenditureRequest, 0, len(r.Expenditures))
		for _, e := range r.Expenditures {
			exps = append(exps, stockapp.ExpenditureRequest{Position: e.Position, Quantity: e.Quantity})
		}
		in.Expenditures = appticket.Some(exps)
	}

	return in, nil
}

// parseDate 接受YYYY-MM-DD或YYYY-MM-DDTHH:MM:SS[.xxx],null表示清空
func parseDate(field string, raw *string) (*time.Time, error) {
	if raw == nil {
		return nil, nil
	}
	if d, err := query.ParseDate(*raw); err == nil {
		return &d, nil
	}
	d, err := query.ParseTimestamp(*raw)
	if err != nil || d == nil {
		return nil, apperrors.NewField(field, "日期格式应为YYYY-MM-DD")
	}
	return d, nil
}
