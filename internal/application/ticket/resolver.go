package ticket

import (
	"context"

	"github.com/xiebiao/helpdesk/internal/domain/device"
	"github.com/xiebiao/helpdesk/internal/domain/directory"
	"github.com/xiebiao/helpdesk/internal/domain/ticket"
	"github.com/xiebiao/helpdesk/internal/domain/user"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// Resolver 嵌套引用解析器
// 把请求里按业务键给出的设备、执行人、优先级、分类、工作类型解析为已有记录,
// 只查找不创建;任一引用不存在时返回指向该字段的校验错误
type Resolver struct {
	devices   device.Service
	users     user.Service
	directory directory.Service
}

// NewResolver 创建解析器
func NewResolver(devices device.Service, users user.Service, dir directory.Service) *Resolver {
	return &Resolver{devices: devices, users: users, directory: dir}
}

// requireFields 创建时必填的字段
func requireFields(in TicketInput) error {
	switch {
	case !in.Description.Set:
		return apperrors.NewField("description", "该字段为必填项")
	case !in.Device.Set:
		return apperrors.NewField("device", "该字段为必填项")
	case !in.Owner.Set:
		return apperrors.NewField("owner", "该字段为必填项")
	case !in.Category.Set:
		return apperrors.NewField("category", "该字段为必填项")
	}
	return nil
}

// Apply 把已提交的字段写到工单上,未提交的字段保持不变
func (r *Resolver) Apply(ctx context.Context, t *ticket.Ticket, in TicketInput) error {
	if in.Description.Set {
		if err := t.Describe(in.Description.Value); err != nil {
			return err
		}
	}
	if in.Created.Set {
		t.SetCreated(in.Created.Value)
	}
	if in.Closed.Set {
		t.SetClosed(in.Closed.Value)
	}
	if in.Status.Set {
		t.Status = in.Status.Value
	}

	if in.Device.Set {
		d, err := r.devices.Resolve(ctx, "device", in.Device.Value)
		if err != nil {
			return err
		}
		t.DeviceID = d.ID
		t.Device = d
	}

	if in.Owner.Set {
		u, err := r.users.Resolve(ctx, "owner", in.Owner.Value)
		if err != nil {
			return err
		}
		t.OwnerID = u.ID
		t.Owner = u.Username
	}

	if in.Priority.Set {
		if in.Priority.Value == nil {
			t.PriorityID = nil
			t.Priority = nil
		} else {
			p, err := r.directory.Resolve(ctx, directory.KindPriority, "priority", *in.Priority.Value)
			if err != nil {
				return err
			}
			id, title := p.ID, p.Title
			t.PriorityID = &id
			t.Priority = &title
		}
	}

	if in.Category.Set {
		c, err := r.directory.Resolve(ctx, directory.KindCategory, "category", in.Category.Value)
		if err != nil {
			return err
		}
		t.CategoryID = c.ID
		t.Category = c.Title
	}

	if in.WorkDone.Set {
		entries, err := r.directory.ResolveAll(ctx, directory.KindWorkType, "work_done", in.WorkDone.Value)
		if err != nil {
			return err
		}
		t.WorkTypeIDs = make([]uint, 0, len(entries))
		t.WorkDone = make([]string, 0, len(entries))
		for _, e := range entries {
			t.WorkTypeIDs = append(t.WorkTypeIDs, e.ID)
			t.WorkDone = append(t.WorkDone, e.Title)
		}
	}

	return nil
}
