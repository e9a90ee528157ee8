package ticket

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	stockapp "github.com/xiebiao/helpdesk/internal/application/stock"
	"github.com/xiebiao/helpdesk/internal/domain/stock"
	"github.com/xiebiao/helpdesk/internal/domain/ticket"
	"github.com/xiebiao/helpdesk/internal/infrastructure/events"
	"github.com/xiebiao/helpdesk/pkg/metrics"
	"github.com/xiebiao/helpdesk/pkg/tracing"
)

const tracerName = "helpdesk/ticket"

// writer 工单写用例共用的依赖
// 所有写操作在一个事务内完成:嵌套引用解析、工单行、工作类型关联、库存台账。
// 任一步失败整体回滚,库存数量不会因为失败的请求而变化
type writer struct {
	repo      ticket.Repository
	resolver  *Resolver
	ledger    stock.Ledger
	tx        stock.Transactor
	publisher events.Publisher
	logger    *zap.Logger
}

func newWriter(repo ticket.Repository, resolver *Resolver, ledger stock.Ledger, tx stock.Transactor, publisher events.Publisher, logger *zap.Logger) writer {
	if logger == nil {
		logger = zap.NewNop()
	}
	if publisher == nil {
		publisher = events.NewNoopPublisher()
	}
	return writer{
		repo:      repo,
		resolver:  resolver,
		ledger:    ledger,
		tx:        tx,
		publisher: publisher,
		logger:    logger,
	}
}

// consume 为工单逐条登记消耗
func (w writer) consume(ctx context.Context, t *ticket.Ticket, reqs []stockapp.ExpenditureRequest) ([]*stock.Expenditure, error) {
	ticketID := t.ID
	applied := make([]*stock.Expenditure, 0, len(reqs))
	for _, req := range reqs {
		exp, err := w.ledger.ApplyConsumption(ctx, req.Position, req.Quantity, &ticketID)
		if err != nil {
			return nil, err
		}
		applied = append(applied, exp)
	}
	return applied, nil
}

// restore 撤销工单现有的全部消耗
func (w writer) restore(ctx context.Context, t *ticket.Ticket) ([]*stock.Expenditure, error) {
	for _, exp := range t.Expenditures {
		if err := w.ledger.ReverseConsumption(ctx, exp); err != nil {
			return nil, err
		}
	}
	return t.Expenditures, nil
}

// publish 事务提交后发布事件,失败只由发布者记录
func (w writer) publish(ctx context.Context, key string, t *ticket.Ticket, restored, consumed []*stock.Expenditure) {
	for _, exp := range restored {
		_ = w.publisher.Publish(ctx, events.StockRestored, stockapp.StockEventOf(exp))
	}
	for _, exp := range consumed {
		_ = w.publisher.Publish(ctx, events.StockConsumed, stockapp.StockEventOf(exp))
	}
	_ = w.publisher.Publish(ctx, key, ticketEventOf(t))
}

func ticketEventOf(t *ticket.Ticket) events.TicketEvent {
	ev := events.TicketEvent{
		TicketID:   t.ID,
		Status:     t.Status,
		Owner:      t.Owner,
		OccurredAt: time.Now().UTC(),
	}
	if t.Device != nil {
		ev.Device = t.Device.InvNum
	}
	return ev
}

// CreateTicketUseCase 创建工单用例
type CreateTicketUseCase struct {
	writer
}

// NewCreateTicketUseCase 创建工单用例
func NewCreateTicketUseCase(repo ticket.Repository, resolver *Resolver, ledger stock.Ledger, tx stock.Transactor, publisher events.Publisher, logger *zap.Logger) *CreateTicketUseCase {
	return &CreateTicketUseCase{writer: newWriter(repo, resolver, ledger, tx, publisher, logger)}
}

// Execute 创建工单
// 流程:
// 1. 校验必填字段(description/device/owner/category)
// 2. 解析设备、执行人、优先级、分类、工作类型(只查找,不创建)
// 3. 写入工单行和工作类型关联
// 4. 逐条登记消耗并扣减库存(库存不足时整体回滚)
// 5. 重新加载完整读模型,提交后发布ticket.created
func (uc *CreateTicketUseCase) Execute(ctx context.Context, in TicketInput) (resp *TicketResponse, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "CreateTicket")
	defer func() {
		metrics.RecordTicketWrite("create", time.Since(start), err)
		if err != nil {
			tracing.Fail(span, err)
		}
		span.End()
	}()

	if err := requireFields(in); err != nil {
		return nil, err
	}

	var created *ticket.Ticket
	var consumed []*stock.Expenditure
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		t := &ticket.Ticket{Status: true}
		if err := uc.resolver.Apply(ctx, t, in); err != nil {
			return err
		}
		if err := uc.repo.Create(ctx, t); err != nil {
			return err
		}
		if err := uc.repo.ReplaceWorkDone(ctx, t.ID, t.WorkTypeIDs); err != nil {
			return err
		}

		var err error
		if consumed, err = uc.consume(ctx, t, in.Expenditures.Value); err != nil {
			return err
		}

		created, err = uc.repo.FindByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	span.SetAttributes(attribute.Int("ticket_id", int(created.ID)))
	uc.logger.Info("工单已创建",
		zap.Uint("ticket_id", created.ID),
		zap.String("owner", created.Owner),
		zap.Int("expenditures", len(consumed)),
	)
	uc.publish(ctx, events.TicketCreated, created, nil, consumed)
	return ToTicketResponse(created), nil
}

// UpdateTicketUseCase 修改工单用例
type UpdateTicketUseCase struct {
	writer
}

// NewUpdateTicketUseCase 创建修改工单用例
func NewUpdateTicketUseCase(repo ticket.Repository, resolver *Resolver, ledger stock.Ledger, tx stock.Transactor, publisher events.Publisher, logger *zap.Logger) *UpdateTicketUseCase {
	return &UpdateTicketUseCase{writer: newWriter(repo, resolver, ledger, tx, publisher, logger)}
}

// Execute 修改工单,只改动请求中出现的字段
// work_done出现时整体替换;expenditures出现时先撤销工单现有全部消耗(归还库存),
// 再按新列表重新登记,最终库存 = 初始数量 - 新列表的消耗量
func (uc *UpdateTicketUseCase) Execute(ctx context.Context, id uint, in TicketInput) (resp *TicketResponse, err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "UpdateTicket")
	span.SetAttributes(attribute.Int("ticket_id", int(id)))
	defer func() {
		metrics.RecordTicketWrite("update", time.Since(start), err)
		if err != nil {
			tracing.Fail(span, err)
		}
		span.End()
	}()

	var updated *ticket.Ticket
	var restored, consumed []*stock.Expenditure
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		t, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if err := uc.resolver.Apply(ctx, t, in); err != nil {
			return err
		}
		if err := uc.repo.Update(ctx, t); err != nil {
			return err
		}
		if in.WorkDone.Set {
			if err := uc.repo.ReplaceWorkDone(ctx, t.ID, t.WorkTypeIDs); err != nil {
				return err
			}
		}

		if in.Expenditures.Set {
			if restored, err = uc.restore(ctx, t); err != nil {
				return err
			}
			if consumed, err = uc.consume(ctx, t, in.Expenditures.Value); err != nil {
				return err
			}
		}

		updated, err = uc.repo.FindByID(ctx, t.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("工单已修改", zap.Uint("ticket_id", id))
	uc.publish(ctx, events.TicketUpdated, updated, restored, consumed)
	return ToTicketResponse(updated), nil
}

// DeleteTicketUseCase 删除工单用例
type DeleteTicketUseCase struct {
	writer
}

// NewDeleteTicketUseCase 创建删除工单用例
func NewDeleteTicketUseCase(repo ticket.Repository, ledger stock.Ledger, tx stock.Transactor, publisher events.Publisher, logger *zap.Logger) *DeleteTicketUseCase {
	return &DeleteTicketUseCase{writer: newWriter(repo, nil, ledger, tx, publisher, logger)}
}

// Execute 删除工单:撤销其全部消耗(归还库存)后删除工单和工作类型关联
func (uc *DeleteTicketUseCase) Execute(ctx context.Context, id uint) (err error) {
	start := time.Now()
	ctx, span := tracing.StartSpan(ctx, tracerName, "DeleteTicket")
	span.SetAttributes(attribute.Int("ticket_id", int(id)))
	defer func() {
		metrics.RecordTicketWrite("delete", time.Since(start), err)
		if err != nil {
			tracing.Fail(span, err)
		}
		span.End()
	}()

	var deleted *ticket.Ticket
	var restored []*stock.Expenditure
	err = uc.tx.Transaction(ctx, func(ctx context.Context) error {
		t, err := uc.repo.FindByID(ctx, id)
		if err != nil {
			return err
		}
		if restored, err = uc.restore(ctx, t); err != nil {
			return err
		}
		deleted = t
		return uc.repo.Delete(ctx, id)
	})
	if err != nil {
		return err
	}

	uc.logger.Info("工单已删除",
		zap.Uint("ticket_id", id),
		zap.Int("restored", len(restored)),
	)
	uc.publish(ctx, events.TicketDeleted, deleted, restored, nil)
	return nil
}
