package stock

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
	"github.com/xiebiao/helpdesk/pkg/metrics"
	"github.com/xiebiao/helpdesk/pkg/tracing"
)

const tracerName = "helpdesk/stock"

// Ledger 库存台账
// 职责:保证 Position.Quantity 与现存消耗记录一致
//
//	最终数量 = 初始数量 - Σ(现存消耗记录的数量)
//
// 设计说明:
// 1. 消耗的副作用(扣减/归还库存)是显式的领域操作,而不是隐藏在"保存"里
// 2. 工单写入(嵌套消耗)和消耗记录接口共用同一套操作
// 3. 记录写入与库存变动在同一事务内;扣减使用带条件的原子UPDATE,并发下不会扣成负数
type Ledger interface {
	// ApplyConsumption 登记一次消耗
	// 库存不足时返回携带可用数量和位置名称的错误,不写入任何数据
	ApplyConsumption(ctx context.Context, positionTitle string, quantity int, ticketID *uint) (*Expenditure, error)

	// ReverseConsumption 撤销一次消耗:先归还库存,再删除记录
	ReverseConsumption(ctx context.Context, exp *Expenditure) error

	// ReplaceConsumption 修改消耗记录:撤销旧记录后按新参数重新登记(保留所属工单)
	ReplaceConsumption(ctx context.Context, exp *Expenditure, positionTitle string, quantity int) (*Expenditure, error)
}

type ledger struct {
	positions    PositionRepository
	expenditures ExpenditureRepository
	tx           Transactor
	logger       *zap.Logger
}

// NewLedger 创建库存台账
func NewLedger(positions PositionRepository, expenditures ExpenditureRepository, tx Transactor, logger *zap.Logger) Ledger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ledger{
		positions:    positions,
		expenditures: expenditures,
		tx:           tx,
		logger:       logger,
	}
}

func (l *ledger) ApplyConsumption(ctx context.Context, positionTitle string, quantity int, ticketID *uint) (*Expenditure, error) {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ApplyConsumption")
	defer span.End()
	span.SetAttributes(attribute.String("position", positionTitle), attribute.Int("quantity", quantity))

	if quantity < 0 {
		return nil, ErrInvalidQuantity.WithField("quantity")
	}

	var exp *Expenditure
	err := l.tx.Transaction(ctx, func(ctx context.Context) error {
		pos, err := l.positions.FindByTitle(ctx, positionTitle)
		if err != nil {
			if errors.Is(err, ErrPositionNotFound) {
				return apperrors.NewField("position", fmt.Sprintf("库存位置「%s」不存在", positionTitle))
			}
			return err
		}

		// 1. 先校验:不足时直接拒绝,不产生任何写入
		if !pos.CanSupply(quantity) {
			return InsufficientStock(pos.Quantity, pos.Title)
		}

		// 2. 写入消耗记录
		exp = &Expenditure{
			PositionID: pos.ID,
			Position:   pos.Title,
			Quantity:   quantity,
			TicketID:   ticketID,
		}
		if err := l.expenditures.Create(ctx, exp); err != nil {
			return err
		}

		// 3. 原子扣减:校验之后被并发请求抢先扣减时,条件UPDATE不生效,整个事务回滚
		if err := l.positions.Debit(ctx, pos.ID, quantity); err != nil {
			if errors.Is(err, ErrInsufficientStock) {
				if latest, ferr := l.positions.FindByID(ctx, pos.ID); ferr == nil {
					return InsufficientStock(latest.Quantity, latest.Title)
				}
			}
			return err
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrInsufficientStock) {
			metrics.RecordStockMovement(metrics.StockRejected, quantity)
			l.logger.Info("库存不足，消耗被拒绝",
				zap.String("position", positionTitle),
				zap.Int("quantity", quantity),
			)
		}
		tracing.Fail(span, err)
		return nil, err
	}

	metrics.RecordStockMovement(metrics.StockConsumed, quantity)
	l.logger.Debug("登记消耗",
		zap.Uint("expenditure_id", exp.ID),
		zap.String("position", exp.Position),
		zap.Int("quantity", quantity),
	)
	return exp, nil
}

func (l *ledger) ReverseConsumption(ctx context.Context, exp *Expenditure) error {
	ctx, span := tracing.StartSpan(ctx, tracerName, "ReverseConsumption")
	defer span.End()
	span.SetAttributes(attribute.Int("expenditure_id", int(exp.ID)), attribute.Int("quantity", exp.Quantity))

	err := l.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := l.positions.Credit(ctx, exp.PositionID, exp.Quantity); err != nil {
			return err
		}
		return l.expenditures.Delete(ctx, exp.ID)
	})
	if err != nil {
		tracing.Fail(span, err)
		return err
	}

	metrics.RecordStockMovement(metrics.StockRestored, exp.Quantity)
	l.logger.Debug("撤销消耗",
		zap.Uint("expenditure_id", exp.ID),
		zap.String("position", exp.Position),
		zap.Int("quantity", exp.Quantity),
	)
	return nil
}

func (l *ledger) ReplaceConsumption(ctx context.Context, exp *Expenditure, positionTitle string, quantity int) (*Expenditure, error) {
	var replaced *Expenditure
	err := l.tx.Transaction(ctx, func(ctx context.Context) error {
		if err := l.ReverseConsumption(ctx, exp); err != nil {
			return err
		}
		var err error
		replaced, err = l.ApplyConsumption(ctx, positionTitle, quantity, exp.TicketID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return replaced, nil
}
