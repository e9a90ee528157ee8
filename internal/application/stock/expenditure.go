package stock

import (
	"context"
	"time"

	"github.com/xiebiao/helpdesk/internal/domain/stock"
	"github.com/xiebiao/helpdesk/internal/infrastructure/events"
)

// ExpenditureUseCase 消耗记录用例
// 设计说明：
// 1. 写操作全部经过库存台账:创建扣减库存,删除归还库存,修改=撤销+重新登记
// 2. 事务提交后发布stock.consumed / stock.restored事件
type ExpenditureUseCase struct {
	repo      stock.ExpenditureRepository
	ledger    stock.Ledger
	publisher events.Publisher
}

// NewExpenditureUseCase 创建消耗记录用例
func NewExpenditureUseCase(repo stock.ExpenditureRepository, ledger stock.Ledger, publisher events.Publisher) *ExpenditureUseCase {
	return &ExpenditureUseCase{repo: repo, ledger: ledger, publisher: publisher}
}

// ExpenditureRequest 消耗请求(库存位置按名称引用)
type ExpenditureRequest struct {
	Position string
	Quantity int
}

// ExpenditureResponse 消耗记录
type ExpenditureResponse struct {
	ID       uint   `json:"id"`
	Position string `json:"position"`
	Quantity int    `json:"quantity"`
}

// List 列出全部消耗记录
func (uc *ExpenditureUseCase) List(ctx context.Context) ([]*ExpenditureResponse, error) {
	exps, err := uc.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	return ToExpenditureResponses(exps), nil
}

// Get 查询消耗记录
func (uc *ExpenditureUseCase) Get(ctx context.Context, id uint) (*ExpenditureResponse, error) {
	exp, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToExpenditureResponse(exp), nil
}

// Create 登记一次直接领用(不属于任何工单)
func (uc *ExpenditureUseCase) Create(ctx context.Context, req ExpenditureRequest) (*ExpenditureResponse, error) {
	exp, err := uc.ledger.ApplyConsumption(ctx, req.Position, req.Quantity, nil)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, events.StockConsumed, exp)
	return ToExpenditureResponse(exp), nil
}

// Update 修改消耗记录:归还旧数量后按新参数重新扣减
// 新记录保留原所属工单,ID会变化
func (uc *ExpenditureUseCase) Update(ctx context.Context, id uint, req ExpenditureRequest) (*ExpenditureResponse, error) {
	exp, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	replaced, err := uc.ledger.ReplaceConsumption(ctx, exp, req.Position, req.Quantity)
	if err != nil {
		return nil, err
	}

	uc.publish(ctx, events.StockRestored, exp)
	uc.publish(ctx, events.StockConsumed, replaced)
	return ToExpenditureResponse(replaced), nil
}

// Delete 删除消耗记录并归还库存
func (uc *ExpenditureUseCase) Delete(ctx context.Context, id uint) error {
	exp, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := uc.ledger.ReverseConsumption(ctx, exp); err != nil {
		return err
	}

	uc.publish(ctx, events.StockRestored, exp)
	return nil
}

// publish 发布失败已由发布者记录日志和指标,这里忽略
func (uc *ExpenditureUseCase) publish(ctx context.Context, routingKey string, exp *stock.Expenditure) {
	_ = uc.publisher.Publish(ctx, routingKey, StockEventOf(exp))
}

// StockEventOf 消耗记录 → 库存事件
func StockEventOf(exp *stock.Expenditure) events.StockEvent {
	return events.StockEvent{
		ExpenditureID: exp.ID,
		PositionID:    exp.PositionID,
		Position:      exp.Position,
		Quantity:      exp.Quantity,
		TicketID:      exp.TicketID,
		OccurredAt:    time.Now().UTC(),
	}
}

// ToExpenditureResponse 领域实体 → DTO
func ToExpenditureResponse(exp *stock.Expenditure) *ExpenditureResponse {
	return &ExpenditureResponse{ID: exp.ID, Position: exp.Position, Quantity: exp.Quantity}
}

// ToExpenditureResponses 批量转换
func ToExpenditureResponses(exps []*stock.Expenditure) []*ExpenditureResponse {
	resp := make([]*ExpenditureResponse, 0, len(exps))
	for _, exp := range exps {
		resp = append(resp, ToExpenditureResponse(exp))
	}
	return resp
}
