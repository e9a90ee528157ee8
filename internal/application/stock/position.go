package stock

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/internal/domain/stock"
	"github.com/xiebiao/helpdesk/pkg/metrics"
)

// PositionUseCase 库存位置用例
type PositionUseCase struct {
	repo   stock.PositionRepository
	logger *zap.Logger
}

// NewPositionUseCase 创建库存位置用例
func NewPositionUseCase(repo stock.PositionRepository, logger *zap.Logger) *PositionUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PositionUseCase{repo: repo, logger: logger}
}

// PositionRequest 创建/盘点请求
type PositionRequest struct {
	Title    string
	Quantity int
}

// PositionResponse 库存位置
type PositionResponse struct {
	ID       uint   `json:"id"`
	Title    string `json:"title"`
	Quantity int    `json:"quantity"`
}

// List 按查询参数列出库存位置(参数非法时降级为完整列表)
func (uc *PositionUseCase) List(ctx context.Context, params url.Values) ([]*PositionResponse, error) {
	filter, err := stock.ParsePositionFilter(params)
	if err != nil {
		uc.logger.Warn("库存位置列表参数非法,返回未过滤结果",
			zap.String("query", params.Encode()),
			zap.Error(err),
		)
		metrics.RecordQueryFallback("positions")
		filter = stock.PositionFilter{}
	}

	positions, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]*PositionResponse, 0, len(positions))
	for _, p := range positions {
		resp = append(resp, toPositionResponse(p))
	}
	return resp, nil
}

// Get 查询库存位置
func (uc *PositionUseCase) Get(ctx context.Context, id uint) (*PositionResponse, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toPositionResponse(p), nil
}

// Create 创建库存位置
func (uc *PositionUseCase) Create(ctx context.Context, req PositionRequest) (*PositionResponse, error) {
	p, err := stock.NewPosition(req.Title, req.Quantity)
	if err != nil {
		return nil, err
	}
	if err := uc.repo.Create(ctx, p); err != nil {
		return nil, err
	}
	return toPositionResponse(p), nil
}

// Update 修改名称或盘点数量
// 直接设置数量不经过台账,用于入库和盘点
func (uc *PositionUseCase) Update(ctx context.Context, id uint, req PositionRequest) (*PositionResponse, error) {
	p, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := p.Rename(req.Title); err != nil {
		return nil, err
	}
	if err := p.SetQuantity(req.Quantity); err != nil {
		return nil, err
	}

	if err := uc.repo.Update(ctx, p); err != nil {
		return nil, err
	}
	return toPositionResponse(p), nil
}

// Delete 删除库存位置(仍有消耗记录时拒绝)
func (uc *PositionUseCase) Delete(ctx context.Context, id uint) error {
	return uc.repo.Delete(ctx, id)
}

func toPositionResponse(p *stock.Position) *PositionResponse {
	return &PositionResponse{ID: p.ID, Title: p.Title, Quantity: p.Quantity}
}
