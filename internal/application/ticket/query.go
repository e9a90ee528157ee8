package ticket

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/internal/domain/ticket"
	"github.com/xiebiao/helpdesk/pkg/metrics"
)

// ListTicketsUseCase 工单列表用例
type ListTicketsUseCase struct {
	repo   ticket.Repository
	logger *zap.Logger
}

// NewListTicketsUseCase 创建工单列表用例
func NewListTicketsUseCase(repo ticket.Repository, logger *zap.Logger) *ListTicketsUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ListTicketsUseCase{repo: repo, logger: logger}
}

// Execute 按查询参数列出工单
// 过滤 → 排序 → 切片;任一参数非法时整个请求降级为不带条件的完整列表
func (uc *ListTicketsUseCase) Execute(ctx context.Context, params url.Values) ([]*TicketResponse, error) {
	filter, err := ticket.ParseFilter(params)
	if err != nil {
		uc.logger.Warn("工单列表参数非法,返回未过滤结果",
			zap.String("query", params.Encode()),
			zap.Error(err),
		)
		metrics.RecordQueryFallback("tickets")
		filter = ticket.Filter{}
	}

	tickets, err := uc.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	return toTicketResponses(tickets), nil
}

// GetTicketUseCase 工单详情用例
type GetTicketUseCase struct {
	repo ticket.Repository
}

// NewGetTicketUseCase 创建工单详情用例
func NewGetTicketUseCase(repo ticket.Repository) *GetTicketUseCase {
	return &GetTicketUseCase{repo: repo}
}

// Execute 查询工单
func (uc *GetTicketUseCase) Execute(ctx context.Context, id uint) (*TicketResponse, error) {
	t, err := uc.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToTicketResponse(t), nil
}

// DashboardUseCase 按创建日期统计工单数
type DashboardUseCase struct {
	repo ticket.Repository
}

// NewDashboardUseCase 创建统计用例
func NewDashboardUseCase(repo ticket.Repository) *DashboardUseCase {
	return &DashboardUseCase{repo: repo}
}

// Execute 返回 {"YYYY-MM-DD": 工单数}
// date_gte/date_lte必填(缺失或格式错误返回参数错误),只包含有工单的日期
func (uc *DashboardUseCase) Execute(ctx context.Context, params url.Values) (map[string]int64, error) {
	dr, err := ticket.ParseDateRange(params)
	if err != nil {
		return nil, err
	}

	counts, err := uc.repo.CountByCreated(ctx, dr)
	if err != nil {
		return nil, err
	}

	result := make(map[string]int64, len(counts))
	for _, c := range counts {
		result[c.Date.Format("2006-01-02")] = c.Count
	}
	return result, nil
}
