package handler

import (
	"github.com/gin-gonic/gin"

	appstock "github.com/xiebiao/helpdesk/internal/application/stock"
	"github.com/xiebiao/helpdesk/internal/interface/http/dto"
	"github.com/xiebiao/helpdesk/pkg/response"
)

// StockHandler 库存位置和消耗记录HTTP处理器
type StockHandler struct {
	positions    *appstock.PositionUseCase
	expenditures *appstock.ExpenditureUseCase
}

// NewStockHandler 创建库存处理器
func NewStockHandler(positions *appstock.PositionUseCase, expenditures *appstock.ExpenditureUseCase) *StockHandler {
	return &StockHandler{positions: positions, expenditures: expenditures}
}

// ListPositions 库存位置列表
// @Summary      库存位置列表
// @Tags         库存
// @Produce      json
// @Param        contains query string false "名称包含(不区分大小写)"
// @Param        sort     query string false "id/title/quantity"
// @Param        order    query string false "asc/desc"
// @Param        start    query int    false "切片起点(含)"
// @Param        end      query int    false "切片终点(不含)"
// @Success      200 {object} response.Response{data=[]appstock.PositionResponse}
// @Router       /api/v1/positions [get]
func (h *StockHandler) ListPositions(c *gin.Context) {
	result, err := h.positions.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetPosition 库存位置详情
// @Summary      库存位置详情
// @Tags         库存
// @Produce      json
// @Param        id path int true "库存位置ID"
// @Success      200 {object} response.Response{data=appstock.PositionResponse}
// @Router       /api/v1/positions/{id} [get]
func (h *StockHandler) GetPosition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.positions.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreatePosition 创建库存位置(入库)
// @Summary      创建库存位置
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.PositionRequest true "库存位置"
// @Success      201 {object} response.Response{data=appstock.PositionResponse}
// @Failure      409 {object} response.Response "名称已存在"
// @Router       /api/v1/positions [post]
func (h *StockHandler) CreatePosition(c *gin.Context) {
	var req dto.PositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.positions.Create(c.Request.Context(), appstock.PositionRequest{Title: req.Title, Quantity: req.Quantity})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdatePosition 修改库存位置(盘点直接设置数量)
// @Summary      修改库存位置
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                 true "库存位置ID"
// @Param        request body dto.PositionRequest true "库存位置"
// @Success      200 {object} response.Response{data=appstock.PositionResponse}
// @Router       /api/v1/positions/{id} [put]
// @Router       /api/v1/positions/{id} [patch]
func (h *StockHandler) UpdatePosition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.PositionRequest
	if isPatch(c) {
		cur, err := h.positions.Get(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		req = dto.PositionRequest{Title: cur.Title, Quantity: cur.Quantity}
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.positions.Update(c.Request.Context(), id, appstock.PositionRequest{Title: req.Title, Quantity: req.Quantity})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeletePosition 删除库存位置
// @Summary      删除库存位置
// @Tags         库存
// @Security     BearerAuth
// @Param        id path int true "库存位置ID"
// @Success      204
// @Failure      409 {object} response.Response "仍有消耗记录"
// @Router       /api/v1/positions/{id} [delete]
func (h *StockHandler) DeletePosition(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.positions.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListExpenditures 消耗记录列表
// @Summary      消耗记录列表
// @Tags         库存
// @Produce      json
// @Success      200 {object} response.Response{data=[]appstock.ExpenditureResponse}
// @Router       /api/v1/expenditures [get]
func (h *StockHandler) ListExpenditures(c *gin.Context) {
	result, err := h.expenditures.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// GetExpenditure 消耗记录详情
// @Summary      消耗记录详情
// @Tags         库存
// @Produce      json
// @Param        id path int true "消耗记录ID"
// @Success      200 {object} response.Response{data=appstock.ExpenditureResponse}
// @Router       /api/v1/expenditures/{id} [get]
func (h *StockHandler) GetExpenditure(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.expenditures.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// CreateExpenditure 登记直接领用(扣减库存)
// @Summary      登记消耗
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.ExpenditureRequest true "消耗"
// @Success      201 {object} response.Response{data=appstock.ExpenditureResponse}
// @Failure      400 {object} response.Response "库存不足 / 库存位置不存在"
// @Router       /api/v1/expenditures [post]
func (h *StockHandler) CreateExpenditure(c *gin.Context) {
	var req dto.ExpenditureRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	result, err := h.expenditures.Create(c.Request.Context(), appstock.ExpenditureRequest{
		Position: req.Position,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// UpdateExpenditure 修改消耗记录(归还原数量后重新扣减)
// @Summary      修改消耗
// @Tags         库存
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int                    true "消耗记录ID"
// @Param        request body dto.ExpenditureRequest true "消耗"
// @Success      200 {object} response.Response{data=appstock.ExpenditureResponse}
// @Router       /api/v1/expenditures/{id} [put]
// @Router       /api/v1/expenditures/{id} [patch]
func (h *StockHandler) UpdateExpenditure(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.ExpenditureRequest
	if isPatch(c) {
		cur, err := h.expenditures.Get(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		req = dto.ExpenditureRequest{Position: cur.Position, Quantity: cur.Quantity}
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.expenditures.Update(c.Request.Context(), id, appstock.ExpenditureRequest{
		Position: req.Position,
		Quantity: req.Quantity,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// DeleteExpenditure 删除消耗记录(归还库存)
// @Summary      删除消耗
// @Tags         库存
// @Security     BearerAuth
// @Param        id path int true "消耗记录ID"
// @Success      204
// @Router       /api/v1/expenditures/{id} [delete]
func (h *StockHandler) DeleteExpenditure(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.expenditures.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
