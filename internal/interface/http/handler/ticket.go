package handler

import (
	"github.com/gin-gonic/gin"

	appticket "github.com/xiebiao/helpdesk/internal/application/ticket"
	"github.com/xiebiao/helpdesk/internal/interface/http/dto"
	"github.com/xiebiao/helpdesk/pkg/response"
)

// TicketHandler 工单HTTP处理器
type TicketHandler struct {
	list      *appticket.ListTicketsUseCase
	get       *appticket.GetTicketUseCase
	create    *appticket.CreateTicketUseCase
	update    *appticket.UpdateTicketUseCase
	delete    *appticket.DeleteTicketUseCase
	dashboard *appticket.DashboardUseCase
}

// NewTicketHandler 创建工单处理器
func NewTicketHandler(
	list *appticket.ListTicketsUseCase,
	get *appticket.GetTicketUseCase,
	create *appticket.CreateTicketUseCase,
	update *appticket.UpdateTicketUseCase,
	del *appticket.DeleteTicketUseCase,
	dashboard *appticket.DashboardUseCase,
) *TicketHandler {
	return &TicketHandler{
		list:      list,
		get:       get,
		create:    create,
		update:    update,
		delete:    del,
		dashboard: dashboard,
	}
}

// List 工单列表
// @Summary      工单列表
// @Description  过滤 → 排序 → 切片;参数非法时返回未过滤的完整列表
// @Tags         工单
// @Produce      json
// @Param        inventory_like    query string false "设备编号前缀"
// @Param        description_like  query string false "描述包含(不区分大小写)"
// @Param        status            query string false "0/1"
// @Param        department        query string false "设备所属部门(Любая表示不限)"
// @Param        date_gte          query string false "创建日期下界 YYYY-MM-DDTHH:MM:SS"
// @Param        date_lte          query string false "创建日期上界 YYYY-MM-DDTHH:MM:SS"
// @Param        sort              query string false "排序字段"
// @Param        order             query string false "asc/desc"
// @Param        start             query int    false "切片起点(含)"
// @Param        end               query int    false "切片终点(不含)"
// @Success      200 {object} response.Response{data=[]appticket.TicketResponse}
// @Router       /api/v1/tickets [get]
func (h *TicketHandler) List(c *gin.Context) {
	result, err := h.list.Execute(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 工单详情
// @Summary      工单详情
// @Tags         工单
// @Produce      json
// @Param        id path int true "工单ID"
// @Success      200 {object} response.Response{data=appticket.TicketResponse}
// @Failure      404 {object} response.Response "工单不存在"
// @Router       /api/v1/tickets/{id} [get]
func (h *TicketHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	result, err := h.get.Execute(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 创建工单
// @Summary      创建工单
// @Description  设备按inv_num、执行人按用户名、字典按标题引用已有记录;嵌套的消耗记录扣减库存
// @Tags         工单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.TicketRequest true "工单"
// @Success      201 {object} response.Response{data=appticket.TicketResponse}
// @Failure      400 {object} response.Response "引用不存在 / 库存不足"
// @Failure      401 {object} response.Response "未登录"
// @Router       /api/v1/tickets [post]
func (h *TicketHandler) Create(c *gin.Context) {
	var req dto.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.create.Execute(c.Request.Context(), in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update 修改工单(PUT/PATCH)
// @Summary      修改工单
// @Description  只修改请求体中出现的字段;提交expenditures时先归还原有消耗再重新扣减
// @Tags         工单
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int               true "工单ID"
// @Param        request body dto.TicketRequest true "工单"
// @Success      200 {object} response.Response{data=appticket.TicketResponse}
// @Failure      400 {object} response.Response "引用不存在 / 库存不足"
// @Failure      404 {object} response.Response "工单不存在"
// @Router       /api/v1/tickets/{id} [put]
// @Router       /api/v1/tickets/{id} [patch]
func (h *TicketHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.TicketRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	in, err := req.ToInput()
	if err != nil {
		response.Error(c, err)
		return
	}

	result, err := h.update.Execute(c.Request.Context(), id, in)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除工单
// @Summary      删除工单
// @Description  工单的全部消耗记录被撤销,库存归还
// @Tags         工单
// @Security     BearerAuth
// @Param        id path int true "工单ID"
// @Success      204
// @Failure      404 {object} response.Response "工单不存在"
// @Router       /api/v1/tickets/{id} [delete]
func (h *TicketHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.delete.Execute(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Dashboard 按创建日期统计工单数
// @Summary      工单统计
// @Description  返回 {"YYYY-MM-DD": 数量},只包含有工单的日期
// @Tags         工单
// @Produce      json
// @Param        date_gte query string true  "起始 YYYY-MM-DDTHH:MM:SS"
// @Param        date_lte query string true  "结束 YYYY-MM-DDTHH:MM:SS"
// @Param        status   query string false "0/1"
// @Success      200 {object} response.Response{data=map[string]int}
// @Failure      400 {object} response.Response "缺少日期参数"
// @Router       /api/v1/dashboard [get]
func (h *TicketHandler) Dashboard(c *gin.Context) {
	result, err := h.dashboard.Execute(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}
