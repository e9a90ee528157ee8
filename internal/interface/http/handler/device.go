package handler

import (
	"github.com/gin-gonic/gin"

	appdevice "github.com/xiebiao/helpdesk/internal/application/device"
	"github.com/xiebiao/helpdesk/internal/interface/http/dto"
	"github.com/xiebiao/helpdesk/pkg/response"
)

// DeviceHandler 设备HTTP处理器
type DeviceHandler struct {
	useCase *appdevice.DeviceUseCase
}

// NewDeviceHandler 创建设备处理器
func NewDeviceHandler(useCase *appdevice.DeviceUseCase) *DeviceHandler {
	return &DeviceHandler{useCase: useCase}
}

// List 设备列表
// @Summary      设备列表
// @Tags         设备
// @Produce      json
// @Param        inventory_like query string false "编号前缀"
// @Param        title_like     query string false "名称包含(不区分大小写)"
// @Param        department     query string false "部门(Любая表示不限)"
// @Param        type           query string false "设备类型(Любой表示不限)"
// @Param        sort           query string false "id/inv_num/title/department/type"
// @Param        order          query string false "asc/desc"
// @Param        start          query int    false "切片起点(含)"
// @Param        end            query int    false "切片终点(不含)"
// @Success      200 {object} response.Response{data=[]appdevice.DeviceResponse}
// @Router       /api/v1/devices [get]
func (h *DeviceHandler) List(c *gin.Context) {
	result, err := h.useCase.List(c.Request.Context(), c.Request.URL.Query())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Get 设备详情
// @Summary      设备详情
// @Tags         设备
// @Produce      json
// @Param        id path int true "设备ID"
// @Success      200 {object} response.Response{data=appdevice.DeviceResponse}
// @Failure      404 {object} response.Response
// @Router       /api/v1/devices/{id} [get]
func (h *DeviceHandler) Get(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	result, err := h.useCase.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Create 创建设备
// @Summary      创建设备
// @Tags         设备
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body dto.DeviceRequest true "设备"
// @Success      201 {object} response.Response{data=appdevice.DeviceResponse}
// @Failure      400 {object} response.Response "部门/类型不存在"
// @Failure      409 {object} response.Response "编号已存在"
// @Router       /api/v1/devices [post]
func (h *DeviceHandler) Create(c *gin.Context) {
	var req dto.DeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Create(c.Request.Context(), appdevice.DeviceRequest{
		InvNum:     req.InvNum,
		Title:      req.Title,
		Department: req.Department,
		Type:       req.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Update 修改设备(PUT整体替换,PATCH只覆盖出现的字段)
// @Summary      修改设备
// @Tags         设备
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id      path int               true "设备ID"
// @Param        request body dto.DeviceRequest true "设备"
// @Success      200 {object} response.Response{data=appdevice.DeviceResponse}
// @Router       /api/v1/devices/{id} [put]
// @Router       /api/v1/devices/{id} [patch]
func (h *DeviceHandler) Update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req dto.DeviceRequest
	if isPatch(c) {
		cur, err := h.useCase.Get(c.Request.Context(), id)
		if err != nil {
			response.Error(c, err)
			return
		}
		req = dto.DeviceRequest{InvNum: cur.InvNum, Title: cur.Title, Department: cur.Department, Type: cur.Type}
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.useCase.Update(c.Request.Context(), id, appdevice.DeviceRequest{
		InvNum:     req.InvNum,
		Title:      req.Title,
		Department: req.Department,
		Type:       req.Type,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, result)
}

// Delete 删除设备
// @Summary      删除设备
// @Tags         设备
// @Security     BearerAuth
// @Param        id path int true "设备ID"
// @Success      204
// @Failure      409 {object} response.Response "仍被工单引用"
// @Router       /api/v1/devices/{id} [delete]
func (h *DeviceHandler) Delete(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}
	if err := h.useCase.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
