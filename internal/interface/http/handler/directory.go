package handler

import (
	"github.com/gin-gonic/gin"

	appdirectory "github.com/xiebiao/helpdesk/internal/application/directory"
	"github.com/xiebiao/helpdesk/internal/domain/directory"
	"github.com/xiebiao/helpdesk/internal/interface/http/dto"
	"github.com/xiebiao/helpdesk/pkg/response"
)

// EntryHandler 字典HTTP处理器
// 五种字典共用同一组处理函数,路由注册时按Kind生成
//
//	/departments /devtypes /worktypes /categories /priorities
type EntryHandler struct {
	useCase *appdirectory.EntryUseCase
}

// NewEntryHandler 创建字典处理器
func NewEntryHandler(useCase *appdirectory.EntryUseCase) *EntryHandler {
	return &EntryHandler{useCase: useCase}
}

// List 字典列表
// @Summary      字典列表
// @Tags         字典
// @Produce      json
// @Param        kind path string true "departments/devtypes/worktypes/categories/priorities"
// @Success      200 {object} response.Response{data=[]appdirectory.EntryResponse}
// @Router       /api/v1/{kind} [get]
func (h *EntryHandler) List(kind directory.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := h.useCase.List(c.Request.Context(), kind)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
	}
}

// Get 字典项详情
// @Summary      字典项详情
// @Tags         字典
// @Produce      json
// @Param        kind path string true "字典类型"
// @Param        id   path int    true "字典项ID"
// @Success      200 {object} response.Response{data=appdirectory.EntryResponse}
// @Router       /api/v1/{kind}/{id} [get]
func (h *EntryHandler) Get(kind directory.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		result, err := h.useCase.Get(c.Request.Context(), kind, id)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
	}
}

// Create 创建字典项
// @Summary      创建字典项
// @Tags         字典
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind    path string           true "字典类型"
// @Param        request body dto.EntryRequest true "字典项"
// @Success      201 {object} response.Response{data=appdirectory.EntryResponse}
// @Failure      409 {object} response.Response "标题已存在"
// @Router       /api/v1/{kind} [post]
func (h *EntryHandler) Create(kind directory.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dto.EntryRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}
		result, err := h.useCase.Create(c.Request.Context(), kind, appdirectory.EntryRequest{Title: req.Title, Number: req.Number})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, result)
	}
}

// Update 修改字典项
// @Summary      修改字典项
// @Tags         字典
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        kind    path string           true "字典类型"
// @Param        id      path int              true "字典项ID"
// @Param        request body dto.EntryRequest true "字典项"
// @Success      200 {object} response.Response{data=appdirectory.EntryResponse}
// @Router       /api/v1/{kind}/{id} [put]
// @Router       /api/v1/{kind}/{id} [patch]
func (h *EntryHandler) Update(kind directory.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}

		var req dto.EntryRequest
		if isPatch(c) {
			cur, err := h.useCase.Get(c.Request.Context(), kind, id)
			if err != nil {
				response.Error(c, err)
				return
			}
			req.Title = cur.Title
			if cur.Number != nil {
				req.Number = *cur.Number
			}
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			bindError(c, err)
			return
		}

		result, err := h.useCase.Update(c.Request.Context(), kind, id, appdirectory.EntryRequest{Title: req.Title, Number: req.Number})
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Success(c, result)
	}
}

// Delete 删除字典项
// @Summary      删除字典项
// @Tags         字典
// @Security     BearerAuth
// @Param        kind path string true "字典类型"
// @Param        id   path int    true "字典项ID"
// @Success      204
// @Failure      409 {object} response.Response "仍被引用"
// @Router       /api/v1/{kind}/{id} [delete]
func (h *EntryHandler) Delete(kind directory.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := parseID(c)
		if !ok {
			return
		}
		if err := h.useCase.Delete(c.Request.Context(), kind, id); err != nil {
			response.Error(c, err)
			return
		}
		response.NoContent(c)
	}
}
