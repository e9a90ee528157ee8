package directory

import (
	"context"

	"github.com/xiebiao/helpdesk/internal/domain/directory"
)

// EntryUseCase 字典维护用例(部门、设备类型、工作类型、分类、优先级)
// 设计说明：
// 1. 五种字典的规则完全一致,只是数据表不同,所以共用一个用例,按Kind区分
// 2. 返回应用层DTO,优先级额外带number字段
type EntryUseCase struct {
	service directory.Service
}

// NewEntryUseCase 创建字典用例
func NewEntryUseCase(service directory.Service) *EntryUseCase {
	return &EntryUseCase{service: service}
}

// EntryRequest 创建/修改请求
type EntryRequest struct {
	Title  string
	Number uint
}

// EntryResponse 字典项
// {id,title}；优先级为{id,number,title}
type EntryResponse struct {
	ID     uint   `json:"id"`
	Number *uint  `json:"number,omitempty"`
	Title  string `json:"title"`
}

// List 列出某类字典
func (uc *EntryUseCase) List(ctx context.Context, kind directory.Kind) ([]*EntryResponse, error) {
	entries, err := uc.service.List(ctx, kind)
	if err != nil {
		return nil, err
	}

	resp := make([]*EntryResponse, 0, len(entries))
	for _, e := range entries {
		resp = append(resp, ToEntryResponse(e))
	}
	return resp, nil
}

// Get 查询单个字典项
func (uc *EntryUseCase) Get(ctx context.Context, kind directory.Kind, id uint) (*EntryResponse, error) {
	e, err := uc.service.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(e), nil
}

// Create 创建字典项
func (uc *EntryUseCase) Create(ctx context.Context, kind directory.Kind, req EntryRequest) (*EntryResponse, error) {
	e, err := uc.service.Create(ctx, kind, req.Title, req.Number)
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(e), nil
}

// Update 修改字典项
func (uc *EntryUseCase) Update(ctx context.Context, kind directory.Kind, id uint, req EntryRequest) (*EntryResponse, error) {
	e, err := uc.service.Update(ctx, kind, id, req.Title, req.Number)
	if err != nil {
		return nil, err
	}
	return ToEntryResponse(e), nil
}

// Delete 删除字典项
func (uc *EntryUseCase) Delete(ctx context.Context, kind directory.Kind, id uint) error {
	return uc.service.Delete(ctx, kind, id)
}

// ToEntryResponse 领域实体 → DTO
func ToEntryResponse(e *directory.Entry) *EntryResponse {
	resp := &EntryResponse{ID: e.ID, Title: e.Title}
	if e.Kind == directory.KindPriority {
		n := e.Number
		resp.Number = &n
	}
	return resp
}
