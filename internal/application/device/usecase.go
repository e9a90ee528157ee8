package device

import (
	"context"
	"net/url"

	"go.uber.org/zap"

	"github.com/xiebiao/helpdesk/internal/domain/device"
	"github.com/xiebiao/helpdesk/pkg/metrics"
)

// DeviceUseCase 设备用例
type DeviceUseCase struct {
	service device.Service
	logger  *zap.Logger
}

// NewDeviceUseCase 创建设备用例
func NewDeviceUseCase(service device.Service, logger *zap.Logger) *DeviceUseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DeviceUseCase{service: service, logger: logger}
}

// DeviceRequest 创建/修改请求(部门和类型按标题引用)
type DeviceRequest struct {
	InvNum     string
	Title      string
	Department string
	Type       string
}

// DeviceResponse 设备
type DeviceResponse struct {
	ID         uint   `json:"id"`
	InvNum     string `json:"inv_num"`
	Title      string `json:"title"`
	Department string `json:"department"`
	Type       string `json:"type"`
}

// List 按查询参数列出设备
// 参数非法时降级为不带任何条件的完整列表(记录warn日志,不报错)
func (uc *DeviceUseCase) List(ctx context.Context, params url.Values) ([]*DeviceResponse, error) {
	filter, err := device.ParseFilter(params)
	if err != nil {
		uc.logger.Warn("设备列表参数非法,返回未过滤结果",
			zap.String("query", params.Encode()),
			zap.Error(err),
		)
		metrics.RecordQueryFallback("devices")
		filter = device.Filter{}
	}

	devices, err := uc.service.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	resp := make([]*DeviceResponse, 0, len(devices))
	for _, d := range devices {
		resp = append(resp, ToDeviceResponse(d))
	}
	return resp, nil
}

// Get 查询设备
func (uc *DeviceUseCase) Get(ctx context.Context, id uint) (*DeviceResponse, error) {
	d, err := uc.service.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return ToDeviceResponse(d), nil
}

// Create 创建设备
func (uc *DeviceUseCase) Create(ctx context.Context, req DeviceRequest) (*DeviceResponse, error) {
	d, err := uc.service.Create(ctx, req.InvNum, req.Title, req.Department, req.Type)
	if err != nil {
		return nil, err
	}
	return ToDeviceResponse(d), nil
}

// Update 修改设备
func (uc *DeviceUseCase) Update(ctx context.Context, id uint, req DeviceRequest) (*DeviceResponse, error) {
	d, err := uc.service.Update(ctx, id, req.InvNum, req.Title, req.Department, req.Type)
	if err != nil {
		return nil, err
	}
	return ToDeviceResponse(d), nil
}

// Delete 删除设备(仍被工单引用时拒绝)
func (uc *DeviceUseCase) Delete(ctx context.Context, id uint) error {
	return uc.service.Delete(ctx, id)
}

// ToDeviceResponse 领域实体 → DTO
func ToDeviceResponse(d *device.Device) *DeviceResponse {
	return &DeviceResponse{
		ID:         d.ID,
		InvNum:     d.InvNum,
		Title:      d.Title,
		Department: d.Department,
		Type:       d.Type,
	}
}
