package device

import (
	"context"
	"errors"
	"fmt"

	"github.com/xiebiao/helpdesk/internal/domain/directory"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// Service 设备领域服务接口
type Service interface {
	// Create 创建设备,department/type以标题引用已有字典项
	Create(ctx context.Context, invNum, title, department, typ string) (*Device, error)

	Get(ctx context.Context, id uint) (*Device, error)
	List(ctx context.Context, filter Filter) ([]*Device, error)

	// Update 整体替换编号、名称、部门、类型
	Update(ctx context.Context, id uint, invNum, title, department, typ string) (*Device, error)

	Delete(ctx context.Context, id uint) error

	// Resolve 按库存编号解析工单里嵌入的设备引用
	// 只用编号查找已有设备,不会顺带创建;不存在时返回字段级校验错误
	Resolve(ctx context.Context, field, invNum string) (*Device, error)
}

type service struct {
	repo      Repository
	directory directory.Service
}

// NewService 创建设备领域服务
func NewService(repo Repository, dir directory.Service) Service {
	return &service{repo: repo, directory: dir}
}

func (s *service) Create(ctx context.Context, invNum, title, department, typ string) (*Device, error) {
	d, err := NewDevice(invNum, title)
	if err != nil {
		return nil, err
	}

	if err := s.attach(ctx, d, department, typ); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Get(ctx context.Context, id uint) (*Device, error) {
	return s.repo.FindByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Device, error) {
	return s.repo.List(ctx, filter)
}

func (s *service) Update(ctx context.Context, id uint, invNum, title, department, typ string) (*Device, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := d.UpdateInfo(invNum, title); err != nil {
		return nil, err
	}
	if err := s.attach(ctx, d, department, typ); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

func (s *service) Delete(ctx context.Context, id uint) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) Resolve(ctx context.Context, field, invNum string) (*Device, error) {
	d, err := s.repo.FindByInvNum(ctx, invNum)
	if err != nil {
		if errors.Is(err, ErrDeviceNotFound) {
			return nil, apperrors.NewField(field, fmt.Sprintf("库存编号为「%s」的设备不存在", invNum))
		}
		return nil, err
	}
	return d, nil
}

// attach 解析部门和类型标题
func (s *service) attach(ctx context.Context, d *Device, department, typ string) error {
	dep, err := s.directory.Resolve(ctx, directory.KindDepartment, "department", department)
	if err != nil {
		return err
	}
	dt, err := s.directory.Resolve(ctx, directory.KindDevType, "type", typ)
	if err != nil {
		return err
	}

	d.MoveTo(dep.ID, dep.Title)
	d.Retype(dt.ID, dt.Title)
	return nil
}
