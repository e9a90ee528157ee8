package directory

import (
	"context"
	"errors"
	"fmt"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// Service 字典领域服务接口
type Service interface {
	Create(ctx context.Context, kind Kind, title string, number uint) (*Entry, error)
	Get(ctx context.Context, kind Kind, id uint) (*Entry, error)
	List(ctx context.Context, kind Kind) ([]*Entry, error)

	// Update 修改标题和序号
	Update(ctx context.Context, kind Kind, id uint, title string, number uint) (*Entry, error)

	// Delete 删除(受引用保护)
	Delete(ctx context.Context, kind Kind, id uint) error

	// Resolve 按标题解析引用
	// 用于设备/工单写入:请求里用标题引用字典项,不存在时返回字段级校验错误
	Resolve(ctx context.Context, kind Kind, field, title string) (*Entry, error)

	// ResolveAll 批量解析,任一标题不存在即失败;结果顺序与titles一致并去重
	ResolveAll(ctx context.Context, kind Kind, field string, titles []string) ([]*Entry, error)
}

type service struct {
	repo Repository
}

// NewService 创建字典领域服务
func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Create(ctx context.Context, kind Kind, title string, number uint) (*Entry, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}

	entry, err := NewEntry(kind, title, number)
	if err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Get(ctx context.Context, kind Kind, id uint) (*Entry, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return s.repo.FindByID(ctx, kind, id)
}

func (s *service) List(ctx context.Context, kind Kind) ([]*Entry, error) {
	if !kind.Valid() {
		return nil, ErrUnknownKind
	}
	return s.repo.List(ctx, kind)
}

func (s *service) Update(ctx context.Context, kind Kind, id uint, title string, number uint) (*Entry, error) {
	entry, err := s.Get(ctx, kind, id)
	if err != nil {
		return nil, err
	}

	if err := entry.Rename(title); err != nil {
		return nil, err
	}
	entry.Number = number

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *service) Delete(ctx context.Context, kind Kind, id uint) error {
	if !kind.Valid() {
		return ErrUnknownKind
	}
	return s.repo.Delete(ctx, kind, id)
}

func (s *service) Resolve(ctx context.Context, kind Kind, field, title string) (*Entry, error) {
	entry, err := s.repo.FindByTitle(ctx, kind, title)
	if err != nil {
		if errors.Is(err, ErrEntryNotFound) {
			return nil, apperrors.NewField(field, fmt.Sprintf("%s「%s」不存在", kind.Label(), title))
		}
		return nil, err
	}
	return entry, nil
}

func (s *service) ResolveAll(ctx context.Context, kind Kind, field string, titles []string) ([]*Entry, error) {
	if len(titles) == 0 {
		return []*Entry{}, nil
	}

	found, err := s.repo.FindByTitles(ctx, kind, titles)
	if err != nil {
		return nil, err
	}

	byTitle := make(map[string]*Entry, len(found))
	for _, e := range found {
		byTitle[e.Title] = e
	}

	result := make([]*Entry, 0, len(titles))
	seen := make(map[string]bool, len(titles))
	for _, title := range titles {
		e, ok := byTitle[title]
		if !ok {
			return nil, apperrors.NewField(field, fmt.Sprintf("%s「%s」不存在", kind.Label(), title))
		}
		if seen[title] {
			continue
		}
		seen[title] = true
		result = append(result, e)
	}
	return result, nil
}
