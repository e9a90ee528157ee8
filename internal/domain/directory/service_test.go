package directory

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// memRepo 内存版字典仓储
type memRepo struct {
	items  []*Entry
	nextID uint
}

func (m *memRepo) Create(_ context.Context, e *Entry) error {
	for _, it := range m.items {
		if it.Kind == e.Kind && it.Title == e.Title {
			return ErrTitleDuplicate
		}
	}
	m.nextID++
	e.ID = m.nextID
	m.items = append(m.items, e)
	return nil
}

func (m *memRepo) FindByID(_ context.Context, kind Kind, id uint) (*Entry, error) {
	for _, it := range m.items {
		if it.Kind == kind && it.ID == id {
			return it, nil
		}
	}
	return nil, ErrEntryNotFound
}

func (m *memRepo) FindByTitle(_ context.Context, kind Kind, title string) (*Entry, error) {
	for _, it := range m.items {
		if it.Kind == kind && it.Title == title {
			return it, nil
		}
	}
	return nil, ErrEntryNotFound
}

func (m *memRepo) FindByTitles(_ context.Context, kind Kind, titles []string) ([]*Entry, error) {
	var found []*Entry
	for _, it := range m.items {
		for _, title := range titles {
			if it.Kind == kind && it.Title == title {
				found = append(found, it)
				break
			}
		}
	}
	return found, nil
}

func (m *memRepo) List(_ context.Context, kind Kind) ([]*Entry, error) {
	var result []*Entry
	for _, it := range m.items {
		if it.Kind == kind {
			result = append(result, it)
		}
	}
	return result, nil
}

func (m *memRepo) Update(context.Context, *Entry) error     { return nil }
func (m *memRepo) Delete(context.Context, Kind, uint) error { return nil }

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memRepo{})

	t.Run("去除首尾空白", func(t *testing.T) {
		e, err := s.Create(ctx, KindDepartment, "  IT  ", 0)
		require.NoError(t, err)
		assert.Equal(t, "IT", e.Title)
		assert.NotZero(t, e.ID)
	})

	t.Run("标题为空", func(t *testing.T) {
		_, err := s.Create(ctx, KindCategory, " ", 0)
		assert.ErrorIs(t, err, ErrTitleRequired)
	})

	t.Run("标题超长", func(t *testing.T) {
		_, err := s.Create(ctx, KindDevType, strings.Repeat("я", 51), 0)
		assert.ErrorIs(t, err, ErrTitleTooLong)

		_, err = s.Create(ctx, KindDevType, strings.Repeat("я", 50), 0)
		assert.NoError(t, err)
	})

	t.Run("标题重复", func(t *testing.T) {
		_, err := s.Create(ctx, KindDepartment, "IT", 0)
		assert.ErrorIs(t, err, ErrTitleDuplicate)

		// 不同类型的字典互不影响
		_, err = s.Create(ctx, KindCategory, "IT", 0)
		assert.NoError(t, err)
	})

	t.Run("未知类型", func(t *testing.T) {
		_, err := s.Create(ctx, Kind("color"), "Red", 0)
		assert.ErrorIs(t, err, ErrUnknownKind)
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	s := NewService(&memRepo{})
	for _, title := range []string{"Repair", "Cleaning", "Setup"} {
		_, err := s.Create(ctx, KindWorkType, title, 0)
		require.NoError(t, err)
	}

	t.Run("单个引用", func(t *testing.T) {
		e, err := s.Resolve(ctx, KindWorkType, "work_done", "Setup")
		require.NoError(t, err)
		assert.Equal(t, "Setup", e.Title)

		_, err = s.Resolve(ctx, KindWorkType, "work_done", "Paint")
		require.Error(t, err)
		appErr := apperrors.GetAppError(err)
		assert.Equal(t, apperrors.ErrCodeValidation, appErr.Code)
		assert.Equal(t, "work_done", appErr.Field)
		assert.Contains(t, appErr.Message, "Paint")
	})

	t.Run("批量引用保持请求顺序并去重", func(t *testing.T) {
		entries, err := s.ResolveAll(ctx, KindWorkType, "work_done", []string{"Setup", "Repair", "Setup"})
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "Setup", entries[0].Title)
		assert.Equal(t, "Repair", entries[1].Title)
	})

	t.Run("批量引用任一不存在即失败", func(t *testing.T) {
		_, err := s.ResolveAll(ctx, KindWorkType, "work_done", []string{"Repair", "Paint"})
		require.Error(t, err)
		assert.Equal(t, "work_done", apperrors.GetAppError(err).Field)
	})

	t.Run("空列表", func(t *testing.T) {
		entries, err := s.ResolveAll(ctx, KindWorkType, "work_done", nil)
		require.NoError(t, err)
		assert.Empty(t, entries)
	})
}
