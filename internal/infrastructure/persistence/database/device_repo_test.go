package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/helpdesk/internal/domain/device"
	"github.com/xiebiao/helpdesk/internal/domain/query"
)

func TestDeviceRepository_CRUD(t *testing.T) {
	f := newFixture(t)
	repo := NewDeviceRepository(f.db)

	d, err := device.NewDevice("SN-100", "Printer")
	require.NoError(t, err)
	d.MoveTo(f.deptIT, "IT")
	d.Retype(f.typePC, "PC")
	require.NoError(t, repo.Create(ctx, d))

	t.Run("编号重复", func(t *testing.T) {
		dup, _ := device.NewDevice("SN-100", "Other")
		dup.MoveTo(f.deptIT, "IT")
		dup.Retype(f.typePC, "PC")
		assert.ErrorIs(t, repo.Create(ctx, dup), device.ErrInvNumDuplicate)
	})

	t.Run("按编号查找带出部门和类型", func(t *testing.T) {
		found, err := repo.FindByInvNum(ctx, "SN-100")
		require.NoError(t, err)
		assert.Equal(t, "IT", found.Department)
		assert.Equal(t, "PC", found.Type)
	})

	t.Run("更新部门", func(t *testing.T) {
		d.MoveTo(f.deptHR, "HR")
		require.NoError(t, repo.Update(ctx, d))
		found, err := repo.FindByID(ctx, d.ID)
		require.NoError(t, err)
		assert.Equal(t, "HR", found.Department)
	})

	t.Run("删除", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, d.ID))
		_, err := repo.FindByID(ctx, d.ID)
		assert.ErrorIs(t, err, device.ErrDeviceNotFound)
	})
}

func TestDeviceRepository_List(t *testing.T) {
	f := newFixture(t)
	repo := NewDeviceRepository(f.db)
	f.device(t, "A-1", f.deptIT)
	f.device(t, "A-2", f.deptHR)
	f.device(t, "B-1", f.deptIT)

	tests := []struct {
		name   string
		filter device.Filter
		want   []string
	}{
		{"无条件", device.Filter{}, []string{"A-1", "A-2", "B-1"}},
		{"编号前缀", device.Filter{InvNumPrefix: "A-"}, []string{"A-1", "A-2"}},
		{"前缀中的通配符按字面匹配", device.Filter{InvNumPrefix: "A_"}, []string{}},
		{"名称包含不区分大小写", device.Filter{TitleContains: "desktop b"}, []string{"B-1"}},
		{"部门", device.Filter{Department: "IT"}, []string{"A-1", "B-1"}},
		{"类型", device.Filter{Type: "PC"}, []string{"A-1", "A-2", "B-1"}},
		{"组合条件", device.Filter{Department: "IT", InvNumPrefix: "B"}, []string{"B-1"}},
		{"降序", device.Filter{Sort: &query.Sort{Field: device.SortInvNum, Desc: true}}, []string{"B-1", "A-2", "A-1"}},
		{"切片", device.Filter{
			Sort: &query.Sort{Field: device.SortID},
			Page: &query.Page{Start: 1, End: 3},
		}, []string{"A-2", "B-1"}},
		{"end<=start为空", device.Filter{Page: &query.Page{Start: 2, End: 1}}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.filter.Sort == nil {
				tt.filter.Sort = &query.Sort{Field: device.SortID}
			}
			devices, err := repo.List(ctx, tt.filter)
			require.NoError(t, err)

			got := make([]string, 0, len(devices))
			for _, d := range devices {
				got = append(got, d.InvNum)
			}
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("西里尔字母名称不区分大小写", func(t *testing.T) {
		d := DeviceModel{InvNum: "C-1", Title: "Принтер Kyocera", DepartmentID: f.deptIT, TypeID: f.typePC}
		require.NoError(t, f.db.Omit("Department", "Type").Create(&d).Error)

		devices, err := repo.List(ctx, device.Filter{TitleContains: "принтер"})
		require.NoError(t, err)
		require.Len(t, devices, 1)
		assert.Equal(t, "C-1", devices[0].InvNum)
	})
}
