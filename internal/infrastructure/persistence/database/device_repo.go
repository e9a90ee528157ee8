package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/helpdesk/internal/domain/device"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// deviceSortColumns 排序字段 → 列
// department/type按外键排序
var deviceSortColumns = map[string]string{
	device.SortID:         "devices.id",
	device.SortInvNum:     "devices.inv_num",
	device.SortTitle:      "devices.title",
	device.SortDepartment: "devices.department_id",
	device.SortType:       "devices.type_id",
}

// deviceRepository 设备仓储的GORM实现
type deviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository 创建设备仓储实例
func NewDeviceRepository(db *gorm.DB) device.Repository {
	return &deviceRepository{db: db}
}

func (r *deviceRepository) Create(ctx context.Context, d *device.Device) error {
	model := toDeviceModel(d)
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return device.ErrInvNumDuplicate
		}
		return apperrors.Wrap(err, "创建设备失败")
	}

	d.ID = model.ID
	return nil
}

func (r *deviceRepository) FindByID(ctx context.Context, id uint) (*device.Device, error) {
	return r.findOne(ctx, "devices.id = ?", id)
}

func (r *deviceRepository) FindByInvNum(ctx context.Context, invNum string) (*device.Device, error) {
	return r.findOne(ctx, "devices.inv_num = ?", invNum)
}

func (r *deviceRepository) findOne(ctx context.Context, cond string, arg interface{}) (*device.Device, error) {
	var model DeviceModel
	err := dbFrom(ctx, r.db).
		Preload("Department").
		Preload("Type").
		Where(cond, arg).
		First(&model).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, device.ErrDeviceNotFound
		}
		return nil, apperrors.Wrap(err, "查询设备失败")
	}
	return toDeviceEntity(&model), nil
}

// List 查询设备列表
// 组合顺序:过滤 → 排序 → 切片
func (r *deviceRepository) List(ctx context.Context, filter device.Filter) ([]*device.Device, error) {
	if filter.Page != nil && filter.Page.Limit() == 0 {
		return []*device.Device{}, nil
	}

	db := dbFrom(ctx, r.db).Model(&DeviceModel{}).Select("devices.*")

	if filter.InvNumPrefix != "" {
		db = db.Where("devices.inv_num LIKE ? ESCAPE '!'", prefixPattern(filter.InvNumPrefix))
	}
	if filter.TitleContains != "" {
		db = db.Where("LOWER(devices.title) LIKE ? ESCAPE '!'", containsPattern(filter.TitleContains))
	}
	if filter.Department != "" {
		db = db.Joins("JOIN departments ON departments.id = devices.department_id").
			Where("departments.title = ?", filter.Department)
	}
	if filter.Type != "" {
		db = db.Joins("JOIN dev_types ON dev_types.id = devices.type_id").
			Where("dev_types.title = ?", filter.Type)
	}

	db = applySort(db, filter.Sort, deviceSortColumns, "devices.id")
	db = applyPage(db, filter.Page)

	var models []DeviceModel
	if err := db.Preload("Department").Preload("Type").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询设备列表失败")
	}

	devices := make([]*device.Device, 0, len(models))
	for i := range models {
		devices = append(devices, toDeviceEntity(&models[i]))
	}
	return devices, nil
}

func (r *deviceRepository) Update(ctx context.Context, d *device.Device) error {
	err := dbFrom(ctx, r.db).Model(&DeviceModel{}).
		Where("id = ?", d.ID).
		Updates(map[string]interface{}{
			"inv_num":       d.InvNum,
			"title":         d.Title,
			"department_id": d.DepartmentID,
			"type_id":       d.TypeID,
		}).Error
	if err != nil {
		if isDuplicateError(err) {
			return device.ErrInvNumDuplicate
		}
		return apperrors.Wrap(err, "更新设备失败")
	}
	return nil
}

func (r *deviceRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}

	db := dbFrom(ctx, r.db)
	if err := ensureUnreferenced(db, id, dependent{table: "tickets", column: "device_id"}); err != nil {
		return err
	}
	if err := db.Delete(&DeviceModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "删除设备失败")
	}
	return nil
}

func toDeviceModel(d *device.Device) *DeviceModel {
	return &DeviceModel{
		ID:           d.ID,
		InvNum:       d.InvNum,
		Title:        d.Title,
		DepartmentID: d.DepartmentID,
		TypeID:       d.TypeID,
	}
}

func toDeviceEntity(m *DeviceModel) *device.Device {
	return &device.Device{
		ID:           m.ID,
		InvNum:       m.InvNum,
		Title:        m.Title,
		DepartmentID: m.DepartmentID,
		Department:   m.Department.Title,
		TypeID:       m.TypeID,
		Type:         m.Type.Title,
	}
}
