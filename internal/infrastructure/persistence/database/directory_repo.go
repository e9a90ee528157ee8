package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/helpdesk/internal/domain/directory"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// directoryTable 字典类型对应的数据表及其引用方
type directoryTable struct {
	name       string
	hasNumber  bool
	dependents []dependent
}

var directoryTables = map[directory.Kind]directoryTable{
	directory.KindDepartment: {
		name:       "departments",
		dependents: []dependent{{table: "devices", column: "department_id"}},
	},
	directory.KindDevType: {
		name:       "dev_types",
		dependents: []dependent{{table: "devices", column: "type_id"}},
	},
	directory.KindWorkType: {
		name:       "work_types",
		dependents: []dependent{{table: "ticket_work_done", column: "work_type_id"}},
	},
	directory.KindCategory: {
		name:       "categories",
		dependents: []dependent{{table: "tickets", column: "category_id"}},
	},
	directory.KindPriority: {
		name:       "priorities",
		hasNumber:  true,
		dependents: []dependent{{table: "tickets", column: "priority_id"}},
	},
}

// dictRow 字典表的通用行(五张表结构相同,priorities多一列number)
type dictRow struct {
	ID     uint
	Title  string
	Number uint
}

// directoryRepository 字典仓储的GORM实现
type directoryRepository struct {
	db *gorm.DB
}

// NewDirectoryRepository 创建字典仓储实例
func NewDirectoryRepository(db *gorm.DB) directory.Repository {
	return &directoryRepository{db: db}
}

func tableOf(kind directory.Kind) (directoryTable, error) {
	t, ok := directoryTables[kind]
	if !ok {
		return directoryTable{}, directory.ErrUnknownKind
	}
	return t, nil
}

func (r *directoryRepository) Create(ctx context.Context, e *directory.Entry) error {
	t, err := tableOf(e.Kind)
	if err != nil {
		return err
	}

	values := map[string]interface{}{"title": e.Title}
	if t.hasNumber {
		values["number"] = e.Number
	}

	db := dbFrom(ctx, r.db)
	if err := db.Table(t.name).Create(values).Error; err != nil {
		if isDuplicateError(err) {
			return directory.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "创建字典项失败")
	}

	// map方式创建不会回填主键,按唯一标题取回
	var row dictRow
	if err := db.Table(t.name).Select("id").Where("title = ?", e.Title).Take(&row).Error; err != nil {
		return apperrors.Wrap(err, "创建字典项失败")
	}
	e.ID = row.ID
	return nil
}

func (r *directoryRepository) FindByID(ctx context.Context, kind directory.Kind, id uint) (*directory.Entry, error) {
	return r.findOne(ctx, kind, "id = ?", id)
}

func (r *directoryRepository) FindByTitle(ctx context.Context, kind directory.Kind, title string) (*directory.Entry, error) {
	return r.findOne(ctx, kind, "title = ?", title)
}

func (r *directoryRepository) findOne(ctx context.Context, kind directory.Kind, cond string, arg interface{}) (*directory.Entry, error) {
	t, err := tableOf(kind)
	if err != nil {
		return nil, err
	}

	var row dictRow
	if err := dbFrom(ctx, r.db).Table(t.name).Select(t.columns()).Where(cond, arg).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, directory.ErrEntryNotFound
		}
		return nil, apperrors.Wrap(err, "查询字典项失败")
	}
	return toEntry(kind, row), nil
}

func (r *directoryRepository) FindByTitles(ctx context.Context, kind directory.Kind, titles []string) ([]*directory.Entry, error) {
	if len(titles) == 0 {
		return []*directory.Entry{}, nil
	}
	return r.list(ctx, kind, dbFrom(ctx, r.db).Where("title IN ?", titles))
}

func (r *directoryRepository) List(ctx context.Context, kind directory.Kind) ([]*directory.Entry, error) {
	return r.list(ctx, kind, dbFrom(ctx, r.db))
}

func (r *directoryRepository) list(ctx context.Context, kind directory.Kind, db *gorm.DB) ([]*directory.Entry, error) {
	t, err := tableOf(kind)
	if err != nil {
		return nil, err
	}

	var rows []dictRow
	if err := db.Table(t.name).Select(t.columns()).Order("id ASC").Find(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询字典列表失败")
	}

	entries := make([]*directory.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntry(kind, row))
	}
	return entries, nil
}

func (r *directoryRepository) Update(ctx context.Context, e *directory.Entry) error {
	t, err := tableOf(e.Kind)
	if err != nil {
		return err
	}

	values := map[string]interface{}{"title": e.Title}
	if t.hasNumber {
		values["number"] = e.Number
	}

	if err := dbFrom(ctx, r.db).Table(t.name).Where("id = ?", e.ID).Updates(values).Error; err != nil {
		if isDuplicateError(err) {
			return directory.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "更新字典项失败")
	}
	return nil
}

func (r *directoryRepository) Delete(ctx context.Context, kind directory.Kind, id uint) error {
	t, err := tableOf(kind)
	if err != nil {
		return err
	}

	if _, err := r.FindByID(ctx, kind, id); err != nil {
		return err
	}

	db := dbFrom(ctx, r.db)
	if err := ensureUnreferenced(db, id, t.dependents...); err != nil {
		return err
	}
	if err := db.Table(t.name).Where("id = ?", id).Delete(&dictRow{}).Error; err != nil {
		return apperrors.Wrap(err, "删除字典项失败")
	}
	return nil
}

func (t directoryTable) columns() string {
	if t.hasNumber {
		return "id, title, number"
	}
	return "id, title"
}

func toEntry(kind directory.Kind, row dictRow) *directory.Entry {
	return &directory.Entry{
		ID:     row.ID,
		Kind:   kind,
		Title:  row.Title,
		Number: row.Number,
	}
}
