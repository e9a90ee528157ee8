package database

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/helpdesk/internal/domain/stock"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

var positionSortColumns = map[string]string{
	stock.SortID:       "id",
	stock.SortTitle:    "title",
	stock.SortQuantity: "quantity",
}

// positionRepository 库存位置仓储的GORM实现
type positionRepository struct {
	db *gorm.DB
}

// NewPositionRepository 创建库存位置仓储实例
func NewPositionRepository(db *gorm.DB) stock.PositionRepository {
	return &positionRepository{db: db}
}

func (r *positionRepository) Create(ctx context.Context, p *stock.Position) error {
	model := &PositionModel{Title: p.Title, Quantity: p.Quantity}
	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		if isDuplicateError(err) {
			return stock.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "创建库存位置失败")
	}

	p.ID = model.ID
	return nil
}

func (r *positionRepository) FindByID(ctx context.Context, id uint) (*stock.Position, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *positionRepository) FindByTitle(ctx context.Context, title string) (*stock.Position, error) {
	return r.findOne(ctx, "title = ?", title)
}

func (r *positionRepository) findOne(ctx context.Context, cond string, arg interface{}) (*stock.Position, error) {
	var model PositionModel
	if err := dbFrom(ctx, r.db).Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stock.ErrPositionNotFound
		}
		return nil, apperrors.Wrap(err, "查询库存位置失败")
	}
	return toPositionEntity(&model), nil
}

// List 查询库存位置列表(过滤 → 排序 → 切片)
func (r *positionRepository) List(ctx context.Context, filter stock.PositionFilter) ([]*stock.Position, error) {
	if filter.Page != nil && filter.Page.Limit() == 0 {
		return []*stock.Position{}, nil
	}

	db := dbFrom(ctx, r.db).Model(&PositionModel{})
	if filter.TitleContains != "" {
		db = db.Where("LOWER(title) LIKE ? ESCAPE '!'", containsPattern(filter.TitleContains))
	}
	db = applySort(db, filter.Sort, positionSortColumns, "id")
	db = applyPage(db, filter.Page)

	var models []PositionModel
	if err := db.Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询库存位置列表失败")
	}

	positions := make([]*stock.Position, 0, len(models))
	for i := range models {
		positions = append(positions, toPositionEntity(&models[i]))
	}
	return positions, nil
}

func (r *positionRepository) Update(ctx context.Context, p *stock.Position) error {
	err := dbFrom(ctx, r.db).Model(&PositionModel{}).
		Where("id = ?", p.ID).
		Updates(map[string]interface{}{"title": p.Title, "quantity": p.Quantity}).Error
	if err != nil {
		if isDuplicateError(err) {
			return stock.ErrTitleDuplicate
		}
		return apperrors.Wrap(err, "更新库存位置失败")
	}
	return nil
}

func (r *positionRepository) Delete(ctx context.Context, id uint) error {
	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}

	db := dbFrom(ctx, r.db)
	if err := ensureUnreferenced(db, id, dependent{table: "expenditures", column: "position_id"}); err != nil {
		return err
	}
	if err := db.Delete(&PositionModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "删除库存位置失败")
	}
	return nil
}

// Debit 扣减库存（原子操作）
// SQL: UPDATE positions SET quantity = quantity - ? WHERE id = ? AND quantity >= ?
// 并发安全：WHERE条件保证数量不会变成负数
func (r *positionRepository) Debit(ctx context.Context, id uint, quantity int) error {
	// 数量为0时不会修改任何行(MySQL的RowsAffected只统计实际变化的行),只需确认记录存在
	if quantity == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}

	result := dbFrom(ctx, r.db).Model(&PositionModel{}).
		Where("id = ? AND quantity >= ?", id, quantity).
		Update("quantity", gorm.Expr("quantity - ?", quantity))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "扣减库存失败")
	}

	// RowsAffected = 0 表示库存不足或记录不存在
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return stock.ErrInsufficientStock
	}
	return nil
}

// Credit 归还库存（原子操作）
func (r *positionRepository) Credit(ctx context.Context, id uint, quantity int) error {
	if quantity == 0 {
		_, err := r.FindByID(ctx, id)
		return err
	}

	result := dbFrom(ctx, r.db).Model(&PositionModel{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", quantity))
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "归还库存失败")
	}
	if result.RowsAffected == 0 {
		return stock.ErrPositionNotFound
	}
	return nil
}

func toPositionEntity(m *PositionModel) *stock.Position {
	return &stock.Position{
		ID:       m.ID,
		Title:    m.Title,
		Quantity: m.Quantity,
	}
}

// expenditureRepository 消耗记录仓储的GORM实现
type expenditureRepository struct {
	db *gorm.DB
}

// NewExpenditureRepository 创建消耗记录仓储实例
func NewExpenditureRepository(db *gorm.DB) stock.ExpenditureRepository {
	return &expenditureRepository{db: db}
}

func (r *expenditureRepository) Create(ctx context.Context, exp *stock.Expenditure) error {
	model := &ExpenditureModel{
		PositionID: exp.PositionID,
		Quantity:   exp.Quantity,
		TicketID:   exp.TicketID,
	}
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建消耗记录失败")
	}

	exp.ID = model.ID
	return nil
}

func (r *expenditureRepository) FindByID(ctx context.Context, id uint) (*stock.Expenditure, error) {
	var model ExpenditureModel
	if err := dbFrom(ctx, r.db).Preload("Position").First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, stock.ErrExpenditureNotFound
		}
		return nil, apperrors.Wrap(err, "查询消耗记录失败")
	}
	return toExpenditureEntity(&model), nil
}

func (r *expenditureRepository) ListByTicket(ctx context.Context, ticketID uint) ([]*stock.Expenditure, error) {
	return r.list(dbFrom(ctx, r.db).Where("ticket_id = ?", ticketID))
}

func (r *expenditureRepository) List(ctx context.Context) ([]*stock.Expenditure, error) {
	return r.list(dbFrom(ctx, r.db))
}

func (r *expenditureRepository) list(db *gorm.DB) ([]*stock.Expenditure, error) {
	var models []ExpenditureModel
	if err := db.Preload("Position").Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询消耗记录失败")
	}

	exps := make([]*stock.Expenditure, 0, len(models))
	for i := range models {
		exps = append(exps, toExpenditureEntity(&models[i]))
	}
	return exps, nil
}

func (r *expenditureRepository) Delete(ctx context.Context, id uint) error {
	result := dbFrom(ctx, r.db).Delete(&ExpenditureModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除消耗记录失败")
	}
	if result.RowsAffected == 0 {
		return stock.ErrExpenditureNotFound
	}
	return nil
}

func toExpenditureEntity(m *ExpenditureModel) *stock.Expenditure {
	return &stock.Expenditure{
		ID:         m.ID,
		PositionID: m.PositionID,
		Position:   m.Position.Title,
		Quantity:   m.Quantity,
		TicketID:   m.TicketID,
	}
}
