package database

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/xiebiao/helpdesk/internal/domain/query"
	"github.com/xiebiao/helpdesk/internal/domain/stock"
	"github.com/xiebiao/helpdesk/internal/domain/ticket"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// ticketSortColumns 排序字段 → 列(关联字段按外键排序)
var ticketSortColumns = map[string]string{
	ticket.SortID:          "tickets.id",
	ticket.SortCreated:     "tickets.created",
	ticket.SortClosed:      "tickets.closed",
	ticket.SortDescription: "tickets.description",
	ticket.SortStatus:      "tickets.status",
	ticket.SortOwner:       "tickets.owner_id",
	ticket.SortDevice:      "tickets.device_id",
	ticket.SortPriority:    "tickets.priority_id",
	ticket.SortCategory:    "tickets.category_id",
}

// ticketRepository 工单仓储的GORM实现
type ticketRepository struct {
	db *gorm.DB
}

// NewTicketRepository 创建工单仓储实例
func NewTicketRepository(db *gorm.DB) ticket.Repository {
	return &ticketRepository{db: db}
}

// Create 写入工单基本字段
// Omit(clause.Associations):关联对象只用于读取,不随工单写入
func (r *ticketRepository) Create(ctx context.Context, t *ticket.Ticket) error {
	model := toTicketModel(t)
	if err := dbFrom(ctx, r.db).Omit(clause.Associations).Create(model).Error; err != nil {
		return apperrors.Wrap(err, "创建工单失败")
	}

	t.ID = model.ID
	return nil
}

// Update 更新工单基本字段和外键
// 使用map更新:nil会被写成NULL,false/空串等零值也会被写入
func (r *ticketRepository) Update(ctx context.Context, t *ticket.Ticket) error {
	result := dbFrom(ctx, r.db).Model(&TicketModel{}).
		Where("id = ?", t.ID).
		Updates(map[string]interface{}{
			"created":     t.Created,
			"closed":      t.Closed,
			"owner_id":    t.OwnerID,
			"description": t.Description,
			"device_id":   t.DeviceID,
			"priority_id": t.PriorityID,
			"category_id": t.CategoryID,
			"status":      t.Status,
		})
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "更新工单失败")
	}
	return nil
}

// ReplaceWorkDone 整体替换工作类型集合
func (r *ticketRepository) ReplaceWorkDone(ctx context.Context, ticketID uint, workTypeIDs []uint) error {
	db := dbFrom(ctx, r.db)

	if err := db.Where("ticket_id = ?", ticketID).Delete(&TicketWorkDoneModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清除工作类型失败")
	}
	if len(workTypeIDs) == 0 {
		return nil
	}

	rows := make([]TicketWorkDoneModel, 0, len(workTypeIDs))
	seen := make(map[uint]bool, len(workTypeIDs))
	for _, id := range workTypeIDs {
		if seen[id] {
			continue
		}
		seen[id] = true
		rows = append(rows, TicketWorkDoneModel{TicketID: ticketID, WorkTypeID: id})
	}
	if err := db.Create(&rows).Error; err != nil {
		return apperrors.Wrap(err, "写入工作类型失败")
	}
	return nil
}

// FindByID 加载完整读模型
func (r *ticketRepository) FindByID(ctx context.Context, id uint) (*ticket.Ticket, error) {
	db := dbFrom(ctx, r.db)

	var model TicketModel
	if err := preloadTicket(db).First(&model, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ticket.ErrTicketNotFound
		}
		return nil, apperrors.Wrap(err, "查询工单失败")
	}

	tickets, err := r.assemble(db, []TicketModel{model})
	if err != nil {
		return nil, err
	}
	return tickets[0], nil
}

// List 查询工单列表
// 组合顺序:过滤 → 排序 → 切片
func (r *ticketRepository) List(ctx context.Context, filter ticket.Filter) ([]*ticket.Ticket, error) {
	if filter.Page != nil && filter.Page.Limit() == 0 {
		return []*ticket.Ticket{}, nil
	}

	db := dbFrom(ctx, r.db)
	q := db.Model(&TicketModel{}).Select("tickets.*")

	// 设备编号和部门条件都需要关联devices表
	if filter.InvNumPrefix != "" || filter.Department != "" {
		q = q.Joins("JOIN devices ON devices.id = tickets.device_id")
	}
	if filter.InvNumPrefix != "" {
		q = q.Where("devices.inv_num LIKE ? ESCAPE '!'", prefixPattern(filter.InvNumPrefix))
	}
	if filter.Department != "" {
		q = q.Joins("JOIN departments ON departments.id = devices.department_id").
			Where("departments.title = ?", filter.Department)
	}
	if filter.DescriptionContains != "" {
		q = q.Where("LOWER(tickets.description) LIKE ? ESCAPE '!'", containsPattern(filter.DescriptionContains))
	}
	if filter.Status != nil {
		q = q.Where("tickets.status = ?", *filter.Status)
	}
	if filter.CreatedFrom != nil {
		q = q.Where("tickets.created >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		q = q.Where("tickets.created <= ?", *filter.CreatedTo)
	}

	q = applySort(q, filter.Sort, ticketSortColumns, "tickets.id")
	q = applyPage(q, filter.Page)

	var models []TicketModel
	if err := preloadTicket(q).Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询工单列表失败")
	}
	return r.assemble(db, models)
}

// Delete 删除工单及其工作类型关联
func (r *ticketRepository) Delete(ctx context.Context, id uint) error {
	db := dbFrom(ctx, r.db)

	if err := db.Where("ticket_id = ?", id).Delete(&TicketWorkDoneModel{}).Error; err != nil {
		return apperrors.Wrap(err, "清除工作类型失败")
	}

	result := db.Delete(&TicketModel{}, id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, "删除工单失败")
	}
	if result.RowsAffected == 0 {
		return ticket.ErrTicketNotFound
	}
	return nil
}

// CountByCreated 按创建日期分组计数
// SQL: SELECT created, COUNT(id) AS count FROM tickets
//
//	WHERE created BETWEEN ? AND ? [AND status = ?] GROUP BY created ORDER BY created
func (r *ticketRepository) CountByCreated(ctx context.Context, dr ticket.DateRange) ([]ticket.DateCount, error) {
	q := dbFrom(ctx, r.db).Model(&TicketModel{}).
		Select("created, COUNT(id) AS count").
		Where("created BETWEEN ? AND ?", dr.From, dr.To)
	if dr.Status != nil {
		q = q.Where("status = ?", *dr.Status)
	}

	var rows []struct {
		Created time.Time
		Count   int64
	}
	if err := q.Group("created").Order("created ASC").Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "统计工单失败")
	}

	counts := make([]ticket.DateCount, 0, len(rows))
	for _, row := range rows {
		counts = append(counts, ticket.DateCount{Date: query.DateOf(row.Created), Count: row.Count})
	}
	return counts, nil
}

// preloadTicket 预加载读模型需要的关联
func preloadTicket(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Owner").
		Preload("Device.Department").
		Preload("Device.Type").
		Preload("Priority").
		Preload("Category").
		Preload("Expenditures", func(db *gorm.DB) *gorm.DB {
			return db.Order("expenditures.id ASC")
		}).
		Preload("Expenditures.Position")
}

// assemble 补充工作类型并转换为领域实体
// 多对多关联没有交给GORM管理,这里一次查询取回所有工单的工作类型
func (r *ticketRepository) assemble(db *gorm.DB, models []TicketModel) ([]*ticket.Ticket, error) {
	ids := make([]uint, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}

	workDone := make(map[uint][]WorkTypeModel, len(models))
	if len(ids) > 0 {
		var rows []struct {
			TicketID uint
			ID       uint
			Title    string
		}
		err := db.Table("ticket_work_done").
			Select("ticket_work_done.ticket_id, work_types.id, work_types.title").
			Joins("JOIN work_types ON work_types.id = ticket_work_done.work_type_id").
			Where("ticket_work_done.ticket_id IN ?", ids).
			Order("work_types.id ASC").
			Scan(&rows).Error
		if err != nil {
			return nil, apperrors.Wrap(err, "查询工作类型失败")
		}
		for _, row := range rows {
			workDone[row.TicketID] = append(workDone[row.TicketID], WorkTypeModel{ID: row.ID, Title: row.Title})
		}
	}

	tickets := make([]*ticket.Ticket, 0, len(models))
	for i := range models {
		tickets = append(tickets, toTicketEntity(&models[i], workDone[models[i].ID]))
	}
	return tickets, nil
}

func toTicketModel(t *ticket.Ticket) *TicketModel {
	return &TicketModel{
		ID:          t.ID,
		Created:     t.Created,
		Closed:      t.Closed,
		OwnerID:     t.OwnerID,
		Description: t.Description,
		DeviceID:    t.DeviceID,
		PriorityID:  t.PriorityID,
		CategoryID:  t.CategoryID,
		Status:      t.Status,
	}
}

func toTicketEntity(m *TicketModel, workTypes []WorkTypeModel) *ticket.Ticket {
	t := &ticket.Ticket{
		ID:          m.ID,
		Created:     utcDate(m.Created),
		Closed:      utcDate(m.Closed),
		Description: m.Description,
		Status:      m.Status,
		OwnerID:     m.OwnerID,
		Owner:       m.Owner.Username,
		DeviceID:    m.DeviceID,
		Device:      toDeviceEntity(&m.Device),
		PriorityID:  m.PriorityID,
		CategoryID:  m.CategoryID,
		Category:    m.Category.Title,
		WorkTypeIDs: make([]uint, 0, len(workTypes)),
		WorkDone:    make([]string, 0, len(workTypes)),
	}

	if m.Priority != nil {
		title := m.Priority.Title
		t.Priority = &title
	}
	for _, wt := range workTypes {
		t.WorkTypeIDs = append(t.WorkTypeIDs, wt.ID)
		t.WorkDone = append(t.WorkDone, wt.Title)
	}

	t.Expenditures = make([]*stock.Expenditure, 0, len(m.Expenditures))
	for i := range m.Expenditures {
		t.Expenditures = append(t.Expenditures, toExpenditureEntity(&m.Expenditures[i]))
	}
	return t
}

// utcDate 驱动返回的日期可能带本地时区(loc=Local),按日历日期转换为UTC零点
func utcDate(d *time.Time) *time.Time {
	if d == nil {
		return nil
	}
	v := query.DateOf(*d)
	return &v
}
