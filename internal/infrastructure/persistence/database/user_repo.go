package database

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/xiebiao/helpdesk/internal/domain/user"
	apperrors "github.com/xiebiao/helpdesk/pkg/errors"
)

// userRepository 用户仓储的GORM实现
type userRepository struct {
	db *gorm.DB
}

// NewUserRepository 创建用户仓储实例
func NewUserRepository(db *gorm.DB) user.Repository {
	return &userRepository{db: db}
}

// Create 创建用户
func (r *userRepository) Create(ctx context.Context, u *user.User) error {
	model := &UserModel{
		Username:  u.Username,
		Password:  u.Password,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}

	if err := dbFrom(ctx, r.db).Create(model).Error; err != nil {
		// 唯一索引冲突
		if isDuplicateError(err) {
			return user.ErrUsernameDuplicate
		}
		return apperrors.Wrap(err, "创建用户失败")
	}

	// 回填ID
	u.ID = model.ID
	return nil
}

// FindByID 根据ID查找用户
func (r *userRepository) FindByID(ctx context.Context, id uint) (*user.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

// FindByUsername 根据用户名查找用户
func (r *userRepository) FindByUsername(ctx context.Context, username string) (*user.User, error) {
	return r.findOne(ctx, "username = ?", username)
}

func (r *userRepository) findOne(ctx context.Context, cond string, arg interface{}) (*user.User, error) {
	db := dbFrom(ctx, r.db)

	var model UserModel
	if err := db.Where(cond, arg).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, user.ErrUserNotFound
		}
		return nil, apperrors.Wrap(err, "查询用户失败")
	}

	owned, err := ticketIDsByOwner(db, model.ID)
	if err != nil {
		return nil, err
	}
	return toUserEntity(&model, owned[model.ID]), nil
}

// List 列出全部用户
func (r *userRepository) List(ctx context.Context) ([]*user.User, error) {
	db := dbFrom(ctx, r.db)

	var models []UserModel
	if err := db.Order("id ASC").Find(&models).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询用户列表失败")
	}

	ids := make([]uint, 0, len(models))
	for _, m := range models {
		ids = append(ids, m.ID)
	}
	owned, err := ticketIDsByOwner(db, ids...)
	if err != nil {
		return nil, err
	}

	users := make([]*user.User, 0, len(models))
	for i := range models {
		users = append(users, toUserEntity(&models[i], owned[models[i].ID]))
	}
	return users, nil
}

// Update 更新用户
func (r *userRepository) Update(ctx context.Context, u *user.User) error {
	result := dbFrom(ctx, r.db).Model(&UserModel{}).
		Where("id = ?", u.ID).
		Updates(map[string]interface{}{
			"username":   u.Username,
			"password":   u.Password,
			"updated_at": u.UpdatedAt,
		})
	if result.Error != nil {
		if isDuplicateError(result.Error) {
			return user.ErrUsernameDuplicate
		}
		return apperrors.Wrap(result.Error, "更新用户失败")
	}
	return nil
}

// Delete 删除用户
func (r *userRepository) Delete(ctx context.Context, id uint) error {
	db := dbFrom(ctx, r.db)

	if _, err := r.FindByID(ctx, id); err != nil {
		return err
	}
	if err := ensureUnreferenced(db, id, dependent{table: "tickets", column: "owner_id"}); err != nil {
		return err
	}
	if err := db.Delete(&UserModel{}, id).Error; err != nil {
		return apperrors.Wrap(err, "删除用户失败")
	}
	return nil
}

// ticketIDsByOwner 查询用户作为执行人的工单ID(按ID升序)
func ticketIDsByOwner(db *gorm.DB, ownerIDs ...uint) (map[uint][]uint, error) {
	result := make(map[uint][]uint, len(ownerIDs))
	if len(ownerIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ID      uint
		OwnerID uint
	}
	if err := db.Model(&TicketModel{}).
		Select("id, owner_id").
		Where("owner_id IN ?", ownerIDs).
		Order("id ASC").
		Scan(&rows).Error; err != nil {
		return nil, apperrors.Wrap(err, "查询用户工单失败")
	}
	for _, row := range rows {
		result[row.OwnerID] = append(result[row.OwnerID], row.ID)
	}
	return result, nil
}

// toUserEntity 将数据库模型转换为领域实体
func toUserEntity(m *UserModel, ticketIDs []uint) *user.User {
	if ticketIDs == nil {
		ticketIDs = []uint{}
	}
	return &user.User{
		ID:        m.ID,
		Username:  m.Username,
		Password:  m.Password,
		TicketIDs: ticketIDs,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
