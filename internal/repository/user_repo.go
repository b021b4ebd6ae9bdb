package repository

import (
	"context"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	FindByID(ctx context.Context, id string) (*model.User, error)
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	List(ctx context.Context, params listing.Params) ([]*model.User, int64, error)
	Update(ctx context.Context, user *model.User) error
	SoftDelete(ctx context.Context, user *model.User) error
	AssignRole(ctx context.Context, userID, roleID uuid.UUID) error
	FindUserRole(ctx context.Context, userID uuid.UUID) (*model.UserRole, error)
}

type userRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.db.WithContext(ctx).
		Where("email = ? AND is_deleted = ?", email, false).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

var userSortColumns = map[string]string{
	"first_name": "first_name",
	"last_name":  "last_name",
	"email":      "email",
}

func (r *userRepository) List(ctx context.Context, params listing.Params) ([]*model.User, int64, error) {
	var users []*model.User
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.User{}).
		Where("is_deleted = ?", false).
		Scopes(listing.SearchScope(params.Search, "first_name", "last_name", "email"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(
			listing.OrderScope(params.Sort, userSortColumns, "created_at DESC"),
			listing.PageScope(params.Page),
		).
		Find(&users).Error; err != nil {
		return nil, 0, err
	}

	return users, total, nil
}

func (r *userRepository) Update(ctx context.Context, user *model.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}

func (r *userRepository) SoftDelete(ctx context.Context, user *model.User) error {
	user.IsDeleted = true
	return r.db.WithContext(ctx).Save(user).Error
}

// AssignRole replaces the user's role assignment. Prior rows are
// removed first so at most one active assignment ever exists.
func (r *userRepository) AssignRole(ctx context.Context, userID, roleID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&model.UserRole{}).Error; err != nil {
			return err
		}
		return tx.Create(&model.UserRole{UserID: userID, RoleID: roleID}).Error
	})
}

func (r *userRepository) FindUserRole(ctx context.Context, userID uuid.UUID) (*model.UserRole, error) {
	var userRole model.UserRole
	if err := r.db.WithContext(ctx).
		Preload("Role").
		Where("user_id = ?", userID).
		First(&userRole).Error; err != nil {
		return nil, err
	}
	return &userRole, nil
}
