package repository

import (
	"context"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OperationRepository interface {
	Create(ctx context.Context, operation *model.Operation) error
	FindByID(ctx context.Context, id string) (*model.Operation, error)
	List(ctx context.Context, params listing.Params) ([]*model.Operation, int64, error)
	ListHeadings(ctx context.Context) ([]model.Operation, error)
	ListLeaves(ctx context.Context, headingID uuid.UUID) ([]model.Operation, error)
	ListGrantedLeaves(ctx context.Context, headingID, userID uuid.UUID) ([]model.Operation, error)
	HasGrant(ctx context.Context, userID uuid.UUID, slug string) (bool, error)
}

type operationRepository struct {
	db *gorm.DB
}

func NewOperationRepository(db *gorm.DB) OperationRepository {
	return &operationRepository{db: db}
}

func (r *operationRepository) Create(ctx context.Context, operation *model.Operation) error {
	return r.db.WithContext(ctx).Create(operation).Error
}

func (r *operationRepository) FindByID(ctx context.Context, id string) (*model.Operation, error) {
	var operation model.Operation
	if err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&operation).Error; err != nil {
		return nil, err
	}
	return &operation, nil
}

var operationSortColumns = map[string]string{
	"name": "name",
}

func (r *operationRepository) List(ctx context.Context, params listing.Params) ([]*model.Operation, int64, error) {
	var operations []*model.Operation
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Operation{}).
		Scopes(listing.SearchScope(params.Search, "name"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(
			listing.OrderScope(params.Sort, operationSortColumns, "updated_at DESC"),
			listing.PageScope(params.Page),
		).
		Find(&operations).Error; err != nil {
		return nil, 0, err
	}

	return operations, total, nil
}

func (r *operationRepository) ListHeadings(ctx context.Context) ([]model.Operation, error) {
	var headings []model.Operation
	if err := r.db.WithContext(ctx).
		Where("parent_id IS NULL").
		Order("order_index").
		Find(&headings).Error; err != nil {
		return nil, err
	}
	return headings, nil
}

func (r *operationRepository) ListLeaves(ctx context.Context, headingID uuid.UUID) ([]model.Operation, error) {
	var leaves []model.Operation
	if err := r.db.WithContext(ctx).
		Where("parent_id = ?", headingID).
		Order("order_index").
		Find(&leaves).Error; err != nil {
		return nil, err
	}
	return leaves, nil
}

// ListGrantedLeaves returns the leaves under a heading that the user's
// role grants.
func (r *operationRepository) ListGrantedLeaves(ctx context.Context, headingID, userID uuid.UUID) ([]model.Operation, error) {
	var leaves []model.Operation
	if err := r.db.WithContext(ctx).
		Model(&model.Operation{}).
		Joins("JOIN role_operations ON role_operations.operation_id = operations.id").
		Joins("JOIN user_roles ON user_roles.role_id = role_operations.role_id").
		Where("operations.parent_id = ? AND user_roles.user_id = ?", headingID, userID).
		Order("operations.order_index").
		Find(&leaves).Error; err != nil {
		return nil, err
	}
	return leaves, nil
}

// HasGrant walks user_roles -> role_operations -> operations and
// reports whether any row links the user's role to the slug.
func (r *operationRepository) HasGrant(ctx context.Context, userID uuid.UUID, slug string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.UserRole{}).
		Joins("JOIN role_operations ON role_operations.role_id = user_roles.role_id").
		Joins("JOIN operations ON operations.id = role_operations.operation_id").
		Where("user_roles.user_id = ? AND operations.slug = ?", userID, slug).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
