package repository

import (
	"context"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleRepository interface {
	Create(ctx context.Context, role *model.Role, operationIDs []uuid.UUID) error
	Update(ctx context.Context, role *model.Role, operationIDs []uuid.UUID) error
	FindByID(ctx context.Context, id string) (*model.Role, error)
	FindByName(ctx context.Context, name string) (*model.Role, error)
	List(ctx context.Context, params listing.Params) ([]*model.Role, int64, error)
	ListAssignable(ctx context.Context) ([]*model.Role, error)
	OperationIDs(ctx context.Context, roleID uuid.UUID) ([]string, error)
	SoftDelete(ctx context.Context, role *model.Role) error
}

type roleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) RoleRepository {
	return &roleRepository{db: db}
}

func (r *roleRepository) Create(ctx context.Context, role *model.Role, operationIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(role).Error; err != nil {
			return err
		}
		return createRoleOperations(tx, role.ID, operationIDs)
	})
}

// Update rewrites the role and its full grant set in one transaction:
// all prior role-operation rows are removed and the new set inserted,
// never a targeted diff.
func (r *roleRepository) Update(ctx context.Context, role *model.Role, operationIDs []uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(role).Error; err != nil {
			return err
		}
		if err := tx.Where("role_id = ?", role.ID).Delete(&model.RoleOperation{}).Error; err != nil {
			return err
		}
		return createRoleOperations(tx, role.ID, operationIDs)
	})
}

func createRoleOperations(tx *gorm.DB, roleID uuid.UUID, operationIDs []uuid.UUID) error {
	for _, opID := range operationIDs {
		grant := model.RoleOperation{RoleID: roleID, OperationID: opID}
		if err := tx.Create(&grant).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *roleRepository) FindByID(ctx context.Context, id string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

// FindByName matches case-insensitively; role names are unique ignoring
// case.
func (r *roleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	if err := r.db.WithContext(ctx).
		Where("LOWER(name) = LOWER(?) AND is_deleted = ?", name, false).
		First(&role).Error; err != nil {
		return nil, err
	}
	return &role, nil
}

var roleSortColumns = map[string]string{
	"name": "name",
}

func (r *roleRepository) List(ctx context.Context, params listing.Params) ([]*model.Role, int64, error) {
	var roles []*model.Role
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Role{}).
		Where("is_deleted = ?", false).
		Scopes(listing.SearchScope(params.Search, "name"))

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(
			listing.OrderScope(params.Sort, roleSortColumns, "updated_at DESC"),
			listing.PageScope(params.Page),
		).
		Find(&roles).Error; err != nil {
		return nil, 0, err
	}

	return roles, total, nil
}

// ListAssignable excludes protected system roles (editable=false) so
// they never show up in role pickers.
func (r *roleRepository) ListAssignable(ctx context.Context) ([]*model.Role, error) {
	var roles []*model.Role
	if err := r.db.WithContext(ctx).
		Where("is_deleted = ? AND editable = ?", false, true).
		Order("name").
		Find(&roles).Error; err != nil {
		return nil, err
	}
	return roles, nil
}

func (r *roleRepository) OperationIDs(ctx context.Context, roleID uuid.UUID) ([]string, error) {
	var grants []model.RoleOperation
	if err := r.db.WithContext(ctx).
		Where("role_id = ?", roleID).
		Find(&grants).Error; err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(grants))
	for _, grant := range grants {
		ids = append(ids, grant.OperationID.String())
	}
	return ids, nil
}

func (r *roleRepository) SoftDelete(ctx context.Context, role *model.Role) error {
	role.IsDeleted = true
	return r.db.WithContext(ctx).Save(role).Error
}
