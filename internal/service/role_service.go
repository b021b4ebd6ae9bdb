package service

import (
	"context"
	"errors"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"cineva.app/movieadmin/pkg/listing"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RoleService interface {
	ListRoles(ctx context.Context, params listing.Params) (*dto.ListResponse[*model.Role], error)
	ListAssignableRoles(ctx context.Context) ([]*model.Role, error)
	GetRoleWithOperations(ctx context.Context, roleID string) (*dto.RoleDetails, error)
	CreateRole(ctx context.Context, input dto.RoleInput) error
	UpdateRole(ctx context.Context, roleID string, input dto.RoleInput) error
	DeleteRole(ctx context.Context, roleID string) error
}

type roleService struct {
	roleRepo      repository.RoleRepository
	operationRepo repository.OperationRepository
}

func NewRoleService(roleRepo repository.RoleRepository, operationRepo repository.OperationRepository) RoleService {
	return &roleService{
		roleRepo:      roleRepo,
		operationRepo: operationRepo,
	}
}

func (s *roleService) ListRoles(ctx context.Context, params listing.Params) (*dto.ListResponse[*model.Role], error) {
	roles, total, err := s.roleRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[*model.Role]{Count: total, List: roles}, nil
}

func (s *roleService) ListAssignableRoles(ctx context.Context) ([]*model.Role, error) {
	return s.roleRepo.ListAssignable(ctx)
}

func (s *roleService) GetRoleWithOperations(ctx context.Context, roleID string) (*dto.RoleDetails, error) {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return nil, notFound(err, "role not found")
	}

	operationIDs, err := s.roleRepo.OperationIDs(ctx, role.ID)
	if err != nil {
		return nil, err
	}

	return &dto.RoleDetails{Role: role, Operations: operationIDs}, nil
}

func (s *roleService) CreateRole(ctx context.Context, input dto.RoleInput) error {
	// Name uniqueness is case-insensitive on create and update alike.
	if _, err := s.roleRepo.FindByName(ctx, input.Name); err == nil {
		return apperror.Conflict("role already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	operationIDs, err := s.resolveOperationIDs(ctx, input.Operations)
	if err != nil {
		return err
	}

	role := &model.Role{Slug: input.Name, Name: input.Name, Editable: true}
	return s.roleRepo.Create(ctx, role, operationIDs)
}

func (s *roleService) UpdateRole(ctx context.Context, roleID string, input dto.RoleInput) error {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return notFound(err, "role not found")
	}

	if existing, err := s.roleRepo.FindByName(ctx, input.Name); err == nil {
		if existing.ID != role.ID {
			return apperror.Conflict("role already exists")
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	// Validate the whole requested set before touching anything: an
	// unknown operation id rejects the entire update.
	operationIDs, err := s.resolveOperationIDs(ctx, input.Operations)
	if err != nil {
		return err
	}

	role.Name = input.Name
	return s.roleRepo.Update(ctx, role, operationIDs)
}

func (s *roleService) DeleteRole(ctx context.Context, roleID string) error {
	role, err := s.roleRepo.FindByID(ctx, roleID)
	if err != nil {
		return notFound(err, "role not found")
	}
	return s.roleRepo.SoftDelete(ctx, role)
}

func (s *roleService) resolveOperationIDs(ctx context.Context, ids []string) ([]uuid.UUID, error) {
	operationIDs := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		operation, err := s.operationRepo.FindByID(ctx, id)
		if err != nil {
			return nil, notFound(err, "operation not found")
		}
		operationIDs = append(operationIDs, operation.ID)
	}
	return operationIDs, nil
}
