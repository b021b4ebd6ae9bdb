package service

import (
	"context"
	"errors"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// denialMessage is the single message every denial carries; callers can
// never tell a missing role from an ungranted operation.
const denialMessage = "you don't have permission"

// Authorizer decides whether a user may perform an operation. It is
// read-only: a check never mutates the store.
type Authorizer interface {
	// Authorize allows when the user's role grants the operation slug,
	// or the user holds the super-admin role.
	Authorize(ctx context.Context, userID uuid.UUID, slug string) error
	// AuthorizeAny allows when at least one of the slugs resolves.
	AuthorizeAny(ctx context.Context, userID uuid.UUID, slugs []string) error
	// IsSuperAdmin reports whether the user's role bypasses all checks.
	IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

type authzService struct {
	userRepo      repository.UserRepository
	operationRepo repository.OperationRepository
}

func NewAuthzService(userRepo repository.UserRepository, operationRepo repository.OperationRepository) Authorizer {
	return &authzService{
		userRepo:      userRepo,
		operationRepo: operationRepo,
	}
}

func (s *authzService) Authorize(ctx context.Context, userID uuid.UUID, slug string) error {
	superAdmin, err := s.IsSuperAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if superAdmin {
		return nil
	}

	granted, err := s.operationRepo.HasGrant(ctx, userID, slug)
	if err != nil {
		return err
	}
	if !granted {
		return apperror.Forbidden(denialMessage)
	}
	return nil
}

func (s *authzService) AuthorizeAny(ctx context.Context, userID uuid.UUID, slugs []string) error {
	superAdmin, err := s.IsSuperAdmin(ctx, userID)
	if err != nil {
		return err
	}
	if superAdmin {
		return nil
	}

	for _, slug := range slugs {
		granted, err := s.operationRepo.HasGrant(ctx, userID, slug)
		if err != nil {
			return err
		}
		if granted {
			return nil
		}
	}
	return apperror.Forbidden(denialMessage)
}

func (s *authzService) IsSuperAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	userRole, err := s.userRepo.FindUserRole(ctx, userID)
	if err != nil {
		// A user without a role assignment is simply denied, the same
		// as one whose role grants nothing.
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return userRole.Role.Slug == model.RoleSlugSuperAdmin, nil
}
