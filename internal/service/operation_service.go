package service

import (
	"context"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/listing"
	"github.com/google/uuid"
)

type OperationService interface {
	ListOperations(ctx context.Context, params listing.Params) (*dto.ListResponse[*model.Operation], error)
	// ListCatalog returns every heading with its ordered leaves,
	// regardless of the caller's grants.
	ListCatalog(ctx context.Context) ([]dto.OperationGroup, error)
	// ListUserOperations returns the leaf slugs granted to the user's
	// role (all of them for a super-admin) plus the heading slugs that
	// still have at least one visible leaf. Drives menu visibility.
	ListUserOperations(ctx context.Context, userID uuid.UUID) (*dto.UserOperations, error)
}

type operationService struct {
	operationRepo repository.OperationRepository
	authorizer    Authorizer
}

func NewOperationService(operationRepo repository.OperationRepository, authorizer Authorizer) OperationService {
	return &operationService{
		operationRepo: operationRepo,
		authorizer:    authorizer,
	}
}

func (s *operationService) ListOperations(ctx context.Context, params listing.Params) (*dto.ListResponse[*model.Operation], error) {
	operations, total, err := s.operationRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}
	return &dto.ListResponse[*model.Operation]{Count: total, List: operations}, nil
}

func (s *operationService) ListCatalog(ctx context.Context) ([]dto.OperationGroup, error) {
	headings, err := s.operationRepo.ListHeadings(ctx)
	if err != nil {
		return nil, err
	}

	groups := make([]dto.OperationGroup, 0, len(headings))
	for i := range headings {
		heading := headings[i]
		leaves, err := s.operationRepo.ListLeaves(ctx, heading.ID)
		if err != nil {
			return nil, err
		}
		groups = append(groups, dto.OperationGroup{
			Operation:  &heading,
			Operations: leaves,
		})
	}
	return groups, nil
}

func (s *operationService) ListUserOperations(ctx context.Context, userID uuid.UUID) (*dto.UserOperations, error) {
	superAdmin, err := s.authorizer.IsSuperAdmin(ctx, userID)
	if err != nil {
		return nil, err
	}

	headings, err := s.operationRepo.ListHeadings(ctx)
	if err != nil {
		return nil, err
	}

	result := &dto.UserOperations{
		Operations: []string{},
		Menu:       []string{},
	}
	for _, heading := range headings {
		var leaves []model.Operation
		if superAdmin {
			leaves, err = s.operationRepo.ListLeaves(ctx, heading.ID)
		} else {
			leaves, err = s.operationRepo.ListGrantedLeaves(ctx, heading.ID, userID)
		}
		if err != nil {
			return nil, err
		}

		// Headings with no visible leaves are omitted entirely.
		if len(leaves) == 0 {
			continue
		}
		for _, leaf := range leaves {
			result.Operations = append(result.Operations, leaf.Slug)
		}
		result.Menu = append(result.Menu, heading.Slug)
	}

	return result, nil
}
