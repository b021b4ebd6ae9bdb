package service

import (
	"context"
	"errors"
	"fmt"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"cineva.app/movieadmin/pkg/listing"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// UserService is the administrative side of account management.
type UserService interface {
	AddUser(ctx context.Context, input dto.AddUserInput) (*dto.UserListItem, error)
	ListUsers(ctx context.Context, params listing.Params) (*dto.ListResponse[dto.UserListItem], error)
	GetUser(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateUser(ctx context.Context, userID string, input dto.AdminUpdateUserInput) (*dto.ProfileResponse, error)
	DeleteUser(ctx context.Context, userID string) error
}

type userService struct {
	userRepo repository.UserRepository
	roleRepo repository.RoleRepository
}

func NewUserService(userRepo repository.UserRepository, roleRepo repository.RoleRepository) UserService {
	return &userService{
		userRepo: userRepo,
		roleRepo: roleRepo,
	}
}

func (s *userService) AddUser(ctx context.Context, input dto.AddUserInput) (*dto.UserListItem, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	role, err := s.roleRepo.FindByID(ctx, input.RoleID)
	if err != nil {
		return nil, notFound(err, "role not found")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Email:        input.Email,
		PasswordHash: string(hash),
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}

	return &dto.UserListItem{
		ID:        user.ID.String(),
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Email:     user.Email,
		Role:      role,
	}, nil
}

func (s *userService) ListUsers(ctx context.Context, params listing.Params) (*dto.ListResponse[dto.UserListItem], error) {
	users, total, err := s.userRepo.List(ctx, params)
	if err != nil {
		return nil, err
	}

	items := make([]dto.UserListItem, 0, len(users))
	for _, user := range users {
		item := dto.UserListItem{
			ID:        user.ID.String(),
			FirstName: user.FirstName,
			LastName:  user.LastName,
			Email:     user.Email,
		}
		if userRole, err := s.userRepo.FindUserRole(ctx, user.ID); err == nil {
			item.Role = &userRole.Role
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, err
		}
		items = append(items, item)
	}

	return &dto.ListResponse[dto.UserListItem]{Count: total, List: items}, nil
}

func (s *userService) GetUser(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	profile := &dto.ProfileResponse{User: user}
	if userRole, err := s.userRepo.FindUserRole(ctx, user.ID); err == nil {
		profile.Role = &userRole.Role
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return profile, nil
}

func (s *userService) UpdateUser(ctx context.Context, userID string, input dto.AdminUpdateUserInput) (*dto.ProfileResponse, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	role, err := s.roleRepo.FindByID(ctx, input.RoleID)
	if err != nil {
		return nil, notFound(err, "role not found")
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	// Reassign only when the role actually changed.
	current, err := s.userRepo.FindUserRole(ctx, user.ID)
	switch {
	case err == nil && current.RoleID == role.ID:
		// unchanged
	case err == nil || errors.Is(err, gorm.ErrRecordNotFound):
		if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
			return nil, err
		}
	default:
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

func (s *userService) DeleteUser(ctx context.Context, userID string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, "user not found")
	}
	return s.userRepo.SoftDelete(ctx, user)
}
