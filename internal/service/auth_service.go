package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService interface {
	SignUp(ctx context.Context, input dto.SignUpInput) (*dto.AuthResponse, error)
	SignIn(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error)
	ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error
	GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error)
	UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*model.User, error)
}

type authService struct {
	userRepo   repository.UserRepository
	roleRepo   repository.RoleRepository
	tokens     TokenService
	rdb        *redis.Client
	loginLimit time.Duration
}

func NewAuthService(userRepo repository.UserRepository, roleRepo repository.RoleRepository, tokens TokenService, rdb *redis.Client, loginLimit time.Duration) AuthService {
	return &authService{
		userRepo:   userRepo,
		roleRepo:   roleRepo,
		tokens:     tokens,
		rdb:        rdb,
		loginLimit: loginLimit,
	}
}

// SignUp registers a public account under the default role and returns
// a fresh credential.
func (s *authService) SignUp(ctx context.Context, input dto.SignUpInput) (*dto.AuthResponse, error) {
	if _, err := s.userRepo.FindByEmail(ctx, input.Email); err == nil {
		return nil, apperror.Conflict("user already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
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

	role, err := s.roleRepo.FindByName(ctx, model.RoleNameDefault)
	if err != nil {
		return nil, notFound(err, "default role not found")
	}
	if err := s.userRepo.AssignRole(ctx, user.ID, role.ID); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) SignIn(ctx context.Context, input dto.LoginInput) (*dto.AuthResponse, error) {
	allowed, err := CheckAndSetRateLimit(ctx, s.rdb, input.Email, "login", s.loginLimit)
	if err != nil {
		return nil, err
	}
	if !allowed {
		return nil, apperror.ErrRateLimitExceeded
	}

	user, err := s.userRepo.FindByEmail(ctx, input.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.ErrUnauthorized
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
		return nil, apperror.ErrUnauthorized
	}

	if err := ClearRateLimit(ctx, s.rdb, input.Email, "login"); err != nil {
		return nil, err
	}

	token, err := s.tokens.Issue(user.ID.String(), user.Email)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{Token: token, User: user}, nil
}

func (s *authService) ChangePassword(ctx context.Context, userID string, input dto.ChangePasswordInput) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return notFound(err, "user not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
		return apperror.New(http.StatusForbidden, "incorrect old password", apperror.ErrForbidden)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user.PasswordHash = string(hash)
	return s.userRepo.Update(ctx, user)
}

func (s *authService) GetProfile(ctx context.Context, userID string) (*dto.ProfileResponse, error) {
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

func (s *authService) UpdateProfile(ctx context.Context, userID string, input dto.UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "user not found")
	}

	user.FirstName = input.FirstName
	user.LastName = input.LastName
	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}
