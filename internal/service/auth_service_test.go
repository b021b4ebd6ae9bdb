package service

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func newAuthService(t *testing.T, db *gorm.DB, rdb *redis.Client) AuthService {
	t.Helper()
	userRepo := repository.NewUserRepository(db)
	tokens := newTestTokenService(t, userRepo)
	return NewAuthService(userRepo, repository.NewRoleRepository(db), tokens, rdb, time.Second)
}

func TestSignUpAssignsDefaultRole(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	res, err := svc.SignUp(testContext(), dto.SignUpInput{
		FirstName: "New",
		LastName:  "User",
		Email:     "new@example.com",
		Password:  "secret123",
	})
	if err != nil {
		t.Fatalf("sign up: %v", err)
	}
	if res.Token == "" {
		t.Error("sign up returned no token")
	}

	userRepo := repository.NewUserRepository(db)
	userRole, err := userRepo.FindUserRole(testContext(), res.User.ID)
	if err != nil {
		t.Fatalf("find user role: %v", err)
	}
	if userRole.Role.Name != model.RoleNameDefault {
		t.Errorf("assigned role %q, want %q", userRole.Role.Name, model.RoleNameDefault)
	}
}

func TestSignUpDuplicateEmail(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	createTestUser(t, db, "taken@example.com", "secret123")

	_, err := svc.SignUp(testContext(), dto.SignUpInput{
		FirstName: "New",
		LastName:  "User",
		Email:     "taken@example.com",
		Password:  "secret123",
	})
	if err == nil {
		t.Fatal("duplicate email accepted")
	}
	if got := apperror.MapErrorToStatus(err); got != http.StatusConflict {
		t.Errorf("status = %d, want %d", got, http.StatusConflict)
	}
}

func TestSignInSuccessAndWrongPassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	createTestUser(t, db, "alice@example.com", "secret123")

	res, err := svc.SignIn(testContext(), dto.LoginInput{Email: "alice@example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if res.Token == "" {
		t.Error("sign in returned no token")
	}

	_, err = svc.SignIn(testContext(), dto.LoginInput{Email: "alice@example.com", Password: "wrong"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("wrong password error = %v, want ErrUnauthorized", err)
	}

	// Unknown accounts produce the same error as a bad password.
	_, err = svc.SignIn(testContext(), dto.LoginInput{Email: "nobody@example.com", Password: "secret123"})
	if !errors.Is(err, apperror.ErrUnauthorized) {
		t.Errorf("unknown email error = %v, want ErrUnauthorized", err)
	}
}

func TestSignInRateLimited(t *testing.T) {
	db := newTestDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	svc := newAuthService(t, db, rdb)

	createTestUser(t, db, "bob@example.com", "secret123")

	// A failed attempt arms the limiter.
	if _, err := svc.SignIn(testContext(), dto.LoginInput{Email: "bob@example.com", Password: "wrong"}); err == nil {
		t.Fatal("wrong password accepted")
	}

	_, err := svc.SignIn(testContext(), dto.LoginInput{Email: "bob@example.com", Password: "secret123"})
	if !errors.Is(err, apperror.ErrRateLimitExceeded) {
		t.Fatalf("second attempt error = %v, want ErrRateLimitExceeded", err)
	}

	// After the window passes the correct password succeeds, and
	// success releases the lock immediately.
	mr.FastForward(2 * time.Second)
	if _, err := svc.SignIn(testContext(), dto.LoginInput{Email: "bob@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("sign in after window: %v", err)
	}
	if _, err := svc.SignIn(testContext(), dto.LoginInput{Email: "bob@example.com", Password: "secret123"}); err != nil {
		t.Fatalf("sign in after cleared limit: %v", err)
	}
}

func TestChangePassword(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	user := createTestUser(t, db, "carol@example.com", "oldpass123")

	err := svc.ChangePassword(testContext(), user.ID.String(), dto.ChangePasswordInput{
		OldPassword: "nope",
		NewPassword: "newpass123",
	})
	if err == nil {
		t.Fatal("wrong old password accepted")
	}
	if got := apperror.MapErrorToStatus(err); got != http.StatusForbidden {
		t.Errorf("status = %d, want %d", got, http.StatusForbidden)
	}

	if err := svc.ChangePassword(testContext(), user.ID.String(), dto.ChangePasswordInput{
		OldPassword: "oldpass123",
		NewPassword: "newpass123",
	}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	if _, err := svc.SignIn(testContext(), dto.LoginInput{Email: "carol@example.com", Password: "newpass123"}); err != nil {
		t.Errorf("sign in with new password: %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	db := newTestDB(t)
	svc := newAuthService(t, db, nil)

	user := createTestUser(t, db, "dave@example.com", "secret123")

	updated, err := svc.UpdateProfile(testContext(), user.ID.String(), dto.UpdateProfileInput{
		FirstName: "David",
		LastName:  "Example",
	})
	if err != nil {
		t.Fatalf("update profile: %v", err)
	}
	if updated.FirstName != "David" || updated.LastName != "Example" {
		t.Errorf("profile = %s %s, want David Example", updated.FirstName, updated.LastName)
	}

	profile, err := svc.GetProfile(testContext(), user.ID.String())
	if err != nil {
		t.Fatalf("get profile: %v", err)
	}
	if profile.FirstName != "David" {
		t.Errorf("persisted first name = %q, want David", profile.FirstName)
	}
}
