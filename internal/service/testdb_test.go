package service

import (
	"context"
	"testing"

	"cineva.app/movieadmin/internal/bootstrap"
	"cineva.app/movieadmin/internal/model"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an in-memory database with the full schema and the
// seeded role and operation catalog.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}

	if err := bootstrap.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := bootstrap.SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	if err := bootstrap.SeedOperations(db); err != nil {
		t.Fatalf("seed operations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, email, password string) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	user := &model.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: string(hash),
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

func assignTestRole(t *testing.T, db *gorm.DB, user *model.User, roleSlug string) {
	t.Helper()

	var role model.Role
	if err := db.Where("slug = ?", roleSlug).First(&role).Error; err != nil {
		t.Fatalf("find role %q: %v", roleSlug, err)
	}

	assignment := model.UserRole{UserID: user.ID, RoleID: role.ID}
	if err := db.Create(&assignment).Error; err != nil {
		t.Fatalf("assign role: %v", err)
	}
}

// createTestRole inserts a role granting the named leaf operations.
func createTestRole(t *testing.T, db *gorm.DB, name string, operationSlugs ...string) *model.Role {
	t.Helper()

	role := &model.Role{Slug: name, Name: name, Editable: true}
	if err := db.Create(role).Error; err != nil {
		t.Fatalf("create role: %v", err)
	}

	for _, slug := range operationSlugs {
		var operation model.Operation
		if err := db.Where("slug = ? AND parent_id IS NOT NULL", slug).First(&operation).Error; err != nil {
			t.Fatalf("find operation %q: %v", slug, err)
		}
		grant := model.RoleOperation{RoleID: role.ID, OperationID: operation.ID}
		if err := db.Create(&grant).Error; err != nil {
			t.Fatalf("grant operation: %v", err)
		}
	}

	return role
}

func createTestMovie(t *testing.T, db *gorm.DB, owner *model.User, title string) *model.Movie {
	t.Helper()

	movie := &model.Movie{
		Title:  title,
		Year:   2020,
		UserID: owner.ID,
	}
	if err := db.Create(movie).Error; err != nil {
		t.Fatalf("create movie: %v", err)
	}
	return movie
}

func testContext() context.Context {
	return context.Background()
}
