package bootstrap

import (
	"testing"

	"cineva.app/movieadmin/internal/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeededDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestSeedingIsIdempotent(t *testing.T) {
	db := newSeededDB(t)

	for i := 0; i < 2; i++ {
		if err := SeedRoles(db); err != nil {
			t.Fatalf("seed roles (run %d): %v", i+1, err)
		}
		if err := SeedOperations(db); err != nil {
			t.Fatalf("seed operations (run %d): %v", i+1, err)
		}
		if err := SeedSuperAdmin(db, "root@example.com", "secret123"); err != nil {
			t.Fatalf("seed super admin (run %d): %v", i+1, err)
		}
	}

	var roleCount int64
	if err := db.Model(&model.Role{}).Count(&roleCount).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if roleCount != 2 {
		t.Errorf("roles = %d, want 2", roleCount)
	}

	var headingCount, leafCount int64
	if err := db.Model(&model.Operation{}).Where("parent_id IS NULL").Count(&headingCount).Error; err != nil {
		t.Fatalf("count headings: %v", err)
	}
	if err := db.Model(&model.Operation{}).Where("parent_id IS NOT NULL").Count(&leafCount).Error; err != nil {
		t.Fatalf("count leaves: %v", err)
	}
	if headingCount != int64(len(operationCatalog)) {
		t.Errorf("headings = %d, want %d", headingCount, len(operationCatalog))
	}
	wantLeaves := 0
	for _, group := range operationCatalog {
		wantLeaves += len(group.leaves)
	}
	if leafCount != int64(wantLeaves) {
		t.Errorf("leaves = %d, want %d", leafCount, wantLeaves)
	}

	var userCount int64
	if err := db.Model(&model.User{}).Count(&userCount).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	if userCount != 1 {
		t.Errorf("users = %d, want 1", userCount)
	}
}

func TestSuperAdminRoleIsNotEditable(t *testing.T) {
	db := newSeededDB(t)
	if err := SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}

	var role model.Role
	if err := db.Where("slug = ?", model.RoleSlugSuperAdmin).First(&role).Error; err != nil {
		t.Fatalf("find super admin role: %v", err)
	}
	if role.Editable {
		t.Error("super admin role is editable")
	}
}

func TestSeededSuperAdminHasRoleAssignment(t *testing.T) {
	db := newSeededDB(t)
	if err := SeedRoles(db); err != nil {
		t.Fatalf("seed roles: %v", err)
	}
	if err := SeedSuperAdmin(db, "root@example.com", "secret123"); err != nil {
		t.Fatalf("seed super admin: %v", err)
	}

	var user model.User
	if err := db.Where("email = ?", "root@example.com").First(&user).Error; err != nil {
		t.Fatalf("find super admin: %v", err)
	}

	var assignment model.UserRole
	if err := db.Preload("Role").Where("user_id = ?", user.ID).First(&assignment).Error; err != nil {
		t.Fatalf("find assignment: %v", err)
	}
	if assignment.Role.Slug != model.RoleSlugSuperAdmin {
		t.Errorf("assigned role %q, want %q", assignment.Role.Slug, model.RoleSlugSuperAdmin)
	}
}
