package service

import (
	"net/http"
	"sort"
	"testing"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

func newRoleService(db *gorm.DB) (RoleService, repository.RoleRepository) {
	roleRepo := repository.NewRoleRepository(db)
	return NewRoleService(roleRepo, repository.NewOperationRepository(db)), roleRepo
}

func leafOperationIDs(t *testing.T, db *gorm.DB, slugs ...string) []string {
	t.Helper()
	ids := make([]string, 0, len(slugs))
	for _, slug := range slugs {
		var operation model.Operation
		if err := db.Where("slug = ? AND parent_id IS NOT NULL", slug).First(&operation).Error; err != nil {
			t.Fatalf("find operation %q: %v", slug, err)
		}
		ids = append(ids, operation.ID.String())
	}
	return ids
}

func TestCreateRoleWithOperations(t *testing.T) {
	db := newTestDB(t)
	svc, roleRepo := newRoleService(db)

	input := dto.RoleInput{
		Name:       "moderator",
		Operations: leafOperationIDs(t, db, model.OpAddComments, model.OpDeleteComments),
	}
	if err := svc.CreateRole(testContext(), input); err != nil {
		t.Fatalf("create role: %v", err)
	}

	role, err := roleRepo.FindByName(testContext(), "moderator")
	if err != nil {
		t.Fatalf("find role: %v", err)
	}
	granted, err := roleRepo.OperationIDs(testContext(), role.ID)
	if err != nil {
		t.Fatalf("operation ids: %v", err)
	}
	if len(granted) != 2 {
		t.Errorf("granted %d operations, want 2", len(granted))
	}
}

func TestCreateRoleNameConflictIsCaseInsensitive(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newRoleService(db)

	ops := leafOperationIDs(t, db, model.OpAddComments)
	if err := svc.CreateRole(testContext(), dto.RoleInput{Name: "Moderator", Operations: ops}); err != nil {
		t.Fatalf("create role: %v", err)
	}

	err := svc.CreateRole(testContext(), dto.RoleInput{Name: "mOdErAtOr", Operations: ops})
	if err == nil {
		t.Fatal("duplicate role name accepted")
	}
	if got := apperror.MapErrorToStatus(err); got != http.StatusConflict {
		t.Errorf("status = %d, want %d", got, http.StatusConflict)
	}
}

func TestCreateRoleRejectsUnknownOperation(t *testing.T) {
	db := newTestDB(t)
	svc, roleRepo := newRoleService(db)

	input := dto.RoleInput{
		Name:       "ghost",
		Operations: []string{uuid.NewString()},
	}
	err := svc.CreateRole(testContext(), input)
	if err == nil {
		t.Fatal("unknown operation id accepted")
	}
	if got := apperror.MapErrorToStatus(err); got != http.StatusNotFound {
		t.Errorf("status = %d, want %d", got, http.StatusNotFound)
	}

	// Nothing may have been written.
	if _, err := roleRepo.FindByName(testContext(), "ghost"); err == nil {
		t.Error("role row created despite rejected operation set")
	}
}

// Updating a role replaces the entire grant set; operations missing
// from the request are revoked.
func TestUpdateRoleReplacesGrantSet(t *testing.T) {
	db := newTestDB(t)
	svc, roleRepo := newRoleService(db)

	if err := svc.CreateRole(testContext(), dto.RoleInput{
		Name:       "curator",
		Operations: leafOperationIDs(t, db, model.OpAddMovies, model.OpUpdateMovies),
	}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	role, err := roleRepo.FindByName(testContext(), "curator")
	if err != nil {
		t.Fatalf("find role: %v", err)
	}

	want := leafOperationIDs(t, db, model.OpDeleteMovies, model.OpAddRatings)
	if err := svc.UpdateRole(testContext(), role.ID.String(), dto.RoleInput{
		Name:       "curator",
		Operations: want,
	}); err != nil {
		t.Fatalf("update role: %v", err)
	}

	got, err := roleRepo.OperationIDs(testContext(), role.ID)
	if err != nil {
		t.Fatalf("operation ids: %v", err)
	}

	sort.Strings(want)
	sort.Strings(got)
	if len(got) != len(want) {
		t.Fatalf("granted %d operations, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("grant set mismatch: got %v, want %v", got, want)
			break
		}
	}
}

func TestUpdateRoleAllowsKeepingOwnName(t *testing.T) {
	db := newTestDB(t)
	svc, roleRepo := newRoleService(db)

	ops := leafOperationIDs(t, db, model.OpAddComments)
	if err := svc.CreateRole(testContext(), dto.RoleInput{Name: "helper", Operations: ops}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	role, err := roleRepo.FindByName(testContext(), "helper")
	if err != nil {
		t.Fatalf("find role: %v", err)
	}

	if err := svc.UpdateRole(testContext(), role.ID.String(), dto.RoleInput{Name: "Helper", Operations: ops}); err != nil {
		t.Errorf("renaming a role to its own name (case change) failed: %v", err)
	}
}

func TestDeleteRoleIsSoft(t *testing.T) {
	db := newTestDB(t)
	svc, roleRepo := newRoleService(db)

	ops := leafOperationIDs(t, db, model.OpAddComments)
	if err := svc.CreateRole(testContext(), dto.RoleInput{Name: "ephemeral", Operations: ops}); err != nil {
		t.Fatalf("create role: %v", err)
	}
	role, err := roleRepo.FindByName(testContext(), "ephemeral")
	if err != nil {
		t.Fatalf("find role: %v", err)
	}

	if err := svc.DeleteRole(testContext(), role.ID.String()); err != nil {
		t.Fatalf("delete role: %v", err)
	}

	if _, err := roleRepo.FindByName(testContext(), "ephemeral"); err == nil {
		t.Error("deleted role still visible")
	}

	// The row itself survives.
	var count int64
	if err := db.Model(&model.Role{}).Where("name = ?", "ephemeral").Count(&count).Error; err != nil {
		t.Fatalf("count roles: %v", err)
	}
	if count != 1 {
		t.Errorf("role row count = %d, want 1", count)
	}
}
