package bootstrap

import (
	"errors"
	"log"

	"cineva.app/movieadmin/internal/model"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.UserRole{},
		&model.Operation{},
		&model.RoleOperation{},
		&model.Movie{},
		&model.MovieImage{},
		&model.MovieComment{},
		&model.MovieRating{},
	)
}

func SeedRoles(db *gorm.DB) error {
	defaultRoles := []model.Role{
		{Slug: model.RoleSlugSuperAdmin, Name: model.RoleSlugSuperAdmin, Editable: false},
		{Slug: model.RoleNameDefault, Name: model.RoleNameDefault, Editable: true},
	}

	for _, role := range defaultRoles {
		var count int64
		if err := db.Model(&model.Role{}).
			Where("slug = ?", role.Slug).
			Count(&count).Error; err != nil {
			return err
		}

		if count == 0 {
			if err := db.Create(&role).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

// operationCatalog maps each section heading to its ordered leaves.
// Slugs are permanent identifiers; renames happen on Name only.
var operationCatalog = []struct {
	heading string
	leaves  []string
}{
	{"Users", []string{model.OpListUsers, model.OpAddUser}},
	{"Roles", []string{model.OpListRoles, model.OpAddRole, model.OpUpdateRole, model.OpDeleteRole}},
	{"Movies", []string{model.OpAddMovies, model.OpUpdateMovies, model.OpDeleteMovies}},
	{"Comments", []string{model.OpAddComments, model.OpUpdateComments, model.OpDeleteComments}},
	{"Ratings", []string{model.OpAddRatings, model.OpUpdateRatings, model.OpDeleteRatings}},
}

// SeedOperations inserts any missing headings and leaves. Existing rows
// are left untouched so grants survive restarts.
func SeedOperations(db *gorm.DB) error {
	for i, group := range operationCatalog {
		heading, err := ensureOperation(db, group.heading, nil, i+1)
		if err != nil {
			return err
		}

		for j, leaf := range group.leaves {
			if _, err := ensureOperation(db, leaf, &heading.ID, j+1); err != nil {
				return err
			}
		}
	}

	return nil
}

func ensureOperation(db *gorm.DB, slug string, parentID *uuid.UUID, orderIndex int) (*model.Operation, error) {
	var operation model.Operation

	query := db.Where("slug = ?", slug)
	if parentID == nil {
		query = query.Where("parent_id IS NULL")
	} else {
		query = query.Where("parent_id = ?", *parentID)
	}

	err := query.First(&operation).Error
	if err == nil {
		return &operation, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	operation = model.Operation{
		Slug:       slug,
		Name:       slug,
		ParentID:   parentID,
		OrderIndex: orderIndex,
	}
	if err := db.Create(&operation).Error; err != nil {
		return nil, err
	}
	return &operation, nil
}

// SeedSuperAdmin creates the bootstrap account when no user holds the
// super-admin role yet. Intended for development and first deploys.
func SeedSuperAdmin(db *gorm.DB, email, password string) error {
	var adminRole model.Role
	if err := db.Where("slug = ?", model.RoleSlugSuperAdmin).First(&adminRole).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&model.User{}).
		Where("email = ?", email).
		Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("Super admin user already exists, skipping seed")
		return nil
	}

	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	adminUser := model.User{
		FirstName:    "Super",
		LastName:     "Admin",
		Email:        email,
		PasswordHash: string(hashedPasswordBytes),
	}
	if err := db.Create(&adminUser).Error; err != nil {
		return err
	}

	assignment := model.UserRole{
		UserID: adminUser.ID,
		RoleID: adminRole.ID,
	}
	if err := db.Create(&assignment).Error; err != nil {
		return err
	}

	log.Printf("Super admin user seeded: %s", email)
	return nil
}
