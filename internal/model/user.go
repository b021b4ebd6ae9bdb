package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RoleSlugSuperAdmin bypasses all per-operation permission checks.
const RoleSlugSuperAdmin = "Super Admin"

// RoleNameDefault is assigned to self-registered accounts.
const RoleNameDefault = "normal user"

type User struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName    string    `gorm:"size:50" json:"first_name"`
	LastName     string    `gorm:"size:50" json:"last_name"`
	Email        string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	IsDeleted    bool      `gorm:"default:false" json:"-"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	UserRole *UserRole `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	return nil
}

type Role struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Slug      string    `gorm:"size:50" json:"slug"`
	Name      string    `gorm:"size:50" json:"name"`
	Editable  bool      `json:"editable"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *Role) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// UserRole links a user to their single active role. The service layer
// deletes any prior row before inserting a new one, so at most one row
// exists per user.
type UserRole struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    uuid.UUID `gorm:"type:uuid;index;not null" json:"user_id"`
	RoleID    uuid.UUID `gorm:"type:uuid;not null" json:"role_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ur *UserRole) BeforeCreate(tx *gorm.DB) error {
	if ur.ID == uuid.Nil {
		ur.ID = uuid.New()
	}
	return nil
}

// Leaf operation slugs. Route guards and the seeder both refer to
// these; a typo in either place would silently deny everyone.
const (
	OpListUsers = "List Users"
	OpAddUser   = "Add User"

	OpListRoles  = "List Roles"
	OpAddRole    = "Add Role"
	OpUpdateRole = "Update Role"
	OpDeleteRole = "Delete Role"

	OpAddMovies    = "add movies"
	OpUpdateMovies = "update movies"
	OpDeleteMovies = "delete movies"

	OpAddComments    = "add comments"
	OpUpdateComments = "update comments"
	OpDeleteComments = "delete comments"

	OpAddRatings    = "add ratings"
	OpUpdateRatings = "update ratings"
	OpDeleteRatings = "delete ratings"
)

// Operation is an atomic permission unit. A nil ParentID marks a
// section heading; leaves reference their heading. The hierarchy is
// exactly two levels deep.
type Operation struct {
	ID         uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Slug       string     `gorm:"size:50" json:"slug"`
	Name       string     `gorm:"size:50" json:"name"`
	OrderIndex int        `json:"order_index"`
	ParentID   *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt  time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (o *Operation) BeforeCreate(tx *gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}

// IsHeading reports whether the operation is a section heading.
func (o *Operation) IsHeading() bool {
	return o.ParentID == nil
}

// RoleOperation grants an operation to a role. Rows are hard-deleted
// and rewritten as a set on every role update.
type RoleOperation struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	RoleID      uuid.UUID `gorm:"type:uuid;index;not null" json:"role_id"`
	OperationID uuid.UUID `gorm:"type:uuid;not null" json:"operation_id"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ro *RoleOperation) BeforeCreate(tx *gorm.DB) error {
	if ro.ID == uuid.Nil {
		ro.ID = uuid.New()
	}
	return nil
}
