package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Movie struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string    `gorm:"size:80;not null" json:"title"`
	Description string    `gorm:"type:text" json:"description"`
	Year        int       `json:"year"`
	Path        string    `gorm:"size:255" json:"path"`
	UserID      uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	IsDeleted   bool      `gorm:"default:false" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (m *Movie) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// MovieImage rows are hard-deleted together with their backing file; a
// movie holds at most 6 live images.
type MovieImage struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"size:60" json:"name"`
	Path        string    `gorm:"size:255" json:"path"`
	IsThumbnail bool      `gorm:"default:false" json:"is_thumbnail"`
	MovieID     uuid.UUID `gorm:"type:uuid;index" json:"movie_id"`
	IsDeleted   bool      `gorm:"default:false" json:"-"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (i *MovieImage) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// MovieComment threads are two levels deep: a nil ParentID marks a
// top-level comment, anything else references its parent.
type MovieComment struct {
	ID        uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Text      string     `gorm:"type:text" json:"text"`
	ParentID  *uuid.UUID `gorm:"type:uuid;index" json:"parent_id,omitempty"`
	MovieID   uuid.UUID  `gorm:"type:uuid;index" json:"movie_id"`
	UserID    uuid.UUID  `gorm:"type:uuid" json:"user_id"`
	IsDeleted bool       `gorm:"default:false" json:"-"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (c *MovieComment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// IsTopLevel reports whether the comment starts a thread.
func (c *MovieComment) IsTopLevel() bool {
	return c.ParentID == nil
}

type MovieRating struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Score     int       `json:"score"`
	Text      string    `gorm:"type:text" json:"text"`
	MovieID   uuid.UUID `gorm:"type:uuid;index" json:"movie_id"`
	UserID    uuid.UUID `gorm:"type:uuid" json:"user_id"`
	IsDeleted bool      `gorm:"default:false" json:"-"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *MovieRating) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
