package repository

import (
	"context"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/pkg/listing"
	"gorm.io/gorm"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *model.MovieComment) error
	FindByID(ctx context.Context, id string) (*model.MovieComment, error)
	ListTopLevel(ctx context.Context, params listing.Params, movie listing.Filter) ([]*model.MovieComment, int64, error)
	ListTopLevelByMovie(ctx context.Context, movieID string) ([]*model.MovieComment, error)
	Replies(ctx context.Context, parentID string) ([]model.MovieComment, error)
	Update(ctx context.Context, comment *model.MovieComment) error
	SoftDelete(ctx context.Context, comment *model.MovieComment) error
}

type commentRepository struct {
	db *gorm.DB
}

func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *model.MovieComment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*model.MovieComment, error) {
	var comment model.MovieComment
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&comment).Error; err != nil {
		return nil, err
	}
	return &comment, nil
}

var commentSortColumns = map[string]string{
	"text":       "text",
	"created_at": "created_at",
}

// ListTopLevel pages over thread starters only; replies are resolved
// separately per item.
func (r *commentRepository) ListTopLevel(ctx context.Context, params listing.Params, movie listing.Filter) ([]*model.MovieComment, int64, error) {
	var comments []*model.MovieComment
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.MovieComment{}).
		Where("is_deleted = ? AND parent_id IS NULL", false).
		Scopes(
			listing.WhereScope(movie, "movie_id"),
			listing.SearchScope(params.Search, "text"),
		)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(
			listing.OrderScope(params.Sort, commentSortColumns, "created_at DESC"),
			listing.PageScope(params.Page),
		).
		Find(&comments).Error; err != nil {
		return nil, 0, err
	}

	return comments, total, nil
}

func (r *commentRepository) ListTopLevelByMovie(ctx context.Context, movieID string) ([]*model.MovieComment, error) {
	var comments []*model.MovieComment
	if err := r.db.WithContext(ctx).
		Where("movie_id = ? AND is_deleted = ? AND parent_id IS NULL", movieID, false).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *commentRepository) Replies(ctx context.Context, parentID string) ([]model.MovieComment, error) {
	var replies []model.MovieComment
	if err := r.db.WithContext(ctx).
		Where("parent_id = ? AND is_deleted = ?", parentID, false).
		Find(&replies).Error; err != nil {
		return nil, err
	}
	return replies, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *model.MovieComment) error {
	return r.db.WithContext(ctx).Save(comment).Error
}

func (r *commentRepository) SoftDelete(ctx context.Context, comment *model.MovieComment) error {
	comment.IsDeleted = true
	return r.db.WithContext(ctx).Save(comment).Error
}
