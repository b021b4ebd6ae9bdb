package repository

import (
	"context"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/pkg/listing"
	"gorm.io/gorm"
)

type RatingRepository interface {
	Create(ctx context.Context, rating *model.MovieRating) error
	FindByID(ctx context.Context, id string) (*model.MovieRating, error)
	List(ctx context.Context, params listing.Params, movie listing.Filter) ([]*model.MovieRating, int64, error)
	ListByMovie(ctx context.Context, movieID string) ([]model.MovieRating, error)
	Update(ctx context.Context, rating *model.MovieRating) error
	SoftDelete(ctx context.Context, rating *model.MovieRating) error
}

type ratingRepository struct {
	db *gorm.DB
}

func NewRatingRepository(db *gorm.DB) RatingRepository {
	return &ratingRepository{db: db}
}

func (r *ratingRepository) Create(ctx context.Context, rating *model.MovieRating) error {
	return r.db.WithContext(ctx).Create(rating).Error
}

func (r *ratingRepository) FindByID(ctx context.Context, id string) (*model.MovieRating, error) {
	var rating model.MovieRating
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&rating).Error; err != nil {
		return nil, err
	}
	return &rating, nil
}

var ratingSortColumns = map[string]string{
	"rating":     "score",
	"created_at": "created_at",
}

func (r *ratingRepository) List(ctx context.Context, params listing.Params, movie listing.Filter) ([]*model.MovieRating, int64, error) {
	var ratings []*model.MovieRating
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.MovieRating{}).
		Where("is_deleted = ?", false).
		Scopes(
			listing.WhereScope(movie, "movie_id"),
			listing.SearchScope(params.Search, "text"),
		)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(
			listing.OrderScope(params.Sort, ratingSortColumns, "created_at DESC"),
			listing.PageScope(params.Page),
		).
		Find(&ratings).Error; err != nil {
		return nil, 0, err
	}

	return ratings, total, nil
}

func (r *ratingRepository) ListByMovie(ctx context.Context, movieID string) ([]model.MovieRating, error) {
	var ratings []model.MovieRating
	if err := r.db.WithContext(ctx).
		Where("movie_id = ? AND is_deleted = ?", movieID, false).
		Order("created_at DESC").
		Find(&ratings).Error; err != nil {
		return nil, err
	}
	return ratings, nil
}

func (r *ratingRepository) Update(ctx context.Context, rating *model.MovieRating) error {
	return r.db.WithContext(ctx).Save(rating).Error
}

func (r *ratingRepository) SoftDelete(ctx context.Context, rating *model.MovieRating) error {
	rating.IsDeleted = true
	return r.db.WithContext(ctx).Save(rating).Error
}
