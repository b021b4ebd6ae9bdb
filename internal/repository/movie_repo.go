package repository

import (
	"context"
	"errors"

	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/pkg/listing"
	"gorm.io/gorm"
)

type MovieRepository interface {
	Create(ctx context.Context, movie *model.Movie) error
	FindByID(ctx context.Context, id string) (*model.Movie, error)
	List(ctx context.Context, params listing.Params, owner listing.Filter) ([]*model.Movie, int64, error)
	Update(ctx context.Context, movie *model.Movie) error
	SoftDelete(ctx context.Context, movie *model.Movie) error

	CreateImage(ctx context.Context, image *model.MovieImage) error
	ListImages(ctx context.Context, movieID string) ([]model.MovieImage, error)
	FindThumbnail(ctx context.Context, movieID string) (*model.MovieImage, error)
	FindImage(ctx context.Context, movieID, imageID string) (*model.MovieImage, error)
	UpdateImage(ctx context.Context, image *model.MovieImage) error
	HardDeleteImage(ctx context.Context, image *model.MovieImage) error
}

type movieRepository struct {
	db *gorm.DB
}

func NewMovieRepository(db *gorm.DB) MovieRepository {
	return &movieRepository{db: db}
}

func (r *movieRepository) Create(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Create(movie).Error
}

func (r *movieRepository) FindByID(ctx context.Context, id string) (*model.Movie, error) {
	var movie model.Movie
	if err := r.db.WithContext(ctx).
		Where("id = ? AND is_deleted = ?", id, false).
		First(&movie).Error; err != nil {
		return nil, err
	}
	return &movie, nil
}

var movieSortColumns = map[string]string{
	"title":      "title",
	"year":       "year",
	"created_at": "created_at",
}

func (r *movieRepository) List(ctx context.Context, params listing.Params, owner listing.Filter) ([]*model.Movie, int64, error) {
	var movies []*model.Movie
	var total int64

	query := r.db.WithContext(ctx).
		Model(&model.Movie{}).
		Where("is_deleted = ?", false).
		Scopes(
			listing.WhereScope(owner, "user_id"),
			listing.SearchScope(params.Search, "title", "description", "CAST(year AS TEXT)"),
		)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if err := query.
		Scopes(
			listing.OrderScope(params.Sort, movieSortColumns, "created_at DESC"),
			listing.PageScope(params.Page),
		).
		Find(&movies).Error; err != nil {
		return nil, 0, err
	}

	return movies, total, nil
}

func (r *movieRepository) Update(ctx context.Context, movie *model.Movie) error {
	return r.db.WithContext(ctx).Save(movie).Error
}

func (r *movieRepository) SoftDelete(ctx context.Context, movie *model.Movie) error {
	movie.IsDeleted = true
	return r.db.WithContext(ctx).Save(movie).Error
}

func (r *movieRepository) CreateImage(ctx context.Context, image *model.MovieImage) error {
	return r.db.WithContext(ctx).Create(image).Error
}

func (r *movieRepository) ListImages(ctx context.Context, movieID string) ([]model.MovieImage, error) {
	var images []model.MovieImage
	if err := r.db.WithContext(ctx).
		Where("movie_id = ? AND is_deleted = ?", movieID, false).
		Find(&images).Error; err != nil {
		return nil, err
	}
	return images, nil
}

// FindThumbnail returns nil without error when the movie has no
// thumbnail yet.
func (r *movieRepository) FindThumbnail(ctx context.Context, movieID string) (*model.MovieImage, error) {
	var image model.MovieImage
	err := r.db.WithContext(ctx).
		Where("movie_id = ? AND is_deleted = ? AND is_thumbnail = ?", movieID, false, true).
		First(&image).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &image, nil
}

func (r *movieRepository) FindImage(ctx context.Context, movieID, imageID string) (*model.MovieImage, error) {
	var image model.MovieImage
	if err := r.db.WithContext(ctx).
		Where("movie_id = ? AND id = ?", movieID, imageID).
		First(&image).Error; err != nil {
		return nil, err
	}
	return &image, nil
}

func (r *movieRepository) UpdateImage(ctx context.Context, image *model.MovieImage) error {
	return r.db.WithContext(ctx).Save(image).Error
}

// HardDeleteImage removes the row entirely; images are the one entity
// that is never soft-deleted.
func (r *movieRepository) HardDeleteImage(ctx context.Context, image *model.MovieImage) error {
	return r.db.WithContext(ctx).Delete(image).Error
}
