package service

import (
	"context"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/listing"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
)

type RatingService interface {
	ListRatings(ctx context.Context, params listing.Params, movie listing.Filter) (*dto.ListResponse[model.MovieRating], error)
	AddRating(ctx context.Context, userID string, input dto.RatingInput) (*model.MovieRating, error)
	GetRating(ctx context.Context, movieID, ratingID string) (*model.MovieRating, error)
	GetAllRatings(ctx context.Context, movieID string) (*dto.MovieRatings, error)
	UpdateRating(ctx context.Context, movieID, ratingID string, input dto.RatingUpdateInput) (*model.MovieRating, error)
	DeleteRating(ctx context.Context, movieID, ratingID string) error
}

type ratingService struct {
	ratingRepo repository.RatingRepository
	movieRepo  repository.MovieRepository
	sanitizer  *bluemonday.Policy
}

func NewRatingService(ratingRepo repository.RatingRepository, movieRepo repository.MovieRepository) RatingService {
	return &ratingService{
		ratingRepo: ratingRepo,
		movieRepo:  movieRepo,
		sanitizer:  bluemonday.StrictPolicy(),
	}
}

func (s *ratingService) ListRatings(ctx context.Context, params listing.Params, movie listing.Filter) (*dto.ListResponse[model.MovieRating], error) {
	ratings, total, err := s.ratingRepo.List(ctx, params, movie)
	if err != nil {
		return nil, err
	}

	items := make([]model.MovieRating, 0, len(ratings))
	for _, rating := range ratings {
		items = append(items, *rating)
	}
	return &dto.ListResponse[model.MovieRating]{Count: total, List: items}, nil
}

func (s *ratingService) AddRating(ctx context.Context, userID string, input dto.RatingInput) (*model.MovieRating, error) {
	movie, err := s.movieRepo.FindByID(ctx, input.MovieID)
	if err != nil {
		return nil, notFound(err, "movie not found")
	}

	authorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	rating := &model.MovieRating{
		Score:   input.Score,
		Text:    s.sanitizer.Sanitize(input.Text),
		MovieID: movie.ID,
		UserID:  authorID,
	}
	if err := s.ratingRepo.Create(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) GetRating(ctx context.Context, movieID, ratingID string) (*model.MovieRating, error) {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return nil, notFound(err, "movie not found")
	}

	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return nil, notFound(err, "rating not found")
	}
	return rating, nil
}

func (s *ratingService) GetAllRatings(ctx context.Context, movieID string) (*dto.MovieRatings, error) {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return nil, notFound(err, "movie not found")
	}

	ratings, err := s.ratingRepo.ListByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}
	return &dto.MovieRatings{Movie: movie, Ratings: ratings}, nil
}

func (s *ratingService) UpdateRating(ctx context.Context, movieID, ratingID string, input dto.RatingUpdateInput) (*model.MovieRating, error) {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return nil, notFound(err, "movie not found")
	}

	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return nil, notFound(err, "rating not found")
	}

	rating.Score = input.Score
	rating.Text = s.sanitizer.Sanitize(input.Text)
	if err := s.ratingRepo.Update(ctx, rating); err != nil {
		return nil, err
	}
	return rating, nil
}

func (s *ratingService) DeleteRating(ctx context.Context, movieID, ratingID string) error {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return notFound(err, "movie not found")
	}

	rating, err := s.ratingRepo.FindByID(ctx, ratingID)
	if err != nil {
		return notFound(err, "rating not found")
	}
	return s.ratingRepo.SoftDelete(ctx, rating)
}
