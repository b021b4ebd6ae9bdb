package dto

import "cineva.app/movieadmin/internal/model"

type RatingInput struct {
	Score   int    `json:"score" binding:"required,min=1,max=10"`
	Text    string `json:"text"`
	MovieID string `json:"movie_id" binding:"required,uuid"`
}

type RatingUpdateInput struct {
	Score int    `json:"score" binding:"required,min=1,max=10"`
	Text  string `json:"text"`
}

// RatingListQuery adds the movie scope dimension to the shared query.
type RatingListQuery struct {
	ListQuery
	MovieID string `form:"movie_id"`
}

// MovieRatings is a movie with its ratings, newest first.
type MovieRatings struct {
	*model.Movie
	Ratings []model.MovieRating `json:"ratings"`
}
