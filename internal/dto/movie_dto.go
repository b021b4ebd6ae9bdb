package dto

import (
	"io"

	"cineva.app/movieadmin/internal/model"
)

// FileUpload carries an uploaded file's content and metadata.
type FileUpload struct {
	Reader      io.Reader
	Size        int64
	FileName    string
	ContentType string
}

type MovieInput struct {
	Title       string `json:"title" binding:"required,max=80"`
	Description string `json:"description"`
	Year        int    `json:"year" binding:"required,min=1888"`
}

// MovieListQuery adds the owner scope dimension to the shared query.
type MovieListQuery struct {
	ListQuery
	UserID string `form:"user_id"`
}

// MovieListItem is a movie row with its thumbnail, when one exists.
type MovieListItem struct {
	*model.Movie
	Thumbnail *model.MovieImage `json:"thumbnail,omitempty"`
}

// MovieDetails is a movie with all of its live images.
type MovieDetails struct {
	*model.Movie
	Images []model.MovieImage `json:"images"`
}

type MovieDownload struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Path  string `json:"path"`
}
