package dto

import "cineva.app/movieadmin/internal/model"

type CommentInput struct {
	Text     string  `json:"text" binding:"required"`
	MovieID  string  `json:"movie_id" binding:"required,uuid"`
	ParentID *string `json:"parent_id" binding:"omitempty,uuid"`
}

type CommentUpdateInput struct {
	Text string `json:"text" binding:"required"`
}

// CommentListQuery adds the movie scope dimension to the shared query.
type CommentListQuery struct {
	ListQuery
	MovieID string `form:"movie_id"`
}

// CommentWithReplies is a top-level comment carrying its direct
// replies. Replies never nest further.
type CommentWithReplies struct {
	*model.MovieComment
	Replies []model.MovieComment `json:"replies"`
}

// MovieCommentTree is a movie with its full two-level comment tree.
type MovieCommentTree struct {
	*model.Movie
	Comments []CommentWithReplies `json:"comments"`
}
