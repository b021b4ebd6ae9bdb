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

// CommentService resolves two-level comment threads. A reply created
// under another reply is stored as given but never surfaces in any
// listing; traversal stops at the first level of replies.
type CommentService interface {
	ListComments(ctx context.Context, params listing.Params, movie listing.Filter) (*dto.ListResponse[dto.CommentWithReplies], error)
	AddComment(ctx context.Context, userID string, input dto.CommentInput) (*model.MovieComment, error)
	GetComment(ctx context.Context, movieID, commentID string) (*dto.CommentWithReplies, error)
	GetAllComments(ctx context.Context, movieID string) (*dto.MovieCommentTree, error)
	UpdateComment(ctx context.Context, movieID, commentID string, input dto.CommentUpdateInput) (*model.MovieComment, error)
	DeleteComment(ctx context.Context, movieID, commentID string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	movieRepo   repository.MovieRepository
	sanitizer   *bluemonday.Policy
}

func NewCommentService(commentRepo repository.CommentRepository, movieRepo repository.MovieRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		movieRepo:   movieRepo,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *commentService) ListComments(ctx context.Context, params listing.Params, movie listing.Filter) (*dto.ListResponse[dto.CommentWithReplies], error) {
	comments, total, err := s.commentRepo.ListTopLevel(ctx, params, movie)
	if err != nil {
		return nil, err
	}

	items := make([]dto.CommentWithReplies, 0, len(comments))
	for _, comment := range comments {
		withReplies, err := s.withReplies(ctx, comment)
		if err != nil {
			return nil, err
		}
		items = append(items, *withReplies)
	}

	return &dto.ListResponse[dto.CommentWithReplies]{Count: total, List: items}, nil
}

func (s *commentService) AddComment(ctx context.Context, userID string, input dto.CommentInput) (*model.MovieComment, error) {
	movie, err := s.movieRepo.FindByID(ctx, input.MovieID)
	if err != nil {
		return nil, notFound(err, "movie not found")
	}

	authorID, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	comment := &model.MovieComment{
		Text:    s.sanitizer.Sanitize(input.Text),
		MovieID: movie.ID,
		UserID:  authorID,
	}
	if input.ParentID != nil {
		parentID, err := uuid.Parse(*input.ParentID)
		if err != nil {
			return nil, err
		}
		comment.ParentID = &parentID
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) GetComment(ctx context.Context, movieID, commentID string) (*dto.CommentWithReplies, error) {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return nil, notFound(err, "movie not found")
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "comment not found")
	}

	return s.withReplies(ctx, comment)
}

// GetAllComments returns the full two-level tree for a movie, ignoring
// pagination entirely.
func (s *commentService) GetAllComments(ctx context.Context, movieID string) (*dto.MovieCommentTree, error) {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return nil, notFound(err, "movie not found")
	}

	comments, err := s.commentRepo.ListTopLevelByMovie(ctx, movieID)
	if err != nil {
		return nil, err
	}

	tree := &dto.MovieCommentTree{Movie: movie, Comments: []dto.CommentWithReplies{}}
	for _, comment := range comments {
		withReplies, err := s.withReplies(ctx, comment)
		if err != nil {
			return nil, err
		}
		tree.Comments = append(tree.Comments, *withReplies)
	}
	return tree, nil
}

func (s *commentService) UpdateComment(ctx context.Context, movieID, commentID string, input dto.CommentUpdateInput) (*model.MovieComment, error) {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return nil, notFound(err, "movie not found")
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, notFound(err, "comment not found")
	}

	comment.Text = s.sanitizer.Sanitize(input.Text)
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) DeleteComment(ctx context.Context, movieID, commentID string) error {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return notFound(err, "movie not found")
	}

	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return notFound(err, "comment not found")
	}

	return s.commentRepo.SoftDelete(ctx, comment)
}

// withReplies attaches direct replies, one extra query per comment.
func (s *commentService) withReplies(ctx context.Context, comment *model.MovieComment) (*dto.CommentWithReplies, error) {
	replies, err := s.commentRepo.Replies(ctx, comment.ID.String())
	if err != nil {
		return nil, err
	}
	return &dto.CommentWithReplies{MovieComment: comment, Replies: replies}, nil
}
