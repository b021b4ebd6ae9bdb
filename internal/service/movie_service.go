package service

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/model"
	"cineva.app/movieadmin/internal/repository"
	"cineva.app/movieadmin/pkg/apperror"
	"cineva.app/movieadmin/pkg/listing"
	"cineva.app/movieadmin/pkg/storage"
	"github.com/google/uuid"
)

// maxImagesPerMovie caps the live images a movie may hold.
const maxImagesPerMovie = 6

const (
	moviePathPrefix = "movies/"
	imagePathPrefix = "images/"
	defaultFilePath = "default.png"
)

type MovieService interface {
	AddMovie(ctx context.Context, userID string, input dto.MovieInput) (*model.Movie, error)
	ListMovies(ctx context.Context, params listing.Params, owner listing.Filter) (*dto.ListResponse[dto.MovieListItem], error)
	GetMovie(ctx context.Context, movieID string) (*dto.MovieDetails, error)
	UpdateMovie(ctx context.Context, movieID string, input dto.MovieInput) (*model.Movie, error)
	DeleteMovie(ctx context.Context, movieID string) error
	Download(ctx context.Context, movieID string) (*dto.MovieDownload, error)

	// UploadVideo spools the upload locally and returns as soon as the
	// spool is written; the store write and record update happen in the
	// background. Re-upload replaces and deletes the previous file.
	UploadVideo(ctx context.Context, movieID string, upload dto.FileUpload) error

	AddImage(ctx context.Context, movieID string, upload dto.FileUpload, isThumbnail bool) error
	UpdateImage(ctx context.Context, movieID, imageID string, isThumbnail bool) (*model.MovieImage, error)
	DeleteImage(ctx context.Context, movieID, imageID string) error

	// OpenFile streams a stored file; anything outside the upload
	// prefixes (or missing) falls back to the default image.
	OpenFile(ctx context.Context, path string) (io.ReadCloser, error)
}

type movieService struct {
	movieRepo   repository.MovieRepository
	fileStorage storage.FileStorage
}

func NewMovieService(movieRepo repository.MovieRepository, fileStorage storage.FileStorage) MovieService {
	return &movieService{
		movieRepo:   movieRepo,
		fileStorage: fileStorage,
	}
}

func (s *movieService) AddMovie(ctx context.Context, userID string, input dto.MovieInput) (*model.Movie, error) {
	ownerID, err := uuid.Parse(userID)
	if err != nil {
		return nil, apperror.ErrUnauthorized
	}

	movie := &model.Movie{
		Title:       input.Title,
		Description: input.Description,
		Year:        input.Year,
		UserID:      ownerID,
	}
	if err := s.movieRepo.Create(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *movieService) ListMovies(ctx context.Context, params listing.Params, owner listing.Filter) (*dto.ListResponse[dto.MovieListItem], error) {
	movies, total, err := s.movieRepo.List(ctx, params, owner)
	if err != nil {
		return nil, err
	}

	items := make([]dto.MovieListItem, 0, len(movies))
	for _, movie := range movies {
		thumbnail, err := s.movieRepo.FindThumbnail(ctx, movie.ID.String())
		if err != nil {
			return nil, err
		}
		items = append(items, dto.MovieListItem{Movie: movie, Thumbnail: thumbnail})
	}

	return &dto.ListResponse[dto.MovieListItem]{Count: total, List: items}, nil
}

func (s *movieService) GetMovie(ctx context.Context, movieID string) (*dto.MovieDetails, error) {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return nil, notFound(err, "movie not found")
	}

	images, err := s.movieRepo.ListImages(ctx, movieID)
	if err != nil {
		return nil, err
	}

	return &dto.MovieDetails{Movie: movie, Images: images}, nil
}

func (s *movieService) UpdateMovie(ctx context.Context, movieID string, input dto.MovieInput) (*model.Movie, error) {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return nil, notFound(err, "movie not found")
	}

	movie.Title = input.Title
	movie.Description = input.Description
	movie.Year = input.Year
	if err := s.movieRepo.Update(ctx, movie); err != nil {
		return nil, err
	}
	return movie, nil
}

func (s *movieService) DeleteMovie(ctx context.Context, movieID string) error {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return notFound(err, "movie not found")
	}

	if movie.Path != "" {
		if err := s.fileStorage.Remove(ctx, movie.Path); err != nil {
			log.Printf("failed to remove movie file %s: %v", movie.Path, err)
		}
	}
	return s.movieRepo.SoftDelete(ctx, movie)
}

func (s *movieService) Download(ctx context.Context, movieID string) (*dto.MovieDownload, error) {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return nil, notFound(err, "movie not found")
	}
	return &dto.MovieDownload{
		ID:    movie.ID.String(),
		Title: movie.Title,
		Path:  movie.Path,
	}, nil
}

func (s *movieService) UploadVideo(ctx context.Context, movieID string, upload dto.FileUpload) error {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return notFound(err, "movie not found")
	}

	// Spool the request body before responding; the multipart stream
	// dies with the request.
	spool, err := os.CreateTemp("", "movie-upload-*")
	if err != nil {
		return fmt.Errorf("failed to spool upload: %w", err)
	}
	size, err := io.Copy(spool, upload.Reader)
	if err != nil {
		spool.Close()
		os.Remove(spool.Name())
		return fmt.Errorf("failed to spool upload: %w", err)
	}

	path := moviePathPrefix + uuid.NewString() + extensionFor(upload.ContentType)
	previous := movie.Path

	go func() {
		defer spool.Close()
		defer os.Remove(spool.Name())

		ctx := context.Background()
		if _, err := spool.Seek(0, io.SeekStart); err != nil {
			log.Printf("video upload for movie %s failed: %v", movieID, err)
			return
		}
		if _, err := s.fileStorage.Save(ctx, spool, size, path, upload.ContentType); err != nil {
			log.Printf("video upload for movie %s failed: %v", movieID, err)
			return
		}
		if previous != "" {
			if err := s.fileStorage.Remove(ctx, previous); err != nil {
				log.Printf("failed to remove previous video %s: %v", previous, err)
			}
		}

		movie.Path = path
		if err := s.movieRepo.Update(ctx, movie); err != nil {
			log.Printf("failed to record video path for movie %s: %v", movieID, err)
		}
	}()

	return nil
}

func (s *movieService) AddImage(ctx context.Context, movieID string, upload dto.FileUpload, isThumbnail bool) error {
	movie, err := s.movieRepo.FindByID(ctx, movieID)
	if err != nil {
		return notFound(err, "movie not found")
	}

	images, err := s.movieRepo.ListImages(ctx, movieID)
	if err != nil {
		return err
	}
	if len(images) >= maxImagesPerMovie {
		return apperror.Unprocessable("maximum 6 images allowed")
	}

	path := imagePathPrefix + uuid.NewString() + extensionFor(upload.ContentType)
	if _, err := s.fileStorage.Save(ctx, upload.Reader, upload.Size, path, upload.ContentType); err != nil {
		return err
	}

	image := &model.MovieImage{
		Name:        upload.FileName,
		Path:        path,
		IsThumbnail: isThumbnail,
		MovieID:     movie.ID,
	}
	return s.movieRepo.CreateImage(ctx, image)
}

func (s *movieService) UpdateImage(ctx context.Context, movieID, imageID string, isThumbnail bool) (*model.MovieImage, error) {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return nil, notFound(err, "movie not found")
	}

	image, err := s.movieRepo.FindImage(ctx, movieID, imageID)
	if err != nil {
		return nil, notFound(err, "image not found")
	}

	image.IsThumbnail = isThumbnail
	if err := s.movieRepo.UpdateImage(ctx, image); err != nil {
		return nil, err
	}
	return image, nil
}

func (s *movieService) DeleteImage(ctx context.Context, movieID, imageID string) error {
	if _, err := s.movieRepo.FindByID(ctx, movieID); err != nil {
		return notFound(err, "movie not found")
	}

	image, err := s.movieRepo.FindImage(ctx, movieID, imageID)
	if err != nil {
		return notFound(err, "image not found")
	}

	if err := s.fileStorage.Remove(ctx, image.Path); err != nil {
		log.Printf("failed to remove image file %s: %v", image.Path, err)
	}
	return s.movieRepo.HardDeleteImage(ctx, image)
}

func (s *movieService) OpenFile(ctx context.Context, path string) (io.ReadCloser, error) {
	if strings.HasPrefix(path, moviePathPrefix) || strings.HasPrefix(path, imagePathPrefix) {
		if rc, err := s.fileStorage.Open(ctx, path); err == nil {
			return rc, nil
		}
	}
	return s.fileStorage.Open(ctx, defaultFilePath)
}

// extensionFor picks the stored file extension from the upload content
// type. Matroska is the one subtype whose common extension differs.
func extensionFor(contentType string) string {
	if contentType == "video/x-matroska" {
		return ".mkv"
	}
	if contentType == "image/jpeg" {
		return ".jpg"
	}
	if _, subtype, ok := strings.Cut(contentType, "/"); ok && subtype != "" {
		return "." + subtype
	}
	return ".bin"
}
