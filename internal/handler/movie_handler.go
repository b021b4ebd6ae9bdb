package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/service"
	"cineva.app/movieadmin/pkg/listing"
	"cineva.app/movieadmin/pkg/response"
	"cineva.app/movieadmin/pkg/validator"
	"github.com/gin-gonic/gin"
)

type MovieHandler struct {
	movieService service.MovieService
}

func NewMovieHandler(movieService service.MovieService) *MovieHandler {
	return &MovieHandler{
		movieService: movieService,
	}
}

func (h *MovieHandler) AddMovie(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.MovieInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	movie, err := h.movieService.AddMovie(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, movie)
}

func (h *MovieHandler) ListMovies(c *gin.Context) {
	var query dto.MovieListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	movies, err := h.movieService.ListMovies(c.Request.Context(), query.Params(), listing.FromQuery(query.UserID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, movies)
}

func (h *MovieHandler) GetMovie(c *gin.Context) {
	movie, err := h.movieService.GetMovie(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) UpdateMovie(c *gin.Context) {
	var input dto.MovieInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	movie, err := h.movieService.UpdateMovie(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, movie)
}

func (h *MovieHandler) DeleteMovie(c *gin.Context) {
	if err := h.movieService.DeleteMovie(c.Request.Context(), c.Param("id")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "movie deleted successfully"})
}

func (h *MovieHandler) Download(c *gin.Context) {
	download, err := h.movieService.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, download)
}

// UploadVideo accepts the file under the multipart field "file" and
// responds before the storage write completes.
func (h *MovieHandler) UploadVideo(c *gin.Context) {
	upload, file, err := bindUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	if err := h.movieService.UploadVideo(c.Request.Context(), c.Param("id"), upload); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusAccepted, gin.H{"message": "video upload started"})
}

func (h *MovieHandler) AddImage(c *gin.Context) {
	upload, file, err := bindUpload(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	defer file.Close()

	isThumbnail := c.PostForm("is_thumbnail") == "true"

	if err := h.movieService.AddImage(c.Request.Context(), c.Param("id"), upload, isThumbnail); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "image added successfully"})
}

func (h *MovieHandler) UpdateImage(c *gin.Context) {
	isThumbnail := c.PostForm("is_thumbnail") == "true"

	image, err := h.movieService.UpdateImage(c.Request.Context(), c.Param("id"), c.Param("imageId"), isThumbnail)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, image)
}

func (h *MovieHandler) DeleteImage(c *gin.Context) {
	if err := h.movieService.DeleteImage(c.Request.Context(), c.Param("id"), c.Param("imageId")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "image deleted successfully"})
}

// ServeFile streams the stored file named by the "f" query parameter.
// Paths outside the managed prefixes fall back to the default image
// inside the service.
func (h *MovieHandler) ServeFile(c *gin.Context) {
	path := c.Query("f")
	if path == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "f is required"})
		return
	}

	reader, err := h.movieService.OpenFile(c.Request.Context(), path)
	if err != nil {
		response.ResponseError(c, err)
		return
	}
	defer reader.Close()

	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Header("Content-Type", contentType)

	if _, err := io.Copy(c.Writer, reader); err != nil {
		// Client likely went away mid-stream; nothing useful to send.
		return
	}
}

func bindUpload(c *gin.Context) (dto.FileUpload, io.Closer, error) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return dto.FileUpload{}, nil, err
	}

	file, err := fileHeader.Open()
	if err != nil {
		return dto.FileUpload{}, nil, err
	}

	return dto.FileUpload{
		Reader:      file,
		Size:        fileHeader.Size,
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
	}, file, nil
}
