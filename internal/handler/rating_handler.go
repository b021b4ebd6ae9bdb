package handler

import (
	"net/http"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/service"
	"cineva.app/movieadmin/pkg/listing"
	"cineva.app/movieadmin/pkg/response"
	"cineva.app/movieadmin/pkg/validator"
	"github.com/gin-gonic/gin"
)

type RatingHandler struct {
	ratingService service.RatingService
}

func NewRatingHandler(ratingService service.RatingService) *RatingHandler {
	return &RatingHandler{
		ratingService: ratingService,
	}
}

func (h *RatingHandler) ListRatings(c *gin.Context) {
	var query dto.RatingListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	ratings, err := h.ratingService.ListRatings(c.Request.Context(), query.Params(), listing.FromQuery(query.MovieID))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ratings)
}

func (h *RatingHandler) AddRating(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	var input dto.RatingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	rating, err := h.ratingService.AddRating(c.Request.Context(), userID, input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusCreated, rating)
}

func (h *RatingHandler) GetRating(c *gin.Context) {
	rating, err := h.ratingService.GetRating(c.Request.Context(), c.Param("id"), c.Param("ratingId"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) GetAllRatings(c *gin.Context) {
	ratings, err := h.ratingService.GetAllRatings(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, ratings)
}

func (h *RatingHandler) UpdateRating(c *gin.Context) {
	var input dto.RatingUpdateInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	rating, err := h.ratingService.UpdateRating(c.Request.Context(), c.Param("id"), c.Param("ratingId"), input)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, rating)
}

func (h *RatingHandler) DeleteRating(c *gin.Context) {
	if err := h.ratingService.DeleteRating(c.Request.Context(), c.Param("id"), c.Param("ratingId")); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "rating deleted successfully"})
}
