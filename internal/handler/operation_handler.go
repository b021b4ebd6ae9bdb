package handler

import (
	"net/http"

	"cineva.app/movieadmin/internal/dto"
	"cineva.app/movieadmin/internal/service"
	"cineva.app/movieadmin/pkg/response"
	"cineva.app/movieadmin/pkg/validator"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

type OperationHandler struct {
	operationService service.OperationService
	authorizer       service.Authorizer
}

func NewOperationHandler(operationService service.OperationService, authorizer service.Authorizer) *OperationHandler {
	return &OperationHandler{
		operationService: operationService,
		authorizer:       authorizer,
	}
}

// VerifyOperation answers whether the caller may perform the operation
// named by the "operation" query parameter.
func (h *OperationHandler) VerifyOperation(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
		return
	}

	slug := c.Query("operation")
	if slug == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "operation is required"})
		return
	}

	if err := h.authorizer.Authorize(c.Request.Context(), uid, slug); err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "operation allowed"})
}

func (h *OperationHandler) ListOperations(c *gin.Context) {
	var query dto.ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": validator.FormatValidationError(err)})
		return
	}

	operations, err := h.operationService.ListOperations(c.Request.Context(), query.Params())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, operations)
}

// ListCatalog feeds the role editor with the full grouped catalog.
func (h *OperationHandler) ListCatalog(c *gin.Context) {
	groups, err := h.operationService.ListCatalog(c.Request.Context())
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, groups)
}

// ListUserOperations returns the caller's granted operations and menu.
func (h *OperationHandler) ListUserOperations(c *gin.Context) {
	userID, err := response.GetUserID(c)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid user id"})
		return
	}

	operations, err := h.operationService.ListUserOperations(c.Request.Context(), uid)
	if err != nil {
		response.ResponseError(c, err)
		return
	}

	c.JSON(http.StatusOK, operations)
}
