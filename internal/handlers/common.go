package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"marketplace-service/internal/models"
	"marketplace-service/internal/services"
)

// principal extracts the authenticated user from the request context set
// by the auth middleware.
func principal(c *gin.Context) (uuid.UUID, models.UserRole, bool) {
	userID, err := uuid.Parse(c.GetString("userId"))
	if err != nil {
		c.JSON(http.StatusUnauthorized, models.NewErrorResponse("UNAUTHORIZED", "missing or invalid user identity"))
		return uuid.Nil, "", false
	}
	role := models.UserRole(c.GetString("userRole"))
	if role == "" {
		role = models.UserRoleBuyer
	}
	return userID, role, true
}

// pathUUID parses a UUID path parameter, responding 400 on failure.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("INVALID_ID", "invalid "+name))
		return uuid.Nil, false
	}
	return id, true
}

func pageParams(c *gin.Context) (int, int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	return page, limit
}

// respondError maps service error types to HTTP statuses and renders the
// standard envelope.
func respondError(c *gin.Context, err error) {
	var (
		validation   *services.ValidationError
		notFound     *services.NotFoundError
		authz        *services.AuthorizationError
		conflict     *services.ConflictError
		precondition *services.PreconditionError
	)

	switch {
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, models.NewErrorResponse("VALIDATION_ERROR", validation.Message))
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, models.NewErrorResponse("NOT_FOUND", notFound.Error()))
	case errors.As(err, &authz):
		c.JSON(http.StatusForbidden, models.NewErrorResponse("FORBIDDEN", authz.Message))
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, models.NewErrorResponse("CONFLICT", conflict.Message))
	case errors.As(err, &precondition):
		c.JSON(http.StatusUnprocessableEntity, models.NewErrorResponse("PRECONDITION_FAILED", precondition.Message))
	default:
		c.JSON(http.StatusInternalServerError, models.NewErrorResponse("INTERNAL_ERROR", "an internal error occurred"))
	}
}
