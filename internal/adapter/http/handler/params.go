package handler

import (
	"skin-marketplace/internal/adapter/http/middleware"
	"skin-marketplace/internal/core/domain"
	"skin-marketplace/pkg/apperror"
	"skin-marketplace/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// callerOrAbort returns the authenticated caller, writing a 401 when absent.
func callerOrAbort(c *gin.Context) (domain.Caller, bool) {
	caller, ok := middleware.CallerFrom(c)
	if !ok {
		response.Error(c, apperror.ErrInvalidToken())
		return domain.Caller{}, false
	}
	return caller, true
}

// uuidParam parses the named path parameter, writing a 400 when malformed.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Error(c, apperror.Validation("invalid "+name+": must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}
