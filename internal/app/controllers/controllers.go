// Package controllers handles HTTP request handling
package controllers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/bandhub/internal/app/models"
	"github.com/yigit/bandhub/internal/app/models/dto"
	"github.com/yigit/bandhub/internal/middleware"
)

// requireActor returns the authenticated caller or writes a 401
func requireActor(ctx *gin.Context) (models.Actor, bool) {
	actor, ok := middleware.CurrentActor(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return models.Actor{}, false
	}
	return actor, true
}

// badQuery writes a 400 for an invalid query parameter
func badQuery(ctx *gin.Context, field, message string) {
	errorDetail := dto.NewErrorDetail(dto.ErrorCodeInvalidRequest, message).WithField(field)
	ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(errorDetail))
}

// optionalQuery returns a pointer to a non-empty query value
func optionalQuery(ctx *gin.Context, key string) *string {
	if v := ctx.Query(key); v != "" {
		return &v
	}
	return nil
}

// parseTimeQuery parses an RFC 3339 or YYYY-MM-DD query value
func parseTimeQuery(ctx *gin.Context, key string) (*time.Time, bool) {
	raw := ctx.Query(key)
	if raw == "" {
		return nil, true
	}
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, true
		}
	}
	badQuery(ctx, key, key+" must be an RFC 3339 timestamp or YYYY-MM-DD date")
	return nil, false
}
