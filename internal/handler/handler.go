package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/middleware"
	"github.com/gabarita/gabarita-backend/internal/qbank"
	"github.com/gabarita/gabarita-backend/internal/response"
	"github.com/gabarita/gabarita-backend/internal/service"
)

// failInternal logs err with the request id and sends a 500.
func failInternal(c *gin.Context, log zerolog.Logger, err error) {
	reqID, _ := c.Get(response.ContextKeyRequestID)
	log.Error().
		Err(err).
		Interface("request_id", reqID).
		Str("path", c.FullPath()).
		Msg("Request failed")
	response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
}

// requireClaims returns the caller's claims or answers 401.
func requireClaims(c *gin.Context) (*service.Claims, bool) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return nil, false
	}
	return claims, true
}

// uuidParam parses a path parameter or answers 400.
func uuidParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return uuid.Nil, false
	}
	return id, true
}

// filterWarnings turns recoverable filter problems into response warnings.
func filterWarnings(problems []error) []response.Warning {
	if len(problems) == 0 {
		return nil
	}
	warnings := make([]response.Warning, len(problems))
	for i, p := range problems {
		code := response.ErrValidation
		if _, ok := p.(*qbank.InvalidFilterInputError); ok {
			code = response.ErrInvalidFilter
		}
		warnings[i] = response.Warning{Code: code, Detail: p.Error()}
	}
	return warnings
}
