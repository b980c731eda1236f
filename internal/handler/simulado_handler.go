package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/gabarita/gabarita-backend/internal/model"
	"github.com/gabarita/gabarita-backend/internal/response"
	"github.com/gabarita/gabarita-backend/internal/service"
)

// SimuladoHandler handles exam taking and the attempt history.
type SimuladoHandler struct {
	simuladoService *service.SimuladoService
	log             zerolog.Logger
}

// NewSimuladoHandler creates a new SimuladoHandler.
func NewSimuladoHandler(simuladoService *service.SimuladoService, log zerolog.Logger) *SimuladoHandler {
	return &SimuladoHandler{
		simuladoService: simuladoService,
		log:             log.With().Str("component", "simulado_handler").Logger(),
	}
}

// List godoc
// GET /api/v1/simulados
// Lists the bank exams with their question counts.
func (h *SimuladoHandler) List(c *gin.Context) {
	list, err := h.simuladoService.List(c.Request.Context())
	if err != nil {
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, list)
}

// Paper godoc
// GET /api/v1/simulados/:exam_id
// Returns the exam questions without the answer key.
func (h *SimuladoHandler) Paper(c *gin.Context) {
	paper, err := h.simuladoService.Paper(c.Request.Context(), strings.TrimSpace(c.Param("exam_id")))
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, paper)
}

// Submit godoc
// POST /api/v1/simulados/:exam_id/submit
// Grades the answers, stores the attempt and returns it. Unknown question ids
// and non-string values in the answers are tolerated.
func (h *SimuladoHandler) Submit(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req model.SubmitRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			response.FailWithFields(c, http.StatusBadRequest, response.ErrInvalidPayload,
				map[string]string{"detail": err.Error()})
			return
		}
	}

	attempt, err := h.simuladoService.Submit(c.Request.Context(), claims.UserID,
		strings.TrimSpace(c.Param("exam_id")), req.Answers)
	if err != nil {
		if errors.Is(err, service.ErrExamNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrExamNotFound)
			return
		}
		failInternal(c, h.log, err)
		return
	}

	response.Success(c, http.StatusCreated, attempt)
}

// History godoc
// GET /api/v1/me/history
// Lists the caller's attempts, newest first.
func (h *SimuladoHandler) History(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	history, err := h.simuladoService.History(c.Request.Context(), claims.UserID)
	if err != nil {
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, history)
}

// Attempt godoc
// GET /api/v1/me/attempts/:attempt_id
// Returns one past attempt with the per-question review.
func (h *SimuladoHandler) Attempt(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	attemptID, ok := uuidParam(c, "attempt_id")
	if !ok {
		return
	}

	attempt, err := h.simuladoService.Attempt(c.Request.Context(), claims.UserID, attemptID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		case errors.Is(err, service.ErrNotAttemptOwner):
			response.Fail(c, http.StatusForbidden, response.ErrNotAttemptOwner)
		default:
			failInternal(c, h.log, err)
		}
		return
	}
	response.Success(c, http.StatusOK, attempt)
}
