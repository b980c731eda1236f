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
	"github.com/gabarita/gabarita-backend/internal/validator"
)

// ClassHandler handles a teacher's classes and cohort reports.
type ClassHandler struct {
	classService  *service.ClassService
	reportService *service.ReportService
	log           zerolog.Logger
}

// NewClassHandler creates a new ClassHandler.
func NewClassHandler(classService *service.ClassService, reportService *service.ReportService, log zerolog.Logger) *ClassHandler {
	return &ClassHandler{
		classService:  classService,
		reportService: reportService,
		log:           log.With().Str("component", "class_handler").Logger(),
	}
}

// Create godoc
// POST /api/v1/classes
// Creates a class owned by the calling teacher.
func (h *ClassHandler) Create(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	var req model.CreateClassRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	class, err := h.classService.Create(c.Request.Context(), claims.UserID, req.Name)
	if err != nil {
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusCreated, class)
}

// List godoc
// GET /api/v1/classes
// Lists the calling teacher's classes.
func (h *ClassHandler) List(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}

	classes, err := h.classService.List(c.Request.Context(), claims.UserID)
	if err != nil {
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, classes)
}

// AddStudent godoc
// POST /api/v1/classes/:id/students
// Enrolls a registered student by email. Enrolling twice is a no-op.
func (h *ClassHandler) AddStudent(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	classID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	var req model.AddStudentRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	student, err := h.classService.AddStudent(c.Request.Context(), claims.UserID, classID, req.StudentEmail)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrClassNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
		case errors.Is(err, service.ErrStudentNotFound):
			response.Fail(c, http.StatusNotFound, response.ErrStudentNotFound)
		default:
			failInternal(c, h.log, err)
		}
		return
	}
	response.Success(c, http.StatusOK, gin.H{"class_id": classID, "student": student})
}

// Report godoc
// GET /api/v1/classes/:id/report?simulado=<exam_id>&mode=all|latest
// Aggregates the class roster's attempts at one exam, the featured exam when
// simulado is omitted. Recomputed per request.
func (h *ClassHandler) Report(c *gin.Context) {
	claims, ok := requireClaims(c)
	if !ok {
		return
	}
	classID, ok := uuidParam(c, "id")
	if !ok {
		return
	}

	examID := strings.TrimSpace(c.Query("simulado"))
	if examID == "" {
		examID = service.FeaturedExamID
	}
	mode, ok := model.ParseAggregationMode(strings.ToLower(strings.TrimSpace(c.Query("mode"))))
	if !ok {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidMode)
		return
	}

	report, err := h.reportService.ClassReport(c.Request.Context(), claims.UserID, classID, examID, mode)
	if err != nil {
		if errors.Is(err, service.ErrClassNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrClassNotFound)
			return
		}
		failInternal(c, h.log, err)
		return
	}
	response.Success(c, http.StatusOK, report)
}
