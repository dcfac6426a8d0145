package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
	"github.com/crewpulse/crewpulse-api/pkg/response"
)

type assignmentService interface {
	Create(ctx context.Context, req dto.CreateAssignmentRequest, actorID string) (*dto.WriteResponse, error)
	Get(ctx context.Context, id string) (*models.AssignmentDetail, error)
	ListByWorker(ctx context.Context, workerID string) ([]models.Assignment, error)
	RecordEvent(ctx context.Context, assignmentID string, req dto.RecordEventRequest, actorID string) (*dto.WriteResponse, error)
}

type ratingService interface {
	SubmitStaff(ctx context.Context, assignmentID string, req dto.StaffRatingRequest, actorID string) (*dto.WriteResponse, error)
	SubmitCustomer(ctx context.Context, assignmentID string, req dto.CustomerRatingRequest, actorID string) (*dto.WriteResponse, error)
}

// AssignmentHandler exposes assignments, attendance events and ratings.
type AssignmentHandler struct {
	assignments assignmentService
	ratings     ratingService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments assignmentService, ratings ratingService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments, ratings: ratings}
}

// Create godoc
// @Summary Create an assignment
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.assignments.Create(c.Request.Context(), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// Get godoc
// @Summary Assignment detail with events and ratings
// @Tags Assignments
// @Produce json
// @Param id path string true "Assignment ID"
// @Success 200 {object} response.Envelope
// @Router /assignments/{id} [get]
func (h *AssignmentHandler) Get(c *gin.Context) {
	detail, err := h.assignments.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, detail, nil)
}

// ListByWorker godoc
// @Summary Assignments of a worker
// @Tags Assignments
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} response.Envelope
// @Router /workers/{id}/assignments [get]
func (h *AssignmentHandler) ListByWorker(c *gin.Context) {
	assignments, err := h.assignments.ListByWorker(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, assignments, nil)
}

// RecordEvent godoc
// @Summary Record an attendance event
// @Tags Assignments
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.RecordEventRequest true "Event payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /assignments/{id}/events [post]
func (h *AssignmentHandler) RecordEvent(c *gin.Context) {
	var req dto.RecordEventRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.assignments.RecordEvent(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// SubmitStaffRating godoc
// @Summary Submit the staff rating of an assignment
// @Tags Ratings
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.StaffRatingRequest true "Rating payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/staff-rating [post]
func (h *AssignmentHandler) SubmitStaffRating(c *gin.Context) {
	var req dto.StaffRatingRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.ratings.SubmitStaff(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

// SubmitCustomerRating godoc
// @Summary Submit the customer rating of an assignment
// @Tags Ratings
// @Accept json
// @Produce json
// @Param id path string true "Assignment ID"
// @Param payload body dto.CustomerRatingRequest true "Rating payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /assignments/{id}/customer-rating [post]
func (h *AssignmentHandler) SubmitCustomerRating(c *gin.Context) {
	var req dto.CustomerRatingRequest
	if !bindJSON(c, &req) {
		return
	}
	result, err := h.ratings.SubmitCustomer(c.Request.Context(), c.Param("id"), req, actorID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, result)
}

func bindJSON(c *gin.Context, dest interface{}) bool {
	if err := c.ShouldBindJSON(dest); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return false
	}
	return true
}
