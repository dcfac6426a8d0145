package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/middleware"
	"github.com/crewpulse/crewpulse-api/internal/models"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
	"github.com/crewpulse/crewpulse-api/pkg/response"
)

type workerService interface {
	List(ctx context.Context, query dto.WorkerListQuery) ([]dto.WorkerResponse, *models.Pagination, error)
	Get(ctx context.Context, id string) (*dto.WorkerResponse, bool, error)
	Create(ctx context.Context, req dto.CreateWorkerRequest) (*dto.WorkerResponse, error)
	SetSevereIncident(ctx context.Context, id string, req dto.SevereIncidentRequest) (*dto.WorkerResponse, error)
	Recalculate(ctx context.Context, id string) (*dto.SnapshotResponse, error)
}

// WorkerHandler exposes the worker directory.
type WorkerHandler struct {
	workers workerService
}

// NewWorkerHandler constructs the handler.
func NewWorkerHandler(workers workerService) *WorkerHandler {
	return &WorkerHandler{workers: workers}
}

// List godoc
// @Summary List workers
// @Tags Workers
// @Produce json
// @Param status query string false "ACTIVE, INACTIVE or HOLD"
// @Param tier query string false "Elite, Strong, Solid, At Risk or Critical"
// @Param flag query string false "needs-review or terminate-recommended"
// @Param search query string false "Name or employee code"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /workers [get]
func (h *WorkerHandler) List(c *gin.Context) {
	var query dto.WorkerListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	query.Search = strings.TrimSpace(query.Search)
	workers, pagination, err := h.workers.List(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, workers, pagination)
}

// Get godoc
// @Summary Worker profile with current scores
// @Tags Workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /workers/{id} [get]
func (h *WorkerHandler) Get(c *gin.Context) {
	worker, cacheHit, err := h.workers.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, worker, nil, middleware.ExtractMeta(c))
}

// Create godoc
// @Summary Register a worker
// @Tags Workers
// @Accept json
// @Produce json
// @Param payload body dto.CreateWorkerRequest true "Worker payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /workers [post]
func (h *WorkerHandler) Create(c *gin.Context) {
	var req dto.CreateWorkerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	worker, err := h.workers.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, worker)
}

// SetSevereIncident godoc
// @Summary Set or clear the severe-incident classification
// @Tags Workers
// @Accept json
// @Produce json
// @Param id path string true "Worker ID"
// @Param payload body dto.SevereIncidentRequest true "Severe incident flag"
// @Success 200 {object} response.Envelope
// @Router /workers/{id}/severe-incident [put]
func (h *WorkerHandler) SetSevereIncident(c *gin.Context) {
	var req dto.SevereIncidentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	worker, err := h.workers.SetSevereIncident(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, worker, nil)
}

// Recalculate godoc
// @Summary Recompute a worker's scores from full history
// @Tags Workers
// @Produce json
// @Param id path string true "Worker ID"
// @Success 200 {object} response.Envelope
// @Router /workers/{id}/recalculate [post]
func (h *WorkerHandler) Recalculate(c *gin.Context) {
	snapshot, err := h.workers.Recalculate(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, snapshot, nil)
}
