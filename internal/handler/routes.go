package handler

import "github.com/gin-gonic/gin"

// Handlers bundles the HTTP handlers mounted under the API prefix.
type Handlers struct {
	Workers     *WorkerHandler
	Assignments *AssignmentHandler
	Dashboard   *DashboardHandler
	Reports     *ReportHandler
	Metrics     *MetricsHandler
}

// Register mounts every CrewPulse route on the given group.
func (h Handlers) Register(api gin.IRouter) {
	if h.Workers != nil {
		workers := api.Group("/workers")
		workers.GET("", h.Workers.List)
		workers.POST("", h.Workers.Create)
		workers.GET("/:id", h.Workers.Get)
		workers.PUT("/:id/severe-incident", h.Workers.SetSevereIncident)
		workers.POST("/:id/recalculate", h.Workers.Recalculate)
		if h.Assignments != nil {
			workers.GET("/:id/assignments", h.Assignments.ListByWorker)
		}
	}

	if h.Assignments != nil {
		assignments := api.Group("/assignments")
		assignments.POST("", h.Assignments.Create)
		assignments.GET("/:id", h.Assignments.Get)
		assignments.POST("/:id/events", h.Assignments.RecordEvent)
		assignments.POST("/:id/staff-rating", h.Assignments.SubmitStaffRating)
		assignments.POST("/:id/customer-rating", h.Assignments.SubmitCustomerRating)
	}

	if h.Dashboard != nil {
		api.GET("/dashboard/summary", h.Dashboard.Summary)
	}

	if h.Reports != nil {
		reports := api.Group("/reports")
		reports.POST("/roster", h.Reports.CreateRoster)
		reports.GET("/download/:token", h.Reports.Download)
		reports.GET("/:id", h.Reports.Status)
	}

	if h.Metrics != nil {
		api.GET("/metrics/summary", h.Metrics.Summary)
	}
}
