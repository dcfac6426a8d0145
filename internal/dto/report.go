package dto

import "github.com/crewpulse/crewpulse-api/internal/models"

// RosterReportRequest captures the POST /reports/roster payload.
type RosterReportRequest struct {
	Type   string `json:"type" validate:"omitempty,oneof=roster flagged"`
	Format string `json:"format" validate:"required,oneof=csv pdf"`
	Tier   string `json:"tier,omitempty" validate:"omitempty,oneof=Elite Strong Solid 'At Risk' Critical"`
}

// ReportJobResponse is returned after enqueueing a report.
type ReportJobResponse struct {
	ID       string              `json:"id"`
	Status   models.ReportStatus `json:"status"`
	Progress int                 `json:"progress"`
}

// ReportStatusResponse exposes job progress metadata.
type ReportStatusResponse struct {
	ID        string              `json:"id"`
	Type      models.ReportType   `json:"type"`
	Status    models.ReportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}
