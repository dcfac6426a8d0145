package service

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/crewpulse/crewpulse-api/internal/models"
	"github.com/crewpulse/crewpulse-api/pkg/export"
	"github.com/crewpulse/crewpulse-api/pkg/storage"
)

type rosterSource interface {
	ListAll(ctx context.Context, flaggedOnly bool) ([]models.Worker, error)
}

type fileStorage interface {
	Save(name string, data []byte) (string, error)
	Open(name string) (*os.File, error)
	CleanupOlderThan(ttl time.Duration) ([]string, error)
}

// ExportConfig tunes export behaviour.
type ExportConfig struct {
	APIPrefix string
	ResultTTL time.Duration
}

// ExportResult captures successful generation metadata.
type ExportResult struct {
	RelativePath string
	Token        string
	URL          string
	Format       models.ReportFormat
	Rows         int
	ExpiresAt    time.Time
}

// ExportService renders worker rosters and persists them behind signed URLs.
type ExportService struct {
	workers   rosterSource
	storage   fileStorage
	renderers map[models.ReportFormat]export.Renderer
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	cfg       ExportConfig
	now       func() time.Time
}

// NewExportService constructs an ExportService with the CSV and PDF renderers.
func NewExportService(workers rosterSource, files fileStorage, signer *storage.SignedURLSigner, cfg ExportConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportService{
		workers: workers,
		storage: files,
		renderers: map[models.ReportFormat]export.Renderer{
			models.ReportFormatCSV: export.NewCSVRenderer(),
			models.ReportFormatPDF: export.NewPDFRenderer(),
		},
		signer: signer,
		logger: logger,
		cfg:    cfg,
		now:    time.Now,
	}
}

// Generate renders the roster a job asks for and stores the file.
func (s *ExportService) Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error) {
	if job == nil {
		return nil, errors.New("report job is nil")
	}
	renderer, ok := s.renderers[job.Params.Format]
	if !ok {
		return nil, fmt.Errorf("unsupported format %q", job.Params.Format)
	}
	table, err := s.buildRoster(ctx, job)
	if err != nil {
		return nil, err
	}
	payload, err := renderer.Render(table)
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", job.Params.Format, err)
	}

	name := fmt.Sprintf("%s/%s_%s.%s", job.ID, job.Type, s.now().UTC().Format("20060102_150405"), renderer.Extension())
	relPath, err := s.storage.Save(name, payload)
	if err != nil {
		return nil, err
	}
	token, expiresAt, err := s.signer.Generate(job.ID, relPath)
	if err != nil {
		return nil, err
	}
	prefix := strings.TrimRight(s.cfg.APIPrefix, "/")
	if prefix == "" {
		prefix = "/api/v1"
	}
	s.logger.Info("roster export generated",
		zap.String("report_id", job.ID),
		zap.String("format", string(job.Params.Format)),
		zap.Int("rows", len(table.Rows)),
	)
	return &ExportResult{
		RelativePath: relPath,
		Token:        token,
		URL:          prefix + "/reports/download/" + token,
		Format:       job.Params.Format,
		Rows:         len(table.Rows),
		ExpiresAt:    expiresAt,
	}, nil
}

// ParseToken validates a download token.
func (s *ExportService) ParseToken(token string) (reportID, relPath string, err error) {
	return s.signer.Parse(token)
}

// Open returns a handle to a stored export.
func (s *ExportService) Open(relPath string) (*os.File, error) {
	return s.storage.Open(relPath)
}

// ContentType returns the MIME type of a format.
func (s *ExportService) ContentType(format models.ReportFormat) string {
	if renderer, ok := s.renderers[format]; ok {
		return renderer.ContentType()
	}
	return "application/octet-stream"
}

// Cleanup removes exports older than ttl, or the configured result TTL when ttl <= 0.
func (s *ExportService) Cleanup(ttl time.Duration) ([]string, error) {
	if ttl <= 0 {
		ttl = s.cfg.ResultTTL
	}
	return s.storage.CleanupOlderThan(ttl)
}

var rosterColumns = []export.Column{
	{Title: "Employee Code", Width: 1.2},
	{Title: "Name", Width: 2},
	{Title: "Status", Width: 1},
	{Title: "Tier", Width: 1},
	{Title: "Performance", Width: 1},
	{Title: "Reliability", Width: 1},
	{Title: "Late Rate", Width: 0.9},
	{Title: "NCNS Rate", Width: 0.9},
	{Title: "Jobs", Width: 0.6},
	{Title: "Flags", Width: 2},
	{Title: "Display Status", Width: 1.6},
}

func (s *ExportService) buildRoster(ctx context.Context, job *models.ReportJob) (export.Table, error) {
	flaggedOnly := job.Type == models.ReportTypeFlagged
	workers, err := s.workers.ListAll(ctx, flaggedOnly)
	if err != nil {
		return export.Table{}, err
	}

	title := "Worker Roster"
	if flaggedOnly {
		title = "Flagged Workers"
	}
	if job.Params.Tier != nil {
		title += " (" + *job.Params.Tier + ")"
	}

	rows := make([][]string, 0, len(workers))
	for _, w := range workers {
		if job.Params.Tier != nil && string(w.Tier) != *job.Params.Tier {
			continue
		}
		rows = append(rows, []string{
			w.EmployeeCode,
			w.FullName(),
			string(w.Status),
			string(w.Tier),
			formatScore(w.PerformanceScore, 2),
			formatScore(w.ReliabilityScore, 2),
			formatScore(w.LateRate, 4),
			formatScore(w.NCNSRate, 4),
			strconv.Itoa(w.TotalJobs),
			strings.Join(w.Flags.Strings(), ", "),
			w.DisplayStatus().Label(),
		})
	}
	return export.Table{Title: title, Columns: rosterColumns, Rows: rows}, nil
}

func formatScore(value float64, decimals int) string {
	return strconv.FormatFloat(value, 'f', decimals, 64)
}
