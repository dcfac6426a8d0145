package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/crewpulse/crewpulse-api/internal/dto"
	"github.com/crewpulse/crewpulse-api/internal/models"
	appErrors "github.com/crewpulse/crewpulse-api/pkg/errors"
)

const seedActor = "seed"

type seedJob struct {
	category    models.JobCategory
	event       models.EventType
	daysAgo     int
	staff       int
	tags        []string
	customer    int
	punctuality *int
	workEthic   *int
	attitude    *int
	quality     *int
	safety      *int
	wouldRehire bool
}

type seedWorker struct {
	worker dto.CreateWorkerRequest
	jobs   []seedJob
}

func score(v int) *int { return &v }

func str(v string) *string { return &v }

func demoWorkers() []seedWorker {
	return []seedWorker{
		{
			worker: dto.CreateWorkerRequest{EmployeeCode: "W-1001", FirstName: "Avery", LastName: "Coleman", Phone: str("555-0101"), Email: str("avery.coleman@crewpulse.local")},
			jobs: []seedJob{
				{category: models.JobCategoryWarehouse, event: models.EventCompleted, daysAgo: 8, staff: 5, tags: []string{"fast", "accurate"}, customer: 5,
					punctuality: score(5), workEthic: score(5), attitude: score(5), quality: score(5), safety: score(5), wouldRehire: true},
			},
		},
		{
			worker: dto.CreateWorkerRequest{EmployeeCode: "W-1002", FirstName: "Jordan", LastName: "Mills", Phone: str("555-0102"), Email: str("jordan.mills@crewpulse.local")},
			jobs: []seedJob{
				{category: models.JobCategoryCleanup, event: models.EventLate, daysAgo: 7, staff: 3, tags: []string{"late_arrival", "improved_mid_shift"}, customer: 3,
					punctuality: score(2), workEthic: score(4), attitude: score(3), quality: score(3), safety: score(4)},
				{category: models.JobCategoryJanitorial, event: models.EventLate, daysAgo: 3, staff: 3, tags: []string{"late_arrival"}, customer: 2,
					punctuality: score(1), workEthic: score(3), attitude: score(3), quality: score(3), safety: score(3)},
			},
		},
		{
			worker: dto.CreateWorkerRequest{EmployeeCode: "W-1003", FirstName: "Taylor", LastName: "Reed", Phone: str("555-0103"), Email: str("taylor.reed@crewpulse.local")},
			jobs: []seedJob{
				{category: models.JobCategoryEvents, event: models.EventNCNS, daysAgo: 5, staff: 1, tags: []string{"no_show"}, customer: 1},
				{category: models.JobCategoryWarehouse, event: models.EventNCNS, daysAgo: 1, staff: 1, tags: []string{"no_show", "unreachable"}, customer: 1},
			},
		},
	}
}

// SeedCmd loads the demonstration workers through the regular write path.
func SeedCmd(load Loader) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load demonstration workers (high performer, chronic late, NCNS risk)",
		Long: `Create three demonstration workers with assignments, attendance events
and ratings. Every write goes through the scoring pipeline, so the stored
snapshots reflect the current rules. Workers whose employee code already
exists are skipped.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, cleanup, err := load(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to open application: %w", err)
			}
			defer cleanup()
			return seed(cmd.Context(), app, cmd.OutOrStdout(), time.Now().UTC())
		},
	}
}

func seed(ctx context.Context, app *App, out io.Writer, now time.Time) error {
	for _, demo := range demoWorkers() {
		worker, err := app.Workers.Create(ctx, demo.worker)
		if err != nil {
			if errors.Is(err, appErrors.ErrConflict) {
				fmt.Fprintf(out, "%s %s already exists, skipped\n", color.New(color.FgYellow).Sprint("-"), demo.worker.EmployeeCode)
				continue
			}
			return fmt.Errorf("create %s: %w", demo.worker.EmployeeCode, err)
		}

		var last *dto.WriteResponse
		for _, job := range demo.jobs {
			last, err = seedJobFor(ctx, app, worker.ID, job, now)
			if err != nil {
				return fmt.Errorf("seed %s: %w", demo.worker.EmployeeCode, err)
			}
		}
		scores := worker.Scores
		if last != nil {
			scores = last.Snapshot
		}
		fmt.Fprintf(out, "%s %s %s %s performance=%.2f reliability=%.2f tier=%s status=%s\n",
			color.New(color.FgGreen).Sprint("✓"), demo.worker.EmployeeCode, demo.worker.FirstName, demo.worker.LastName,
			scores.PerformanceScore, scores.ReliabilityScore, tierLabel(string(scores.Tier)), scores.DisplayLabel)
	}
	return nil
}

func seedJobFor(ctx context.Context, app *App, workerID string, job seedJob, now time.Time) (*dto.WriteResponse, error) {
	start := now.Add(-time.Duration(job.daysAgo) * 24 * time.Hour)
	created, err := app.Assignments.Create(ctx, dto.CreateAssignmentRequest{
		WorkerID:       workerID,
		Category:       string(job.category),
		ScheduledStart: start,
	}, seedActor)
	if err != nil {
		return nil, err
	}
	assignment, ok := created.Record.(*models.Assignment)
	if !ok {
		return nil, fmt.Errorf("unexpected assignment record %T", created.Record)
	}

	if _, err := app.Assignments.RecordEvent(ctx, assignment.ID, dto.RecordEventRequest{
		EventType:  string(job.event),
		OccurredAt: &start,
	}, seedActor); err != nil {
		return nil, err
	}
	notes := "Seeded scenario for " + string(job.event)
	if _, err := app.Ratings.SubmitStaff(ctx, assignment.ID, dto.StaffRatingRequest{
		Overall:       job.staff,
		Tags:          job.tags,
		InternalNotes: &notes,
	}, seedActor); err != nil {
		return nil, err
	}
	rehire := job.wouldRehire
	return app.Ratings.SubmitCustomer(ctx, assignment.ID, dto.CustomerRatingRequest{
		Overall:     job.customer,
		Punctuality: job.punctuality,
		WorkEthic:   job.workEthic,
		Attitude:    job.attitude,
		Quality:     job.quality,
		Safety:      job.safety,
		WouldRehire: &rehire,
		Comments:    str("Seeded baseline customer feedback"),
	}, seedActor)
}
