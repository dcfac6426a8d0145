package scoring

// Input is the fully derived view of a worker's history.
type Input struct {
	Jobs                []RatedJob
	Attendance          ReliabilityInput
	IncidentsLast30Days int
	NCNSInLastFive      int
	// RecentRatings holds combined ratings, most recent first, at most TrendWindow long.
	RecentRatings  []float64
	SevereIncident bool
}

// Result is everything the engine derives for one worker.
type Result struct {
	PerformanceScore float64
	ReliabilityScore float64
	LateRate         float64
	NCNSRate         float64
	Tier             Tier
	Flags            []Flag
}

// Evaluate validates the input and runs the scoring primitives followed by
// the flag policy.
func Evaluate(in Input) (Result, error) {
	if err := in.Attendance.Validate(); err != nil {
		return Result{}, err
	}
	for _, job := range in.Jobs {
		if err := job.Validate(); err != nil {
			return Result{}, err
		}
	}
	if in.IncidentsLast30Days < 0 || in.NCNSInLastFive < 0 {
		return Result{}, ErrMalformedInput
	}

	performance := PerformanceScore(in.Jobs)
	result := Result{
		PerformanceScore: performance,
		ReliabilityScore: ReliabilityScore(in.Attendance),
		LateRate:         LateRate(in.Attendance.Late, in.Attendance.TotalJobs),
		NCNSRate:         NCNSRate(in.Attendance.NCNS, in.Attendance.TotalJobs),
		Tier:             MapTier(performance),
	}
	result.Flags = EvaluateFlags(
		NeedsReviewInput{
			PerformanceScore:    performance,
			NCNSRate:            result.NCNSRate,
			IncidentsLast30Days: in.IncidentsLast30Days,
			RecentRatings:       in.RecentRatings,
		},
		TerminateInput{
			PerformanceScore: performance,
			TotalJobs:        in.Attendance.TotalJobs,
			NCNSRate:         result.NCNSRate,
			NCNSInLastFive:   in.NCNSInLastFive,
			SevereIncident:   in.SevereIncident,
		},
	)
	return result, nil
}
