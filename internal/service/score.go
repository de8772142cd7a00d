package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"mend/internal/analysis"
	"mend/internal/config"
	"mend/internal/health"
	"mend/internal/store"
)

// SampleSource is the slice of the health gateway client a scoring pass
// needs. Tests substitute a fake; production wires *health.Client.
type SampleSource interface {
	GetSamples(ctx context.Context, kind health.SampleKind, start, end time.Time) ([]health.Sample, error)
	GetSleepIntervals(ctx context.Context, start, end time.Time) ([]health.SleepInterval, error)
	GetWorkouts(ctx context.Context, limit, windowDays int) ([]health.Workout, error)
}

// ScoringService orchestrates one scoring pass: fetch raw data, normalize
// it into daily metrics, fold new workouts into training load, and compute
// the recovery snapshot.
type ScoringService struct {
	source     SampleSource
	store      *store.DB
	bands      analysis.ReferenceBands
	windowDays int
	loc        *time.Location
	now        func() time.Time
}

// NewScoringService creates a scoring service from the athlete and scoring
// configuration
func NewScoringService(source SampleSource, db *store.DB, cfg *config.Config) (*ScoringService, error) {
	loc, err := cfg.Location()
	if err != nil {
		return nil, fmt.Errorf("resolving timezone: %w", err)
	}

	windowDays := cfg.Scoring.BaselineWindowDays
	if windowDays == 0 {
		windowDays = DefaultBaselineWindowDays
	}

	return &ScoringService{
		source: source,
		store:  db,
		bands: analysis.ReferenceBands{
			RestingHRLow:  cfg.Athlete.RestingHRLow,
			RestingHRHigh: cfg.Athlete.RestingHRHigh,
			HRVLow:        cfg.Athlete.HRVLow,
			HRVHigh:       cfg.Athlete.HRVHigh,
		},
		windowDays: windowDays,
		loc:        loc,
		now:        time.Now,
	}, nil
}

// PassResult contains the results of one scoring pass. Errors holds
// per-stream failures the pass degraded around; the snapshot is still
// computed from whatever data survived.
type PassResult struct {
	Day             time.Time
	TimeOfDay       string
	Snapshot        analysis.Snapshot
	MetricsDerived  int
	WorkoutsFetched int
	NewActivities   int
	Errors          []error
}

// fetched holds the raw streams pulled for one pass
type fetched struct {
	restingHR []health.Sample
	heartRate []health.Sample
	hrv       []health.Sample
	sleep     []health.SleepInterval
	workouts  []health.Workout
}

// RunScoringPass derives daily metrics for one calendar day and computes
// its recovery snapshot. A failed stream is recorded in the result and the
// pass continues with the remaining data; the pass only aborts when the
// snapshot itself cannot be stored.
func (s *ScoringService) RunScoringPass(ctx context.Context, day time.Time) (*PassResult, error) {
	day = analysis.DayOf(day, s.loc)

	result := &PassResult{
		Day:       day,
		TimeOfDay: TimeOfDay(s.now().In(s.loc)),
	}

	raw := s.fetchAll(ctx, day, result)

	s.deriveSampleMetrics(day, raw, result)
	s.deriveSleepMetrics(day, raw.sleep, result)
	s.foldWorkouts(raw.workouts, result)

	snapshot, err := s.computeSnapshot(day, result)
	if err != nil {
		return result, err
	}
	result.Snapshot = snapshot

	s.store.SetSyncState(lastPassKey, s.now().Format(time.RFC3339))

	return result, nil
}

// fetchAll pulls every stream for the day concurrently. Each fetch gets
// its own timeout and writes only its own field, so one slow or failing
// stream never blocks or corrupts the others.
func (s *ScoringService) fetchAll(ctx context.Context, day time.Time, result *PassResult) *fetched {
	start := day
	end := day.AddDate(0, 0, 1)

	raw := &fetched{}
	var mu sync.Mutex
	var wg sync.WaitGroup

	fail := func(err error) {
		mu.Lock()
		result.Errors = append(result.Errors, err)
		mu.Unlock()
	}

	run := func(f func(ctx context.Context) error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			fctx, cancel := context.WithTimeout(ctx, FetchTimeout)
			defer cancel()
			if err := f(fctx); err != nil {
				fail(err)
			}
		}()
	}

	run(func(ctx context.Context) error {
		samples, err := s.source.GetSamples(ctx, health.KindRestingHeartRate, start, end)
		if err != nil {
			return fmt.Errorf("fetching resting heart rate: %w", err)
		}
		raw.restingHR = samples
		return nil
	})

	run(func(ctx context.Context) error {
		samples, err := s.source.GetSamples(ctx, health.KindHeartRate, start, end)
		if err != nil {
			return fmt.Errorf("fetching heart rate: %w", err)
		}
		raw.heartRate = samples
		return nil
	})

	run(func(ctx context.Context) error {
		samples, err := s.source.GetSamples(ctx, health.KindHRV, start, end)
		if err != nil {
			return fmt.Errorf("fetching hrv: %w", err)
		}
		raw.hrv = samples
		return nil
	})

	run(func(ctx context.Context) error {
		intervals, err := s.source.GetSleepIntervals(ctx, start, end)
		if err != nil {
			return fmt.Errorf("fetching sleep: %w", err)
		}
		raw.sleep = intervals
		return nil
	})

	run(func(ctx context.Context) error {
		workouts, err := s.source.GetWorkouts(ctx, WorkoutFetchLimit, WorkoutFetchDays)
		if err != nil {
			return fmt.Errorf("fetching workouts: %w", err)
		}
		raw.workouts = workouts
		return nil
	})

	wg.Wait()
	return raw
}

// deriveSampleMetrics normalizes the quantity streams into daily metrics
// for the target day. Resting heart rate is preferred for the heart-rate
// metric; all-day readings are the fallback when the source reports none.
func (s *ScoringService) deriveSampleMetrics(day time.Time, raw *fetched, result *PassResult) {
	hrSamples := raw.restingHR
	if len(hrSamples) == 0 {
		hrSamples = raw.heartRate
	}

	s.upsertDailyMean(day, store.MetricHeartRate,
		filterSamples(hrSamples, MinValidHeartRate, MaxValidHeartRate), result)
	s.upsertDailyMean(day, store.MetricHRV,
		filterSamples(raw.hrv, MinValidHRV, MaxValidHRV), result)
}

// upsertDailyMean reduces one day's samples to their mean and stores it.
// No samples for the day means no row: absence stays absence.
func (s *ScoringService) upsertDailyMean(day time.Time, t store.MetricType, samples []analysis.Sample, result *PassResult) {
	for _, dv := range analysis.DailyMeans(samples, s.loc) {
		if !dv.Date.Equal(day) {
			continue
		}
		err := s.store.UpsertDailyMetric(&store.DailyMetric{
			Date:       dv.Date,
			MetricType: t,
			Value:      dv.Value,
		})
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing %s metric: %w", t, err))
			continue
		}
		result.MetricsDerived++
	}
}

// deriveSleepMetrics aggregates the day's stage intervals into the sleep
// duration and quality metrics. A day without usable sleep simply produces
// no sleep metrics.
func (s *ScoringService) deriveSleepMetrics(day time.Time, intervals []health.SleepInterval, result *PassResult) {
	if len(intervals) == 0 {
		return
	}

	converted := make([]analysis.SleepInterval, len(intervals))
	for i, iv := range intervals {
		converted[i] = analysis.SleepInterval{
			Start: iv.Start,
			End:   iv.End,
			Stage: analysis.SleepStage(iv.Stage),
		}
	}

	summary, err := analysis.AggregateSleepDay(converted, day, s.loc)
	if errors.Is(err, analysis.ErrNoSleepData) {
		return
	}
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("aggregating sleep: %w", err))
		return
	}

	pairs := []store.DailyMetric{
		{Date: day, MetricType: store.MetricSleepDuration, Value: summary.Hours},
		{Date: day, MetricType: store.MetricSleepQuality, Value: summary.QualityScore},
	}
	for i := range pairs {
		if err := s.store.UpsertDailyMetric(&pairs[i]); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing %s metric: %w", pairs[i].MetricType, err))
			continue
		}
		result.MetricsDerived++
	}
}

// foldWorkouts stores the fetched workouts and folds each one's training
// load into its day's aggregate exactly once. The fold and the ledger
// record commit in a single transaction, so a pass interrupted anywhere
// leaves either both writes or neither and a retry cannot double count.
func (s *ScoringService) foldWorkouts(workouts []health.Workout, result *PassResult) {
	result.WorkoutsFetched = len(workouts)

	loads := make([]store.WorkoutLoad, 0, len(workouts))
	for _, w := range workouts {
		activity := s.convertWorkout(w)

		if err := s.store.UpsertActivity(activity); err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("storing workout %s: %w", w.ID, err))
			continue
		}

		loads = append(loads, store.WorkoutLoad{
			ID:   activity.ID,
			Date: activity.Date,
			Load: activity.TrainingLoadScore,
		})
	}

	newIDs, err := s.store.FoldTrainingLoads(loads)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Errorf("folding training load: %w", err))
		return
	}
	result.NewActivities = len(newIDs)
	if len(newIDs) > 0 {
		result.MetricsDerived++
	}
}

// convertWorkout maps a gateway workout onto a store activity
func (s *ScoringService) convertWorkout(w health.Workout) *store.Activity {
	duration := w.End.Sub(w.Start).Seconds()
	intensity := analysis.ClassifyIntensity(duration, w.EnergyKcal)

	return &store.Activity{
		ID:                w.ID,
		Date:              analysis.DayOf(w.Start, s.loc),
		DurationSeconds:   int(duration),
		AverageHeartRate:  w.AverageHeartRate,
		EnergyKcal:        w.EnergyKcal,
		Intensity:         intensity,
		TrainingLoadScore: analysis.TrainingLoadScore(duration, intensity, w.AverageHeartRate),
	}
}

// computeSnapshot loads the day's metrics and baselines from the store,
// computes the recovery snapshot and persists it
func (s *ScoringService) computeSnapshot(day time.Time, result *PassResult) (analysis.Snapshot, error) {
	dayMetrics := make(analysis.DayMetrics)
	baselines := make(analysis.Baselines)

	for _, t := range store.MetricTypes {
		if m, err := s.store.GetDailyMetric(day, t); err == nil {
			dayMetrics[t] = m.Value
		} else if !errors.Is(err, store.ErrMetricNotFound) {
			return analysis.Snapshot{}, fmt.Errorf("reading %s metric: %w", t, err)
		}

		values, err := s.store.BaselineValues(t, day, s.windowDays)
		if err != nil {
			return analysis.Snapshot{}, fmt.Errorf("reading %s baseline: %w", t, err)
		}
		if len(values) > 0 {
			baselines[t] = values
		}
	}

	snapshot := analysis.ComputeRecovery(dayMetrics, baselines, s.bands)

	err := s.store.SaveRecoveryScore(&store.RecoveryScore{
		Date:       day,
		TimeOfDay:  result.TimeOfDay,
		Overall:    snapshot.Overall,
		OverallRaw: snapshot.OverallRaw,
		HeartRate:  snapshot.HeartRate,
		HRV:        snapshot.HRV,
		Sleep:      snapshot.Sleep,
		Training:   snapshot.Training,
		Stress:     snapshot.Stress,
		ComputedAt: s.now(),
	})
	if err != nil {
		return snapshot, fmt.Errorf("storing recovery score: %w", err)
	}

	return snapshot, nil
}

// filterSamples drops readings outside the plausibility bounds and
// converts the rest for normalization
func filterSamples(samples []health.Sample, min, max float64) []analysis.Sample {
	out := make([]analysis.Sample, 0, len(samples))
	for _, s := range samples {
		if s.Value < min || s.Value > max {
			continue
		}
		out = append(out, analysis.Sample{Time: s.Timestamp, Value: s.Value})
	}
	return out
}
