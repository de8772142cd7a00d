package analysis

import (
	"errors"
	"time"
)

// SleepStage identifies one kind of sleep interval as reported by the
// sample source.
type SleepStage string

const (
	StageCore        SleepStage = "asleep_core"
	StageDeep        SleepStage = "asleep_deep"
	StageREM         SleepStage = "asleep_rem"
	StageUnspecified SleepStage = "asleep_unspecified"
	StageAwake       SleepStage = "awake"
	StageInBed       SleepStage = "in_bed"
)

// SleepInterval is one raw stage interval from the sample source
type SleepInterval struct {
	Start time.Time
	End   time.Time
	Stage SleepStage
}

// Duration returns the interval length
func (i SleepInterval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}

// StageProfile holds per-stage percentages of total asleep time for one
// day. Awake and in-bed time are excluded from the denominator, so the
// percentages sum to at most 100.
type StageProfile struct {
	DeepPct        float64
	REMPct         float64
	CorePct        float64
	UnspecifiedPct float64
}

// SleepSummary is one day's aggregated sleep
type SleepSummary struct {
	Hours        float64
	QualityScore float64 // 0-100
	Stages       StageProfile
}

// ErrNoSleepData is returned when a day has no usable asleep intervals,
// or when the total falls outside plausible capture bounds.
var ErrNoSleepData = errors.New("no sleep data")

const (
	// Intervals shorter than this are sensor noise
	minIntervalSeconds = 120

	// Totals outside these bounds signal corrupted or partial capture
	minSleepSeconds = 1800  // 30 min
	maxSleepSeconds = 50400 // 14 h

	// Reference optimums for the quality sub-scores
	referenceSleepHours   = 8.0
	referenceDeepREMShare = 0.25

	secondsPerHour = 3600.0
)

// Quality sub-score weights: duration dominates, depth matters, continuity
// breaks ties.
const (
	durationWeight   = 0.6
	deepREMWeight    = 0.3
	continuityWeight = 0.1
)

// AggregateSleepDay reduces the raw stage intervals whose start falls on
// one local calendar day into total sleep time, per-stage percentages and
// a 0-100 quality score. Intervals shorter than the noise floor, zero and
// negative durations included, are discarded before aggregation.
func AggregateSleepDay(intervals []SleepInterval, day time.Time, loc *time.Location) (SleepSummary, error) {
	dayKey := day.In(loc).Format("2006-01-02")

	stageSeconds := make(map[SleepStage]float64)
	for _, iv := range intervals {
		secs := iv.Duration().Seconds()
		if secs < minIntervalSeconds {
			continue
		}
		if iv.Start.In(loc).Format("2006-01-02") != dayKey {
			continue
		}
		stageSeconds[iv.Stage] += secs
	}

	core := stageSeconds[StageCore]
	deep := stageSeconds[StageDeep]
	rem := stageSeconds[StageREM]
	unspecified := stageSeconds[StageUnspecified]
	awake := stageSeconds[StageAwake]

	totalSleep := core + deep + rem + unspecified
	if totalSleep == 0 || totalSleep < minSleepSeconds || totalSleep > maxSleepSeconds {
		return SleepSummary{}, ErrNoSleepData
	}

	summary := SleepSummary{
		Hours: totalSleep / secondsPerHour,
		Stages: StageProfile{
			DeepPct:        stagePct(deep, totalSleep),
			REMPct:         stagePct(rem, totalSleep),
			CorePct:        stagePct(core, totalSleep),
			UnspecifiedPct: stagePct(unspecified, totalSleep),
		},
	}

	durationScore := minFloat(100, summary.Hours/referenceSleepHours*100)

	deepREMShare := (deep + rem) / totalSleep
	deepREMScore := minFloat(100, deepREMShare/referenceDeepREMShare*100)

	// Awakenings are penalized at twice their share of time in bed asleep
	continuityScore := 100 - minFloat(100, awake/(totalSleep+awake)*200)

	quality := durationWeight*durationScore + deepREMWeight*deepREMScore + continuityWeight*continuityScore
	summary.QualityScore = Clamp(quality, 0, 100)

	return summary, nil
}

func stagePct(stage, total float64) float64 {
	if total == 0 {
		return 0
	}
	return stage / total * 100
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// Clamp bounds v to [lo, hi]
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
