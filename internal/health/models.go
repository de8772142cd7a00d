package health

import "time"

// SampleKind identifies a quantity sample stream on the gateway
type SampleKind string

const (
	KindHeartRate        SampleKind = "heart_rate"
	KindRestingHeartRate SampleKind = "resting_heart_rate"
	KindHRV              SampleKind = "hrv"
)

// Sample is one raw timed quantity measurement
type Sample struct {
	Timestamp time.Time `json:"timestamp"`
	Value     float64   `json:"value"`
}

// SleepInterval is one raw sleep-stage interval
type SleepInterval struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
	Stage string    `json:"stage"`
}

// Workout is one workout record. ID is the provider's stable identifier
// for the record and does not change between fetches.
type Workout struct {
	ID               string    `json:"id"`
	Start            time.Time `json:"start"`
	End              time.Time `json:"end"`
	Sport            string    `json:"sport"`
	EnergyKcal       *float64  `json:"energy_kcal"`
	AverageHeartRate *float64  `json:"average_heart_rate"`
}

// samplesResponse is the gateway's paginated sample payload
type samplesResponse struct {
	Records   []Sample `json:"records"`
	NextToken string   `json:"next_token"`
}

// sleepResponse is the gateway's paginated sleep payload
type sleepResponse struct {
	Records   []SleepInterval `json:"records"`
	NextToken string          `json:"next_token"`
}

// workoutsResponse is the gateway's paginated workout payload
type workoutsResponse struct {
	Records   []Workout `json:"records"`
	NextToken string    `json:"next_token"`
}
