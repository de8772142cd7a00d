package health

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the health gateway API root
const DefaultBaseURL = "https://api.mendhealth.io/v1"

// The gateway allows roughly 240 requests per minute per token; pace
// below that with headroom for a burst at pass start.
const (
	requestsPerSecond = 4
	requestBurst      = 8
)

// Client is a health gateway API client
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
}

// NewClient creates a new health gateway client authenticated by the
// given token source
func NewClient(tokenSource oauth2.TokenSource, baseURL string) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Client{
		httpClient: oauth2.NewClient(context.Background(), tokenSource),
		baseURL:    baseURL,
		limiter:    rate.NewLimiter(rate.Limit(requestsPerSecond), requestBurst),
	}
}

// GetSamples fetches all quantity samples of one kind within [start, end).
// Pagination is followed automatically.
func (c *Client) GetSamples(ctx context.Context, kind SampleKind, start, end time.Time) ([]Sample, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	var samples []Sample
	token := ""

	for {
		if token != "" {
			params.Set("next_token", token)
		}

		var page samplesResponse
		if err := c.get(ctx, "/metrics/"+string(kind), params, &page); err != nil {
			return nil, fmt.Errorf("fetching %s samples: %w", kind, err)
		}

		samples = append(samples, page.Records...)

		if page.NextToken == "" {
			return samples, nil
		}
		token = page.NextToken
	}
}

// GetSleepIntervals fetches all sleep-stage intervals within [start, end)
func (c *Client) GetSleepIntervals(ctx context.Context, start, end time.Time) ([]SleepInterval, error) {
	params := url.Values{}
	params.Set("start", start.Format(time.RFC3339))
	params.Set("end", end.Format(time.RFC3339))

	var intervals []SleepInterval
	token := ""

	for {
		if token != "" {
			params.Set("next_token", token)
		}

		var page sleepResponse
		if err := c.get(ctx, "/sleep", params, &page); err != nil {
			return nil, fmt.Errorf("fetching sleep intervals: %w", err)
		}

		intervals = append(intervals, page.Records...)

		if page.NextToken == "" {
			return intervals, nil
		}
		token = page.NextToken
	}
}

// GetWorkouts fetches up to limit workout records from the trailing
// windowDays days, newest first
func (c *Client) GetWorkouts(ctx context.Context, limit, windowDays int) ([]Workout, error) {
	params := url.Values{}
	params.Set("limit", strconv.Itoa(limit))
	params.Set("days", strconv.Itoa(windowDays))

	var workouts []Workout
	token := ""

	for len(workouts) < limit {
		if token != "" {
			params.Set("next_token", token)
		}

		var page workoutsResponse
		if err := c.get(ctx, "/workouts", params, &page); err != nil {
			return nil, fmt.Errorf("fetching workouts: %w", err)
		}

		workouts = append(workouts, page.Records...)

		if page.NextToken == "" {
			break
		}
		token = page.NextToken
	}

	if len(workouts) > limit {
		workouts = workouts[:limit]
	}
	return workouts, nil
}

func (c *Client) get(ctx context.Context, path string, params url.Values, out interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, "GET", reqURL, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("API error %d: %s", resp.StatusCode, string(body))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}

	return nil
}
