package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"golang.org/x/oauth2"

	"mend/internal/auth"
	"mend/internal/config"
	"mend/internal/health"
	"mend/internal/service"
	"mend/internal/store"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx := context.Background()

	// Load configuration
	cfg, err := config.Load()
	if errors.Is(err, config.ErrNoConfig) {
		fmt.Println("No config file found. Creating example config...")
		if err := config.CreateExample(); err != nil {
			return fmt.Errorf("creating example config: %w", err)
		}
		configDir, _ := config.GetConfigDir()
		fmt.Printf("\nPlease edit the config file at:\n  %s/config.json\n\n", configDir)
		fmt.Println("You need to add your health gateway API credentials.")
		return nil
	}
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Validate config
	if err := cfg.Validate(); err != nil {
		configDir, _ := config.GetConfigDir()
		fmt.Printf("Config validation failed: %v\n\n", err)
		fmt.Printf("Please edit the config file at:\n  %s/config.json\n", configDir)
		return nil
	}

	// Open database
	db, err := store.Open()
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer db.Close()

	// Check for existing auth
	storedAuth, err := db.GetAuth()
	if errors.Is(err, store.ErrNoAuth) {
		fmt.Println("No authentication found. Starting OAuth flow...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("authentication: %w", err)
		}
		storedAuth, err = db.GetAuth()
		if err != nil {
			return fmt.Errorf("fetching auth after login: %w", err)
		}
	} else if err != nil {
		return fmt.Errorf("checking auth: %w", err)
	}

	// Create token source for API calls (with auto-refresh)
	oauthCfg := newOAuthConfig(cfg)

	token := &oauth2.Token{
		AccessToken:  storedAuth.AccessToken,
		RefreshToken: storedAuth.RefreshToken,
		Expiry:       storedAuth.ExpiresAt,
	}

	tokenSource := auth.NewTokenSource(oauthCfg, token, func(newToken *oauth2.Token) error {
		return db.UpdateTokens(newToken.AccessToken, newToken.RefreshToken, newToken.Expiry)
	})

	// Test token is valid by getting a fresh one
	if _, err := tokenSource.Token(); err != nil {
		fmt.Println("Stored token is invalid or expired. Re-authenticating...")
		if err := authenticate(ctx, db, cfg); err != nil {
			return fmt.Errorf("re-authentication: %w", err)
		}
	}

	// Create services
	client := health.NewClient(tokenSource, cfg.Health.BaseURL)
	scoringSvc, err := service.NewScoringService(client, db, cfg)
	if err != nil {
		return fmt.Errorf("creating scoring service: %w", err)
	}
	querySvc := service.NewQueryService(db, cfg)

	if last, err := querySvc.LastPassTime(); err == nil && !last.IsZero() {
		fmt.Printf("Last scoring pass: %s\n", last.Local().Format("Mon Jan 2 15:04"))
	}

	// Run today's scoring pass
	fmt.Println("Running scoring pass...")
	result, err := scoringSvc.RunScoringPass(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("scoring pass: %w", err)
	}

	printReport(result, querySvc)
	return nil
}

// printReport prints the pass result, metric breakdown and recent history
func printReport(result *service.PassResult, querySvc *service.QueryService) {
	fmt.Println()
	fmt.Printf("Recovery for %s (%s): %d/100\n",
		result.Day.Format("Mon Jan 2"), result.TimeOfDay, result.Snapshot.Overall)

	printComponent("Heart Rate", result.Snapshot.HeartRate)
	printComponent("HRV", result.Snapshot.HRV)
	printComponent("Sleep", result.Snapshot.Sleep)
	printComponent("Training", result.Snapshot.Training)
	printComponent("Stress", result.Snapshot.Stress)

	if result.NewActivities > 0 {
		fmt.Printf("\nCounted %d new workout(s) into training load.\n", result.NewActivities)
	}

	scores, err := querySvc.MetricScores(result.Day)
	if err == nil && len(scores) > 0 {
		fmt.Println("\nMetrics:")
		for _, m := range scores {
			fmt.Printf("  %-24s %7.1f %-4s %s\n", m.Title, m.Value, m.Unit, trendArrow(m))
		}
	}

	activities, err := querySvc.RecentActivities(service.RecentActivitiesLimit)
	if err == nil && len(activities) > 0 {
		fmt.Println("\nRecent workouts:")
		for _, a := range activities {
			fmt.Printf("  %s  %3d min  %-8s  load %.0f\n",
				a.Date.Format("Jan 02"), a.DurationSeconds/60, a.Intensity, a.TrainingLoadScore)
		}
	}

	history, err := querySvc.ScoreHistory(service.ScoreHistoryLimit)
	if err == nil && len(history) > 1 {
		fmt.Println("\nHistory:")
		for _, s := range history {
			fmt.Printf("  %s %-10s %3d\n", s.Date.Format("Jan 02"), s.TimeOfDay, s.Overall)
		}
	}

	if len(result.Errors) > 0 {
		fmt.Printf("\n%d stream(s) failed; score computed from remaining data:\n", len(result.Errors))
		for _, e := range result.Errors {
			fmt.Printf("  - %v\n", e)
		}
	}
}

func printComponent(name string, score *int) {
	if score == nil {
		fmt.Printf("  %-12s   --\n", name)
		return
	}
	fmt.Printf("  %-12s  %3d\n", name, *score)
}

// trendArrow formats a metric's movement against its baseline
func trendArrow(m service.MetricScore) string {
	if m.IsNeutralDelta {
		return "="
	}
	arrow := "down"
	if m.DeltaFromAverage > 0 {
		arrow = "up"
	}
	mood := "worse"
	if m.IsPositiveDelta {
		mood = "better"
	}
	return fmt.Sprintf("%s %.1f (%s)", arrow, abs(m.DeltaFromAverage), mood)
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

func authenticate(ctx context.Context, db *store.DB, cfg *config.Config) error {
	token, err := auth.Authenticate(ctx, newOAuthConfig(cfg))
	if err != nil {
		return err
	}

	// Store the tokens
	storedAuth := &store.Auth{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    token.Expiry,
	}

	if err := db.SaveAuth(storedAuth); err != nil {
		return fmt.Errorf("saving auth: %w", err)
	}

	fmt.Println()
	fmt.Println("Successfully authenticated.")
	return nil
}

func newOAuthConfig(cfg *config.Config) *oauth2.Config {
	return auth.NewOAuthConfig(auth.Config{
		ClientID:     cfg.Health.ClientID,
		ClientSecret: cfg.Health.ClientSecret,
		RedirectURL:  fmt.Sprintf("http://localhost:%d/callback", auth.CallbackPort),
	})
}
