package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/calendar"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/config"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/extraction"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/logging"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/normalize"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/pipeline"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/source"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/source/gmailapi"
	imapsource "github.com/Conan-Wen/track-job-hackathon-0302/internal/source/imap"
)

var sourceFailureCount atomic.Int32

const failureSleepDuration = 30 * time.Minute

func main() {
	cfg, err := config.Load("config.yaml")
	if err != nil {
		logging.Log.Fatalf("Error reading configuration file: %v", err)
	}

	if err := os.MkdirAll(cfg.EventsDir, 0o755); err != nil {
		logging.Log.Fatalf("Error creating events directory: %v", err)
	}

	ctx := context.Background()

	src, err := newSource(ctx, cfg)
	if err != nil {
		logging.Log.Fatalf("Error creating %s source: %v", cfg.Source.Type, err)
	}
	defer func() { _ = src.Close() }()

	pipe := pipeline.New(
		extraction.NewClient(cfg.Extraction),
		normalize.New(cfg.Extraction.Sentinel),
		calendar.NewBuilder(eventLocation(cfg.Calendar), cfg.Calendar.Timezone),
	)

	refresh := cfg.Source.RefreshTime
	if refresh == 0 {
		refresh = 5 * time.Minute
	}

	logging.Log.Infof("Starting email-to-calendar pipeline (%s source), refresh every %s",
		cfg.Source.Type, refresh)

	for {
		fetchAndProcessEmails(ctx, cfg, src, pipe)
		time.Sleep(refresh)
	}
}

func newSource(ctx context.Context, cfg *models.Config) (source.Source, error) {
	switch cfg.Source.Type {
	case "gmail":
		return gmailapi.New(ctx, cfg.Gmail, cfg.Source.MaxMessages)
	case "imap":
		return imapsource.New(cfg.Imap, cfg.Source.MaxMessages), nil
	default:
		return nil, fmt.Errorf("unknown source type %q", cfg.Source.Type)
	}
}

// eventLocation resolves the fixed source timezone, falling back to a
// fixed offset when the IANA database is unavailable.
func eventLocation(cfg models.CalendarConfig) *time.Location {
	if loc, err := time.LoadLocation(cfg.Timezone); err == nil {
		return loc
	}
	return time.FixedZone(cfg.Abbreviation, cfg.UTCOffsetHours*60*60)
}

// fetchAndProcessEmails retrieves unprocessed emails from the source and runs each through the pipeline
func fetchAndProcessEmails(ctx context.Context, cfg *models.Config, src source.Source, pipe *pipeline.Pipeline) {
	emails, err := src.Fetch(ctx)
	if err != nil {
		handleSourceFailure(err)
		return
	}

	// Reset failure count on successful fetch
	sourceFailureCount.Store(0)

	for _, email := range emails {
		locallog := logging.Log.WithField("trace_id", email.TraceID)

		artifact, err := pipe.ProcessEmail(ctx, email)
		if err != nil {
			locallog.Errorf("Error processing email %s: %v", email.ID, err)
			continue
		}

		if artifact != nil {
			path := filepath.Join(cfg.EventsDir, artifact.SuggestedFileName)
			if err := os.WriteFile(path, artifact.Document, 0o644); err != nil {
				locallog.Errorf("Error writing calendar file %s: %v", path, err)
				continue
			}
			locallog.Infof("Calendar file written to %s", path)
			locallog.Infof("Google Calendar link: %s", artifact.DeepLinkURL)
		}

		// Mark processed even when no event was found, so the message
		// is not re-examined every cycle.
		if err := src.MarkProcessed(ctx, email.ID); err != nil {
			locallog.Errorf("Error marking email %s processed: %v", email.ID, err)
		}
	}
}

// handleSourceFailure increments the failure count and implements an exponential backoff strategy
func handleSourceFailure(err error) {
	failures := sourceFailureCount.Add(1)
	logging.Log.Errorf("Email source error: %v", err)

	if failures >= 5 {
		base := 5 * time.Minute
		maxSteps := int32(10)

		n := failures - 5
		if n > maxSteps {
			n = maxSteps
		}

		backoff := base * time.Duration(1<<n)
		if backoff > failureSleepDuration {
			backoff = failureSleepDuration
		}

		logging.Log.Warnf("Source failed %d times, waiting %s before next attempt", failures, backoff)
		time.Sleep(backoff)
	}
}
