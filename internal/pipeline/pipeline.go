package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/calendar"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/extraction"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/logging"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/mailparse"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/normalize"
)

// Pipeline sequences body extraction, the external extraction call,
// normalization and artifact building for one email at a time. It holds
// no shared mutable state, so separate invocations may run concurrently.
type Pipeline struct {
	extractor  extraction.Extractor
	normalizer *normalize.Normalizer
	builder    *calendar.Builder
	now        func() time.Time
}

// New creates a Pipeline from its collaborators.
func New(extractor extraction.Extractor, normalizer *normalize.Normalizer, builder *calendar.Builder) *Pipeline {
	return &Pipeline{
		extractor:  extractor,
		normalizer: normalizer,
		builder:    builder,
		now:        time.Now,
	}
}

// ProcessEmail runs one email through the pipeline.
//
// A (nil, nil) return means the email does not describe an actionable
// event; that covers the sentinel response as well as extraction output
// the normalizer rejects. Only faults at the extraction-service
// boundary surface as errors.
func (p *Pipeline) ProcessEmail(ctx context.Context, raw *models.RawEmail) (*models.CalendarArtifact, error) {
	locallog := logging.Log.WithField("trace_id", raw.TraceID)

	body := mailparse.ExtractPlainText(raw.Payload)
	if body == "" && raw.Snippet == "" {
		locallog.Info("No readable content in email, skipping")
		return nil, nil
	}

	rawResult, err := p.extractor.Extract(ctx, extraction.Input{
		Subject: raw.Subject,
		Sender:  raw.Sender,
		Snippet: raw.Snippet,
		Body:    body,
	})
	if err != nil {
		return nil, fmt.Errorf("extraction service: %w", err)
	}

	now := p.now()
	event, err := p.normalizer.Normalize(rawResult, now.Year(), now)
	if err != nil {
		// An unusable extraction result is a no-event outcome, not a
		// pipeline fault.
		locallog.Infof("Extraction result rejected: %v", err)
		return nil, nil
	}
	if event == nil {
		locallog.Info("Email does not describe an event")
		return nil, nil
	}

	artifact := p.builder.Build(event)
	locallog.Infof("Built calendar artifact %s for event %q starting %s",
		artifact.UID, event.Title, event.Start.Format("2006-01-02 15:04"))

	return artifact, nil
}
