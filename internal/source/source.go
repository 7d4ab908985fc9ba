// Package source defines the contract for email providers feeding the
// pipeline. The pipeline itself never fetches mail; it consumes
// RawEmail values a Source produced.
package source

import (
	"context"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

// Source is an email provider integration.
type Source interface {
	// Fetch returns unprocessed messages, oldest first.
	Fetch(ctx context.Context) ([]*models.RawEmail, error)

	// MarkProcessed flags a message so it is not returned again.
	MarkProcessed(ctx context.Context, id string) error

	// Close releases the provider connection, if any.
	Close() error
}
