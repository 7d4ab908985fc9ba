package normalize

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/logging"
	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

// DefaultSentinel is the literal the extraction service returns for
// emails that do not describe an event.
const DefaultSentinel = "not_event"

var (
	// ErrMalformedExtraction indicates the extraction output was not
	// valid JSON in the expected shape.
	ErrMalformedExtraction = errors.New("malformed extraction result")

	// ErrUnparseableDate indicates a start or end time still failed to
	// parse after repair.
	ErrUnparseableDate = errors.New("unparseable event date")
)

// dateTimeLayout accepts single-digit month and day but requires a
// two-digit minute, matching the format the extraction service is
// instructed to emit.
const dateTimeLayout = "2006-1-2 15:04"

var validDateTime = regexp.MustCompile(`^\d{4}-\d{1,2}-\d{1,2} \d{2}:\d{2}`)

// Normalizer turns raw extraction output into validated event records.
type Normalizer struct {
	sentinel string
}

// New creates a Normalizer recognizing the given no-event sentinel.
// An empty sentinel falls back to DefaultSentinel.
func New(sentinel string) *Normalizer {
	if sentinel == "" {
		sentinel = DefaultSentinel
	}
	return &Normalizer{sentinel: sentinel}
}

// extractionPayload mirrors the JSON shape the extraction service is
// prompted to produce. Pointers distinguish missing keys from empty
// values.
type extractionPayload struct {
	Title          *string `json:"title"`
	StartTime      *string `json:"start_time"`
	EndTime        *string `json:"end_time"`
	Location       *string `json:"location"`
	Description    *string `json:"description"`
	OnlineLink     *string `json:"online link"`
	OnlinePassword *string `json:"online password"`
}

// Normalize parses raw extraction output into a NormalizedEvent.
//
// A (nil, nil) return means the text did not describe an event, which
// callers must treat as an empty result rather than a fault.
//
// referenceYear and currentMoment document the year-inference contract
// owed by the extraction service: when an email omits the year, the
// service must pick referenceYear+1 if the date would otherwise fall
// before currentMoment, and referenceYear otherwise. Normalize enforces
// that contract only by rejecting output that does not parse; it never
// recomputes the year itself.
func (n *Normalizer) Normalize(raw string, referenceYear int, currentMoment time.Time) (*models.NormalizedEvent, error) {
	if raw == n.sentinel {
		return nil, nil
	}

	var payload extractionPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedExtraction, err)
	}
	if payload.Title == nil || payload.StartTime == nil || payload.EndTime == nil ||
		payload.Location == nil || payload.Description == nil {
		return nil, fmt.Errorf("%w: missing required key", ErrMalformedExtraction)
	}
	if *payload.Title == "" {
		return nil, fmt.Errorf("%w: empty title", ErrMalformedExtraction)
	}

	startRaw := RepairDate(*payload.StartTime)
	endRaw := RepairDate(*payload.EndTime)

	start, err := time.Parse(dateTimeLayout, startRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: start_time %q", ErrUnparseableDate, startRaw)
	}
	end, err := time.Parse(dateTimeLayout, endRaw)
	if err != nil {
		return nil, fmt.Errorf("%w: end_time %q", ErrUnparseableDate, endRaw)
	}

	// Contract check only, never a rejection: the upstream is supposed
	// to resolve omitted years to the nearest future year.
	if start.Year() < referenceYear {
		logging.Log.Warnf("Extracted start %q predates reference year %d (current moment %s)",
			startRaw, referenceYear, currentMoment.Format("2006-01-02"))
	}

	event := &models.NormalizedEvent{
		Title:       *payload.Title,
		Start:       start,
		End:         end,
		Location:    *payload.Location,
		Description: *payload.Description,
	}
	if payload.OnlineLink != nil {
		event.OnlineLink = *payload.OnlineLink
	}
	if payload.OnlinePassword != nil {
		event.OnlinePassword = *payload.OnlinePassword
	}

	return event, nil
}

// RepairDate corrects the known failure modes of the upstream extractor
// around the day-of-month field, best effort.
//
// A string already in YYYY-M(M)-D(D) HH:MM form is returned unchanged.
// Otherwise the day is collapsed to "01" when it is non-numeric, zero,
// or greater than 31, and month and day are zero-padded. Anything that
// matches neither pattern is returned as-is; validation happens later.
//
// Days in the 1-31 range are never second-guessed even when wrong. This
// is a narrow repair heuristic, not general date validation.
func RepairDate(dateStr string) string {
	if validDateTime.MatchString(dateStr) {
		return dateStr
	}

	parts := strings.SplitN(dateStr, " ", 2)
	if len(parts) != 2 {
		return dateStr
	}
	datePart, timePart := parts[0], parts[1]

	dateParts := strings.Split(datePart, "-")
	if len(dateParts) != 3 {
		return dateStr
	}
	year, month, day := dateParts[0], dateParts[1], dateParts[2]

	if n, err := strconv.Atoi(day); err != nil || n > 31 || n <= 0 {
		day = "01"
	}

	return fmt.Sprintf("%s-%s-%s %s", year, zeroPad(month), zeroPad(day), timePart)
}

func zeroPad(s string) string {
	if len(s) < 2 {
		return "0" + s
	}
	return s
}
