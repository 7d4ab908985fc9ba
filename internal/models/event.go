package models

import "time"

// NormalizedEvent is a validated event record extracted from an email.
// Start and End are wall-clock values with no timezone attached; the
// clock they are read against is fixed by the calendar builder.
type NormalizedEvent struct {
	Title          string
	Start          time.Time
	End            time.Time
	Location       string
	Description    string
	OnlineLink     string
	OnlinePassword string
}

// CalendarArtifact is the derived output for one event: an iCalendar
// document plus a Google Calendar deep link describing the same
// wall-clock start/end and location.
type CalendarArtifact struct {
	UID               string
	Document          []byte
	DeepLinkURL       string
	SuggestedFileName string
}
