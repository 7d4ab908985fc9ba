package calendar

import (
	"net/url"
	"strings"
	"time"

	ics "github.com/arran4/golang-ical"
	"github.com/google/uuid"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

const (
	deepLinkBase  = "https://calendar.google.com/calendar/render"
	compactLayout = "20060102T150405"

	onlineLinkLabel     = "オンライン会議リンク: "
	onlinePasswordLabel = "オンライン会議パスコード: "
)

// Builder turns normalized events into calendar artifacts. All event
// times are read against a single fixed location; there is no per-event
// timezone.
type Builder struct {
	loc    *time.Location
	tzName string
	now    func() time.Time
}

// NewBuilder creates a Builder interpreting event wall-clock times in
// loc. tzName is the IANA name advertised in the deep link (e.g.
// "Asia/Tokyo").
func NewBuilder(loc *time.Location, tzName string) *Builder {
	return &Builder{
		loc:    loc,
		tzName: tzName,
		now:    time.Now,
	}
}

// Build produces the iCalendar document and Google Calendar deep link
// for one event. Both representations describe the same wall-clock
// start/end and location; only the document's description carries the
// online-meeting suffix.
func (b *Builder) Build(event *models.NormalizedEvent) *models.CalendarArtifact {
	uid := strings.ReplaceAll(uuid.New().String(), "-", "")

	start := b.toInstant(event.Start)
	end := b.toInstant(event.End)

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)

	icsEvent := cal.AddEvent(uid)
	icsEvent.SetDtStampTime(b.now())
	icsEvent.SetStartAt(start)
	icsEvent.SetEndAt(end)
	icsEvent.SetSummary(event.Title)
	icsEvent.SetLocation(event.Location)
	icsEvent.SetDescription(composeDescription(event))

	return &models.CalendarArtifact{
		UID:               uid,
		Document:          []byte(cal.Serialize()),
		DeepLinkURL:       b.deepLink(event),
		SuggestedFileName: uid + ".ics",
	}
}

// toInstant reinterprets a naive wall-clock value in the builder's
// fixed location.
func (b *Builder) toInstant(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), 0, 0, b.loc)
}

// composeDescription appends the online meeting link and passcode to
// the event description. The link comes first and the passcode is only
// appended when a link is present.
func composeDescription(event *models.NormalizedEvent) string {
	desc := event.Description
	if event.OnlineLink == "" {
		return desc
	}

	desc += "\n" + onlineLinkLabel + event.OnlineLink
	if event.OnlinePassword != "" {
		desc += "\n" + onlinePasswordLabel + event.OnlinePassword
	}
	return desc
}

// deepLink renders the Google Calendar event-creation URL. The dates
// parameter carries local wall-clock values, not UTC, so the ctz
// parameter must identify the source timezone. details deliberately
// stays the bare description without the online-meeting suffix.
func (b *Builder) deepLink(event *models.NormalizedEvent) string {
	q := url.Values{}
	q.Set("action", "TEMPLATE")
	q.Set("text", event.Title)
	q.Set("dates", event.Start.Format(compactLayout)+"/"+event.End.Format(compactLayout))
	q.Set("location", event.Location)
	q.Set("details", event.Description)
	q.Set("ctz", b.tzName)

	return deepLinkBase + "?" + q.Encode()
}
