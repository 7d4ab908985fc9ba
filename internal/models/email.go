package models

// MimePart is one node of an email's MIME tree as delivered by the mail
// provider: either a leaf carrying transport-encoded body data or a
// container of ordered sub-parts.
type MimePart struct {
	MimeType string
	// BodyData is base64url-encoded, possibly with truncated padding.
	BodyData string
	Parts    []*MimePart
}

// RawEmail represents a provider-supplied message before any processing.
type RawEmail struct {
	ID           string
	Subject      string
	Sender       string
	ReceivedDate string
	Snippet      string
	Payload      *MimePart
	TraceID      string
}
