package imap

import (
	"bytes"
	"strings"
	"testing"

	goimap "github.com/emersion/go-imap"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/mailparse"
)

func messageWithBody(t *testing.T, raw string) *goimap.Message {
	t.Helper()
	section := &goimap.BodySectionName{}
	return &goimap.Message{
		Body: map[*goimap.BodySectionName]goimap.Literal{
			section: bytes.NewBufferString(raw),
		},
	}
}

func TestParseMessage(t *testing.T) {
	raw := "From: Recruit <recruit@example.co.jp>\r\n" +
		"To: me@example.com\r\n" +
		"Subject: =?UTF-8?B?6Kqs5piO5Lya44Gu44GU5qGI5YaF?=\r\n" +
		"Date: Sun, 01 Jun 2025 09:00:00 +0900\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"Seminar on June 1 at 9am in Tokyo.\r\n"

	email, err := parseMessage(42, messageWithBody(t, raw))
	if err != nil {
		t.Fatalf("parseMessage() returned error: %v", err)
	}

	if email.ID != "42" {
		t.Errorf("ID = %q", email.ID)
	}
	if email.Subject != "説明会のご案内" {
		t.Errorf("Subject = %q", email.Subject)
	}
	if email.Sender != "recruit@example.co.jp" {
		t.Errorf("Sender = %q", email.Sender)
	}
	if email.TraceID == "" {
		t.Error("TraceID should be assigned")
	}

	// The payload must round-trip through the shared decode path.
	body := mailparse.ExtractPlainText(email.Payload)
	if !strings.Contains(body, "Seminar on June 1 at 9am in Tokyo.") {
		t.Errorf("extracted body = %q", body)
	}
	if !strings.Contains(email.Snippet, "Seminar") {
		t.Errorf("Snippet = %q", email.Snippet)
	}
}

func TestParseMessage_NoBodySection(t *testing.T) {
	if _, err := parseMessage(1, &goimap.Message{}); err == nil {
		t.Error("parseMessage() should fail when the body section is missing")
	}
}

func TestSnippet(t *testing.T) {
	short := "short body"
	if got := snippet(short); got != short {
		t.Errorf("snippet(%q) = %q", short, got)
	}

	long := strings.Repeat("あ", 200)
	got := snippet(long)
	if len([]rune(got)) != snippetRunes+3 {
		t.Errorf("snippet length = %d runes", len([]rune(got)))
	}
	if !strings.HasSuffix(got, "...") {
		t.Errorf("snippet should be truncated with ellipsis: %q", got)
	}
}
