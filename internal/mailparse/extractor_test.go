package mailparse

import (
	"encoding/base64"
	"testing"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

func encode(s string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(s))
}

func TestExtractPlainText(t *testing.T) {
	tests := []struct {
		name     string
		root     *models.MimePart
		expected string
	}{
		{
			name:     "Nil payload",
			root:     nil,
			expected: "",
		},
		{
			name: "Single part with body",
			root: &models.MimePart{
				MimeType: "text/plain",
				BodyData: encode("Meeting Friday 3pm"),
			},
			expected: "Meeting Friday 3pm",
		},
		{
			name: "Single part without body",
			root: &models.MimePart{
				MimeType: "text/plain",
			},
			expected: "",
		},
		{
			name: "Multipart returns first text/plain part",
			root: &models.MimePart{
				MimeType: "multipart/alternative",
				Parts: []*models.MimePart{
					{MimeType: "text/html", BodyData: encode("<p>html</p>")},
					{MimeType: "text/plain", BodyData: encode("first")},
					{MimeType: "text/plain", BodyData: encode("second")},
				},
			},
			expected: "first",
		},
		{
			name: "Multipart skips plain part with missing body",
			root: &models.MimePart{
				MimeType: "multipart/mixed",
				Parts: []*models.MimePart{
					{MimeType: "text/plain"},
					{MimeType: "text/plain", BodyData: encode("late but present")},
				},
			},
			expected: "late but present",
		},
		{
			name: "Multipart without any plain part",
			root: &models.MimePart{
				MimeType: "multipart/mixed",
				Parts: []*models.MimePart{
					{MimeType: "text/html", BodyData: encode("<p>html</p>")},
					{MimeType: "application/pdf", BodyData: encode("%PDF")},
				},
			},
			expected: "",
		},
		{
			name: "Nested multipart is not expanded",
			root: &models.MimePart{
				MimeType: "multipart/mixed",
				Parts: []*models.MimePart{
					{
						MimeType: "multipart/alternative",
						Parts: []*models.MimePart{
							{MimeType: "text/plain", BodyData: encode("buried")},
						},
					},
				},
			},
			expected: "",
		},
		{
			name: "Multipart with no parts",
			root: &models.MimePart{
				MimeType: "multipart/mixed",
			},
			expected: "",
		},
		{
			name: "Japanese body",
			root: &models.MimePart{
				MimeType: "text/plain",
				BodyData: encode("説明会は6月1日です"),
			},
			expected: "説明会は6月1日です",
		},
		{
			name: "Undecodable body degrades to empty",
			root: &models.MimePart{
				MimeType: "text/plain",
				BodyData: "not!!valid##base64",
			},
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractPlainText(tt.root)
			if got != tt.expected {
				t.Errorf("ExtractPlainText() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestExtractPlainText_InvalidUTF8(t *testing.T) {
	raw := []byte{'o', 'k', 0xff, 0xfe, '!'}
	root := &models.MimePart{
		MimeType: "text/plain",
		BodyData: base64.RawURLEncoding.EncodeToString(raw),
	}

	got := ExtractPlainText(root)
	if got != "ok�!" {
		t.Errorf("ExtractPlainText() = %q, want invalid bytes replaced", got)
	}
}
