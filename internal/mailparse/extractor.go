package mailparse

import (
	"strings"

	"github.com/Conan-Wen/track-job-hackathon-0302/internal/models"
)

const textPlain = "text/plain"

// ExtractPlainText walks an email's MIME tree and returns its best
// plain-text rendition.
//
// Multipart containers are scanned one level deep, in order; the first
// text/plain part with body data wins and parts that are themselves
// containers are not expanded. Malformed input never faults the
// extraction: undecodable body data and missing bodies yield an empty
// string, and invalid UTF-8 is replaced rather than rejected.
func ExtractPlainText(root *models.MimePart) string {
	if root == nil {
		return ""
	}

	if strings.HasPrefix(root.MimeType, "multipart") {
		for _, part := range root.Parts {
			if part == nil {
				continue
			}
			if part.MimeType == textPlain && part.BodyData != "" {
				return decodeBody(part.BodyData)
			}
		}
		return ""
	}

	if root.BodyData == "" {
		return ""
	}
	return decodeBody(root.BodyData)
}

func decodeBody(data string) string {
	decoded, err := DecodeBase64URL(data)
	if err != nil {
		return ""
	}
	return strings.ToValidUTF8(string(decoded), "�")
}
