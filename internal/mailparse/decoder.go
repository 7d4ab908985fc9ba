package mailparse

import (
	"encoding/base64"
	"fmt"
	"strings"
)

// DecodeBase64URL decodes the URL-safe base64 variant used by mail
// providers for message body payloads. The input uses '-'/'_' in place
// of '+'/'/' and its '=' padding may be truncated.
func DecodeBase64URL(encoded string) ([]byte, error) {
	data := strings.ReplaceAll(encoded, "-", "+")
	data = strings.ReplaceAll(data, "_", "/")

	if missing := len(data) % 4; missing != 0 {
		data += strings.Repeat("=", 4-missing)
	}

	decoded, err := base64.StdEncoding.DecodeString(data)
	if err != nil {
		return nil, fmt.Errorf("invalid transport encoding: %w", err)
	}

	return decoded, nil
}
