package domain

import (
	"encoding/base64"
	"net/http"
	"strings"
)

// DecodeImage decodes a base64 image, with or without a data URL header, and
// reports its content type.
func DecodeImage(encoded string) ([]byte, string, error) {
	contentType := ""
	payload := strings.TrimSpace(encoded)
	if strings.HasPrefix(payload, "data:") {
		header, rest, ok := strings.Cut(payload, ",")
		if !ok || !strings.HasSuffix(header, ";base64") {
			return nil, "", NewValidationError("image", "malformed data URL")
		}
		contentType = strings.TrimSuffix(strings.TrimPrefix(header, "data:"), ";base64")
		payload = rest
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, "", NewValidationError("image", "not valid base64")
	}
	if len(data) == 0 {
		return nil, "", NewValidationError("image", "is empty")
	}
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, "", NewValidationError("image", "must be an image")
	}
	return data, contentType, nil
}
