package base64

import (
	"encoding/base64"
	"fmt"
	"strings"
)

const payloadMarker = ";base64,"

func GetContentType(file string) string {
	start := len("data:")
	end := strings.Index(file, payloadMarker)

	if end == -1 || end < start {
		return ""
	}

	return file[start:end]
}

// Decode returns the raw bytes of a data URI, tolerating a bare base64
// payload without the data: prefix.
func Decode(file string) ([]byte, error) {
	payload := file
	if idx := strings.Index(file, payloadMarker); idx != -1 {
		payload = file[idx+len(payloadMarker):]
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to decode base64 payload: %w", err)
	}

	return data, nil
}
