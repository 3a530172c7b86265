package service

import (
	"encoding/json"
	"fmt"
	"strings"

	"finsight/internal/models"
)

// ParseExtraction decodes a raw model response into an ExtractionResult.
// Models routinely wrap their JSON in a markdown code fence despite being
// told not to; the fence (with an optional language tag) is stripped before
// decoding. Anything that still fails to decode is reported as
// ErrMalformedOutput without any best-effort JSON repair, so this stays the
// single place where oracle output is distrusted.
func ParseExtraction(raw string) (*models.ExtractionResult, error) {
	clean := stripCodeFence(raw)

	var result models.ExtractionResult
	if err := json.Unmarshal([]byte(clean), &result); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	return &result, nil
}

// stripCodeFence removes a ```-style wrapper if the text starts with one.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag right after the fence, e.g. ```json.
	s = strings.TrimPrefix(s, "json")
	if idx := strings.Index(s, "```"); idx != -1 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
