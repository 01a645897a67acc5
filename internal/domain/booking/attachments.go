package booking

import (
	"encoding/json"
	"fmt"
	"strings"
)

// NormalizeAttachments trims identifiers and drops empty ones, keeping
// order. The result is never nil so it always encodes as a JSON array.
func NormalizeAttachments(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}

// ParseAttachmentList accepts either a JSON array of strings or a
// comma-joined list, as sent by multipart forms.
func ParseAttachmentList(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return []string{}, nil
	}

	if strings.HasPrefix(raw, "[") {
		var ids []string
		if err := json.Unmarshal([]byte(raw), &ids); err != nil {
			return nil, fmt.Errorf("attachment list: %w", err)
		}
		return NormalizeAttachments(ids), nil
	}

	return NormalizeAttachments(strings.Split(raw, ",")), nil
}
