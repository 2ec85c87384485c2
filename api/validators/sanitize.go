package validators

import "strings"

// SanitizeString trims whitespace and caps free-text input before it is
// persisted onto an order snapshot.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}
