package validators

import "strings"

// SanitizeString trims surrounding whitespace and clamps free-text input to
// maxLen bytes. A maxLen of zero disables clamping.
func SanitizeString(input string, maxLen int) string {
	trimmed := strings.TrimSpace(input)
	if maxLen > 0 && len(trimmed) > maxLen {
		return trimmed[:maxLen]
	}
	return trimmed
}

// SanitizeStringPtr applies SanitizeString to optional fields, mapping a
// whitespace-only value to nil.
func SanitizeStringPtr(input *string, maxLen int) *string {
	if input == nil {
		return nil
	}
	cleaned := SanitizeString(*input, maxLen)
	if cleaned == "" {
		return nil
	}
	return &cleaned
}
