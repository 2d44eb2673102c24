package errors

import (
	"strings"
	"unicode"
)

// MaxDashboardNameLength bounds dashboard names accepted from users.
const MaxDashboardNameLength = 128

// ValidateDashboardName validates a user-supplied dashboard name.
//
// The validation rules are intentionally conservative:
//   - No empty or whitespace-only names
//   - No control characters
//   - Maximum length of MaxDashboardNameLength runes
func ValidateDashboardName(name string) error {
	if strings.TrimSpace(name) == "" {
		return New(ErrCodeInvalidInput, "dashboard name cannot be empty")
	}

	if len([]rune(name)) > MaxDashboardNameLength {
		return New(ErrCodeInvalidInput, "dashboard name too long (max %d characters)", MaxDashboardNameLength)
	}

	for _, r := range name {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "dashboard name contains invalid control characters")
		}
	}

	return nil
}

// ValidateTheme checks that theme is one of light, dark or system.
func ValidateTheme(theme string) error {
	switch theme {
	case "light", "dark", "system":
		return nil
	}
	return New(ErrCodeInvalidTheme, "invalid theme: %q (want light, dark or system)", theme)
}

// ValidateGrid checks grid dimensions. Both must be positive.
func ValidateGrid(cols, rows int) error {
	if cols < 1 || rows < 1 {
		return New(ErrCodeInvalidLayout, "grid must be at least 1x1, got %dx%d", cols, rows)
	}
	return nil
}

// ValidateURL validates a URL string for safety.
// It ensures the URL has a safe scheme (http or https).
func ValidateURL(rawURL string) error {
	if rawURL == "" {
		return New(ErrCodeInvalidInput, "URL cannot be empty")
	}

	if !strings.HasPrefix(rawURL, "http://") && !strings.HasPrefix(rawURL, "https://") {
		return New(ErrCodeInvalidInput, "URL must use http or https scheme")
	}

	return nil
}
