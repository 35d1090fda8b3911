package analysis

import (
	"strings"

	apperrors "github.com/gitfolio/portfolio-analyzer/internal/errors"
)

// ExtractUsername pulls an account name out of free-form input: a bare
// handle, or a profile URL with optional scheme and trailing slash.
// When the input looks like a URL, only the first path segment after
// the host is used, so "https://github.com/user/repo" yields "user".
func ExtractUsername(input string) (string, error) {
	s := strings.TrimSpace(input)
	if s == "" {
		return "", apperrors.NewValidationError("username cannot be empty")
	}

	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+len("://"):]
	}
	s = strings.TrimPrefix(s, "www.")
	s = strings.Trim(s, "/")

	parts := strings.Split(s, "/")
	if strings.Contains(parts[0], ".") {
		// Host component, not a handle.
		parts = parts[1:]
	}

	if len(parts) == 0 || parts[0] == "" {
		return "", apperrors.NewValidationError("could not extract a username from input", input)
	}
	return parts[0], nil
}
