package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/gitfolio/portfolio-analyzer/internal/errors"
)

func TestExtractUsername(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"bare username", "torvalds", "torvalds"},
		{"surrounding whitespace", "  torvalds  ", "torvalds"},
		{"profile url", "https://github.com/torvalds", "torvalds"},
		{"profile url with trailing slash", "https://github.com/torvalds/", "torvalds"},
		{"repository url yields owner", "https://github.com/torvalds/linux", "torvalds"},
		{"schemeless url", "github.com/torvalds", "torvalds"},
		{"www prefix", "https://www.github.com/torvalds", "torvalds"},
		{"http scheme", "http://github.com/torvalds", "torvalds"},
		{"other host", "https://example-host.com/someuser/", "someuser"},
		{"username with dash", "some-user", "some-user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractUsername(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractUsernameErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty input", ""},
		{"whitespace only", "   "},
		{"host without path", "https://github.com/"},
		{"bare host", "github.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ExtractUsername(tt.input)
			require.Error(t, err)

			appErr := apperrors.ToAppError(err)
			assert.Equal(t, apperrors.CategoryValidation, appErr.Category)
		})
	}
}
