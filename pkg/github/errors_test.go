package github

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGitHubErrorType_String(t *testing.T) {
	tests := []struct {
		errType  GitHubErrorType
		expected string
	}{
		{ErrorTypeRateLimit, "RateLimit"},
		{ErrorTypeNetworkTimeout, "NetworkTimeout"},
		{ErrorTypeAuthentication, "Authentication"},
		{ErrorTypeNotFound, "NotFound"},
		{ErrorTypeServerError, "ServerError"},
		{ErrorTypeValidation, "Validation"},
		{ErrorTypeUnknown, "Unknown"},
		{GitHubErrorType(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.errType.String())
		})
	}
}

func TestGitHubError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *GitHubError
		expected string
	}{
		{
			name: "with request",
			err: &GitHubError{
				Type:       ErrorTypeNotFound,
				StatusCode: 404,
				Method:     "GET",
				URL:        "/repos/o/r",
				Message:    "Not Found",
			},
			expected: "GitHub API error [NotFound] 404 GET /repos/o/r: Not Found",
		},
		{
			name: "with field errors",
			err: &GitHubError{
				Type:       ErrorTypeValidation,
				StatusCode: 422,
				Message:    "Validation Failed",
				Errors: []FieldError{
					{Message: "name is too long"},
					{Resource: "Label", Field: "color", Code: "invalid"},
				},
			},
			expected: "GitHub API error [Validation] 422: Validation Failed; name is too long; Label.color invalid",
		},
		{
			name: "without status shows original",
			err: &GitHubError{
				Type:        ErrorTypeNetworkTimeout,
				Message:     "i/o timeout",
				OriginalErr: errors.New("dial tcp"),
			},
			expected: "GitHub API error [NetworkTimeout]: i/o timeout (original: dial tcp)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestGitHubError_Unwrap(t *testing.T) {
	orig := errors.New("original")
	err := &GitHubError{Type: ErrorTypeUnknown, OriginalErr: orig}
	assert.True(t, errors.Is(err, orig))
}

func TestGitHubError_IsRetryable(t *testing.T) {
	retryable := map[GitHubErrorType]bool{
		ErrorTypeRateLimit:      true,
		ErrorTypeNetworkTimeout: true,
		ErrorTypeServerError:    true,
		ErrorTypeAuthentication: false,
		ErrorTypeNotFound:       false,
		ErrorTypeValidation:     false,
		ErrorTypeUnknown:        false,
	}

	for typ, want := range retryable {
		t.Run(typ.String(), func(t *testing.T) {
			assert.Equal(t, want, (&GitHubError{Type: typ}).IsRetryable())
		})
	}
}

func TestErrorPredicates(t *testing.T) {
	wrapped := fmt.Errorf("listing labels: %w", &GitHubError{Type: ErrorTypeNotFound})

	assert.True(t, IsNotFoundError(wrapped))
	assert.False(t, IsRateLimitError(wrapped))
	assert.False(t, IsAuthenticationError(wrapped))
	assert.False(t, IsValidationError(wrapped))
	assert.False(t, IsNotFoundError(errors.New("plain")))
	assert.False(t, IsNotFoundError(nil))

	assert.True(t, IsRateLimitError(&GitHubError{Type: ErrorTypeRateLimit}))
	assert.True(t, IsAuthenticationError(&GitHubError{Type: ErrorTypeAuthentication}))
	assert.True(t, IsValidationError(requiredArg("owner")))
}
