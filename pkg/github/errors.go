package github

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrFormatMismatch is returned when the destination value passed to a
// request does not fit the requested response format.
var ErrFormatMismatch = errors.New("destination does not match response format")

// GitHubErrorType represents the type of GitHub API error
type GitHubErrorType int

const (
	// ErrorTypeRateLimit indicates rate limit exceeded
	ErrorTypeRateLimit GitHubErrorType = iota
	// ErrorTypeNetworkTimeout indicates network timeout
	ErrorTypeNetworkTimeout
	// ErrorTypeAuthentication indicates authentication or permission failure
	ErrorTypeAuthentication
	// ErrorTypeNotFound indicates resource not found
	ErrorTypeNotFound
	// ErrorTypeServerError indicates server error (5xx)
	ErrorTypeServerError
	// ErrorTypeValidation indicates a rejected request (422) or invalid arguments
	ErrorTypeValidation
	// ErrorTypeUnknown indicates unknown error type
	ErrorTypeUnknown
)

// String returns the string representation of the error type
func (t GitHubErrorType) String() string {
	switch t {
	case ErrorTypeRateLimit:
		return "RateLimit"
	case ErrorTypeNetworkTimeout:
		return "NetworkTimeout"
	case ErrorTypeAuthentication:
		return "Authentication"
	case ErrorTypeNotFound:
		return "NotFound"
	case ErrorTypeServerError:
		return "ServerError"
	case ErrorTypeValidation:
		return "Validation"
	default:
		return "Unknown"
	}
}

// FieldError is one entry of the "errors" array in a GitHub error body.
type FieldError struct {
	Resource string `json:"resource,omitempty"`
	Field    string `json:"field,omitempty"`
	Code     string `json:"code,omitempty"`
	Message  string `json:"message,omitempty"`
}

// GitHubError represents a structured GitHub API error
type GitHubError struct {
	Type             GitHubErrorType
	StatusCode       int
	Method           string
	URL              string
	Message          string
	DocumentationURL string
	Errors           []FieldError
	RetryAfter       time.Duration
	OriginalErr      error
}

// Error implements the error interface
func (e *GitHubError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "GitHub API error [%s]", e.Type)
	if e.StatusCode != 0 {
		fmt.Fprintf(&b, " %d", e.StatusCode)
	}
	if e.Method != "" {
		fmt.Fprintf(&b, " %s %s", e.Method, e.URL)
	}
	fmt.Fprintf(&b, ": %s", e.Message)
	for _, fe := range e.Errors {
		if fe.Message != "" {
			fmt.Fprintf(&b, "; %s", fe.Message)
		} else {
			fmt.Fprintf(&b, "; %s.%s %s", fe.Resource, fe.Field, fe.Code)
		}
	}
	if e.OriginalErr != nil && e.StatusCode == 0 {
		fmt.Fprintf(&b, " (original: %v)", e.OriginalErr)
	}
	return b.String()
}

// Unwrap returns the original error
func (e *GitHubError) Unwrap() error {
	return e.OriginalErr
}

// IsRetryable returns true if the error is retryable
func (e *GitHubError) IsRetryable() bool {
	switch e.Type {
	case ErrorTypeRateLimit, ErrorTypeNetworkTimeout, ErrorTypeServerError:
		return true
	default:
		return false
	}
}

func isErrorType(err error, t GitHubErrorType) bool {
	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return ghErr.Type == t
	}
	return false
}

// IsRateLimitError checks if the error is a rate limit error
func IsRateLimitError(err error) bool {
	return isErrorType(err, ErrorTypeRateLimit)
}

// IsNotFoundError checks if the error is a not found error
func IsNotFoundError(err error) bool {
	return isErrorType(err, ErrorTypeNotFound)
}

// IsAuthenticationError checks if the error is an authentication error
func IsAuthenticationError(err error) bool {
	return isErrorType(err, ErrorTypeAuthentication)
}

// IsValidationError checks if the error is a validation error
func IsValidationError(err error) bool {
	return isErrorType(err, ErrorTypeValidation)
}

// requiredArg builds the validation error returned before any request is sent.
func requiredArg(name string) error {
	return &GitHubError{
		Type:    ErrorTypeValidation,
		Message: name + " is required",
	}
}
