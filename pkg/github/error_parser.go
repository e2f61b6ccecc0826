package github

import (
	"context"
	"errors"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	gh "github.com/google/go-github/v50/github"
)

var (
	// Regular expressions for classifying transport level error text
	rateLimitRegex   = regexp.MustCompile(`(?i)(rate limit|API rate limit exceeded|You have exceeded a secondary rate limit)`)
	notFoundRegex    = regexp.MustCompile(`(?i)(not found|could not resolve to)`)
	authRegex        = regexp.MustCompile(`(?i)(authentication|unauthorized|bad credentials|requires authentication)`)
	networkRegex     = regexp.MustCompile(`(?i)(timeout|connection refused|connection reset|network|dial tcp|no such host|EOF)`)
	serverErrorRegex = regexp.MustCompile(`(?i)(internal server error|server error|502|503|504)`)
	httpStatusRegex  = regexp.MustCompile(`HTTP (\d{3})`)
	retryAfterRegex  = regexp.MustCompile(`(?i)retry.?after:\s*(\d+)`)
)

// ParseErrorText classifies an error from its text alone. It is the fallback
// for failures that never produced an HTTP response (dial errors, TLS, proxies).
func ParseErrorText(errOutput string, err error) *GitHubError {
	ghErr := &GitHubError{
		Message:     strings.TrimSpace(errOutput),
		OriginalErr: err,
	}

	// Extract HTTP status code if present
	if matches := httpStatusRegex.FindStringSubmatch(errOutput); len(matches) > 1 {
		if statusCode, err := strconv.Atoi(matches[1]); err == nil {
			ghErr.StatusCode = statusCode
		}
	}

	switch {
	case rateLimitRegex.MatchString(errOutput):
		ghErr.Type = ErrorTypeRateLimit
		if ghErr.StatusCode == 0 {
			ghErr.StatusCode = http.StatusTooManyRequests
		}
		if matches := retryAfterRegex.FindStringSubmatch(errOutput); len(matches) > 1 {
			if seconds, err := strconv.Atoi(matches[1]); err == nil {
				ghErr.RetryAfter = time.Duration(seconds) * time.Second
			}
		}

	case authRegex.MatchString(errOutput):
		ghErr.Type = ErrorTypeAuthentication
		if ghErr.StatusCode == 0 {
			ghErr.StatusCode = http.StatusUnauthorized
		}

	case notFoundRegex.MatchString(errOutput):
		ghErr.Type = ErrorTypeNotFound
		if ghErr.StatusCode == 0 {
			ghErr.StatusCode = http.StatusNotFound
		}

	case networkRegex.MatchString(errOutput):
		ghErr.Type = ErrorTypeNetworkTimeout

	case serverErrorRegex.MatchString(errOutput):
		ghErr.Type = ErrorTypeServerError
		if ghErr.StatusCode == 0 {
			switch {
			case strings.Contains(errOutput, "502"):
				ghErr.StatusCode = http.StatusBadGateway
			case strings.Contains(errOutput, "503"):
				ghErr.StatusCode = http.StatusServiceUnavailable
			case strings.Contains(errOutput, "504"):
				ghErr.StatusCode = http.StatusGatewayTimeout
			default:
				ghErr.StatusCode = http.StatusInternalServerError
			}
		}

	default:
		ghErr.Type = ErrorTypeUnknown
		if ghErr.StatusCode >= 500 && ghErr.StatusCode < 600 {
			ghErr.Type = ErrorTypeServerError
		}
	}

	return ghErr
}

// typeForStatus maps an HTTP status code onto an error type.
func typeForStatus(status int) GitHubErrorType {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return ErrorTypeAuthentication
	case status == http.StatusNotFound || status == http.StatusGone:
		return ErrorTypeNotFound
	case status == http.StatusUnprocessableEntity || status == http.StatusBadRequest:
		return ErrorTypeValidation
	case status == http.StatusTooManyRequests:
		return ErrorTypeRateLimit
	case status >= 500:
		return ErrorTypeServerError
	default:
		return ErrorTypeUnknown
	}
}

// ClassifyError turns any error coming out of the request layer into a
// *GitHubError. Context cancellation is returned unchanged.
func ClassifyError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrFormatMismatch) {
		return err
	}

	// If it's already a GitHubError, return as is
	var ghErr *GitHubError
	if errors.As(err, &ghErr) {
		return err
	}

	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		out := &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  http.StatusForbidden,
			Message:     rateErr.Message,
			RetryAfter:  time.Until(rateErr.Rate.Reset.Time),
			OriginalErr: err,
		}
		if rateErr.Response != nil {
			out.StatusCode = rateErr.Response.StatusCode
			fillRequest(out, rateErr.Response)
		}
		if out.RetryAfter < 0 {
			out.RetryAfter = 0
		}
		return out
	}

	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		out := &GitHubError{
			Type:        ErrorTypeRateLimit,
			StatusCode:  http.StatusForbidden,
			Message:     abuseErr.Message,
			OriginalErr: err,
		}
		if abuseErr.RetryAfter != nil {
			out.RetryAfter = *abuseErr.RetryAfter
		}
		if abuseErr.Response != nil {
			out.StatusCode = abuseErr.Response.StatusCode
			fillRequest(out, abuseErr.Response)
		}
		return out
	}

	var respErr *gh.ErrorResponse
	if errors.As(err, &respErr) && respErr.Response != nil {
		out := &GitHubError{
			Type:             typeForStatus(respErr.Response.StatusCode),
			StatusCode:       respErr.Response.StatusCode,
			Message:          respErr.Message,
			DocumentationURL: respErr.DocumentationURL,
			OriginalErr:      err,
		}
		for _, e := range respErr.Errors {
			out.Errors = append(out.Errors, FieldError{
				Resource: e.Resource,
				Field:    e.Field,
				Code:     e.Code,
				Message:  e.Message,
			})
		}
		if out.Message == "" {
			out.Message = http.StatusText(out.StatusCode)
		}
		if v := respErr.Response.Header.Get("Retry-After"); v != "" {
			if seconds, err := strconv.Atoi(v); err == nil {
				out.RetryAfter = time.Duration(seconds) * time.Second
			}
		}
		fillRequest(out, respErr.Response)
		return out
	}

	return ParseErrorText(err.Error(), err)
}

func fillRequest(e *GitHubError, resp *http.Response) {
	if resp == nil || resp.Request == nil {
		return
	}
	e.Method = resp.Request.Method
	if resp.Request.URL != nil {
		e.URL = resp.Request.URL.Path
	}
}

// WrapWithRetryInfo wraps an error with retry information
func WrapWithRetryInfo(err error, retryAfter time.Duration) error {
	if err == nil {
		return nil
	}

	var ghErr *GitHubError
	if !errors.As(err, &ghErr) {
		ghErr = &GitHubError{
			Type:        ErrorTypeUnknown,
			Message:     err.Error(),
			OriginalErr: err,
		}
	}

	ghErr.RetryAfter = retryAfter
	return ghErr
}
