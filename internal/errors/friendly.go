package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a UserFriendlyError so callers can branch with errors.Is.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidArgument
	KindRemoteFetchFailed
	KindConfig
	KindPath
	KindDatabase
)

func (k Kind) String() string {
	switch k {
	case KindInvalidArgument:
		return "invalid_argument"
	case KindRemoteFetchFailed:
		return "remote_fetch_failed"
	case KindConfig:
		return "config"
	case KindPath:
		return "path"
	case KindDatabase:
		return "database"
	default:
		return "unknown"
	}
}

// Sentinels for errors.Is. A UserFriendlyError matches the sentinel of its Kind.
var (
	ErrInvalidArgument   = stderrors.New("invalid argument")
	ErrRemoteFetchFailed = stderrors.New("remote fetch failed")
)

// UserFriendlyError provides actionable error messages for end users
type UserFriendlyError struct {
	Kind       Kind
	Message    string // User-facing message explaining what went wrong
	Suggestion string // Actionable steps to fix the issue
	DocsLink   string // Optional link to documentation
	Details    error  // Original error for debugging/logs
}

func (e *UserFriendlyError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Message)

	if e.Suggestion != "" {
		sb.WriteString("\n\n")
		sb.WriteString("How to fix:\n")
		sb.WriteString(e.Suggestion)
	}

	if e.DocsLink != "" {
		sb.WriteString("\n\n")
		sb.WriteString("Documentation: ")
		sb.WriteString(e.DocsLink)
	}

	return sb.String()
}

func (e *UserFriendlyError) Unwrap() error {
	return e.Details
}

// Is reports whether target is the sentinel for this error's Kind.
func (e *UserFriendlyError) Is(target error) bool {
	switch target {
	case ErrInvalidArgument:
		return e.Kind == KindInvalidArgument
	case ErrRemoteFetchFailed:
		return e.Kind == KindRemoteFetchFailed
	}
	return false
}

// NewFriendlyError creates a user-friendly error
func NewFriendlyError(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{
		Message:    message,
		Suggestion: suggestion,
	}
}

// WithDetails adds the underlying error details
func (e *UserFriendlyError) WithDetails(err error) *UserFriendlyError {
	e.Details = err
	return e
}

// WithDocs adds a documentation link
func (e *UserFriendlyError) WithDocs(link string) *UserFriendlyError {
	e.DocsLink = link
	return e
}

// InvalidArgument reports a malformed caller input such as an unknown
// timestamp mode or an under-specified GitHub path.
func InvalidArgument(message, suggestion string) *UserFriendlyError {
	return &UserFriendlyError{
		Kind:       KindInvalidArgument,
		Message:    message,
		Suggestion: suggestion,
	}
}

// HTTPStatusError reports a non-200 response. The message carries both the
// status code and the requested URL.
func HTTPStatusError(url string, statusCode int) *UserFriendlyError {
	suggestion := ""
	switch statusCode {
	case 404:
		suggestion = "Check the owner, repository and file path. Scripts are read from the 'main' branch of a public repository."
	case 403, 429:
		suggestion = "GitHub is rate limiting or denying raw content requests. Wait a few minutes and try again."
	case 500, 502, 503, 504:
		suggestion = "GitHub is having trouble serving this file. Try again later."
	}
	return &UserFriendlyError{
		Kind:       KindRemoteFetchFailed,
		Message:    fmt.Sprintf("Failed to load content from GitHub: HTTP %d\nURL: %s", statusCode, url),
		Suggestion: suggestion,
	}
}

// NetworkError returns a transport failure with helpful suggestions. The
// underlying error text is always part of the message.
func NetworkError(err error) *UserFriendlyError {
	msg := "Error fetching from GitHub"
	suggestion := "Check your internet connection and try again"

	if err != nil {
		errStr := err.Error()
		msg = fmt.Sprintf("Error fetching from GitHub: %s", errStr)

		// DNS resolution failure
		if strings.Contains(errStr, "no such host") || strings.Contains(errStr, "name resolution") {
			suggestion = "1. Check your internet connection\n2. Verify DNS settings\n3. Try: ping raw.githubusercontent.com"
		}

		if strings.Contains(errStr, "connection refused") {
			suggestion = "The server refused the connection. Try again later."
		}

		if strings.Contains(errStr, "timeout") || strings.Contains(errStr, "deadline exceeded") {
			suggestion = "The request timed out. Raise network.timeout_seconds in your config or set it to 0 to wait indefinitely."
		}

		if strings.Contains(errStr, "certificate") || strings.Contains(errStr, "x509") {
			suggestion = "TLS verification failed. You may be behind a proxy that intercepts HTTPS traffic."
		}
	}

	return &UserFriendlyError{
		Kind:       KindRemoteFetchFailed,
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// BadContentError reports a fetched body that is not usable as script text.
func BadContentError(url, reason string) *UserFriendlyError {
	return &UserFriendlyError{
		Kind:       KindRemoteFetchFailed,
		Message:    fmt.Sprintf("Content from GitHub is not a text script (%s)\nURL: %s", reason, url),
		Suggestion: "Make sure the path points at a JavaScript file, not an image or archive",
	}
}

// ConfigError returns configuration-related errors
func ConfigError(field, issue string) *UserFriendlyError {
	return &UserFriendlyError{
		Kind:       KindConfig,
		Message:    fmt.Sprintf("Configuration error in field '%s': %s", field, issue),
		Suggestion: "Run 'shotscraper config validate' to check your configuration",
	}
}

// DatabaseError returns history database errors with recovery suggestions
func DatabaseError(err error) *UserFriendlyError {
	msg := "History database error"
	suggestion := "Check that general.data_root is writable"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "locked") {
			msg = "History database is locked by another process"
			suggestion = "Wait for other shotscraper commands to finish and try again"
		}

		if strings.Contains(errStr, "corrupt") || strings.Contains(errStr, "malformed") {
			msg = "History database is corrupted"
			suggestion = "Move <data_root>/state.db aside; a fresh one is created on the next run"
		}
	}

	return &UserFriendlyError{
		Kind:       KindDatabase,
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// PathError returns file/directory path related errors
func PathError(path string, err error) *UserFriendlyError {
	msg := fmt.Sprintf("Path error: %s", path)
	suggestion := "Check that the path exists and you have permission to access it"

	if err != nil {
		errStr := err.Error()

		if strings.Contains(errStr, "permission denied") {
			msg = fmt.Sprintf("Permission denied: %s", path)
			suggestion = fmt.Sprintf("Ensure you have write permission:\n  chmod u+w %s", path)
		}

		if strings.Contains(errStr, "not a directory") {
			msg = fmt.Sprintf("Path exists but is not a directory: %s", path)
			suggestion = "Remove the file or choose a different path"
		}
	}

	return &UserFriendlyError{
		Kind:       KindPath,
		Message:    msg,
		Suggestion: suggestion,
		Details:    err,
	}
}

// KindOf returns the Kind of err if it wraps a UserFriendlyError.
func KindOf(err error) Kind {
	var fe *UserFriendlyError
	if stderrors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
