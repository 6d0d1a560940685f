// Package failure defines the error kinds surfaced to the user of an evaluation run.
package failure

import (
	"errors"
	"fmt"
)

// Kind identifies a user-facing failure category.
type Kind string

const (
	KindInvalidHandle         Kind = "invalid_handle"
	KindProfileNotFound       Kind = "profile_not_found"
	KindRateLimited           Kind = "rate_limited"
	KindServiceUnavailable    Kind = "service_unavailable"
	KindRepositoryFetchFailed Kind = "repository_fetch_failed"
	KindMissingCredential     Kind = "missing_credential"
	KindEmptyResponse         Kind = "empty_response"
	KindMalformedEvaluation   Kind = "malformed_evaluation"
	KindEvaluationUnavailable Kind = "evaluation_unavailable"
	KindUnknown               Kind = "unknown"
)

const auditFormatMessage = "Portfolio audit failed. The AI response was not in the expected format."

var messages = map[Kind]string{
	KindInvalidHandle:         "Enter a GitHub username or profile URL.",
	KindProfileNotFound:       "This GitHub profile does not exist. Check the spelling.",
	KindRateLimited:           "GitHub API rate limit exceeded. Please wait a few minutes or add a GitHub token.",
	KindServiceUnavailable:    "GitHub is currently unreachable. Please try again later.",
	KindRepositoryFetchFailed: "Failed to fetch user repositories from GitHub.",
	KindMissingCredential:     "Missing Gemini API key. Set GEMINI_API_KEY or ai.gemini.api-key-file.",
	KindEmptyResponse:         auditFormatMessage,
	KindMalformedEvaluation:   auditFormatMessage,
	KindEvaluationUnavailable: "Portfolio audit failed. The evaluation service did not respond.",
}

// Sentinels usable as errors.Is targets.
var (
	ErrInvalidHandle         = &Error{Kind: KindInvalidHandle}
	ErrProfileNotFound       = &Error{Kind: KindProfileNotFound}
	ErrRateLimited           = &Error{Kind: KindRateLimited}
	ErrServiceUnavailable    = &Error{Kind: KindServiceUnavailable}
	ErrRepositoryFetchFailed = &Error{Kind: KindRepositoryFetchFailed}
	ErrMissingCredential     = &Error{Kind: KindMissingCredential}
	ErrEmptyResponse         = &Error{Kind: KindEmptyResponse}
	ErrMalformedEvaluation   = &Error{Kind: KindMalformedEvaluation}
	ErrEvaluationUnavailable = &Error{Kind: KindEvaluationUnavailable}
)

// Error carries a failure kind and the diagnostic cause behind it.
// Error() only ever returns the fixed message for the kind; the cause is
// reachable through Unwrap and Detail for logging.
type Error struct {
	Kind Kind
	Err  error
}

// New wraps err into a failure of the given kind.
func New(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// Newf is New with a formatted cause.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return Message(e.Kind)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Detail returns the diagnostic cause, suitable for logs only.
func (e *Error) Detail() string {
	if e.Err == nil {
		return ""
	}
	return e.Err.Error()
}

// Message returns the user-facing message for kind.
func Message(kind Kind) string {
	if msg, ok := messages[kind]; ok {
		return msg
	}
	return "Audit failed. Verify your username."
}

// KindOf extracts the failure kind from err, or KindUnknown.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}
