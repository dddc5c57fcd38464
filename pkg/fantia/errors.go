package fantia

import (
	"errors"
	"fmt"
)

// ErrorType classifies request-level failures.
type ErrorType string

const (
	ErrorTypeNetwork  ErrorType = "network"
	ErrorTypeAuth     ErrorType = "auth"
	ErrorTypeNotFound ErrorType = "not_found"
	ErrorTypeServer   ErrorType = "server_error"
	ErrorTypeParsing  ErrorType = "parsing"
	ErrorTypeUnknown  ErrorType = "unknown"
)

// Error represents a Fantia request failure.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
}

func (e *Error) Error() string {
	return fmt.Sprintf("fantia %s error (code %d): %s", e.Type, e.Code, e.Message)
}

// ExtractionReason classifies extraction failures on an otherwise successful
// detail fetch.
type ExtractionReason string

const (
	// ReasonMissingElement means the response lacked the expected post
	// structure: either the post is inaccessible or the format changed.
	ReasonMissingElement ExtractionReason = "missing_element"

	// ReasonEmptyBody means the post carried no text at all, typically a
	// paid post the viewer has not unlocked.
	ReasonEmptyBody ExtractionReason = "empty_body"
)

// ExtractionError reports a post whose detail response could not be turned
// into archivable content. It is always a per-post, non-fatal condition.
type ExtractionError struct {
	PostID int
	Reason ExtractionReason
}

func (e *ExtractionError) Error() string {
	return fmt.Sprintf("extraction failed for post %d: %s", e.PostID, e.Reason)
}

// IsAuthError reports whether err indicates a rejected or expired session.
// Auth failures are fatal to the whole run.
func IsAuthError(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Type == ErrorTypeAuth
}

// IsExtractionError reports whether err is a per-post extraction failure and
// returns it if so.
func IsExtractionError(err error) (*ExtractionError, bool) {
	var ee *ExtractionError
	if errors.As(err, &ee) {
		return ee, true
	}
	return nil, false
}
