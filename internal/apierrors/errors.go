// Package apierrors provides shared error types for the E-POST client.
package apierrors

import (
	"errors"
	"fmt"
	"strconv"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrRemote matches every error payload returned by the E-POST API.
	ErrRemote = errors.New("remote API error")

	// ErrUnauthorized is returned when the access token is invalid or expired.
	ErrUnauthorized = errors.New("invalid or expired access token")
)

// Level is the severity reported by the API for a message.
type Level string

const (
	LevelInfo    Level = "Info"
	LevelWarning Level = "Warning"
	LevelError   Level = "Error"
)

// ErrorRecord is a single message as reported by the API.
type ErrorRecord struct {
	Level       Level  `json:"level"`
	Code        string `json:"code"`
	Description string `json:"description"`
}

// APIError represents a non-success HTTP response from the E-POST API.
type APIError struct {
	StatusCode int
	Record     ErrorRecord
}

// NewAPIError builds an APIError from a decoded record. A record without a
// level or code is completed from the status code.
func NewAPIError(statusCode int, rec ErrorRecord) *APIError {
	if rec.Level == "" {
		rec.Level = LevelError
	}
	if rec.Code == "" {
		rec.Code = strconv.Itoa(statusCode)
	}
	return &APIError{StatusCode: statusCode, Record: rec}
}

func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] [%s]: %s", e.Record.Level, e.Record.Code, e.Record.Description)
}

// Level returns the severity of the error.
func (e *APIError) Level() Level {
	return e.Record.Level
}

// Code returns the API message code.
func (e *APIError) Code() string {
	return e.Record.Code
}

// Description returns the API message text.
func (e *APIError) Description() string {
	return e.Record.Description
}

// Is implements errors.Is for sentinel error matching.
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrRemote:
		return true
	case ErrUnauthorized:
		return e.StatusCode == 401
	}
	return false
}

// EPostError implements the EPostError marker interface.
func (e *APIError) EPostError() {}

// NetworkError represents a network-level failure.
type NetworkError struct {
	Err     error
	URL     string
	Attempt int
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error: %v", e.Err)
}

// Unwrap returns the underlying error.
func (e *NetworkError) Unwrap() error {
	return e.Err
}

// EPostError implements the EPostError marker interface.
func (e *NetworkError) EPostError() {}
