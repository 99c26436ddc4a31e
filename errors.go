package epost

import (
	"errors"
	"fmt"

	"github.com/Quosimadu/epost-api/internal/apierrors"
)

// Sentinel errors for errors.Is() checks
var (
	// ErrFieldTooLong is returned when a recipient field exceeds its maximum length.
	ErrFieldTooLong = errors.New("field exceeds maximum length")

	// ErrInvalidRecipientData is returned for an out-of-range address line
	// or a recipient lacking address line 1, city or zip code.
	ErrInvalidRecipientData = errors.New("invalid recipient data")

	// ErrLetterTypeConflict is returned when a recipient variant does not
	// match the envelope's letter type.
	ErrLetterTypeConflict = errors.New("recipient variant conflicts with letter type")

	// ErrTooManyPrintedRecipients is returned when adding a second printed recipient.
	ErrTooManyPrintedRecipients = errors.New("hybrid letters accept a single recipient")

	// ErrInvalidRegisteredOption is returned for an unknown registered mail class.
	ErrInvalidRegisteredOption = errors.New("unsupported registered letter option")

	// ErrMissingPrecondition matches every missing-prerequisite error.
	ErrMissingPrecondition = errors.New("missing precondition")

	// ErrMissingAccessToken is returned when a remote call is made without an access token.
	ErrMissingAccessToken = errors.New("an access token must be set")

	// ErrMissingEnvelope is returned when submitting without an envelope.
	ErrMissingEnvelope = errors.New("no envelope provided")

	// ErrMissingRecipient is returned when the envelope holds no recipient.
	ErrMissingRecipient = errors.New("no recipient provided")

	// ErrMissingAttachment is returned when submitting without an attachment.
	ErrMissingAttachment = errors.New("no attachment provided")

	// ErrMissingLetterID is returned when a letter id is needed but not known yet.
	ErrMissingLetterID = errors.New("no letter id available")

	// ErrUnboundLetter is returned when a Letter was not created by Client.NewLetter.
	ErrUnboundLetter = errors.New("letter is not bound to a client")

	// ErrAlreadySubmitted is returned when submitting a letter a second time.
	ErrAlreadySubmitted = errors.New("letter already submitted")

	// ErrMissingCredentials is returned when a credential field is empty.
	ErrMissingCredentials = errors.New("incomplete credentials")

	// ErrInvalidFileFormat is returned when a document is not a PDF.
	ErrInvalidFileFormat = errors.New("unallowed file format, allowed: pdf")

	// ErrRemote matches every error payload returned by the API.
	ErrRemote = apierrors.ErrRemote

	// ErrUnauthorized is returned when the access token is invalid or expired.
	ErrUnauthorized = apierrors.ErrUnauthorized
)

// EPostError is implemented by all SDK errors.
type EPostError interface {
	error
	EPostError() // marker method
}

// Level is the severity of an API message: Info, Warning or Error.
type Level = apierrors.Level

// Message levels.
const (
	LevelInfo    = apierrors.LevelInfo
	LevelWarning = apierrors.LevelWarning
	LevelError   = apierrors.LevelError
)

// ErrorRecord is a single API message with its level, code and description.
type ErrorRecord = apierrors.ErrorRecord

// APIError represents an error payload returned by the E-POST API for a
// non-success HTTP status. Its string form is "[<level>] [<code>]: <description>".
type APIError = apierrors.APIError

// NetworkError represents a network-level failure.
type NetworkError = apierrors.NetworkError

// ValidationError reports a field value that exceeds its length limit.
type ValidationError struct {
	Field  string
	Limit  int
	Length int
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("value of property %q exceeds maximum length of %d (got %d)", e.Field, e.Limit, e.Length)
}

// Is implements errors.Is for sentinel error matching.
func (e *ValidationError) Is(target error) bool {
	return target == ErrFieldTooLong
}

// EPostError implements the EPostError interface.
func (e *ValidationError) EPostError() {}

// PreconditionError reports a prerequisite that was not set before use.
type PreconditionError struct {
	// Missing is the specific sentinel, e.g. ErrMissingAttachment.
	Missing error
	Message string
}

func (e *PreconditionError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%v: %s", e.Missing, e.Message)
	}
	return e.Missing.Error()
}

// Unwrap returns the specific sentinel.
func (e *PreconditionError) Unwrap() error {
	return e.Missing
}

// Is implements errors.Is for sentinel error matching.
func (e *PreconditionError) Is(target error) bool {
	return target == ErrMissingPrecondition
}

// EPostError implements the EPostError interface.
func (e *PreconditionError) EPostError() {}

func missing(sentinel error, msg string) error {
	return &PreconditionError{Missing: sentinel, Message: msg}
}

// FileFormatError reports a document of the wrong media type.
type FileFormatError struct {
	FileName string
	MIMEType string
}

func (e *FileFormatError) Error() string {
	return fmt.Sprintf("%v: %s is %s", ErrInvalidFileFormat, e.FileName, e.MIMEType)
}

// Is implements errors.Is for sentinel error matching.
func (e *FileFormatError) Is(target error) bool {
	return target == ErrInvalidFileFormat
}

// EPostError implements the EPostError interface.
func (e *FileFormatError) EPostError() {}
