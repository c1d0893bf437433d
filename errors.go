package sfncallback

import (
	"errors"
	"fmt"
	"strings"

	"gopkg.in/go-playground/validator.v9"
)

// Error kind labels sent to the orchestrator on a failure callback.
const (
	KindInvalidMessage = "InvalidMessageException"
	KindUnexpected     = "Exception"
)

// ErrInvalidMessage is wrapped by every error caused by a malformed message
// body or by missing identity fields.
var ErrInvalidMessage = errors.New("invalid message")

// MessageError describes a message processing failure by kind.
type MessageError struct {
	Kind string
	Err  error
}

func (e *MessageError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Err)
}

func (e *MessageError) Unwrap() error {
	return e.Err
}

// KindOf returns the kind label the orchestrator should receive for err.
func KindOf(err error) string {
	var mErr *MessageError
	switch {
	case errors.As(err, &mErr):
		return mErr.Kind
	case errors.Is(err, ErrInvalidMessage):
		return KindInvalidMessage
	default:
		return KindUnexpected
	}
}

// CauseOf returns the human readable message for err, without its kind prefix.
func CauseOf(err error) string {
	var mErr *MessageError
	if errors.As(err, &mErr) && mErr.Err != nil {
		return mErr.Err.Error()
	}
	return err.Error()
}

// invalidFields wraps a validator error into an ErrInvalidMessage listing the
// offending fields by their JSON names.
func invalidFields(err error) error {
	var vErrs validator.ValidationErrors
	if !errors.As(err, &vErrs) {
		return fmt.Errorf("%w: %v", ErrInvalidMessage, err)
	}
	names := make([]string, len(vErrs))
	for i, fe := range vErrs {
		names[i] = fe.Field()
	}
	return fmt.Errorf("%w: missing required fields: %s", ErrInvalidMessage, strings.Join(names, ", "))
}
