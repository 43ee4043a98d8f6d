package predictor

import (
	"errors"
	"fmt"
)

// Kind classifies why a call to the prediction service failed
type Kind string

const (
	// KindValidation: the request could not be built from user input.
	KindValidation Kind = "validation"
	// KindService: the service answered with a non-2xx status or an unusable body.
	KindService Kind = "service"
	// KindTransport: no response was received.
	KindTransport Kind = "transport"
)

// Default user-facing messages
const (
	DefaultLoginMessage     = "Login failed"
	DefaultRegisterMessage  = "Registration failed"
	DefaultPredictMessage   = "Prediction failed"
	DefaultTransportMessage = "Unable to reach prediction service"
)

// Error is returned by every Client method. Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s failure: %s: %v", e.Kind, e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("%s failure (status %d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s failure: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError builds a KindValidation error for an unparseable field
func ValidationError(field string, err error) *Error {
	return &Error{
		Kind:    KindValidation,
		Message: "invalid numeric input: " + field,
		Err:     err,
	}
}

// UserMessage extracts the message to display for err, falling back to fallback.
func UserMessage(err error, fallback string) string {
	var perr *Error
	if errors.As(err, &perr) && perr.Message != "" {
		return perr.Message
	}
	return fallback
}

// KindOf returns the failure kind of err, or KindTransport for foreign errors.
func KindOf(err error) Kind {
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	return KindTransport
}
