package steam

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidNumericInput is returned when a raw value is not a finite number.
	ErrInvalidNumericInput = errors.New("invalid input, please enter a numeric value")

	// ErrMalformedInput is returned when the number of values does not match
	// the arity required by the property kind, or the unit system is unknown.
	ErrMalformedInput = errors.New("malformed input")

	// ErrUnsupportedProperty is returned when a property kind (or provider
	// operation) has no dispatch entry.
	ErrUnsupportedProperty = errors.New("unsupported property")

	// ErrProvider matches every *ProviderError.
	ErrProvider = errors.New("steam property provider failed")
)

// ProviderError carries an error returned by a Provider, unchanged.
type ProviderError struct {
	Op  Op
	Err error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

func (e *ProviderError) Is(target error) bool { return target == ErrProvider }

// Error classes, as reported by Classify and over HTTP.
const (
	ClassInvalidNumericInput = "InvalidNumericInput"
	ClassMalformedInput      = "MalformedInput"
	ClassUnsupportedProperty = "UnsupportedProperty"
	ClassProvider            = "ProviderError"
	ClassUnknown             = "Unknown"
)

// Classify returns the error class of err. Provider errors win over the
// other classes, since a remote provider may report any of them.
func Classify(err error) string {
	var pe *ProviderError
	switch {
	case err == nil:
		return ""
	case errors.As(err, &pe):
		return ClassProvider
	case errors.Is(err, ErrInvalidNumericInput):
		return ClassInvalidNumericInput
	case errors.Is(err, ErrMalformedInput):
		return ClassMalformedInput
	case errors.Is(err, ErrUnsupportedProperty):
		return ClassUnsupportedProperty
	default:
		return ClassUnknown
	}
}

// ErrorFromClass rebuilds a classified error from its class and message,
// e.g. after it crossed the daemon API. The message is kept as is.
func ErrorFromClass(class, op, msg string) error {
	switch class {
	case ClassInvalidNumericInput:
		return &classifiedError{msg: msg, class: ErrInvalidNumericInput}
	case ClassMalformedInput:
		return &classifiedError{msg: msg, class: ErrMalformedInput}
	case ClassUnsupportedProperty:
		return &classifiedError{msg: msg, class: ErrUnsupportedProperty}
	case ClassProvider:
		return &ProviderError{Op: Op(op), Err: errors.New(msg)}
	default:
		return errors.New(msg)
	}
}

type classifiedError struct {
	msg   string
	class error
}

func (e *classifiedError) Error() string { return e.msg }

func (e *classifiedError) Unwrap() error { return e.class }

// ErrorReport is the wire form of an error returned by the daemon API.
type ErrorReport struct {
	Error string `json:"error"`
	Class string `json:"class"`
	Op    string `json:"op,omitempty"`
	// Cause is the unchanged provider error message, for provider errors.
	Cause string `json:"cause,omitempty"`
}

// NewErrorReport describes err for the daemon API.
func NewErrorReport(err error) ErrorReport {
	r := ErrorReport{Error: err.Error(), Class: Classify(err)}
	var pe *ProviderError
	if errors.As(err, &pe) {
		r.Op = string(pe.Op)
		if pe.Err != nil {
			r.Cause = pe.Err.Error()
		}
	}
	return r
}

// Err rebuilds a classified error from r.
func (r ErrorReport) Err() error {
	if r.Class == ClassProvider && r.Cause != "" {
		return ErrorFromClass(r.Class, r.Op, r.Cause)
	}
	return ErrorFromClass(r.Class, r.Op, r.Error)
}
