// Package mediator implements the request dispatch pipeline: typed command
// and query contracts, the Result outcome wrapper, and a fixed chain of
// cross-cutting stages (performance timing, validation, transaction
// management) composed around exactly one handler per request type.
package mediator

// FieldErrors maps a field name to the validation messages reported for it.
type FieldErrors map[string][]string

// Add appends a message to the given field.
func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) merge(other FieldErrors) {
	for field, messages := range other {
		fe[field] = append(fe[field], messages...)
	}
}

// None is the response type of commands that return no value.
type None struct{}

// Result is the outcome of one dispatched request: exactly one of success
// with data, a domain failure with a message, or a validation failure with a
// field-to-messages map. A Result is never mutated after construction and is
// passed by value up the chain.
type Result[T any] struct {
	data    T
	message string
	fields  FieldErrors
	success bool
}

// Success wraps data in a successful Result.
func Success[T any](data T) Result[T] {
	return Result[T]{data: data, success: true}
}

// Failure creates a domain-failure Result with a human-readable message.
func Failure[T any](message string) Result[T] {
	return Result[T]{message: message}
}

// ValidationFailure creates a Result carrying field-level validation errors.
func ValidationFailure[T any](fields FieldErrors) Result[T] {
	return Result[T]{message: "validation failed", fields: fields}
}

// IsSuccess reports whether the result carries data.
func (r Result[T]) IsSuccess() bool { return r.success }

// IsFailure is always the negation of IsSuccess.
func (r Result[T]) IsFailure() bool { return !r.success }

// IsValidationFailure reports whether the result was produced by the
// validation stage (or a handler) with field-level errors.
func (r Result[T]) IsValidationFailure() bool { return r.fields != nil }

// Data returns the carried value. On a failure it returns the zero value of
// T; it never panics, so callers must branch on IsSuccess first.
func (r Result[T]) Data() T { return r.data }

// Error returns the failure message, empty for a success.
func (r Result[T]) Error() string {
	if r.success {
		return ""
	}
	return r.message
}

// Errors returns the field-to-messages map, nil unless this is a validation
// failure.
func (r Result[T]) Errors() FieldErrors { return r.fields }
