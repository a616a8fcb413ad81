package mediator

import (
	"context"
	"fmt"
)

// Validator checks one request before its handler runs. Reported field errors
// are expected outcomes; a returned error means the validator itself failed
// (for example a lookup it performs was cancelled) and propagates as a fault.
type Validator[R Request] func(ctx context.Context, req R) (FieldErrors, error)

// newValidationBehavior runs every registered validator for the concrete
// request type. Any field errors short-circuit the chain with a
// ValidationFailure result: the handler is never invoked.
func newValidationBehavior[R Request, T any](validators []Validator[R]) Behavior[T] {
	return func(next Pipeline[T]) Pipeline[T] {
		if len(validators) == 0 {
			return next
		}
		return func(ctx context.Context, req Request) (Result[T], error) {
			r, ok := req.(R)
			if !ok {
				return Result[T]{}, fmt.Errorf("mediator: %q dispatched with mismatched request type %T", req.RequestName(), req)
			}
			merged := FieldErrors{}
			for _, validate := range validators {
				fields, err := validate(ctx, r)
				if err != nil {
					return Result[T]{}, fmt.Errorf("validate %s: %w", req.RequestName(), err)
				}
				merged.merge(fields)
			}
			if len(merged) > 0 {
				return ValidationFailure[T](merged), nil
			}
			return next(ctx, req)
		}
	}
}
