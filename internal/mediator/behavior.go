package mediator

import "context"

// Pipeline is one fully composed dispatch function for a single request type.
type Pipeline[T any] func(ctx context.Context, req Request) (Result[T], error)

// Behavior wraps a pipeline stage around the next one. Stages are composed
// once, at registration time, never per dispatch.
type Behavior[T any] func(next Pipeline[T]) Pipeline[T]

// compose applies behaviors so that the first listed one ends up outermost.
func compose[T any](handler Pipeline[T], behaviors ...Behavior[T]) Pipeline[T] {
	p := handler
	for i := len(behaviors) - 1; i >= 0; i-- {
		p = behaviors[i](p)
	}
	return p
}
