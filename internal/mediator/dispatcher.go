package mediator

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Handler produces the outcome for one concrete request type. The Result
// carries expected outcomes (success, domain failure, validation failure);
// the error return is reserved for infrastructure faults.
type Handler[R Request, T any] func(ctx context.Context, req R) (Result[T], error)

// Dispatcher routes each request to its single registered handler through
// the fixed stage order Performance → Validation → Transaction. Pipelines
// are composed once at registration; dispatching is a map lookup plus a
// function call. Registration is not safe for concurrent use and belongs in
// startup wiring; Send is safe once wiring is done.
type Dispatcher struct {
	log       *slog.Logger
	scope     Scope
	slow      time.Duration
	pipelines map[string]any
}

// NewDispatcher creates a dispatcher. threshold bounds the performance
// stage's slow-request warning; zero or negative selects the default 500ms.
func NewDispatcher(logger *slog.Logger, scope Scope, threshold time.Duration) *Dispatcher {
	if threshold <= 0 {
		threshold = defaultSlowThreshold
	}
	return &Dispatcher{
		log:       logger.With("component", "mediator"),
		scope:     scope,
		slow:      threshold,
		pipelines: make(map[string]any),
	}
}

// RegisterCommand wires a command handler and its validators into the
// dispatcher. It panics on a duplicate registration or when R does not embed
// the Command marker — both are wiring mistakes that must fail at startup.
func RegisterCommand[R Request, T any](d *Dispatcher, h Handler[R, T], validators ...Validator[R]) {
	register[R](d, h, validators, true)
}

// RegisterQuery wires a query handler and its validators into the
// dispatcher. Same startup panics as RegisterCommand, for the Query marker.
func RegisterQuery[R Request, T any](d *Dispatcher, h Handler[R, T], validators ...Validator[R]) {
	register[R](d, h, validators, false)
}

func register[R Request, T any](d *Dispatcher, h Handler[R, T], validators []Validator[R], command bool) {
	var zero R
	name := zero.RequestName()

	if command && !IsCommand(zero) {
		panic(fmt.Sprintf("mediator: %q registered as command but does not embed mediator.Command", name))
	}
	if !command && !IsQuery(zero) {
		panic(fmt.Sprintf("mediator: %q registered as query but does not embed mediator.Query", name))
	}
	if IsCommand(zero) && IsQuery(zero) {
		panic(fmt.Sprintf("mediator: %q embeds both Command and Query markers", name))
	}
	if _, exists := d.pipelines[name]; exists {
		panic(fmt.Sprintf("mediator: handler already registered for %q", name))
	}

	handler := func(ctx context.Context, req Request) (Result[T], error) {
		r, ok := req.(R)
		if !ok {
			return Result[T]{}, fmt.Errorf("mediator: %q dispatched with mismatched request type %T", name, req)
		}
		return h(ctx, r)
	}

	d.pipelines[name] = compose(handler,
		newPerformanceBehavior[T](d.log, d.slow),
		newValidationBehavior[R, T](validators),
		newTransactionBehavior[T](d.scope, command),
	)
}

// Send dispatches req through its registered pipeline. T must match the
// response type the handler was registered with.
func Send[T any](ctx context.Context, d *Dispatcher, req Request) (Result[T], error) {
	v, ok := d.pipelines[req.RequestName()]
	if !ok {
		return Result[T]{}, fmt.Errorf("mediator: no handler registered for %q", req.RequestName())
	}
	p, ok := v.(Pipeline[T])
	if !ok {
		return Result[T]{}, fmt.Errorf("mediator: handler for %q does not produce the requested response type", req.RequestName())
	}
	return p(ctx, req)
}
