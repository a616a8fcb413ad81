package mediator

// Request is any dispatchable value. RequestName must be a constant of the
// concrete type (value receiver, no field access): it keys the handler
// registry and tags log records, so it has to be stable and unique per type.
type Request interface {
	RequestName() string
}

// Command marks a request as mutating. Embed it in every command type; the
// transaction stage opens a transaction only for marked commands, so the
// classification is structural rather than a naming convention.
type Command struct{}

func (Command) isCommand() {}

// Query marks a request as read-only. Embed it in every query type.
type Query struct{}

func (Query) isQuery() {}

type commandMarker interface{ isCommand() }

type queryMarker interface{ isQuery() }

// IsCommand reports whether req embeds the Command marker.
func IsCommand(req Request) bool {
	_, ok := req.(commandMarker)
	return ok
}

// IsQuery reports whether req embeds the Query marker.
func IsQuery(req Request) bool {
	_, ok := req.(queryMarker)
	return ok
}
