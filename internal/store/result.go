// Package store implements the client-side state layer: paginated
// collections of normalized records, derived unread statistics, and the
// per-domain action façades that combine one remote call with its local
// state effects.
package store

// Result is the uniform shape every public store operation returns.
// Failures are always expressed through it; store methods never return
// Go errors to their callers.
type Result[T any] struct {
	OK      bool   `json:"success"`
	Data    T      `json:"data,omitempty"`
	Message string `json:"message,omitempty"`
	HasMore bool   `json:"has_more,omitempty"`
}

// Status is a result carrying no payload.
type Status = Result[struct{}]

func ok[T any](data T) Result[T] {
	return Result[T]{OK: true, Data: data}
}

func okPage[T any](data T, hasMore bool) Result[T] {
	return Result[T]{OK: true, Data: data, HasMore: hasMore}
}

func fail[T any](message string) Result[T] {
	return Result[T]{Message: message}
}

func done() Status {
	return Status{OK: true}
}
