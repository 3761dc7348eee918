package client

// Kind tells which of the three outcomes a Result holds.
type Kind int

const (
	// KindOK means the server answered successfully.
	KindOK Kind = iota
	// KindErr means the server rejected the call, or the call could not be
	// made for a reason other than connectivity.
	KindErr
	// KindUnreachable means the server could not be reached. The data was
	// served from, or written to, the local cache.
	KindUnreachable
)

func (k Kind) String() string {
	switch k {
	case KindOK:
		return "ok"
	case KindErr:
		return "error"
	case KindUnreachable:
		return "unreachable"
	}
	return "unknown"
}

// Result is the outcome of a gateway call.
type Result[T any] struct {
	kind  Kind
	data  T
	err   error
	cause error
}

// OK wraps data returned by the server.
func OK[T any](data T) Result[T] {
	return Result[T]{kind: KindOK, data: data}
}

// Err wraps a server-side or local failure.
func Err[T any](err error) Result[T] {
	return Result[T]{kind: KindErr, err: err}
}

// Unreachable wraps data produced from the local cache because cause kept
// the request from reaching the server.
func Unreachable[T any](fallback T, cause error) Result[T] {
	return Result[T]{kind: KindUnreachable, data: fallback, cause: cause}
}

// Kind returns which outcome r holds.
func (r Result[T]) Kind() Kind { return r.kind }

// Data returns the payload of an OK or Unreachable result.
func (r Result[T]) Data() T { return r.data }

// Error returns the failure of an Err result, nil otherwise.
func (r Result[T]) Error() error { return r.err }

// Cause returns the connectivity failure behind an Unreachable result.
func (r Result[T]) Cause() error { return r.cause }

// Success reports whether r carries usable data.
func (r Result[T]) Success() bool { return r.kind != KindErr }

// IsOffline reports whether the data came from the local cache.
func (r Result[T]) IsOffline() bool { return r.kind == KindUnreachable }

// Match calls exactly one of the handlers depending on the outcome.
func (r Result[T]) Match(ok func(T), err func(error), unreachable func(T, error)) {
	switch r.kind {
	case KindOK:
		ok(r.data)
	case KindErr:
		err(r.err)
	case KindUnreachable:
		unreachable(r.data, r.cause)
	}
}
