package domain

// Result is the outcome of an asynchronous request: a value on success or
// an error on failure. Exactly one of the two is meaningful.
type Result[T any] struct {
	Value T
	Err   error
}

// Ok wraps a successful value
func Ok[T any](v T) Result[T] {
	return Result[T]{Value: v}
}

// Fail wraps an error
func Fail[T any](err error) Result[T] {
	return Result[T]{Err: err}
}

// From builds a result from the usual (value, error) pair
func From[T any](v T, err error) Result[T] {
	if err != nil {
		return Result[T]{Err: err}
	}
	return Result[T]{Value: v}
}

// OK reports success
func (r Result[T]) OK() bool {
	return r.Err == nil
}
